package sdfview

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// snapshotPath returns the file a snapshot taken at frame is saved to, next to the shader.
func snapshotPath(shaderPath string, frame uint64) string {
	return filepath.Join(filepath.Dir(shaderPath), fmt.Sprintf("snapshot-%d.png", frame))
}

// flipRows mirrors img vertically in place. OpenGL reads pixels bottom row first.
func flipRows(img *image.RGBA) {
	h := img.Rect.Dy()
	row := make([]byte, img.Stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bot := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(row, top)
		copy(top, bot)
		copy(bot, row)
	}
}

func writePNG(filename string, img image.Image) error {
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	err = png.Encode(fp, img)
	if err != nil {
		return err
	}
	return fp.Sync()
}
