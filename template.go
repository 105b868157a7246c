package sdfview

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

//go:embed templates/scene.frag
var sceneTemplate string

// SceneTemplate returns a starter fragment shader that declares every uniform
// the viewer writes and ray marches a small scene.
func SceneTemplate() string { return sceneTemplate }

// WriteTemplate writes [SceneTemplate] to path. An existing file is never overwritten.
func WriteTemplate(path string) error {
	fp, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("sdfview: refusing to overwrite %q", path)
	} else if err != nil {
		return err
	}
	_, err = fp.WriteString(sceneTemplate)
	if err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}
