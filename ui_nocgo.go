//go:build tinygo || !cgo

package sdfview

import (
	"errors"

	"github.com/soypat/sdfview/config"
	"go.uber.org/zap"
)

var errNoCGO = errors.New("sdfview: viewer window requires CGo and is not supported on TinyGo")

// Run always fails without CGo.
func Run(cfg config.Config, log *zap.Logger) error {
	return errNoCGO
}
