//go:build tinygo || !cgo

package gshapesaux

import (
	"context"
	"errors"
	"log/slog"

	"github.com/soypat/gshapes"
)

func ui(ctx context.Context, cfg gshapes.Config, log *slog.Logger) error {
	return errors.New("require cgo for windowed rendering")
}
