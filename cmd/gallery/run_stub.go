//go:build !ebiten

package main

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"canvas-designs/internal/config"
)

func run(context.Context, *config.Config, *zap.Logger) error {
	return errors.New("this binary was built without GUI support; rebuild with -tags ebiten")
}
