package app

import (
	"context"

	"github.com/esdrastavares/heronote/screenrec"
)

// screenPermissions adapts the OS screen recording permission, which
// ScreenCaptureKit needs before speaker capture works, to the panel's
// permission surface.
type screenPermissions struct{}

func (screenPermissions) Check(ctx context.Context) (bool, error) {
	return screenrec.HasPermission(), nil
}

func (screenPermissions) Request(ctx context.Context) (bool, error) {
	return screenrec.RequestPermission(), nil
}

func (screenPermissions) OpenSettings(ctx context.Context) error {
	return screenrec.OpenSettings()
}
