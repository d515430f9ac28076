//go:build !linux && !windows && !darwin

package inputhook

import "context"

type unsupportedHook struct{}

func newPlatformHook() Hook {
	return unsupportedHook{}
}

func (unsupportedHook) Run(context.Context, EmitFunc) error {
	return ErrUnsupported
}

func checkPermission() bool {
	return false
}

func requestPermission() bool {
	return false
}
