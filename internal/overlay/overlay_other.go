//go:build !windows && !darwin

package overlay

func setIgnoreCursorEvents(string, bool) error {
	return ErrUnsupported
}
