package infra

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/dazzletools/wingather/internal/domain"
)

// ErrUnsupportedPlatform is returned when no window backend exists for
// the current operating system.
var ErrUnsupportedPlatform = errors.New("no window backend for this platform")

// Backend bundles the per-OS window collaborators. The core pipeline
// depends only on the domain interfaces, never on a concrete backend.
type Backend struct {
	Enumerator domain.WindowEnumerator
	Actuator   domain.WindowActuator
	Signature  domain.SignatureVerifier
}

// newBackend is set by the platform-specific backend file for the
// target OS at build time. Nil on platforms without a backend.
var newBackend func() (*Backend, error)

// DetectBackend returns the window backend for the current OS.
func DetectBackend() (*Backend, error) {
	if newBackend == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, runtime.GOOS)
	}
	return newBackend()
}
