package infra

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/dazzletools/wingather/internal/domain"
)

// GopsutilResolver implements domain.ProcessResolver using gopsutil.
type GopsutilResolver struct{}

// NewProcessResolver creates a new process resolver.
func NewProcessResolver() domain.ProcessResolver {
	return &GopsutilResolver{}
}

// Resolve returns the process name and executable path for a PID.
// Either lookup can fail when the process exited between enumeration
// and inspection; that race is the caller's to note, not an abort.
func (r *GopsutilResolver) Resolve(pid int) (domain.ProcessIdentity, error) {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return domain.ProcessIdentity{}, fmt.Errorf("process %d: %w", pid, err)
	}

	name, err := p.Name()
	if err != nil {
		return domain.ProcessIdentity{}, fmt.Errorf("process %d name: %w", pid, err)
	}

	// The exe path can be unavailable (access denied on an
	// elevated-owned process) while the name still resolves.
	exe, _ := p.Exe()

	return domain.ProcessIdentity{Name: name, ExePath: exe}, nil
}

// Ensure GopsutilResolver implements domain.ProcessResolver.
var _ domain.ProcessResolver = (*GopsutilResolver)(nil)
