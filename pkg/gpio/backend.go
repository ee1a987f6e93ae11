package gpio

import (
	"fmt"
	"time"
)

// Backend names accepted by NewAcquirer
const (
	BackendSysfs  = "sysfs"
	BackendCdev   = "cdev"
	BackendPeriph = "periph"
	BackendSim    = "sim"
)

// Options configures the backend chosen by NewAcquirer
type Options struct {
	// Chip is the character device used by the cdev backend for numeric names
	Chip string
	// SysfsBase overrides DefaultSysfsBase
	SysfsBase string
	// Settle is the post-export delay of the sysfs backend
	Settle time.Duration
	// Unexport releases sysfs lines on Close
	Unexport bool
}

// NewAcquirer returns the named backend
func NewAcquirer(backend string, opts Options) (Acquirer, error) {
	switch backend {
	case BackendSysfs, "":
		return &Sysfs{Base: opts.SysfsBase, Settle: opts.Settle, Unexport: opts.Unexport}, nil
	case BackendCdev:
		return &Cdev{Chip: opts.Chip}, nil
	case BackendPeriph:
		return &Periph{}, nil
	case BackendSim:
		// counting only: a refresh loop would otherwise grow without bound
		return &Sim{}, nil
	default:
		return nil, fmt.Errorf("unknown GPIO backend %q", backend)
	}
}
