// Package process provides a byte provider over the memory of a live process.
//
// Reads and writes use process_vm_readv(2) and process_vm_writev(2), so the
// caller needs ptrace access to the target (same user, or CAP_SYS_PTRACE).
// Other platforms return ErrUnsupported.
package process

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/memsearch/core"
	"github.com/poiesic/memsearch/provider"
)

var (
	// ErrUnsupported indicates the platform has no process memory access.
	ErrUnsupported = errors.New("process memory access not supported on this platform")

	// ErrInvalidPID indicates a non-positive process ID.
	ErrInvalidPID = errors.New("invalid process id")
)

var hostBigEndian = binary.NativeEndian.Uint16([]byte{0x12, 0x34}) == 0x1234

// Option configures a Process.
type Option func(*Process) error

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Process) error {
		p.logger = logger
		return nil
	}
}

// Process reads and writes another process's memory one byte per address.
type Process struct {
	pid    int
	logger *slog.Logger
}

var _ provider.Provider = (*Process)(nil)

// New returns a provider for the process with the given pid.
func New(pid int, opts ...Option) (*Process, error) {
	if pid <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	p := &Process{pid: pid}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	p.logger = p.logger.With("pid", pid)
	return p, nil
}

// PID returns the target process ID.
func (p *Process) PID() int {
	return p.pid
}

// AddressableSize returns 1: process memory is byte addressable.
func (p *Process) AddressableSize() int {
	return 1
}

// WordSpec returns the word layout of the target, which shares the host byte order.
func (p *Process) WordSpec() core.WordSpec {
	return core.WordSpec{Size: 1, BigEndian: hostBigEndian}
}

func toWords(b []byte) []core.Word {
	out := make([]core.Word, len(b))
	for i := range b {
		out[i] = core.Word{Bytes: b[i : i+1 : i+1], BigEndian: hostBigEndian}
	}
	return out
}
