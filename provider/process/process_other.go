//go:build !linux

package process

import (
	"context"
	"fmt"

	"github.com/poiesic/memsearch/core"
)

// Read is not supported on this platform.
func (p *Process) Read(ctx context.Context, addr core.Address, count uint64) ([]core.Word, error) {
	return nil, fmt.Errorf("%w: %w", core.ErrProvider, ErrUnsupported)
}

// Write is not supported on this platform.
func (p *Process) Write(ctx context.Context, addr core.Address, b []byte) error {
	return fmt.Errorf("%w: %w", core.ErrProvider, ErrUnsupported)
}
