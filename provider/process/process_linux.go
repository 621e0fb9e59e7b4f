//go:build linux

package process

import (
	"context"
	"fmt"

	"github.com/poiesic/memsearch/core"
	"golang.org/x/sys/unix"
)

// Read copies count bytes from the target starting at addr.
// A partial read is returned as the words that could be read.
func (p *Process) Read(ctx context.Context, addr core.Address, count uint64) ([]core.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	buf := make([]byte, count)
	local := []unix.Iovec{{Base: &buf[0]}}
	local[0].SetLen(len(buf))
	remote := []unix.RemoteIovec{{Base: uintptr(addr), Len: len(buf)}}

	n, err := unix.ProcessVMReadv(p.pid, local, remote, 0)
	if err != nil {
		p.logger.Debug("process read failed", "addr", addr, "count", count, "error", err)
		return nil, fmt.Errorf("%w: read %d bytes at %s: %w", core.ErrProvider, count, addr, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: read at %s returned no data", core.ErrProvider, addr)
	}
	return toWords(buf[:n]), nil
}

// Write copies b into the target at addr.
func (p *Process) Write(ctx context.Context, addr core.Address, b []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	local := []unix.Iovec{{Base: &b[0]}}
	local[0].SetLen(len(b))
	remote := []unix.RemoteIovec{{Base: uintptr(addr), Len: len(b)}}

	n, err := unix.ProcessVMWritev(p.pid, local, remote, 0)
	if err != nil {
		return fmt.Errorf("%w: write %d bytes at %s: %w", core.ErrProvider, len(b), addr, err)
	}
	if n != len(b) {
		return fmt.Errorf("%w: short write at %s: %d of %d bytes", core.ErrProvider, addr, n, len(b))
	}
	p.logger.Debug("process write", "addr", addr, "bytes", len(b))
	return nil
}
