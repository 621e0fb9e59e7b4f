// Package mock provides a test double for provider.Provider.
//
// The mock wraps a backing provider and counts calls, which lets tests
// assert how many round trips a scan made:
//
//	img, _ := memory.New(0x1000, core.DefaultWordSpec, data)
//	p := mock.New(img)
//	... run a search ...
//	reads := p.ReadCount()
//
// Behavior can be overridden per call with ReadFunc and WriteFunc, e.g. to
// inject a provider failure on the third read.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/poiesic/memsearch/core"
	"github.com/poiesic/memsearch/provider"
)

// Read records the arguments of one Read call.
type Read struct {
	Address core.Address
	Count   uint64
}

// Provider is a counting test double for provider.Provider.
type Provider struct {
	// ReadFunc is called by Read if set. n is the 1-based call number.
	ReadFunc func(ctx context.Context, n int, addr core.Address, count uint64) ([]core.Word, error)

	// WriteFunc is called by Write if set. n is the 1-based call number.
	WriteFunc func(ctx context.Context, n int, addr core.Address, b []byte) error

	mu      sync.Mutex
	backing provider.Provider
	reads   []Read
	writes  int
}

var _ provider.Provider = (*Provider)(nil)

// New returns a mock delegating to backing. backing may be nil when both
// ReadFunc and WriteFunc are set.
func New(backing provider.Provider) *Provider {
	return &Provider{backing: backing}
}

// Read records the call and delegates to ReadFunc or the backing provider.
func (p *Provider) Read(ctx context.Context, addr core.Address, count uint64) ([]core.Word, error) {
	p.mu.Lock()
	p.reads = append(p.reads, Read{Address: addr, Count: count})
	n := len(p.reads)
	p.mu.Unlock()

	if p.ReadFunc != nil {
		return p.ReadFunc(ctx, n, addr, count)
	}
	if p.backing == nil {
		return nil, fmt.Errorf("%w: mock has no backing provider", core.ErrProvider)
	}
	return p.backing.Read(ctx, addr, count)
}

// Write records the call and delegates to WriteFunc or the backing provider.
func (p *Provider) Write(ctx context.Context, addr core.Address, b []byte) error {
	p.mu.Lock()
	p.writes++
	n := p.writes
	p.mu.Unlock()

	if p.WriteFunc != nil {
		return p.WriteFunc(ctx, n, addr, b)
	}
	if p.backing == nil {
		return fmt.Errorf("%w: mock has no backing provider", core.ErrProvider)
	}
	return p.backing.Write(ctx, addr, b)
}

// AddressableSize returns the backing provider's word size, or 1.
func (p *Provider) AddressableSize() int {
	if p.backing == nil {
		return 1
	}
	return p.backing.AddressableSize()
}

// ReadCount returns the number of Read calls.
func (p *Provider) ReadCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.reads)
}

// Reads returns the arguments of every Read call in order.
func (p *Provider) Reads() []Read {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Read(nil), p.reads...)
}

// WriteCount returns the number of Write calls.
func (p *Provider) WriteCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writes
}

// Reset clears the call history and injected functions.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reads = nil
	p.writes = 0
	p.ReadFunc = nil
	p.WriteFunc = nil
}
