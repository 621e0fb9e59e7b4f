package results

import (
	"sync"
	"testing"

	"github.com/poiesic/memsearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_PreservesOrder(t *testing.T) {
	s := NewSink()
	var notified []core.Match
	s.Subscribe(ListenerFunc(func(m core.Match) { notified = append(notified, m) }))

	want := []core.Match{{Address: 3, Length: 1}, {Address: 1, Length: 1}, {Address: 2, Length: 1}}
	for _, m := range want {
		s.Add(m)
	}

	assert.Equal(t, want, s.Matches())
	assert.Equal(t, want, notified)
	assert.Equal(t, 3, s.Len())
}

func TestSink_Unsubscribe(t *testing.T) {
	s := NewSink()
	var a, b int
	unsubA := s.Subscribe(ListenerFunc(func(core.Match) { a++ }))
	s.Subscribe(ListenerFunc(func(core.Match) { b++ }))

	s.Add(core.Match{Address: 1})
	unsubA()
	unsubA()
	s.Add(core.Match{Address: 2})

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestSink_MatchesIsACopy(t *testing.T) {
	s := NewSink()
	s.Add(core.Match{Address: 1})
	got := s.Matches()
	got[0].Address = 99
	assert.Equal(t, core.Address(1), s.Matches()[0].Address)
}

func TestSink_Clear(t *testing.T) {
	s := NewSink()
	calls := 0
	s.Subscribe(ListenerFunc(func(core.Match) { calls++ }))
	s.Add(core.Match{Address: 1})
	s.Clear()
	assert.Equal(t, 0, s.Len())

	s.Add(core.Match{Address: 2})
	assert.Equal(t, 2, calls)
}

func TestSink_ListenerMayReadSink(t *testing.T) {
	s := NewSink()
	var lens []int
	s.Subscribe(ListenerFunc(func(core.Match) { lens = append(lens, s.Len()) }))
	s.Add(core.Match{Address: 1})
	s.Add(core.Match{Address: 2})
	assert.Equal(t, []int{1, 2}, lens)
}

func TestSink_ConcurrentReaders(t *testing.T) {
	s := NewSink()
	var wg sync.WaitGroup
	done := make(chan struct{})

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					m := s.Matches()
					for i := 1; i < len(m); i++ {
						if m[i].Address <= m[i-1].Address {
							t.Errorf("out of order at %d", i)
							return
						}
					}
				}
			}
		}()
	}

	for i := range 1000 {
		s.Add(core.Match{Address: core.Address(i), Length: 1})
	}
	close(done)
	wg.Wait()
	require.Equal(t, 1000, s.Len())
}

func TestSink_ZeroValue(t *testing.T) {
	var s Sink
	called := false
	s.Subscribe(ListenerFunc(func(core.Match) { called = true }))
	s.Add(core.Match{Address: 1})
	assert.True(t, called)
}
