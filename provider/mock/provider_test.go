package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/memsearch/core"
	"github.com/poiesic/memsearch/provider/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_CountsCalls(t *testing.T) {
	img, err := memory.New(0, core.DefaultWordSpec, []byte("abcd"))
	require.NoError(t, err)
	p := New(img)
	ctx := context.Background()

	_, err = p.Read(ctx, 0, 2)
	require.NoError(t, err)
	_, err = p.Read(ctx, 2, 2)
	require.NoError(t, err)
	require.NoError(t, p.Write(ctx, 0, []byte("z")))

	assert.Equal(t, 2, p.ReadCount())
	assert.Equal(t, []Read{{Address: 0, Count: 2}, {Address: 2, Count: 2}}, p.Reads())
	assert.Equal(t, 1, p.WriteCount())
	assert.Equal(t, []byte("zbcd"), img.Bytes())
	assert.Equal(t, 1, p.AddressableSize())

	p.Reset()
	assert.Equal(t, 0, p.ReadCount())
	assert.Equal(t, 0, p.WriteCount())
}

func TestProvider_InjectedFailure(t *testing.T) {
	boom := errors.New("link down")
	p := New(nil)
	p.ReadFunc = func(ctx context.Context, n int, addr core.Address, count uint64) ([]core.Word, error) {
		if n == 2 {
			return nil, boom
		}
		return []core.Word{{Bytes: []byte{0}, BigEndian: true}}, nil
	}

	_, err := p.Read(context.Background(), 0, 1)
	require.NoError(t, err)
	_, err = p.Read(context.Background(), 1, 1)
	assert.ErrorIs(t, err, boom)

	err = p.Write(context.Background(), 0, []byte{1})
	assert.ErrorIs(t, err, core.ErrProvider)
}
