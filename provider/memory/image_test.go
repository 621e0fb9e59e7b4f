package memory

import (
	"context"
	"testing"

	"github.com/poiesic/memsearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImage_Read(t *testing.T) {
	img, err := New(0x1000, core.DefaultWordSpec, []byte("findTARGETtext!"))
	require.NoError(t, err)
	ctx := context.Background()

	words, err := img.Read(ctx, 0x1004, 6)
	require.NoError(t, err)
	require.Len(t, words, 6)
	assert.Equal(t, []byte("T"), words[0].Bytes)
	assert.True(t, words[0].BigEndian)

	// Reads past the end are truncated.
	words, err = img.Read(ctx, 0x100D, 10)
	require.NoError(t, err)
	assert.Len(t, words, 2)

	_, err = img.Read(ctx, 0x0FFF, 1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.ErrorIs(t, err, core.ErrProvider)

	_, err = img.Read(ctx, 0x100F, 1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestImage_WideWords(t *testing.T) {
	img, err := New(0, core.WordSpec{Size: 2, BigEndian: false}, []byte{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), img.Words())
	assert.Equal(t, 2, img.AddressableSize())

	words, err := img.Read(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, []byte{3, 4}, words[0].Bytes)
	assert.False(t, words[0].BigEndian)

	_, err = New(0, core.WordSpec{Size: 2}, []byte{1, 2, 3})
	assert.ErrorIs(t, err, core.ErrInvalidWindow)
}

func TestImage_Write(t *testing.T) {
	img, err := New(0x10, core.DefaultWordSpec, []byte("AAAA"))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, img.Write(ctx, 0x11, []byte("bc")))
	assert.Equal(t, []byte("AbcA"), img.Bytes())

	err = img.Write(ctx, 0x13, []byte("xy"))
	assert.ErrorIs(t, err, ErrOutOfRange)
	err = img.Write(ctx, 0x0F, []byte("x"))
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, []byte("AbcA"), img.Bytes())
}

func TestImage_ReadReturnsCopies(t *testing.T) {
	img, err := New(0, core.DefaultWordSpec, []byte{1})
	require.NoError(t, err)

	words, err := img.Read(context.Background(), 0, 1)
	require.NoError(t, err)
	words[0].Bytes[0] = 9
	assert.Equal(t, []byte{1}, img.Bytes())
}

func TestImage_CancelledContext(t *testing.T) {
	img, err := New(0, core.DefaultWordSpec, []byte{1})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = img.Read(ctx, 0, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
