package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New(0)
	assert.ErrorIs(t, err, ErrInvalidPID)

	p, err := New(1)
	require.NoError(t, err)
	assert.Equal(t, 1, p.PID())
	assert.Equal(t, 1, p.AddressableSize())
	assert.Equal(t, 1, p.WordSpec().Size)
}

func TestToWords(t *testing.T) {
	words := toWords([]byte{1, 2})
	require.Len(t, words, 2)
	assert.Equal(t, []byte{2}, words[1].Bytes)
	assert.Equal(t, hostBigEndian, words[0].BigEndian)
}
