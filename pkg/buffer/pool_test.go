package buffer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolReuse(t *testing.T) {
	p := NewPool(16)
	b := p.Get()
	assert.Len(t, *b, 16)

	*b = (*b)[:3]
	p.Put(b)
	again := p.Get()
	assert.Len(t, *again, 16)

	small := make([]byte, 4)
	p.Put(&small)
	p.Put(nil)
}

func TestCopy(t *testing.T) {
	src := strings.Repeat("v", DefaultSize*2+17)
	var dst bytes.Buffer

	n, err := Copy(context.Background(), &dst, strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, int64(len(src)), n)
	assert.Equal(t, src, dst.String())
}

func TestCopyStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := Copy(ctx, io.Discard, strings.NewReader("data"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestCopyWriteError(t *testing.T) {
	_, err := Copy(context.Background(), failingWriter{}, strings.NewReader("data"))
	assert.ErrorContains(t, err, "disk full")
}
