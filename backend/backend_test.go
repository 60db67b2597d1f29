package backend

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agiangrant/facet/paint"
)

type stubBackend struct {
	name    string
	initErr error
	closed  bool
}

func (s *stubBackend) Name() string                        { return s.name }
func (s *stubBackend) Init() error                         { return s.initErr }
func (s *stubBackend) Accelerated() bool                   { return false }
func (s *stubBackend) Present(*paint.List, *Surface) error { return nil }
func (s *stubBackend) Close()                              { s.closed = true }

func factoryFor(b *stubBackend) Factory {
	return func(*zap.Logger) Backend { return b }
}

func TestSelectPrefersFirstWorking(t *testing.T) {
	first := &stubBackend{name: "first"}
	second := &stubBackend{name: "second"}
	b, err := Select(nil, factoryFor(first), factoryFor(second))
	require.NoError(t, err)
	assert.Equal(t, "first", b.Name())
	assert.False(t, second.closed, "second candidate must not be constructed into a closed state")
}

func TestSelectFallsBackOnInitFailure(t *testing.T) {
	failing := &stubBackend{
		name:    "accel",
		initErr: fmt.Errorf("%w: no adapters", ErrInitFailed),
	}
	working := &stubBackend{name: "soft"}

	b, err := Select(nil, factoryFor(failing), factoryFor(working))
	require.NoError(t, err)
	assert.Equal(t, "soft", b.Name())
	assert.True(t, failing.closed, "failed candidate must be closed")
}

func TestSelectAllFail(t *testing.T) {
	a := &stubBackend{name: "a", initErr: errors.New("boom")}
	b := &stubBackend{name: "b", initErr: errors.New("boom")}
	got, err := Select(nil, factoryFor(a), factoryFor(b))
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrNoSurface)
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestNewSurface(t *testing.T) {
	s := NewSurface(3, 2)
	assert.Len(t, s.Pix, 24)
	assert.Equal(t, 3, s.W)
	assert.Equal(t, 2, s.H)

	neg := NewSurface(-1, 5)
	assert.Equal(t, 0, neg.W)
	assert.Empty(t, neg.Pix)
}
