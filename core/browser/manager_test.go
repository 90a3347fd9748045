package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/classgrid/infra/logger"
)

func TestManagerLifecycle(t *testing.T) {
	m, err := NewManager(&stubGenerator{}, nil, nil, logger.NopLogger{})
	require.NoError(t, err)

	s := m.Create()
	assert.NotEmpty(t, s.ID())
	got, err := m.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Delete(s.ID()))
	_, err = m.Get(s.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Delete(s.ID()), ErrSessionNotFound)
}

func TestNewManagerRequiresGenerator(t *testing.T) {
	_, err := NewManager(nil, nil, nil, logger.NopLogger{})
	assert.Error(t, err)
}
