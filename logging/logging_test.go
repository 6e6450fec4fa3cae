package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_BuildsLogger(t *testing.T) {
	l, err := New()
	require.NoError(t, err)
	require.NotNil(t, l)
	l.Info("test_event", String("key", "value"))
	_ = l.Sync()
}

func TestNopLogger_NeverPanics(t *testing.T) {
	l := NopLogger()
	assert.NotPanics(t, func() {
		l.Info("a", Int("n", 1))
		l.Warn("b", Float64("f", 1.5))
		l.Error("c", Err(assertErr{}))
	})
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
