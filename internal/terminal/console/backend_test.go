package console

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullBackendDefaults(t *testing.T) {
	b := NewNullBackend(80)
	assert.Equal(t, "null", b.Name())

	interactive, err := b.Probe()
	require.NoError(t, err)
	assert.True(t, interactive)

	w, err := b.Width()
	require.NoError(t, err)
	assert.Equal(t, 80, w)

	v, err := b.Version()
	require.NoError(t, err)
	assert.True(t, v.atLeast(versionRGBColors))
}

func TestNullBackendRedirected(t *testing.T) {
	b := NewRedirectedNullBackend()
	interactive, err := b.Probe()
	require.NoError(t, err)
	assert.False(t, interactive)
}

func TestNullBackendSetMode(t *testing.T) {
	b := NewNullBackend(80)
	require.NoError(t, b.SetMode(ModeVirtualTerminalProcessing))

	m, err := b.Mode()
	require.NoError(t, err)
	assert.Equal(t, ModeVirtualTerminalProcessing, m)
	assert.Equal(t, 1, b.SetModeCalls())
	assert.Equal(t, []Mode{ModeVirtualTerminalProcessing}, b.History())
}

func TestNullBackendFailures(t *testing.T) {
	b := NewNullBackend(80)
	boom := errors.New("boom")

	b.FailProbe(boom)
	_, err := b.Probe()
	assert.ErrorIs(t, err, boom)

	b.FailWidth(boom)
	_, err = b.Width()
	assert.ErrorIs(t, err, boom)

	b.FailMode(boom)
	_, err = b.Mode()
	assert.ErrorIs(t, err, boom)

	before := b.CurrentMode()
	b.FailSetMode(boom)
	assert.ErrorIs(t, b.SetMode(ModeVirtualTerminalProcessing), boom)
	assert.Equal(t, before, b.CurrentMode())
	assert.Equal(t, 1, b.SetModeCalls())
	assert.Empty(t, b.History())

	b.FailVersion(boom)
	_, err = b.Version()
	assert.ErrorIs(t, err, boom)
}

func TestDefaultBackend(t *testing.T) {
	b := NewDefaultBackend()
	require.NotNil(t, b)
	assert.NotEmpty(t, b.Name())
}

func TestOpenBackend(t *testing.T) {
	def := NewDefaultBackend()

	for _, name := range []string{"", "auto", "AUTO", def.Name()} {
		b, err := OpenBackend(name)
		require.NoError(t, err, name)
		assert.Equal(t, def.Name(), b.Name())
	}

	b, err := OpenBackend("null")
	require.NoError(t, err)
	nb, ok := b.(*NullBackend)
	require.True(t, ok)
	interactive, err := nb.Probe()
	require.NoError(t, err)
	assert.True(t, interactive)

	_, err = OpenBackend("serial")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestOpenBackend_OtherPlatformBackend(t *testing.T) {
	other := "console"
	if NewDefaultBackend().Name() == "console" {
		other = "tty"
	}
	_, err := OpenBackend(other)
	assert.True(t, errors.Is(err, ErrBackendUnavailable))
}
