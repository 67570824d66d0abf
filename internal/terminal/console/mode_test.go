package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMode_Bits(t *testing.T) {
	m := ModeProcessedOutput | ModeWrapAtEOLOutput

	assert.False(t, m.Has(ModeVirtualTerminalProcessing))
	withVT := m.With(ModeVirtualTerminalProcessing)
	assert.True(t, withVT.Has(ModeVirtualTerminalProcessing))
	assert.Equal(t, m, withVT.Without(ModeVirtualTerminalProcessing))

	// Clearing an unset bit is a no-op, unlike a logical-not mask.
	assert.Equal(t, m, m.Without(ModeVirtualTerminalProcessing))
	assert.Equal(t, "0x0007", withVT.String())
}

func TestVersion_AtLeast(t *testing.T) {
	v := Version{Major: 10, Minor: 0, Build: 14931}

	tests := []struct {
		major, minor, build uint32
		expected            bool
	}{
		{10, 0, 14931, true},
		{10, 0, 14930, true},
		{10, 0, 14932, false},
		{10, 1, 0, false},
		{9, 9, 99999, true},
		{11, 0, 0, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, v.AtLeast(tt.major, tt.minor, tt.build),
			"%d.%d.%d", tt.major, tt.minor, tt.build)
	}
	assert.Equal(t, "10.0.14931", v.String())
}

func TestErrors_Format(t *testing.T) {
	ioErr := newIOError("disconnect", "Failed to set stdout mode",
		&OSError{Call: "SetConsoleMode", Code: 5, Text: "Access is denied."})
	assert.Equal(t,
		"Failed to set stdout mode: SetConsoleMode failed (error code 5): Access is denied.",
		ioErr.Error())

	bare := newIOError("set encoding", "Unexpected encoding: XTERM_8_COLORS", nil)
	assert.Equal(t, "Unexpected encoding: XTERM_8_COLORS", bare.Error())
	assert.Nil(t, bare.Unwrap())

	var nilErr *IOError
	assert.Equal(t, "", nilErr.Error())

	assert.Equal(t, "GetConsoleMode failed (error code 6)",
		(&OSError{Call: "GetConsoleMode", Code: 6}).Error())

	assertion := &AssertionError{Message: "FormatMessage failed"}
	assert.Equal(t, "assertion failed: FormatMessage failed", assertion.Error())
}
