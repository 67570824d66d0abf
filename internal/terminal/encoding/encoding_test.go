package encoding

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoding_String(t *testing.T) {
	tests := []struct {
		enc      Encoding
		expected string
	}{
		{None, "NONE"},
		{Xterm8Colors, "XTERM_8_COLORS"},
		{Xterm16Colors, "XTERM_16_COLORS"},
		{Xterm256Colors, "XTERM_256_COLORS"},
		{RGB888Colors, "RGB_888_COLORS"},
		{Encoding(99), "UNKNOWN(99)"},
		{Encoding(-1), "UNKNOWN(-1)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.enc.String())
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected Encoding
	}{
		{"NONE", None},
		{"none", None},
		{"off", None},
		{"xterm_8_colors", Xterm8Colors},
		{"16", Xterm16Colors},
		{"  256 ", Xterm256Colors},
		{"RGB_888_COLORS", RGB888Colors},
		{"truecolor", RGB888Colors},
		{"24BIT", RGB888Colors},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParse_Unknown(t *testing.T) {
	_, err := Parse("sixel")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownEncoding))
	assert.Contains(t, err.Error(), `"sixel"`)
}

func TestEncoding_TextRoundTrip(t *testing.T) {
	text, err := Xterm256Colors.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "XTERM_256_COLORS", string(text))

	var e Encoding
	require.NoError(t, e.UnmarshalText([]byte("truecolor")))
	assert.Equal(t, RGB888Colors, e)

	_, err = Encoding(42).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownEncoding)
}

func TestSortByDecreasingRank(t *testing.T) {
	list := []Encoding{Xterm16Colors, None, RGB888Colors, Xterm8Colors}
	SortByDecreasingRank(list)
	assert.Equal(t, []Encoding{RGB888Colors, Xterm16Colors, Xterm8Colors, None}, list)
}

func TestBest(t *testing.T) {
	assert.Equal(t, None, Best(nil))
	assert.Equal(t, Xterm256Colors, Best([]Encoding{None, Xterm256Colors, Xterm8Colors}))

	// The caller's slice keeps its order.
	list := []Encoding{None, Xterm8Colors, RGB888Colors}
	assert.Equal(t, RGB888Colors, Best(list))
	assert.Equal(t, []Encoding{None, Xterm8Colors, RGB888Colors}, list)
}

func TestAllIsIncreasing(t *testing.T) {
	all := All()
	for i := 1; i < len(all); i++ {
		assert.Greater(t, all[i].Rank(), all[i-1].Rank())
	}
	assert.True(t, Contains(all, RGB888Colors))
	assert.False(t, Contains(all[:2], RGB888Colors))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "NONE, XTERM_8_COLORS", Join([]Encoding{None, Xterm8Colors}))
	assert.Equal(t, "", Join(nil))
}
