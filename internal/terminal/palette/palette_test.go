package palette

import (
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/termbridge/internal/terminal/encoding"
)

func TestForeground(t *testing.T) {
	red := rgb(255, 0, 0)

	tests := []struct {
		enc      encoding.Encoding
		expected string
	}{
		{encoding.None, ""},
		{encoding.Xterm8Colors, "\x1b[31m"},
		{encoding.Xterm16Colors, "\x1b[91m"},
		{encoding.Xterm256Colors, "\x1b[38;5;9m"},
		{encoding.RGB888Colors, "\x1b[38;2;255;0;0m"},
	}

	for _, tt := range tests {
		t.Run(tt.enc.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, Foreground(tt.enc, red))
		})
	}
}

func TestBackground(t *testing.T) {
	blue := rgb(0, 0, 238)

	assert.Equal(t, "\x1b[44m", Background(encoding.Xterm8Colors, blue))
	assert.Equal(t, "\x1b[44m", Background(encoding.Xterm16Colors, blue))
	assert.Equal(t, "\x1b[48;5;4m", Background(encoding.Xterm256Colors, blue))
	assert.Equal(t, "\x1b[48;2;0;0;238m", Background(encoding.RGB888Colors, blue))
	assert.Equal(t, "", Background(encoding.None, blue))
}

func TestXterm256Palette(t *testing.T) {
	assert.Equal(t, rgb(0, 0, 0), xterm256[16])
	assert.Equal(t, rgb(255, 255, 255), xterm256[231])
	assert.Equal(t, rgb(8, 8, 8), xterm256[232])
	assert.Equal(t, rgb(238, 238, 238), xterm256[255])
}

func TestNearest_CubeColor(t *testing.T) {
	// 135,175,215 is exactly cube entry 16 + 2*36 + 3*6 + 4 = 110.
	c := rgb(135, 175, 215)
	assert.Equal(t, 110, Nearest(c, xterm256[:]))
	assert.Equal(t, "\x1b[38;5;110m", Foreground(encoding.Xterm256Colors, c))
}

func TestNearest_EightColorsNeverBright(t *testing.T) {
	white := rgb(255, 255, 255)
	assert.Equal(t, "\x1b[37m", Foreground(encoding.Xterm8Colors, white))
	assert.Equal(t, "\x1b[97m", Foreground(encoding.Xterm16Colors, white))
}

func TestReset(t *testing.T) {
	assert.Equal(t, "", Reset(encoding.None))
	assert.Equal(t, "\x1b[0m", Reset(encoding.Xterm8Colors))
}

func TestGradient(t *testing.T) {
	from, err := colorful.Hex("#000000")
	require.NoError(t, err)
	to, err := colorful.Hex("#ffffff")
	require.NoError(t, err)

	assert.Nil(t, Gradient(from, to, 0))
	assert.Equal(t, []colorful.Color{from}, Gradient(from, to, 1))

	steps := Gradient(from, to, 5)
	require.Len(t, steps, 5)
	assert.Equal(t, "#000000", steps[0].Hex())
	assert.Equal(t, "#ffffff", steps[4].Hex())
	for i := 1; i < len(steps); i++ {
		l0, _, _ := steps[i-1].Lab()
		l1, _, _ := steps[i].Lab()
		assert.Greater(t, l1, l0)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		input    string
		width    int
		expected string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"hello", 0, ""},
		{"日本語", 4, "日本"},
		{"日本語", 5, "日本"},
		{"éte", 2, "ét"},
	}

	for _, tt := range tests {
		got := Fit(tt.input, tt.width)
		assert.Equal(t, tt.expected, got, "Fit(%q, %d)", tt.input, tt.width)
		assert.LessOrEqual(t, uniseg.StringWidth(got), tt.width)
	}
}

func TestSwatch(t *testing.T) {
	from := rgb(255, 0, 0)
	to := rgb(0, 0, 255)

	assert.Equal(t, "", Swatch(encoding.RGB888Colors, from, to, 0))
	assert.Equal(t, "####", Swatch(encoding.None, from, to, 4))

	s := Swatch(encoding.RGB888Colors, from, to, 10)
	assert.Equal(t, 10, strings.Count(s, " "))
	assert.True(t, strings.HasPrefix(s, "\x1b[48;2;255;0;0m"))
	assert.True(t, strings.HasSuffix(s, "\x1b[48;2;0;0;255m \x1b[0m"))

	// Consecutive cells that map to the same palette entry share one sequence.
	eight := Swatch(encoding.Xterm8Colors, from, from, 6)
	assert.Equal(t, "\x1b[41m      \x1b[0m", eight)
}
