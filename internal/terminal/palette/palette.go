// Package palette renders colors as escape sequences for a negotiated encoding.
//
// Colors richer than the encoding are reduced to the nearest palette entry,
// measured in CIE Lab space.
package palette

import (
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"

	"github.com/dshills/termbridge/internal/terminal/encoding"
)

const (
	esc   = "\x1b["
	reset = "\x1b[0m"
)

// ansi16 is the xterm default 16-color palette.
var ansi16 = [16]colorful.Color{
	rgb(0, 0, 0), rgb(205, 0, 0), rgb(0, 205, 0), rgb(205, 205, 0),
	rgb(0, 0, 238), rgb(205, 0, 205), rgb(0, 205, 205), rgb(229, 229, 229),
	rgb(127, 127, 127), rgb(255, 0, 0), rgb(0, 255, 0), rgb(255, 255, 0),
	rgb(92, 92, 255), rgb(255, 0, 255), rgb(0, 255, 255), rgb(255, 255, 255),
}

// xterm256 is the full xterm 256-color palette.
var xterm256 = buildXterm256()

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

func buildXterm256() [256]colorful.Color {
	var p [256]colorful.Color
	copy(p[:16], ansi16[:])

	levels := [6]uint8{0, 95, 135, 175, 215, 255}
	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				p[i] = rgb(levels[r], levels[g], levels[b])
				i++
			}
		}
	}
	for gray := 0; gray < 24; gray++ {
		v := uint8(8 + gray*10)
		p[232+gray] = rgb(v, v, v)
	}
	return p
}

// Nearest returns the index of the palette entry closest to c.
func Nearest(c colorful.Color, palette []colorful.Color) int {
	best, bestDist := 0, -1.0
	for i, candidate := range palette {
		d := c.DistanceLab(candidate)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Foreground returns the sequence that sets the foreground color, or "" for encoding.None.
func Foreground(enc encoding.Encoding, c colorful.Color) string {
	return sgr(enc, c, false)
}

// Background returns the sequence that sets the background color, or "" for encoding.None.
func Background(enc encoding.Encoding, c colorful.Color) string {
	return sgr(enc, c, true)
}

// Reset returns the sequence that restores default attributes.
func Reset(enc encoding.Encoding) string {
	if enc == encoding.None {
		return ""
	}
	return reset
}

func sgr(enc encoding.Encoding, c colorful.Color, background bool) string {
	c = c.Clamped()
	switch enc {
	case encoding.RGB888Colors:
		r, g, b := c.RGB255()
		prefix := "38;2;"
		if background {
			prefix = "48;2;"
		}
		return esc + prefix + strconv.Itoa(int(r)) + ";" + strconv.Itoa(int(g)) + ";" + strconv.Itoa(int(b)) + "m"
	case encoding.Xterm256Colors:
		n := Nearest(c, xterm256[:])
		prefix := "38;5;"
		if background {
			prefix = "48;5;"
		}
		return esc + prefix + strconv.Itoa(n) + "m"
	case encoding.Xterm16Colors:
		return esc + strconv.Itoa(basicCode(Nearest(c, ansi16[:]), background)) + "m"
	case encoding.Xterm8Colors:
		return esc + strconv.Itoa(basicCode(Nearest(c, ansi16[:8]), background)) + "m"
	default:
		return ""
	}
}

// basicCode maps a 16-color index to its SGR parameter.
func basicCode(index int, background bool) int {
	base := 30
	if index >= 8 {
		base = 90
		index -= 8
	}
	if background {
		base += 10
	}
	return base + index
}

// Gradient returns steps colors blended from one color to another in Lab space.
func Gradient(from, to colorful.Color, steps int) []colorful.Color {
	if steps <= 0 {
		return nil
	}
	if steps == 1 {
		return []colorful.Color{from}
	}
	out := make([]colorful.Color, steps)
	for i := range out {
		out[i] = from.BlendLab(to, float64(i)/float64(steps-1)).Clamped()
	}
	return out
}

// Fit truncates s to at most width display cells without splitting a grapheme cluster.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}

	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > width {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	return b.String()
}

// Swatch renders a gradient bar width cells wide. With encoding.None it
// renders plain characters.
func Swatch(enc encoding.Encoding, from, to colorful.Color, width int) string {
	if width <= 0 {
		return ""
	}
	if enc == encoding.None {
		return strings.Repeat("#", width)
	}

	var b strings.Builder
	last := ""
	for _, c := range Gradient(from, to, width) {
		seq := Background(enc, c)
		if seq != last {
			b.WriteString(seq)
			last = seq
		}
		b.WriteByte(' ')
	}
	b.WriteString(Reset(enc))
	return b.String()
}
