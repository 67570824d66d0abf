// Package encoding defines the escape-sequence capability levels a terminal can support.
//
// Levels are ordered by richness: a terminal that understands a level also
// understands every level below it.
package encoding

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownEncoding is returned when a name does not identify a capability level.
var ErrUnknownEncoding = errors.New("unknown terminal encoding")

// Encoding is a degree of terminal escape-sequence support.
type Encoding int

const (
	// None disables escape sequences entirely.
	None Encoding = iota
	// Xterm8Colors is the basic 8-color ANSI palette.
	Xterm8Colors
	// Xterm16Colors adds the bright variants of the basic palette.
	Xterm16Colors
	// Xterm256Colors is the xterm 256-color palette.
	Xterm256Colors
	// RGB888Colors is 24-bit true color.
	RGB888Colors
)

var names = [...]string{
	None:           "NONE",
	Xterm8Colors:   "XTERM_8_COLORS",
	Xterm16Colors:  "XTERM_16_COLORS",
	Xterm256Colors: "XTERM_256_COLORS",
	RGB888Colors:   "RGB_888_COLORS",
}

var aliases = map[string]Encoding{
	"none":      None,
	"off":       None,
	"8":         Xterm8Colors,
	"16":        Xterm16Colors,
	"256":       Xterm256Colors,
	"truecolor": RGB888Colors,
	"24bit":     RGB888Colors,
	"rgb":       RGB888Colors,
}

// String returns the stable identifier of the encoding.
func (e Encoding) String() string {
	if e.Valid() {
		return names[e]
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(e))
}

// Valid reports whether e is one of the defined levels.
func (e Encoding) Valid() bool {
	return e >= None && e <= RGB888Colors
}

// Rank orders encodings by richness. None has rank 0.
func (e Encoding) Rank() int {
	return int(e)
}

// MarshalText implements encoding.TextMarshaler.
func (e Encoding) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEncoding, int(e))
	}
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Encoding) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Parse looks up an encoding by identifier or alias, ignoring case.
func Parse(name string) (Encoding, error) {
	key := strings.TrimSpace(name)
	for i, n := range names {
		if strings.EqualFold(n, key) {
			return Encoding(i), nil
		}
	}
	if e, ok := aliases[strings.ToLower(key)]; ok {
		return e, nil
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}

// All returns every encoding in increasing rank.
func All() []Encoding {
	return []Encoding{None, Xterm8Colors, Xterm16Colors, Xterm256Colors, RGB888Colors}
}

// SortByDecreasingRank sorts list in place, richest first.
func SortByDecreasingRank(list []Encoding) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Rank() > list[j].Rank()
	})
}

// Best returns the richest encoding in list, or None if list is empty.
func Best(list []Encoding) Encoding {
	if len(list) == 0 {
		return None
	}
	ranked := append([]Encoding(nil), list...)
	SortByDecreasingRank(ranked)
	return ranked[0]
}

// Contains reports whether list holds e.
func Contains(list []Encoding, e Encoding) bool {
	for _, candidate := range list {
		if candidate == e {
			return true
		}
	}
	return false
}

// Join formats list as "A, B, C".
func Join(list []Encoding) string {
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
