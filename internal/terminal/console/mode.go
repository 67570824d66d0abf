package console

import (
	"fmt"
	"strconv"
)

// Mode is an OS console mode bitmask.
type Mode uint32

// Output mode flags. Values match the Windows console API.
const (
	ModeProcessedOutput           Mode = 0x0001
	ModeWrapAtEOLOutput           Mode = 0x0002
	ModeVirtualTerminalProcessing Mode = 0x0004
	ModeDisableNewlineAutoReturn  Mode = 0x0008
)

// Has reports whether every bit of flag is set.
func (m Mode) Has(flag Mode) bool {
	return m&flag == flag
}

// With returns m with flag set.
func (m Mode) With(flag Mode) Mode {
	return m | flag
}

// Without returns m with flag cleared.
func (m Mode) Without(flag Mode) Mode {
	return m &^ flag
}

func (m Mode) String() string {
	return fmt.Sprintf("0x%04x", uint32(m))
}

// Version is an operating system version.
type Version struct {
	Major uint32
	Minor uint32
	Build uint32
}

// Minimum Windows 10 builds for each console color level.
var (
	// Build 10586 added 16-color support to the console host.
	version16Colors = Version{Major: 10, Minor: 0, Build: 10586}
	// Build 14931 added 256-color and 24-bit color support.
	versionRGBColors = Version{Major: 10, Minor: 0, Build: 14931}
)

// AtLeast reports whether v is greater than or equal to major.minor.build.
func (v Version) AtLeast(major, minor, build uint32) bool {
	if v.Major != major {
		return v.Major > major
	}
	if v.Minor != minor {
		return v.Minor > minor
	}
	return v.Build >= build
}

func (v Version) atLeast(o Version) bool {
	return v.AtLeast(o.Major, o.Minor, o.Build)
}

func (v Version) String() string {
	return strconv.FormatUint(uint64(v.Major), 10) + "." +
		strconv.FormatUint(uint64(v.Minor), 10) + "." +
		strconv.FormatUint(uint64(v.Build), 10)
}
