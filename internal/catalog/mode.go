package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Mode is the game mode a map variant is built for.
type Mode uint8

const (
	TD Mode = iota
	DM
	Chaser
	BR
	Captain
	Siege
)

var ErrUnknownMode = errors.New("unknown map mode")

var modeNames = [...]string{
	TD:      "TD",
	DM:      "DM",
	Chaser:  "Chaser",
	BR:      "BR",
	Captain: "Captain",
	Siege:   "Siege",
}

// Modes returns every mode in menu order.
func Modes() []Mode {
	return []Mode{TD, DM, Chaser, BR, Captain, Siege}
}

// ParseMode maps a case-insensitive mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "td":
		return TD, nil
	case "dm":
		return DM, nil
	case "chaser":
		return Chaser, nil
	case "br":
		return BR, nil
	case "captain":
		return Captain, nil
	case "siege":
		return Siege, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownMode, s)
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// Valid reports whether m is one of the six known modes.
func (m Mode) Valid() bool { return int(m) < len(modeNames) }

// Next returns the mode that follows m in the session rotation:
// TD -> DM -> Chaser -> BR -> Captain -> Siege -> TD.
func (m Mode) Next() Mode {
	switch m {
	case TD:
		return DM
	case DM:
		return Chaser
	case Chaser:
		return BR
	case BR:
		return Captain
	case Captain:
		return Siege
	default:
		return TD
	}
}

// Discount is the multiplier applied to a cross-mode sibling penalty when a map
// of mode o shares a group with a map of mode m. The table is symmetric.
func (m Mode) Discount(o Mode) float64 {
	a, b := min(m, o), max(m, o)
	if a == b {
		return 1.0
	}
	// siege and chaser maps are rare, so their siblings barely count
	if a == Siege || b == Siege || a == Chaser || b == Chaser {
		return 0.1
	}
	switch {
	case a == TD && b == DM:
		return 0.6
	case a == TD && b == BR:
		return 0.5
	case a == TD && b == Captain:
		return 0.5
	case a == DM && b == BR:
		return 0.9
	case a == DM && b == Captain:
		return 0.8
	case a == BR && b == Captain:
		return 0.7
	}
	return 1.0
}
