// Package ui renders menu text for the terminal.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/xtding233/maprotation/internal/catalog"
)

// Styles paints menu text. A Styles built without color renders every
// string unchanged.
type Styles struct {
	color bool
	modes map[catalog.Mode]lipgloss.Style
	key   lipgloss.Style
	pct   lipgloss.Style
	err   lipgloss.Style
}

// NewStyles returns styles rendering for w.
func NewStyles(w io.Writer, color bool) *Styles {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	mode := func(c string) lipgloss.Style {
		return r.NewStyle().Bold(true).Foreground(lipgloss.Color(c))
	}
	return &Styles{
		color: color,
		modes: map[catalog.Mode]lipgloss.Style{
			catalog.TD:      mode("6"),
			catalog.DM:      mode("1"),
			catalog.Chaser:  mode("2"),
			catalog.BR:      mode("5").Faint(true),
			catalog.Captain: mode("5"),
			catalog.Siege:   mode("3"),
		},
		key: r.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		pct: r.NewStyle().Italic(true),
		err: r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// Color reports whether s emits escape sequences.
func (s *Styles) Color() bool { return s.color }

func (s *Styles) Mode(m catalog.Mode) string {
	st, ok := s.modes[m]
	if !ok {
		return m.String()
	}
	return st.Render(m.String())
}

// Key paints a menu key such as "1" or "m".
func (s *Styles) Key(k string) string { return s.key.Render(k) }

// Percent paints a weight as a percentage.
func (s *Styles) Percent(w float64) string { return s.pct.Render(Percent(w)) }

func (s *Styles) Error(msg string) string { return s.err.Render(msg) }

// MapInfo is catalog.Map.Info with the mode painted.
func (s *Styles) MapInfo(m *catalog.Map) string {
	return fmt.Sprintf("%s %s (%d)", m.Nickname, s.Mode(m.Mode), m.Players)
}

// Percent formats a weight in [0,1] as "12.34%".
func Percent(w float64) string {
	return fmt.Sprintf("%.2f%%", w*100)
}

// PadRight pads s with spaces to width terminal cells.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// PadLeft right-aligns s in width terminal cells.
func PadLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}

// MaxWidth is the widest display width among cells.
func MaxWidth(cells []string) int {
	w := 0
	for _, c := range cells {
		w = max(w, runewidth.StringWidth(c))
	}
	return w
}

// Setting values for the color option.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ColorEnabled resolves the color setting. For auto, a set NO_COLOR disables
// color unless it is "false" or "0"; otherwise color follows what the
// terminal behind out supports.
func ColorEnabled(setting string, lookupEnv func(string) (string, bool), out io.Writer) bool {
	switch setting {
	case ColorNever:
		return false
	case ColorAlways:
		return true
	}
	if lookupEnv != nil {
		if v, ok := lookupEnv("NO_COLOR"); ok {
			v = strings.ToLower(v)
			return v == "false" || v == "0"
		}
	}
	return termenv.NewOutput(out).ColorProfile() != termenv.Ascii
}
