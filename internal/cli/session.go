package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xtding233/maprotation/internal/catalog"
	"github.com/xtding233/maprotation/internal/playlog"
	"github.com/xtding233/maprotation/internal/rotation"
	"github.com/xtding233/maprotation/internal/ui"
)

// errQuit ends the session when input runs out.
var errQuit = errors.New("end of input")

type action int

const (
	actSelect action = iota
	actChangeMode
	actSetPlayers
	actPercents
	actAllMaps
	actShuffle
)

// Session is the interactive pick loop.
type Session struct {
	*env
	in      *bufio.Reader
	store   *playlog.Store
	history []*catalog.Map
	mode    catalog.Mode
	players uint16
	showAll bool
}

func (e *env) session(in io.Reader) *Session {
	return &Session{env: e, in: bufio.NewReader(in)}
}

// Run loads the play log and serves rounds until input ends.
func (s *Session) Run() error {
	fmt.Fprintf(s.out, "Loaded %d maps\n", s.cat.Len())

	store, history, err := s.playLog()
	if err != nil {
		return err
	}
	s.store, s.history = store, history
	fmt.Fprintf(s.out, "Loaded Log with %d entries\n", len(s.history))

	s.mode = rotation.DefaultMode(s.history)
	s.players = s.cfg.Players.Default

	for {
		if err := s.round(); err != nil {
			if errors.Is(err, errQuit) {
				fmt.Fprintln(s.out)
				return nil
			}
			return err
		}
	}
}

func (s *Session) round() error {
	if s.store.Changed() {
		history, err := s.store.Load(s.cat)
		if err != nil {
			return err
		}
		s.log.Info().Int("entries", len(history)).Msg("play log changed on disk, reloaded")
		s.history = history
	}

	opts, err := s.offer()
	if err != nil {
		if !recoverable(err) {
			return err
		}
		// nothing to offer for this mode and player count; the menu still
		// lets the user change either
		fmt.Fprintln(s.out, s.styles.Error(err.Error()))
	}
	s.printChoices(opts)

	act, idx, err := s.readAction(len(opts))
	if err != nil {
		return err
	}
	switch act {
	case actSelect:
		return s.selectMap(opts[idx].Map)
	case actChangeMode:
		m, err := s.promptMode()
		if err != nil {
			return err
		}
		if m != nil {
			s.mode = *m
		}
	case actSetPlayers:
		p, err := s.promptPlayers()
		if err != nil {
			return err
		}
		s.players = p
	case actPercents:
		return s.printPercents()
	case actAllMaps:
		s.showAll = true
	case actShuffle:
	}
	return nil
}

// recoverable reports whether err only means no map fits the current mode
// and player count. Anything else ends the session.
func recoverable(err error) bool {
	return errors.Is(err, rotation.ErrEmptyCandidates)
}

// offer draws this round's choices, or every candidate after (a).
func (s *Session) offer() ([]rotation.Candidate, error) {
	if s.showAll {
		s.showAll = false
		return s.rec.AllCandidates(s.history, s.mode, s.players)
	}

	fmt.Fprint(s.out, "Selecting Options.")
	opts, err := s.draw(s.history, s.mode, s.players, s.cfg.Choices)
	fmt.Fprintln(s.out, strings.Repeat(".", len(opts)))
	return opts, err
}

func (s *Session) printChoices(opts []rotation.Candidate) {
	width := 1
	if len(opts) > 9 {
		width = 2
	}
	pad := strings.Repeat(" ", width-1)

	fmt.Fprintln(s.out)
	fmt.Fprintf(s.out, "Mode %s for %d players\n", s.styles.Mode(s.mode), s.players)
	for i, c := range opts {
		fmt.Fprintf(s.out, " (%s) %s (%d) %s\n",
			s.styles.Key(ui.PadLeft(strconv.Itoa(i+1), width)),
			c.Map.Nickname, c.Map.Players, s.styles.Percent(c.Weight))
	}
	for _, item := range []struct{ key, label string }{
		{"m", "Change Mode"},
		{"p", "Set Players"},
		{"%", "Show Map Percents"},
		{"a", "Choose From All Maps"},
		{"s", "Shuffle"},
	} {
		fmt.Fprintf(s.out, " (%s%s) %s\n", pad, s.styles.Key(item.key), item.label)
	}
	fmt.Fprint(s.out, "> ")
}

func (s *Session) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	switch {
	case err == nil:
	case errors.Is(err, io.EOF) && line != "":
		// last line without a newline
	case errors.Is(err, io.EOF):
		return "", errQuit
	default:
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readUntilValid reads lines until parse accepts one, printing the reason
// for every rejected line.
func readUntilValid[T any](s *Session, parse func(string) (T, error)) (T, error) {
	for {
		line, err := s.readLine()
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(line)
		if err == nil {
			return v, nil
		}
		fmt.Fprintf(s.out, "%s\n> ", err)
	}
}

func (s *Session) readAction(n int) (action, int, error) {
	type choice struct {
		act action
		idx int
	}
	c, err := readUntilValid(s, func(line string) (choice, error) {
		if v, err := strconv.ParseUint(line, 10, 64); err == nil {
			if v < 1 || v > uint64(n) {
				return choice{}, fmt.Errorf("map selection %d out of range 1..%d", v, n)
			}
			return choice{actSelect, int(v) - 1}, nil
		}
		switch line {
		case "m":
			return choice{act: actChangeMode}, nil
		case "p":
			return choice{act: actSetPlayers}, nil
		case "%":
			return choice{act: actPercents}, nil
		case "a":
			return choice{act: actAllMaps}, nil
		case "s":
			return choice{act: actShuffle}, nil
		}
		return choice{}, errors.New("bad response")
	})
	return c.act, c.idx, err
}

// promptMode returns nil when the user cancels.
func (s *Session) promptMode() (*catalog.Mode, error) {
	fmt.Fprintln(s.out, "Select Mode:")
	modes := catalog.Modes()
	for i, m := range modes {
		fmt.Fprintf(s.out, " (%s) %s\n", s.styles.Key(strconv.Itoa(i+1)), s.styles.Mode(m))
	}
	fmt.Fprintf(s.out, " (%s) Cancel\n", s.styles.Key("c"))
	fmt.Fprint(s.out, "> ")

	return readUntilValid(s, func(line string) (*catalog.Mode, error) {
		if line == "" {
			return nil, errors.New("bad response")
		}
		switch r := line[0]; {
		case r == 'c':
			return nil, nil
		case r >= '1' && int(r-'1') < len(modes):
			m := modes[r-'1']
			return &m, nil
		}
		return nil, errors.New("bad response")
	})
}

func (s *Session) promptPlayers() (uint16, error) {
	fmt.Fprint(s.out, "How many players?\n> ")
	return readUntilValid(s, func(line string) (uint16, error) {
		v, err := strconv.ParseUint(line, 10, 16)
		if err != nil {
			return 0, s.playersRange()
		}
		if err := s.checkPlayers(uint16(v)); err != nil {
			return 0, err
		}
		return uint16(v), nil
	})
}

func (s *Session) printPercents() error {
	m, err := s.promptMode()
	if err != nil || m == nil {
		return err
	}
	dist, err := s.rec.AllCandidates(s.history, *m, 0)
	if err != nil {
		if !recoverable(err) {
			return err
		}
		fmt.Fprintln(s.out, s.styles.Error(err.Error()))
		return nil
	}

	fmt.Fprintln(s.out)
	fmt.Fprintf(s.out, "All maps for %s\n", s.styles.Mode(*m))
	writeDistribution(s.out, s.styles, dist)
	fmt.Fprintln(s.out)
	return nil
}

func (s *Session) selectMap(m *catalog.Map) error {
	if err := s.store.Append(m, s.now()); err != nil {
		return err
	}
	s.history = append(s.history, m)
	s.mode = s.mode.Next()
	s.log.Debug().Str("map", m.Info()).Int("history", len(s.history)).Msg("selected")
	fmt.Fprintf(s.out, "%s Selected. Have Fun!\n\n", s.styles.MapInfo(m))
	return nil
}

// writeDistribution prints one "  nickname (players) pct" row per candidate,
// nicknames padded to a common width.
func writeDistribution(w io.Writer, st *ui.Styles, dist []rotation.Candidate) {
	names := make([]string, len(dist))
	for i, c := range dist {
		names[i] = c.Map.Nickname
	}
	width := ui.MaxWidth(names)
	for i, c := range dist {
		fmt.Fprintf(w, "  %s (%2d) %s\n", ui.PadRight(names[i], width), c.Map.Players, st.Percent(c.Weight))
	}
}
