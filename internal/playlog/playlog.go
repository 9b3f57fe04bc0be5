// Package playlog persists the chronological list of maps that were played.
//
// The log is a plain text file with one entry per line:
//
//	#12 (2024-05-01 19:32 Z) Harbor TD
//
// Only the first run of one to three digits on each line is significant; the
// rest is for people reading the file.
package playlog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xtding233/maprotation/internal/catalog"
)

// DefaultPath is the log file used when nothing else is configured.
const DefaultPath = "play_log.txt"

const timeLayout = "2006-01-02 15:04"

var idPattern = regexp.MustCompile(`\d{1,3}`)

// LogError reports a log line that could not be resolved to a catalog map.
type LogError struct {
	Line   int
	Reason string
	Value  string
}

func (e *LogError) Error() string {
	return fmt.Sprintf("error parsing the log at line %d, %s: '%s'", e.Line, e.Reason, e.Value)
}

// Store is an append-only play log backed by a file.
type Store struct {
	path      string
	lastMTime time.Time
}

func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load reads the whole log, oldest entry first, resolving every id through
// cat. A missing file is created empty.
func (s *Store) Load(cat *catalog.Catalog) ([]*catalog.Map, error) {
	f, err := os.OpenFile(s.path, os.O_RDONLY|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open play log: %w", err)
	}
	defer f.Close()

	history, err := parse(f, cat)
	if err != nil {
		return nil, err
	}
	s.remember()
	return history, nil
}

func parse(r io.Reader, cat *catalog.Catalog) ([]*catalog.Map, error) {
	var history []*catalog.Map
	sc := bufio.NewScanner(r)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		match := idPattern.FindString(line)
		if match == "" {
			return nil, &LogError{Line: lineNum, Reason: "could not find map id", Value: line}
		}
		id, err := strconv.ParseUint(match, 10, 16)
		if err != nil {
			return nil, &LogError{Line: lineNum, Reason: "could not parse map id", Value: line}
		}
		m, ok := cat.Map(uint16(id))
		if !ok {
			return nil, &LogError{Line: lineNum, Reason: "could not find map with id", Value: match}
		}
		history = append(history, m)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read play log: %w", err)
	}
	return history, nil
}

// Append durably records m as played at now. The entry is on disk when Append
// returns without error.
func (s *Store) Append(m *catalog.Map, now time.Time) error {
	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open play log: %w", err)
	}
	defer f.Close()

	needNewline, err := missingTrailingNewline(f)
	if err != nil {
		return fmt.Errorf("inspect play log: %w", err)
	}

	var b strings.Builder
	if needNewline {
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "#%d (%s Z) %s %s\n", m.ID, now.UTC().Format(timeLayout), m.Nickname, m.Mode)

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("append play log: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync play log: %w", err)
	}
	s.remember()
	return nil
}

func missingTrailingNewline(f *os.File) (bool, error) {
	fi, err := f.Stat()
	if err != nil {
		return false, err
	}
	if fi.Size() == 0 {
		return false, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, fi.Size()-1); err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return last[0] != '\n', nil
}

// Changed polls the file's modification time and reports whether it moved
// since the last Load, Append or Changed call. A missing file never counts as
// a change.
func (s *Store) Changed() bool {
	fi, err := os.Stat(s.path)
	if err != nil {
		return false
	}
	mt := fi.ModTime()
	if mt.After(s.lastMTime) {
		s.lastMTime = mt
		return true
	}
	return false
}

func (s *Store) remember() {
	if fi, err := os.Stat(s.path); err == nil {
		s.lastMTime = fi.ModTime()
	}
}
