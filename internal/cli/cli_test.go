package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/maprotation/internal/rotation"
)

const testCatalog = `[
  {"gid": 1, "name": "Harbor", "variants": [
    {"id": 1, "mode": "TD", "players": 16},
    {"id": 2, "mode": "DM", "players": 16}
  ]},
  {"gid": 2, "name": "Quarry", "variants": [
    {"id": 3, "mode": "TD", "players": 12},
    {"id": 4, "mode": "Chaser", "players": 16}
  ]},
  {"gid": 3, "name": "Castle", "variants": [
    {"id": 5, "mode": "BR", "players": 16, "nickname": "Castle Run"},
    {"id": 6, "mode": "Captain", "players": 16, "nickname": "Castle Keep"},
    {"id": 7, "mode": "Siege", "players": 10, "nickname": "Castle Walls"}
  ]}
]`

type fixture struct {
	dir     string
	catalog string
	playLog string
	config  string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:     dir,
		catalog: filepath.Join(dir, "all_maps.json"),
		playLog: filepath.Join(dir, "play_log.txt"),
		config:  filepath.Join(dir, "mappick.yaml"),
	}
	require.NoError(t, os.WriteFile(f.catalog, []byte(testCatalog), 0o644))
	require.NoError(t, os.WriteFile(f.config, []byte("log:\n  level: disabled\n"), 0o644))
	return f
}

// exec runs mappick with the fixture files and the given stdin.
func (f fixture) exec(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	full := append(args,
		"--config", f.config,
		"--catalog", f.catalog,
		"--play-log", f.playLog,
		"--color", "never",
		"--seed", "7",
	)
	err := run(full, strings.NewReader(input), &out, &errOut)
	return out.String(), errOut.String(), err
}

func (f fixture) logLines(t *testing.T) []string {
	t.Helper()
	b, err := os.ReadFile(f.playLog)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
}

var logLine = regexp.MustCompile(`^#(\d+) \(\d{4}-\d{2}-\d{2} \d{2}:\d{2} Z\) (.+)$`)

func TestSessionSelectAppendsAndAdvances(t *testing.T) {
	f := newFixture(t)
	out, _, err := f.exec(t, "1\n1\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Loaded 7 maps\n")
	assert.Contains(t, out, "Loaded Log with 0 entries\n")
	assert.Contains(t, out, "Mode TD for 16 players\n (1) Harbor (16) 100.00%\n")
	assert.Contains(t, out, " (m) Change Mode\n (p) Set Players\n (%) Show Map Percents\n (a) Choose From All Maps\n (s) Shuffle\n> ")
	assert.Contains(t, out, "Harbor TD (16) Selected. Have Fun!\n")
	assert.Contains(t, out, "Mode DM for 16 players")
	assert.Contains(t, out, "Harbor DM (16) Selected. Have Fun!\n")
	assert.Contains(t, out, "Mode Chaser for 16 players")

	lines := f.logLines(t)
	require.Len(t, lines, 2)
	m := logLine.FindStringSubmatch(lines[0])
	require.NotNil(t, m, lines[0])
	assert.Equal(t, "1", m[1])
	assert.Equal(t, "Harbor TD", m[2])
	m = logLine.FindStringSubmatch(lines[1])
	require.NotNil(t, m, lines[1])
	assert.Equal(t, "2", m[1])
}

func TestSessionResumesFromLog(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.playLog, []byte("#4 (2024-05-01 20:00 Z) Quarry Chaser\n"), 0o644))

	out, _, err := f.exec(t, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded Log with 1 entries\n")
	assert.Contains(t, out, "Mode BR for 16 players\n (1) Castle Run (16) 100.00%\n")
}

func TestSessionRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	out, _, err := f.exec(t, "9\n0\nx\n-1\n")
	require.NoError(t, err)
	assert.Contains(t, out, "map selection 9 out of range 1..1\n> ")
	assert.Contains(t, out, "map selection 0 out of range 1..1\n> ")
	assert.Equal(t, 2, strings.Count(out, "bad response\n> "))
	assert.Equal(t, []string{""}, f.logLines(t), "nothing selected")
}

func TestSessionSetPlayers(t *testing.T) {
	f := newFixture(t)
	out, _, err := f.exec(t, "p\n3\nlots\n12\n")
	require.NoError(t, err)
	assert.Contains(t, out, "How many players?\n> ")
	assert.Equal(t, 2, strings.Count(out, "players must be between 8 and 16\n> "))
	assert.Contains(t, out, "Mode TD for 12 players\n")
	assert.Contains(t, out, "Quarry (12)")
}

func TestSessionChangeMode(t *testing.T) {
	f := newFixture(t)
	out, _, err := f.exec(t, "m\nc\nm\n9\n3\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Select Mode:\n (1) TD\n (2) DM\n (3) Chaser\n (4) BR\n (5) Captain\n (6) Siege\n (c) Cancel\n> ")
	assert.Equal(t, 2, strings.Count(out, "Mode TD for 16 players"), "cancel keeps the mode")
	assert.Contains(t, out, "bad response\n> ")
	assert.Contains(t, out, "Mode Chaser for 16 players\n (1) Quarry (16) 100.00%\n")
}

func TestSessionModeWithoutMaps(t *testing.T) {
	f := newFixture(t)
	out, _, err := f.exec(t, "m\n6\n1\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Siege for 16 players: no eligible maps\n")
	assert.Contains(t, out, "Mode Siege for 16 players\n (m) Change Mode\n")
	assert.Contains(t, out, "map selection 1 out of range 1..0")
}

func TestSessionPercents(t *testing.T) {
	f := newFixture(t)
	out, _, err := f.exec(t, "%\n1\n")
	require.NoError(t, err)
	assert.Contains(t, out, "\nAll maps for TD\n  Harbor (16) 50.00%\n  Quarry (12) 50.00%\n\n")
}

func TestSessionAllMaps(t *testing.T) {
	f := newFixture(t)
	out, _, err := f.exec(t, "p\n12\na\n2\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Mode TD for 12 players\n (1) Harbor (16) 50.00%\n (2) Quarry (12) 50.00%\n")
	assert.Contains(t, out, "Quarry TD (12) Selected. Have Fun!")
	m := logLine.FindStringSubmatch(f.logLines(t)[0])
	require.NotNil(t, m)
	assert.Equal(t, "3", m[1])
}

func TestSessionBadLog(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.playLog, []byte("#99 (2024-05-01 20:00 Z) Nowhere TD\n"), 0o644))
	_, errOut, err := f.exec(t, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not find map with id")
	assert.Contains(t, errOut, "Error: ")
}

func TestSimulateCommand(t *testing.T) {
	f := newFixture(t)
	out, errOut, err := f.exec(t, "", "simulate", "--rounds", "12", "--players", "10", "--stats")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	row := regexp.MustCompile(`^"([A-Za-z]+)","([^"]+)",(\d+)$`)
	total, td := 0, 0
	for _, l := range lines {
		m := row.FindStringSubmatch(l)
		require.NotNil(t, m, l)
		n, err := strconv.Atoi(m[3])
		require.NoError(t, err)
		total += n
		if m[1] == "TD" {
			td += n
		}
	}
	assert.Equal(t, 12, total)
	assert.Equal(t, 2, td)
	assert.True(t, strings.HasPrefix(lines[0], `"TD",`))
	assert.Contains(t, out, "\"DM\",\"Harbor\",2\n")
	assert.Contains(t, out, "\"Siege\",\"Castle Walls\",2\n")

	assert.Contains(t, errOut, "mode")
	assert.Contains(t, errOut, "Captain")
	assert.NoFileExists(t, f.playLog)
}

func TestSimulateRejectsZeroRounds(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.exec(t, "", "simulate", "--rounds", "0")
	assert.EqualError(t, err, "rounds must be >= 1")
}

func TestPercentsCommand(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.playLog, []byte("#1 (2024-05-01 20:00 Z) Harbor TD\n"), 0o644))

	out, _, err := f.exec(t, "", "percents", "td")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "All maps for TD", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "  Quarry (12) "), "fresh map ranks first: %q", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "  Harbor (16) "))

	_, _, err = f.exec(t, "", "percents", "ctf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown map mode "ctf"`)
	assert.Contains(t, err.Error(), "TD, DM, Chaser, BR, Captain, Siege")
}

func TestPickCommand(t *testing.T) {
	f := newFixture(t)
	out, _, err := f.exec(t, "", "pick", "--mode", "dm")
	require.NoError(t, err)
	assert.Equal(t, "Mode DM for 16 players\n  Harbor (16) 100.00%\n", out)
	assert.Equal(t, []string{""}, f.logLines(t), "pick records nothing")

	out, _, err = f.exec(t, "", "pick", "--players", "12", "-n", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Mode TD for 12 players\n")
	assert.Contains(t, out, "Harbor (16) 50.00%")
	assert.Contains(t, out, "Quarry (12) 50.00%")

	_, _, err = f.exec(t, "", "pick", "--players", "20")
	assert.EqualError(t, err, "players must be between 8 and 16")

	_, _, err = f.exec(t, "", "pick", "-n", "0")
	assert.EqualError(t, err, "count must be >= 1")
}

func TestConfigCommand(t *testing.T) {
	f := newFixture(t)
	out, _, err := f.exec(t, "", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "catalog: "+f.catalog)
	assert.Contains(t, out, "level: disabled")
	assert.Contains(t, out, "choices: 3")
}

func TestBadFlagValues(t *testing.T) {
	f := newFixture(t)
	var out, errOut bytes.Buffer
	err := run([]string{"--config", f.config, "--color", "sometimes", "config"}, strings.NewReader(""), &out, &errOut)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "color must be one of")

	err = run([]string{"--config", filepath.Join(f.dir, "missing.yaml")}, strings.NewReader(""), &out, &errOut)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRecoverableErrors(t *testing.T) {
	assert.True(t, recoverable(fmt.Errorf("Siege for 16 players: %w", rotation.ErrEmptyCandidates)))

	assert.False(t, recoverable(fmt.Errorf("map 3: %w", rotation.ErrDuplicateDraw)))
	assert.False(t, recoverable(rotation.ErrInsufficientCandidates))
	assert.False(t, recoverable(&rotation.NumericInvariantError{MapID: 1}))
	assert.False(t, recoverable(errors.New("disk full")))
}
