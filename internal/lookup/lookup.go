// Package lookup loads the id tables that map tournament and player names to
// their fixed-width numeric encodings. Tables are read once at startup and
// never mutated afterwards, so a *Tables is safe for concurrent readers.
package lookup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

// ExpectedTables is the number of id files the loader requires
const ExpectedTables = 2

// LoadError reports a missing or malformed id table. It is fatal at startup.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load id tables: %v", e.Err)
	}
	return fmt.Sprintf("load id table %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Tables holds the tournament and player encodings
type Tables struct {
	tournaments     map[string][]float64
	players         map[string][]float64
	tournamentWidth int
	playerWidth     int
}

// Load reads the id tables from dir. Files are taken in sorted filename order:
// the first is the tournament table, the second the player table.
func Load(dir string) (*Tables, error) {
	paths, err := tableFiles(dir)
	if err != nil {
		return nil, &LoadError{Path: dir, Err: err}
	}
	if len(paths) != ExpectedTables {
		return nil, &LoadError{Path: dir, Err: fmt.Errorf("expected %d id tables, found %d", ExpectedTables, len(paths))}
	}

	decoded := make([]map[string][]float64, 0, len(paths))
	widths := make([]int, 0, len(paths))
	for _, path := range paths {
		table, err := readTable(path)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		width, err := tableWidth(table)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		decoded = append(decoded, table)
		widths = append(widths, width)
	}

	return &Tables{
		tournaments:     decoded[0],
		players:         decoded[1],
		tournamentWidth: widths[0],
		playerWidth:     widths[1],
	}, nil
}

// New builds tables directly from in-memory maps. The maps are copied.
func New(tournaments, players map[string][]float64) (*Tables, error) {
	tw, err := tableWidth(tournaments)
	if err != nil {
		return nil, &LoadError{Path: "tournaments", Err: err}
	}
	pw, err := tableWidth(players)
	if err != nil {
		return nil, &LoadError{Path: "players", Err: err}
	}
	return &Tables{
		tournaments:     copyTable(tournaments),
		players:         copyTable(players),
		tournamentWidth: tw,
		playerWidth:     pw,
	}, nil
}

// Tournament returns a copy of the tournament encoding
func (t *Tables) Tournament(name string) ([]float64, bool) {
	v, ok := t.tournaments[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), v...), true
}

// Player returns a copy of the player encoding
func (t *Tables) Player(name string) ([]float64, bool) {
	v, ok := t.players[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), v...), true
}

func (t *Tables) TournamentNames() []string { return sortedKeys(t.tournaments) }
func (t *Tables) PlayerNames() []string     { return sortedKeys(t.players) }
func (t *Tables) TournamentWidth() int      { return t.tournamentWidth }
func (t *Tables) PlayerWidth() int          { return t.playerWidth }

// VectorWidth is the length of a full feature vector built from these tables:
// tournament features, round rank, then (static features, age, rank) per player.
func (t *Tables) VectorWidth() int {
	return t.tournamentWidth + 1 + 2*(t.playerWidth+2)
}

func tableFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func readTable(path string) (map[string][]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var table map[string][]float64
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	}
	return table, nil
}

// tableWidth checks that every entry has the same non-zero length
func tableWidth(table map[string][]float64) (int, error) {
	if len(table) == 0 {
		return 0, fmt.Errorf("table is empty")
	}
	width := -1
	for _, name := range sortedKeys(table) {
		v := table[name]
		if len(v) == 0 {
			return 0, fmt.Errorf("entry %q has no features", name)
		}
		if width == -1 {
			width = len(v)
			continue
		}
		if len(v) != width {
			return 0, fmt.Errorf("entry %q has %d features, expected %d", name, len(v), width)
		}
	}
	return width, nil
}

func copyTable(in map[string][]float64) map[string][]float64 {
	out := make(map[string][]float64, len(in))
	for k, v := range in {
		out[k] = append([]float64(nil), v...)
	}
	return out
}

func sortedKeys(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
