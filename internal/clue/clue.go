// Package clue holds the free-text clues attached to numbered words and
// converts them between the live map form and the exported list form.
package clue

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/zyedidia/generic/mapset"

	"crossgrid/internal/grid"
)

// Map holds clue text by word key. Keys that stop being produced by the
// numbering are kept; Export drops them.
type Map map[grid.WordKey]string

// Clue is the exported form of a single clue.
type Clue struct {
	Number    int            `json:"number"`
	Direction grid.Direction `json:"direction"`
	Text      string         `json:"text"`
}

// Key returns the clue's word key.
func (c Clue) Key() grid.WordKey {
	return grid.KeyFor(c.Number, c.Direction)
}

// Clone returns a copy of m.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// With returns a copy of m with key set to text. Empty text removes the key.
func (m Map) With(key grid.WordKey, text string) Map {
	out := m.Clone()
	if text == "" {
		delete(out, key)
	} else {
		out[key] = text
	}
	return out
}

// ParseKey splits "12-across" into its number and direction.
func ParseKey(key grid.WordKey) (int, grid.Direction, error) {
	num, dir, ok := strings.Cut(string(key), "-")
	if !ok {
		return 0, grid.Across, fmt.Errorf("malformed word key %q", key)
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 1 {
		return 0, grid.Across, fmt.Errorf("malformed word key %q", key)
	}
	d, err := grid.ParseDirection(dir)
	if err != nil {
		return 0, grid.Across, fmt.Errorf("malformed word key %q: %w", key, err)
	}
	return n, d, nil
}

// Export lists a clue for every entry, in entry order. Entries without
// text export an empty clue; map keys with no entry are left out.
func Export(entries []grid.Entry, m Map) []Clue {
	out := make([]Clue, 0, len(entries))
	for _, e := range entries {
		out = append(out, Clue{Number: e.Number, Direction: e.Direction, Text: m[e.Key()]})
	}
	return out
}

// Import builds a map from an exported clue list. Empty texts are skipped.
func Import(clues []Clue) Map {
	m := make(Map, len(clues))
	for _, c := range clues {
		if c.Text == "" || c.Number < 1 {
			continue
		}
		m[c.Key()] = c.Text
	}
	return m
}

// Orphans returns the keys of m that are not active, sorted.
func Orphans(m Map, active mapset.Set[grid.WordKey]) []grid.WordKey {
	var out []grid.WordKey
	for k := range m {
		if !active.Has(k) {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Split separates clues into across and down lists, keeping their order.
func Split(clues []Clue) (across, down []Clue) {
	for _, c := range clues {
		if c.Direction == grid.Across {
			across = append(across, c)
		} else {
			down = append(down, c)
		}
	}
	return across, down
}

// Format renders clues as plain text with Across and Down sections.
func Format(clues []Clue) string {
	across, down := Split(clues)
	var b strings.Builder
	section := func(title string, list []Clue) {
		b.WriteString(title)
		b.WriteString("\n")
		if len(list) == 0 {
			b.WriteString("  (none)\n")
		}
		for _, c := range list {
			fmt.Fprintf(&b, "%3d. %s\n", c.Number, c.Text)
		}
	}
	section("Across", across)
	b.WriteString("\n")
	section("Down", down)
	return b.String()
}
