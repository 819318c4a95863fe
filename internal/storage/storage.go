// Package storage persists crossword projects as JSON files, mirrors the
// working session into SQLite and exchanges grids as CSV.
package storage

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"

	"crossgrid/internal/grid"
)

// BlackMarker marks a black square in CSV files.
const BlackMarker = "#"

// SaveCSV writes the grid letters to filename, one record per row.
func SaveCSV(g grid.Grid, filename string) error {
	out := make([][]string, len(g))
	for r, row := range g {
		rec := make([]string, len(row))
		for c, cell := range row {
			if cell.IsBlack {
				rec[c] = BlackMarker
			} else {
				rec[c] = cell.Char
			}
		}
		out[r] = rec
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(out); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return f.Close()
}

// LoadCSV reads a grid written by SaveCSV. Short rows are padded with
// blank cells; the result must be within the size bounds.
func LoadCSV(filename string) (grid.Size, grid.Grid, error) {
	f, err := os.Open(filename)
	if err != nil {
		return grid.Size{}, nil, err
	}
	defer f.Close()
	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return grid.Size{}, nil, fmt.Errorf("error reading CSV: %w", err)
	}

	size := grid.Size{Rows: len(records)}
	for _, rec := range records {
		size.Cols = max(size.Cols, len(rec))
	}
	g := grid.New(size)
	for rIdx, rec := range records {
		for cIdx, val := range rec {
			if val == BlackMarker {
				g[rIdx][cIdx].IsBlack = true
			} else {
				g[rIdx][cIdx].Char = val
			}
		}
	}

	size, g, _, err = Data{Size: &size, Grid: g}.Document()
	if err != nil {
		return grid.Size{}, nil, err
	}
	return size, g, nil
}
