// Package seed loads the movement catalog and the initial workout pool from
// the spreadsheet-export JSON that the programming originates from.
package seed

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/claude/wodforge/internal/models"
)

// Column keys in the spreadsheet export. The sheet has no header row, so the
// exporter names columns positionally.
const (
	colMainMovement = "Unnamed: 3"
	colAccessories  = "Unnamed: 5"
	colIntensity    = "Unnamed: 7"
	colFormat       = "Unnamed: 8"
	colFinishers    = "Unnamed: 9"
)

// RawWorkout is one usable row from the export: a main movement plus
// accessory work, with format and intensity.
type RawWorkout struct {
	Sheet        string
	MainMovement string
	Accessories  []string
	Format       models.Format
	Intensity    models.Intensity
}

// formatAliases maps spreadsheet spellings onto canonical format labels
// beyond the plain lowercase-and-underscore normalization.
var formatAliases = map[string]models.Format{
	"rft":      models.FormatRoundsForTime,
	"death by": models.FormatDeathBy,
}

func normalizeFormat(s string) (models.Format, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if f, ok := formatAliases[key]; ok {
		return f, nil
	}
	return models.ParseFormat(strings.ReplaceAll(key, " ", "_"))
}

func normalizeIntensity(s string) (models.Intensity, error) {
	return models.ParseIntensity(strings.ToLower(strings.TrimSpace(s)))
}

// ParseFile reads a spreadsheet-export JSON file.
func ParseFile(path string) ([]RawWorkout, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening seed file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes the export: a map of sheet name to rows, each row a map of
// column key to cell value. Rows without a main movement, format, and
// intensity are skipped (headers, separators, notes); the skip count is
// returned alongside the usable rows.
func Parse(r io.Reader) ([]RawWorkout, int, error) {
	var sheets map[string][]map[string]any
	if err := json.NewDecoder(r).Decode(&sheets); err != nil {
		return nil, 0, fmt.Errorf("decoding seed data: %w", err)
	}

	var out []RawWorkout
	skipped := 0
	for sheet, rows := range sheets {
		for _, row := range rows {
			w, ok := parseRow(sheet, row)
			if !ok {
				skipped++
				continue
			}
			out = append(out, w)
		}
	}
	return out, skipped, nil
}

func parseRow(sheet string, row map[string]any) (RawWorkout, bool) {
	main := cellString(row, colMainMovement)
	if main == "" {
		return RawWorkout{}, false
	}

	format, err := normalizeFormat(cellString(row, colFormat))
	if err != nil {
		return RawWorkout{}, false
	}
	intensity, err := normalizeIntensity(cellString(row, colIntensity))
	if err != nil {
		return RawWorkout{}, false
	}

	w := RawWorkout{
		Sheet:        sheet,
		MainMovement: main,
		Format:       format,
		Intensity:    intensity,
	}
	w.Accessories = append(w.Accessories, splitMovementList(cellString(row, colAccessories))...)
	w.Accessories = append(w.Accessories, splitMovementList(cellString(row, colFinishers))...)
	return w, true
}

func cellString(row map[string]any, key string) string {
	v, ok := row[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func splitMovementList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
