// Package loader reads reference data files (ingredients and tags) for the
// load_data command. CSV files carry no header row; JSON files hold an array
// of objects using the API field names.
package loader

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pageza/foodgram/backend/internal/types"
)

// Format is a supported input encoding.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
)

var ErrUnknownFormat = errors.New("unsupported file format")

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV, nil
	case ".json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// ReadIngredients parses "name,measurement_unit" rows.
func ReadIngredients(r io.Reader, format Format) ([]types.IngredientImport, error) {
	switch format {
	case JSON:
		var rows []types.IngredientImport
		if err := json.NewDecoder(r).Decode(&rows); err != nil {
			return nil, fmt.Errorf("failed to decode ingredients: %w", err)
		}
		return rows, nil
	case CSV:
		records, err := readCSV(r)
		if err != nil {
			return nil, err
		}
		rows := make([]types.IngredientImport, 0, len(records))
		for _, rec := range records {
			rows = append(rows, types.IngredientImport{Name: rec[0], MeasurementUnit: rec[1]})
		}
		return rows, nil
	default:
		return nil, ErrUnknownFormat
	}
}

// ReadTags parses "name,slug" rows.
func ReadTags(r io.Reader, format Format) ([]types.TagImport, error) {
	switch format {
	case JSON:
		var rows []types.TagImport
		if err := json.NewDecoder(r).Decode(&rows); err != nil {
			return nil, fmt.Errorf("failed to decode tags: %w", err)
		}
		return rows, nil
	case CSV:
		records, err := readCSV(r)
		if err != nil {
			return nil, err
		}
		rows := make([]types.TagImport, 0, len(records))
		for _, rec := range records {
			rows = append(rows, types.TagImport{Name: rec[0], Slug: rec[1]})
		}
		return rows, nil
	default:
		return nil, ErrUnknownFormat
	}
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	var out [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		rec[0], rec[1] = strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1])
		out = append(out, rec)
	}
}

// Open returns the file at path together with its detected format.
func Open(path string) (*os.File, Format, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	return f, format, nil
}
