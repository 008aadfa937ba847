package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadIngredientsCSV(t *testing.T) {
	in := "flour,g\n\"salt, sea\",pinch\n"

	rows, err := ReadIngredients(strings.NewReader(in), CSV)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "flour", rows[0].Name)
	assert.Equal(t, "g", rows[0].MeasurementUnit)
	assert.Equal(t, "salt, sea", rows[1].Name)
}

func TestReadIngredientsCSVWrongArity(t *testing.T) {
	_, err := ReadIngredients(strings.NewReader("flour,g,extra\n"), CSV)
	assert.Error(t, err)
}

func TestReadIngredientsJSON(t *testing.T) {
	in := `[{"name": "sugar", "measurement_unit": "g"}]`

	rows, err := ReadIngredients(strings.NewReader(in), JSON)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "sugar", rows[0].Name)
	assert.Equal(t, "g", rows[0].MeasurementUnit)
}

func TestReadTags(t *testing.T) {
	rows, err := ReadTags(strings.NewReader("Breakfast,breakfast\nDinner,dinner\n"), CSV)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "dinner", rows[1].Slug)

	rows, err = ReadTags(strings.NewReader(`[{"name":"Lunch","slug":"lunch"}]`), JSON)
	require.NoError(t, err)
	assert.Equal(t, "Lunch", rows[0].Name)
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"data/ingredients.csv", CSV, false},
		{"data/ingredients.JSON", JSON, false},
		{"data/ingredients.xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
