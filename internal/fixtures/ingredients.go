package fixtures

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"

	"github.com/foodgram-app/backend/internal/models"
)

// LoadIngredients reads a two-column CSV (name, measurement_unit) and
// upserts ingredient rows by that pair. A header row is skipped when
// present, malformed rows are ignored, and re-running the load does
// not duplicate rows. Returns the number of rows created.
func LoadIngredients(db *gorm.DB, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	created := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return created, fmt.Errorf("read csv: %w", err)
		}
		if len(row) != 2 {
			continue
		}
		name := strings.TrimSpace(row[0])
		unit := strings.TrimSpace(row[1])
		if name == "" {
			continue
		}
		if name == "name" && unit == "measurement_unit" {
			// header row
			continue
		}

		var ingredient models.Ingredient
		res := db.Where("name = ? AND measurement_unit = ?", name, unit).
			Attrs(models.Ingredient{Name: name, MeasurementUnit: unit}).
			FirstOrCreate(&ingredient)
		if res.Error != nil {
			return created, fmt.Errorf("upsert ingredient %q: %w", name, res.Error)
		}
		if res.RowsAffected > 0 {
			created++
		}
	}
	return created, nil
}
