package geo

import (
	"encoding/json"
	"fmt"
	"os"

	"ordersight/internal/models"
)

// coordinateTables is the JSON layout of a coordinate override file. Either
// map may be omitted to keep the corresponding built-in table.
type coordinateTables struct {
	Cities    map[string]models.Coordinates `json:"cities"`
	Countries map[string]models.Coordinates `json:"countries"`
}

// LoadTables reads coordinate override tables from a JSON file. City keys use
// the "City,Country" form, country keys the bare country name.
func LoadTables(path string) (cities, countries map[string]models.Coordinates, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read coordinate tables: %w", err)
	}

	var t coordinateTables
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, nil, fmt.Errorf("failed to parse coordinate tables: %w", err)
	}
	return t.Cities, t.Countries, nil
}
