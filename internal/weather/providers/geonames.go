package providers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// GeoNames postal code export columns (https://download.geonames.org/export/zip/).
const (
	geoNamesPostalCode = 1
	geoNamesPlaceName  = 2
	geoNamesLatitude   = 9
	geoNamesLongitude  = 10
	geoNamesMinFields  = 11
)

// ConvertGeoNames reads a tab separated GeoNames postal code export (e.g.
// US.txt) and writes the ZIP dataset LocalIndex loads. Rows without a place
// name or with unparsable coordinates are skipped; the first row of a
// duplicated code wins. It returns the number of codes written.
func ConvertGeoNames(r io.Reader, w io.Writer) (int, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	table := zipTable{}
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read geonames line %d: %w", line, err)
		}
		if len(record) < geoNamesMinFields {
			continue
		}

		zip := strings.TrimSpace(record[geoNamesPostalCode])
		city := strings.TrimSpace(record[geoNamesPlaceName])
		if zip == "" || city == "" {
			continue
		}
		if _, seen := table[zip]; seen {
			continue
		}

		lat, errLat := strconv.ParseFloat(strings.TrimSpace(record[geoNamesLatitude]), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(record[geoNamesLongitude]), 64)
		if errLat != nil || errLon != nil {
			continue
		}

		table[zip] = zipRecord{City: city, Latitude: lat, Longitude: lon}
	}

	if err := json.NewEncoder(w).Encode(table); err != nil {
		return 0, fmt.Errorf("write zip code dataset: %w", err)
	}
	return len(table), nil
}
