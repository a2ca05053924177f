package stations

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var requiredColumns = []string{"stop_id", "stop_name", "stop_lat", "stop_lon"}

// ReadCSV parses a stops.txt style table. Columns are located by header
// name. Rows with an empty required field, non-numeric coordinates or a
// malformed record are skipped and counted.
func ReadCSV(r io.Reader) ([]StationRecord, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, errors.New("station table is empty")
		}
		return nil, 0, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, 0, fmt.Errorf("missing required column %q", c)
		}
	}
	idCol, nameCol, latCol, lonCol := cols["stop_id"], cols["stop_name"], cols["stop_lat"], cols["stop_lon"]

	var records []StationRecord
	skipped := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				continue
			}
			return nil, 0, err
		}

		rec, ok := parseRow(row, idCol, nameCol, latCol, lonCol)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	return records, skipped, nil
}

func parseRow(row []string, idCol, nameCol, latCol, lonCol int) (StationRecord, bool) {
	field := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	id, name, latStr, lonStr := field(idCol), field(nameCol), field(latCol), field(lonCol)
	if id == "" || name == "" || latStr == "" || lonStr == "" {
		return StationRecord{}, false
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return StationRecord{}, false
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return StationRecord{}, false
	}
	return StationRecord{StopID: id, Name: name, Latitude: lat, Longitude: lon}, true
}

func loadCSVFile(path string) (sourceResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return sourceResult{}, err
	}
	defer func() { _ = f.Close() }()

	records, skipped, err := ReadCSV(f)
	if err != nil {
		return sourceResult{}, fmt.Errorf("%s: %w", path, err)
	}
	return sourceResult{records: records, skipped: skipped}, nil
}
