package stations

import (
	"fmt"
	"os"

	"github.com/OneBusAway/go-gtfs"
)

// FromStatic extracts station records from a parsed GTFS static feed.
// Stops without coordinates (generic nodes, boarding areas) are skipped.
func FromStatic(static *gtfs.Static) ([]StationRecord, int) {
	records := make([]StationRecord, 0, len(static.Stops))
	skipped := 0
	for _, s := range static.Stops {
		if s.Id == "" || s.Name == "" || s.Latitude == nil || s.Longitude == nil {
			skipped++
			continue
		}
		records = append(records, StationRecord{
			StopID:    s.Id,
			Name:      s.Name,
			Latitude:  *s.Latitude,
			Longitude: *s.Longitude,
		})
	}
	return records, skipped
}

func loadGTFSZip(path string) (sourceResult, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return sourceResult{}, err
	}
	static, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
	if err != nil {
		return sourceResult{}, fmt.Errorf("parsing GTFS archive %s: %w", path, err)
	}
	records, skipped := FromStatic(static)
	return sourceResult{records: records, skipped: skipped}, nil
}
