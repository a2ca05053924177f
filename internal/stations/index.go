// Package stations builds the read-only stop_id to station metadata index
// used to enrich realtime trip updates.
package stations

// StationRecord is the static metadata of one stop.
type StationRecord struct {
	StopID    string
	Name      string
	Latitude  float64
	Longitude float64
}

// Index maps stop ids to station records. It is immutable after
// construction and safe for concurrent reads.
type Index struct {
	byID map[string]StationRecord
}

// NewIndex builds an Index from records. Later records replace earlier ones
// with the same stop id.
func NewIndex(records []StationRecord) *Index {
	byID := make(map[string]StationRecord, len(records))
	for _, r := range records {
		byID[r.StopID] = r
	}
	return &Index{byID: byID}
}

// Empty returns an index with no stations.
func Empty() *Index {
	return &Index{byID: map[string]StationRecord{}}
}

// Get returns the station for stopID. A nil Index has no stations.
func (i *Index) Get(stopID string) (StationRecord, bool) {
	if i == nil {
		return StationRecord{}, false
	}
	r, ok := i.byID[stopID]
	return r, ok
}

// Len reports the number of stations.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.byID)
}
