package feeds

import (
	"strings"
)

// DefaultFeedBaseURL is the MTA realtime endpoint prefix every feed path is
// appended to.
const DefaultFeedBaseURL = "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/"

// Feed is one upstream realtime feed covering a group of co-routed lines.
type Feed struct {
	ID    string
	Path  string
	Lines []string
}

// URL returns the feed location under base.
func (f Feed) URL(base string) string {
	if base == "" {
		base = DefaultFeedBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + f.Path
}

// Locator returns the production source URL of the feed.
func (f Feed) Locator() string {
	return f.URL(DefaultFeedBaseURL)
}

// knownFeeds is ordered for listing; lookups go through feedsByID.
var knownFeeds = []Feed{
	{ID: "1", Path: "nyct%2Fgtfs", Lines: []string{"1", "2", "3", "4", "5", "6", "S"}},
	{ID: "26", Path: "nyct%2Fgtfs-ace", Lines: []string{"A", "C", "E"}},
	{ID: "16", Path: "nyct%2Fgtfs-l", Lines: []string{"L"}},
	{ID: "21", Path: "nyct%2Fgtfs-nqrw", Lines: []string{"N", "Q", "R", "W"}},
	{ID: "31", Path: "nyct%2Fgtfs-g", Lines: []string{"G"}},
	{ID: "36", Path: "nyct%2Fgtfs-jz", Lines: []string{"J", "Z"}},
	{ID: "51", Path: "nyct%2Fgtfs-7", Lines: []string{"7"}},
	{ID: "si", Path: "nyct%2Fgtfs-si", Lines: []string{"SIR"}},
	{ID: "bdfm", Path: "nyct%2Fgtfs-bdfm", Lines: []string{"B", "D", "F", "M"}},
}

var feedsByID = func() map[string]Feed {
	m := make(map[string]Feed, len(knownFeeds))
	for _, f := range knownFeeds {
		m[f.ID] = f
	}
	return m
}()

// Resolve maps a caller supplied feed identifier, in any letter case, onto
// its feed. Unknown or empty identifiers yield a KindInvalidFeedID error.
func Resolve(feedID string) (Feed, error) {
	f, ok := feedsByID[strings.ToLower(feedID)]
	if !ok {
		return Feed{}, &Error{Kind: KindInvalidFeedID, Op: "resolve", FeedID: feedID, Err: ErrInvalidFeedID}
	}
	return f, nil
}

// KnownFeeds returns a copy of the feed table in listing order.
func KnownFeeds() []Feed {
	out := make([]Feed, len(knownFeeds))
	for i, f := range knownFeeds {
		f.Lines = append([]string(nil), f.Lines...)
		out[i] = f
	}
	return out
}
