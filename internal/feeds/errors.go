package feeds

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies pipeline failures so the HTTP layer can map them to
// status codes without inspecting messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidFeedID
	KindFetchTimeout
	KindFetchTransport
	KindDecode
	KindAuthorizationLikely
)

func (k Kind) String() string {
	switch k {
	case KindInvalidFeedID:
		return "invalid_feed_id"
	case KindFetchTimeout:
		return "timeout"
	case KindFetchTransport:
		return "transport"
	case KindDecode:
		return "decode"
	case KindAuthorizationLikely:
		return "authorization"
	default:
		return "unknown"
	}
}

// ErrInvalidFeedID is returned (wrapped in *Error) for identifiers outside
// the known feed table.
var ErrInvalidFeedID = errors.New("invalid feed id")

// Error is the single error type produced by the resolve, fetch and decode
// stages and by the outage path.
type Error struct {
	Kind       Kind
	Op         string
	FeedID     string
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.FeedID != "" {
		fmt.Fprintf(&b, " feed %q", e.FeedID)
	}
	if e.URL != "" {
		fmt.Fprintf(&b, " %s", e.URL)
	}
	fmt.Fprintf(&b, ": %s", e.Kind)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// StatusCodeOf returns the upstream HTTP status recorded in err, or 0.
func StatusCodeOf(err error) int {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.StatusCode
	}
	return 0
}
