package contracts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// PriceBar is one daily session
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceHistory is a chronological (oldest first) series of sessions for one ticker
type PriceHistory []PriceBar

// Latest returns the most recent session
func (h PriceHistory) Latest() (PriceBar, bool) {
	if len(h) == 0 {
		return PriceBar{}, false
	}
	return h[len(h)-1], true
}

// NewsItem is a headline with its publish time
type NewsItem struct {
	Title     string    `json:"title"`
	Published Timestamp `json:"published"`
}

// TimestampKind tags which representation a Timestamp carries
type TimestampKind int

const (
	TimestampNone  TimestampKind = iota // missing
	TimestampEpoch                      // numeric epoch seconds
	TimestampText                       // ISO8601-like string
)

// Timestamp is a publish time as delivered by a news source: either numeric
// epoch seconds or an ISO8601-like string. Resolve turns it into an instant.
type Timestamp struct {
	kind  TimestampKind
	epoch float64
	text  string
}

// EpochTimestamp wraps epoch seconds
func EpochTimestamp(sec float64) Timestamp {
	return Timestamp{kind: TimestampEpoch, epoch: sec}
}

// TextTimestamp wraps a textual timestamp
func TextTimestamp(s string) Timestamp {
	return Timestamp{kind: TimestampText, text: s}
}

// Kind returns the representation tag
func (t Timestamp) Kind() TimestampKind {
	return t.kind
}

// isoLayouts are tried in order; inputs without an offset are read as UTC
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Resolve returns the instant, or false when missing or unparseable
func (t Timestamp) Resolve() (time.Time, bool) {
	switch t.kind {
	case TimestampEpoch:
		if math.IsNaN(t.epoch) || math.IsInf(t.epoch, 0) {
			return time.Time{}, false
		}
		return time.Unix(int64(t.epoch), 0).UTC(), true
	case TimestampText:
		s := strings.TrimSuffix(strings.TrimSpace(t.text), "Z")
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range isoLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.UTC(), true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// UnmarshalJSON maps JSON numbers to epoch and strings to text; null or
// any other shape yields a missing timestamp rather than an error.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*t = Timestamp{}

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*t = TextTimestamp(s)
		return nil
	}

	if f, err := strconv.ParseFloat(string(data), 64); err == nil {
		*t = EpochTimestamp(f)
	}
	return nil
}

// MarshalJSON writes the original representation back out
func (t Timestamp) MarshalJSON() ([]byte, error) {
	switch t.kind {
	case TimestampEpoch:
		return []byte(strconv.FormatFloat(t.epoch, 'f', -1, 64)), nil
	case TimestampText:
		return json.Marshal(t.text)
	default:
		return []byte("null"), nil
	}
}

func (t Timestamp) String() string {
	switch t.kind {
	case TimestampEpoch:
		return fmt.Sprintf("epoch:%d", int64(t.epoch))
	case TimestampText:
		return "text:" + t.text
	default:
		return "none"
	}
}

// Period is a calendar lookback such as "6mo" or "90d"
type Period struct {
	Years  int
	Months int
	Days   int
}

// ParsePeriod parses "<n>d", "<n>mo" or "<n>y"
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	var unit string
	switch {
	case strings.HasSuffix(s, "mo"):
		unit = "mo"
	case strings.HasSuffix(s, "d"):
		unit = "d"
	case strings.HasSuffix(s, "y"):
		unit = "y"
	default:
		return Period{}, fmt.Errorf("invalid period %q: want <n>d, <n>mo or <n>y", s)
	}

	n, err := strconv.Atoi(strings.TrimSuffix(s, unit))
	if err != nil || n <= 0 {
		return Period{}, fmt.Errorf("invalid period %q: count must be a positive integer", s)
	}

	switch unit {
	case "mo":
		return Period{Months: n}, nil
	case "d":
		return Period{Days: n}, nil
	default:
		return Period{Years: n}, nil
	}
}

// Start returns the first instant covered by the period ending at end
func (p Period) Start(end time.Time) time.Time {
	return end.AddDate(-p.Years, -p.Months, -p.Days)
}

// String renders the period in ParsePeriod syntax
func (p Period) String() string {
	switch {
	case p.Years > 0 && p.Months == 0 && p.Days == 0:
		return fmt.Sprintf("%dy", p.Years)
	case p.Months > 0 && p.Years == 0 && p.Days == 0:
		return fmt.Sprintf("%dmo", p.Months)
	case p.Days > 0 && p.Years == 0 && p.Months == 0:
		return fmt.Sprintf("%dd", p.Days)
	default:
		return fmt.Sprintf("%dd", p.Years*365+p.Months*31+p.Days)
	}
}
