package contracts

// UniverseSnapshot is the set of tickers at one point in time
type UniverseSnapshot map[string]struct{}

// NewUniverseSnapshot builds a set from a (possibly duplicated) ticker list
func NewUniverseSnapshot(tickers []string) UniverseSnapshot {
	s := make(UniverseSnapshot, len(tickers))
	for _, t := range tickers {
		s[t] = struct{}{}
	}
	return s
}

// Contains checks if a ticker is in the snapshot
func (u UniverseSnapshot) Contains(ticker string) bool {
	_, ok := u[ticker]
	return ok
}

// DiffResult lists tickers added to and removed from the universe since
// the previous version. Both slices are sorted and duplicate-free.
type DiffResult struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// IsEmpty reports whether the universe is unchanged
func (d DiffResult) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}
