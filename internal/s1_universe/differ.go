package s1_universe

import (
	"context"
	"sort"

	"github.com/wonny/epscreen/internal/contracts"
	"github.com/wonny/epscreen/pkg/logger"
)

// Diff compares two ticker lists as sets.
// added = current - previous, removed = previous - current, both sorted and unique.
func Diff(current, previous []string) contracts.DiffResult {
	cur := contracts.NewUniverseSnapshot(current)
	prev := contracts.NewUniverseSnapshot(previous)

	return contracts.DiffResult{
		Added:   minus(cur, prev),
		Removed: minus(prev, cur),
	}
}

func minus(a, b contracts.UniverseSnapshot) []string {
	out := make([]string, 0)
	for t := range a {
		if !b.Contains(t) {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

// Differ diffs the current universe against the previous version supplied by history
type Differ struct {
	history contracts.UniverseHistory
	logger  *logger.Logger
}

// NewDiffer creates a differ; a nil history means "no previous version"
func NewDiffer(history contracts.UniverseHistory, log *logger.Logger) *Differ {
	return &Differ{
		history: history,
		logger:  log,
	}
}

// Compute never fails: a missing previous version is an empty set
func (d *Differ) Compute(ctx context.Context, current []string) contracts.DiffResult {
	var prevText string
	if d.history != nil {
		prevText = d.history.PreviousUniverseText(ctx)
	}

	previous := ParseTickers(prevText)
	if len(previous) == 0 {
		d.logger.WithError(contracts.ErrDiffSourceUnavailable).Debug("Diffing against empty previous universe")
	}

	result := Diff(current, previous)

	d.logger.WithFields(map[string]interface{}{
		"current":  len(current),
		"previous": len(previous),
		"added":    len(result.Added),
		"removed":  len(result.Removed),
	}).Info("Universe diff computed")

	return result
}
