package api

import (
	"time"

	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

// DefaultTolerance is the largest gap still treated as agreement. Al Adhan
// rounds to the minute and uses its own solar model, so a couple of minutes
// of drift is expected.
const DefaultTolerance = 3 * time.Minute

// Difference is one event compared between the engine and the reference.
type Difference struct {
	Event     prayer.Event  `json:"event"`
	Local     time.Time     `json:"local"`
	Reference time.Time     `json:"reference"`
	Delta     time.Duration `json:"delta"`
	Estimated bool          `json:"estimated"`
}

// Within reports whether the gap is no larger than tol.
func (d Difference) Within(tol time.Duration) bool {
	delta := d.Delta
	if delta < 0 {
		delta = -delta
	}
	return delta <= tol
}

// Compare lines up local and reference times event by event.
// Delta is local minus reference.
func Compare(local, reference prayer.Times) []Difference {
	out := make([]Difference, 0, len(prayer.Events()))
	for _, e := range prayer.Events() {
		l, r := local.At(e), reference.At(e)
		out = append(out, Difference{
			Event:     e,
			Local:     l,
			Reference: r,
			Delta:     l.Sub(r),
			Estimated: local.Estimated.Has(e),
		})
	}
	return out
}

// MaxDelta returns the largest absolute gap among diffs.
func MaxDelta(diffs []Difference) time.Duration {
	var worst time.Duration
	for _, d := range diffs {
		delta := d.Delta
		if delta < 0 {
			delta = -delta
		}
		if delta > worst {
			worst = delta
		}
	}
	return worst
}
