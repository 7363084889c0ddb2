// Package analytics derives descriptive statistics, score distributions, and
// rankings from the total scores of a form's submissions.
//
// Two variance conventions coexist on purpose: Summarize reports the sample
// convention (divide by n-1), Distribute reports the population convention
// (divide by n). Callers depend on the distinction; do not unify them.
package analytics

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// Summary is the sample-convention analytics view.
type Summary struct {
	Count          int     `json:"count"`
	Mean           float64 `json:"mean"`
	Median         float64 `json:"median"`
	Mode           float64 `json:"mode"`
	Min            float64 `json:"min"`
	Max            float64 `json:"max"`
	VarianceSample float64 `json:"variance_sample"`
	StdDevSample   float64 `json:"std_dev_sample"`
}

// Summarize computes the sample-convention view over a form's submission
// scores. Zero scores yield a zero Summary, never a division error.
func Summarize(scores []float64) Summary {
	s := Summary{Count: len(scores)}
	if len(scores) == 0 {
		return s
	}
	s.Mean = orZero(stats.Mean(scores))
	s.Median = orZero(stats.Median(scores))
	s.Mode = mode(scores)
	s.Min = orZero(stats.Min(scores))
	s.Max = orZero(stats.Max(scores))
	if len(scores) > 1 {
		s.VarianceSample = orZero(stats.SampleVariance(scores))
		s.StdDevSample = orZero(stats.StandardDeviationSample(scores))
	}
	return s
}

// mode returns the most frequent score. Ties break toward the lowest value,
// so equal inputs always produce the same mode.
func mode(scores []float64) float64 {
	counts := make(map[float64]int, len(scores))
	for _, v := range scores {
		counts[v]++
	}
	best, bestN := math.Inf(1), 0
	for v, n := range counts {
		if n > bestN || (n == bestN && v < best) {
			best, bestN = v, n
		}
	}
	return best
}

// ScoreRange is one of five equal-width buckets over [0, max possible].
// Bounds are inclusive on both ends, so a score sitting exactly on a shared
// boundary counts in both adjacent buckets.
type ScoreRange struct {
	MinPercent float64 `json:"min_percent"`
	MaxPercent float64 `json:"max_percent"`
	MinScore   float64 `json:"min_score"`
	MaxScore   float64 `json:"max_score"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Distribution is the population-convention analytics view.
type Distribution struct {
	Count              int          `json:"count"`
	Mean               float64      `json:"mean"`
	VariancePopulation float64      `json:"variance_population"`
	StdDevPopulation   float64      `json:"std_dev_population"`
	Skewness           float64      `json:"skewness"`
	KurtosisExcess     float64      `json:"kurtosis_excess"`
	Ranges             []ScoreRange `json:"ranges"`
}

const rangeBuckets = 5

// Distribute computes the population-convention view plus the five score
// ranges spanning [0, maxPossible].
func Distribute(scores []float64, maxPossible float64) Distribution {
	d := Distribution{Count: len(scores)}
	if len(scores) > 0 {
		d.Mean = orZero(stats.Mean(scores))
		d.VariancePopulation = orZero(stats.PopulationVariance(scores))
		d.StdDevPopulation = orZero(stats.StandardDeviationPopulation(scores))
		d.Skewness = skewness(scores, d.Mean, d.StdDevPopulation)
		d.KurtosisExcess = kurtosisExcess(scores, d.Mean, d.StdDevPopulation)
	}
	d.Ranges = scoreRanges(scores, maxPossible)
	return d
}

// skewness is the third standardized moment, population convention.
// montanaflynn/stats has no skewness API, so the moment is taken directly.
func skewness(scores []float64, mean, sigma float64) float64 {
	if sigma == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range scores {
		sum += math.Pow(v-mean, 3)
	}
	return sum / (float64(len(scores)) * math.Pow(sigma, 3))
}

// kurtosisExcess is the fourth standardized moment minus 3, population
// convention.
func kurtosisExcess(scores []float64, mean, sigma float64) float64 {
	if sigma == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range scores {
		sum += math.Pow(v-mean, 4)
	}
	return sum/(float64(len(scores))*math.Pow(sigma, 4)) - 3
}

func scoreRanges(scores []float64, maxPossible float64) []ScoreRange {
	out := make([]ScoreRange, 0, rangeBuckets)
	total := len(scores)
	for i := 0; i < rangeBuckets; i++ {
		loPct := float64(i) * 100 / rangeBuckets
		hiPct := float64(i+1) * 100 / rangeBuckets
		lo := maxPossible * loPct / 100
		hi := maxPossible * hiPct / 100
		r := ScoreRange{MinPercent: loPct, MaxPercent: hiPct, MinScore: lo, MaxScore: hi}
		for _, v := range scores {
			if v >= lo && v <= hi {
				r.Count++
			}
		}
		if total > 0 {
			r.Percentage = float64(r.Count) * 100 / float64(total)
		}
		out = append(out, r)
	}
	return out
}

// ScoredSubmission is the minimal view ranking needs.
type ScoredSubmission struct {
	ID          string  `json:"id"`
	Score       float64 `json:"score"`
	SubmittedAt int64   `json:"submitted_at"`
}

type RankedSubmission struct {
	Rank int `json:"rank"`
	ScoredSubmission
}

// TopPerformers ranks submissions by score descending, ties broken by
// earliest submission time. Ranks are 1-based and strictly increasing: equal
// scores never share a rank. limit <= 0 means no limit.
func TopPerformers(subs []ScoredSubmission, limit int) []RankedSubmission {
	sorted := make([]ScoredSubmission, len(subs))
	copy(sorted, subs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].SubmittedAt < sorted[j].SubmittedAt
	})
	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}
	out := make([]RankedSubmission, len(sorted))
	for i, s := range sorted {
		out[i] = RankedSubmission{Rank: i + 1, ScoredSubmission: s}
	}
	return out
}

func orZero(v float64, err error) float64 {
	if err != nil {
		return 0
	}
	return v
}
