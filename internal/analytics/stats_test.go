package analytics

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{80, 85, 90})
	if s.Count != 3 {
		t.Errorf("count = %d, want 3", s.Count)
	}
	if !almostEqual(s.Mean, 85) {
		t.Errorf("mean = %v, want 85", s.Mean)
	}
	if !almostEqual(s.Median, 85) {
		t.Errorf("median = %v, want 85", s.Median)
	}
	if s.Min != 80 || s.Max != 90 {
		t.Errorf("min/max = %v/%v, want 80/90", s.Min, s.Max)
	}
	// sample variance: ((-5)^2 + 0 + 5^2) / (3-1) = 25
	if !almostEqual(s.VarianceSample, 25) {
		t.Errorf("sample variance = %v, want 25", s.VarianceSample)
	}
	if !almostEqual(s.StdDevSample, 5) {
		t.Errorf("sample stddev = %v, want 5", s.StdDevSample)
	}
}

func TestMedianEvenCount(t *testing.T) {
	s := Summarize([]float64{70, 80, 90, 100})
	if !almostEqual(s.Median, 85) {
		t.Errorf("median = %v, want 85 (average of 80 and 90)", s.Median)
	}
}

func TestModeTieBreak(t *testing.T) {
	// 70 and 90 both occur twice: the lower value wins
	s := Summarize([]float64{90, 70, 90, 70, 80})
	if s.Mode != 70 {
		t.Errorf("mode = %v, want 70", s.Mode)
	}

	s = Summarize([]float64{50, 50, 60})
	if s.Mode != 50 {
		t.Errorf("mode = %v, want 50", s.Mode)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Count != 0 || s.Mean != 0 || s.Median != 0 || s.VarianceSample != 0 {
		t.Errorf("empty input must summarize to zeros, got %+v", s)
	}
}

func TestSummarizeSingle(t *testing.T) {
	s := Summarize([]float64{42})
	if s.Mean != 42 || s.Median != 42 || s.Mode != 42 {
		t.Errorf("single score: %+v", s)
	}
	if s.VarianceSample != 0 || s.StdDevSample != 0 {
		t.Errorf("n=1 has no sample variance, got %+v", s)
	}
}

func TestDistributionConventionsDiffer(t *testing.T) {
	scores := []float64{80, 85, 90}
	d := Distribute(scores, 100)
	s := Summarize(scores)

	// population variance: ((-5)^2 + 0 + 5^2) / 3
	want := 50.0 / 3
	if !almostEqual(d.VariancePopulation, want) {
		t.Errorf("population variance = %v, want %v", d.VariancePopulation, want)
	}
	if almostEqual(d.VariancePopulation, s.VarianceSample) {
		t.Error("population and sample variance must not coincide for n=3 spread data")
	}
	if !almostEqual(d.StdDevPopulation, math.Sqrt(want)) {
		t.Errorf("population stddev = %v", d.StdDevPopulation)
	}
}

func TestSkewnessAndKurtosis(t *testing.T) {
	// symmetric data: zero skew
	d := Distribute([]float64{10, 20, 30}, 100)
	if !almostEqual(d.Skewness, 0) {
		t.Errorf("symmetric skewness = %v, want 0", d.Skewness)
	}

	// right tail pulls skewness positive
	d = Distribute([]float64{10, 10, 10, 70}, 100)
	if d.Skewness <= 0 {
		t.Errorf("right-tailed skewness = %v, want > 0", d.Skewness)
	}

	// two equal-frequency points: fourth moment / sigma^4 = 1, excess = -2
	d = Distribute([]float64{10, 30}, 100)
	if !almostEqual(d.KurtosisExcess, -2) {
		t.Errorf("kurtosis excess = %v, want -2", d.KurtosisExcess)
	}

	// constant data: sigma=0 resolves to zero moments, not NaN
	d = Distribute([]float64{50, 50, 50}, 100)
	if d.Skewness != 0 || d.KurtosisExcess != 0 {
		t.Errorf("constant data: skew=%v kurt=%v, want 0/0", d.Skewness, d.KurtosisExcess)
	}
}

func TestScoreRanges(t *testing.T) {
	// max possible 100: buckets [0,20],[20,40],[40,60],[60,80],[80,100]
	d := Distribute([]float64{10, 20, 55, 100}, 100)
	if len(d.Ranges) != 5 {
		t.Fatalf("ranges = %d, want 5", len(d.Ranges))
	}

	// 20 sits on the shared boundary and counts in both adjacent buckets
	if d.Ranges[0].Count != 2 {
		t.Errorf("bucket[0] count = %d, want 2 (10 and boundary 20)", d.Ranges[0].Count)
	}
	if d.Ranges[1].Count != 1 {
		t.Errorf("bucket[1] count = %d, want 1 (boundary 20)", d.Ranges[1].Count)
	}
	if d.Ranges[2].Count != 1 {
		t.Errorf("bucket[2] count = %d, want 1 (55)", d.Ranges[2].Count)
	}
	if d.Ranges[3].Count != 0 {
		t.Errorf("bucket[3] count = %d, want 0", d.Ranges[3].Count)
	}
	if d.Ranges[4].Count != 1 {
		t.Errorf("bucket[4] count = %d, want 1 (100)", d.Ranges[4].Count)
	}

	if !almostEqual(d.Ranges[0].Percentage, 50) {
		t.Errorf("bucket[0] percentage = %v, want 50", d.Ranges[0].Percentage)
	}
	if d.Ranges[2].MinScore != 40 || d.Ranges[2].MaxScore != 60 {
		t.Errorf("bucket[2] bounds = [%v,%v], want [40,60]", d.Ranges[2].MinScore, d.Ranges[2].MaxScore)
	}
}

func TestDistributeEmpty(t *testing.T) {
	d := Distribute(nil, 100)
	if d.Count != 0 || d.Mean != 0 || d.VariancePopulation != 0 {
		t.Errorf("empty distribution: %+v", d)
	}
	if len(d.Ranges) != 5 {
		t.Fatalf("empty input still reports 5 ranges, got %d", len(d.Ranges))
	}
	for i, r := range d.Ranges {
		if r.Count != 0 || r.Percentage != 0 {
			t.Errorf("range[%d] = %+v, want zero count and percentage", i, r)
		}
	}
}

func TestTopPerformers(t *testing.T) {
	subs := []ScoredSubmission{
		{ID: "a", Score: 90, SubmittedAt: 100}, // t1
		{ID: "b", Score: 90, SubmittedAt: 200}, // t2, same score: ranks after a
		{ID: "c", Score: 80, SubmittedAt: 50},
	}
	ranked := TopPerformers(subs, 0)
	if len(ranked) != 3 {
		t.Fatalf("ranked %d, want 3", len(ranked))
	}
	wantOrder := []string{"a", "b", "c"}
	for i, want := range wantOrder {
		if ranked[i].ID != want {
			t.Errorf("rank %d = %s, want %s", i+1, ranked[i].ID, want)
		}
		if ranked[i].Rank != i+1 {
			t.Errorf("rank field = %d, want %d (no shared ranks)", ranked[i].Rank, i+1)
		}
	}
}

func TestTopPerformersLimit(t *testing.T) {
	subs := []ScoredSubmission{
		{ID: "a", Score: 10, SubmittedAt: 1},
		{ID: "b", Score: 30, SubmittedAt: 2},
		{ID: "c", Score: 20, SubmittedAt: 3},
	}
	ranked := TopPerformers(subs, 2)
	if len(ranked) != 2 {
		t.Fatalf("ranked %d, want 2", len(ranked))
	}
	if ranked[0].ID != "b" || ranked[1].ID != "c" {
		t.Errorf("order = %s,%s; want b,c", ranked[0].ID, ranked[1].ID)
	}
	// input slice untouched
	if subs[0].ID != "a" {
		t.Error("ranking must not reorder the caller's slice")
	}
}
