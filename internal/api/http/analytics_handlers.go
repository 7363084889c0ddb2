package http

import (
	"net/http"
	"strconv"

	"github.com/formengage/formengage/internal/analytics"
	"github.com/formengage/formengage/internal/form"
	"github.com/formengage/formengage/internal/scoring"
	"github.com/formengage/formengage/internal/submission"
)

// GET /forms/{formID}/analytics/summary — sample-convention statistics.
func SummaryHandler(forms form.Store, subs submission.Store, cache *analytics.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := formID(r)
		if !ok {
			http.Error(w, "formID required", http.StatusBadRequest)
			return
		}
		if cached, err := cache.GetSummary(r.Context(), id); err == nil && cached != nil {
			writeJSON(w, *cached)
			return
		}
		scores, _, err := formScores(r, forms, subs, id)
		if err != nil {
			storeErr(w, err)
			return
		}
		s := analytics.Summarize(scores)
		_ = cache.SetSummary(r.Context(), id, s)
		writeJSON(w, s)
	}
}

// GET /forms/{formID}/analytics/distribution — population-convention
// statistics plus score ranges.
func DistributionHandler(forms form.Store, subs submission.Store, cache *analytics.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := formID(r)
		if !ok {
			http.Error(w, "formID required", http.StatusBadRequest)
			return
		}
		if cached, err := cache.GetDistribution(r.Context(), id); err == nil && cached != nil {
			writeJSON(w, *cached)
			return
		}
		scores, maxPossible, err := formScores(r, forms, subs, id)
		if err != nil {
			storeErr(w, err)
			return
		}
		d := analytics.Distribute(scores, maxPossible)
		_ = cache.SetDistribution(r.Context(), id, d)
		writeJSON(w, d)
	}
}

// GET /forms/{formID}/analytics/top?limit=N — ranked submissions.
func TopPerformersHandler(subs submission.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := formID(r)
		if !ok {
			http.Error(w, "formID required", http.StatusBadRequest)
			return
		}
		limit := 10
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}
		list, err := subs.ListByForm(r.Context(), id, true)
		if err != nil {
			storeErr(w, err)
			return
		}
		scored := make([]analytics.ScoredSubmission, len(list))
		for i, s := range list {
			scored[i] = analytics.ScoredSubmission{ID: s.ID, Score: s.TotalScore, SubmittedAt: s.SubmittedAt}
		}
		writeJSON(w, analytics.TopPerformers(scored, limit))
	}
}

func formScores(r *http.Request, forms form.Store, subs submission.Store, id int64) ([]float64, float64, error) {
	f, err := forms.GetForm(r.Context(), id)
	if err != nil {
		return nil, 0, err
	}
	list, err := subs.ListByForm(r.Context(), id, true)
	if err != nil {
		return nil, 0, err
	}
	scores := make([]float64, len(list))
	for i, s := range list {
		scores[i] = s.TotalScore
	}
	return scores, scoring.MaxFormScore(&f), nil
}
