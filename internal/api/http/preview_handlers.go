package http

import (
	"encoding/json"
	"net/http"

	"github.com/formengage/formengage/internal/form"
	"github.com/formengage/formengage/internal/rules"
	"github.com/formengage/formengage/internal/scoring"
	"github.com/formengage/formengage/internal/submission"
)

type previewRequest struct {
	Answers []submission.Answer `json:"answers"`
}

type previewResponse struct {
	Evaluation ruleResultDTO          `json:"evaluation"`
	Breakdown  scoring.ScoreBreakdown `json:"breakdown"`
	TotalScore float64                `json:"total_score"`
}

// POST /forms/{formID}/preview
//
// Test mode: evaluates rules and scoring against the posted answers exactly
// as a real submission would be evaluated, and persists nothing.
func PreviewHandler(forms form.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := formID(r)
		if !ok {
			http.Error(w, "formID required", http.StatusBadRequest)
			return
		}
		var req previewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		f, err := forms.GetForm(r.Context(), id)
		if err != nil {
			storeErr(w, err)
			return
		}
		rs, err := forms.GetRules(r.Context(), id)
		if err != nil {
			storeErr(w, err)
			return
		}
		answers := submission.AnswerSet{}
		answers.Merge(req.Answers)

		res, err := rules.Evaluate(rs, answers, &f)
		if err != nil {
			storeErr(w, err)
			return
		}
		bd := scoring.Breakdown(&f, answers)
		writeJSON(w, previewResponse{
			Evaluation: toRuleResultDTO(res),
			Breakdown:  bd,
			TotalScore: bd.Total,
		})
	}
}
