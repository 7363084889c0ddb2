package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/formengage/formengage/internal/form"
	"github.com/formengage/formengage/internal/rules"
	"github.com/formengage/formengage/internal/submission"
)

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func formID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "formID"), 10, 64)
	return id, err == nil && id > 0
}

// storeErr maps domain sentinels onto HTTP status codes.
func storeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, form.ErrNotFound), errors.Is(err, submission.ErrNotFound),
		errors.Is(err, submission.ErrFormNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, submission.ErrAlreadySubmitted):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, form.ErrInvalidFormStructure):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ruleResultDTO is the wire shape of a rules.Result: the sets become sorted
// arrays so identical inputs serialize identically.
type ruleResultDTO struct {
	HiddenQuestionIDs  []int64 `json:"hidden_question_ids"`
	VisibleQuestionIDs []int64 `json:"visible_question_ids"`
	SkipToPageID       *int64  `json:"skip_to_page_id,omitempty"`
	Terminate          bool    `json:"terminate"`
	TriggeredRuleIDs   []int64 `json:"triggered_rule_ids"`
}

func toRuleResultDTO(res rules.Result) ruleResultDTO {
	dto := ruleResultDTO{
		HiddenQuestionIDs:  res.HiddenQuestionIDs(),
		VisibleQuestionIDs: res.VisibleQuestionIDs(),
		SkipToPageID:       res.SkipToPageID,
		Terminate:          res.Terminate,
		TriggeredRuleIDs:   res.TriggeredRuleIDs,
	}
	if dto.HiddenQuestionIDs == nil {
		dto.HiddenQuestionIDs = []int64{}
	}
	if dto.VisibleQuestionIDs == nil {
		dto.VisibleQuestionIDs = []int64{}
	}
	if dto.TriggeredRuleIDs == nil {
		dto.TriggeredRuleIDs = []int64{}
	}
	return dto
}
