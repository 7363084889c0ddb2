package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/formengage/formengage/internal/form"
	"github.com/formengage/formengage/internal/rules"
	"github.com/formengage/formengage/internal/scoring"
	"github.com/formengage/formengage/internal/submission"
)

func submissionID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "submissionID"))
}

// POST /public/forms/{formID}/submissions — start an anonymous submission.
func CreateSubmissionHandler(subs submission.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := formID(r)
		if !ok {
			http.Error(w, "formID required", http.StatusBadRequest)
			return
		}
		sub, err := subs.Create(r.Context(), id)
		if err != nil {
			storeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, sub)
	}
}

// POST /public/submissions/{submissionID}/answers — merge answers in.
func SaveAnswersHandler(subs submission.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := submissionID(r)
		if id == "" {
			http.Error(w, "submissionID required", http.StatusBadRequest)
			return
		}
		var answers []submission.Answer
		if err := json.NewDecoder(r.Body).Decode(&answers); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		sub, err := subs.SaveAnswers(r.Context(), id, answers)
		if err != nil {
			storeErr(w, err)
			return
		}
		writeJSON(w, sub)
	}
}

// POST /public/submissions/{submissionID}/visibility
//
// Evaluates the form's rules against the saved answers, with any answers in
// the request body overlaid on top, so a client can probe visibility for the
// page it is editing before saving. Returns the declarative rule snapshot.
func VisibilityHandler(forms form.Store, subs submission.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := submissionID(r)
		if id == "" {
			http.Error(w, "submissionID required", http.StatusBadRequest)
			return
		}
		var overlay []submission.Answer
		if r.Body != nil {
			// body is optional
			_ = json.NewDecoder(r.Body).Decode(&overlay)
		}
		sub, err := subs.Get(r.Context(), id)
		if err != nil {
			storeErr(w, err)
			return
		}
		res, err := evaluateSubmission(r, forms, sub, overlay)
		if err != nil {
			storeErr(w, err)
			return
		}
		writeJSON(w, toRuleResultDTO(res))
	}
}

// POST /public/submissions/{submissionID}/submit
//
// Scores the submission against the form and persists the total. A
// terminated form still submits: termination truncates filling, it does not
// void the answers already given.
func SubmitHandler(forms form.Store, subs submission.Store, invalidate func(formID int64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := submissionID(r)
		if id == "" {
			http.Error(w, "submissionID required", http.StatusBadRequest)
			return
		}
		sub, err := subs.Get(r.Context(), id)
		if err != nil {
			storeErr(w, err)
			return
		}
		f, err := forms.GetForm(r.Context(), sub.FormID)
		if err != nil {
			storeErr(w, err)
			return
		}
		total := scoring.ScoreSubmission(&f, sub.Answers)
		out, err := subs.Finalize(r.Context(), id, total)
		if err != nil {
			storeErr(w, err)
			return
		}
		if invalidate != nil {
			invalidate(sub.FormID)
		}
		writeJSON(w, out)
	}
}

// GET /forms/{formID}/submissions — builder listing.
func ListSubmissionsHandler(subs submission.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := formID(r)
		if !ok {
			http.Error(w, "formID required", http.StatusBadRequest)
			return
		}
		submittedOnly := r.URL.Query().Get("status") == submission.StatusSubmitted
		out, err := subs.ListByForm(r.Context(), id, submittedOnly)
		if err != nil {
			storeErr(w, err)
			return
		}
		if out == nil {
			out = []submission.Submission{}
		}
		writeJSON(w, out)
	}
}

// GET /submissions/{submissionID}/breakdown — per-question score report.
func BreakdownHandler(forms form.Store, subs submission.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := submissionID(r)
		if id == "" {
			http.Error(w, "submissionID required", http.StatusBadRequest)
			return
		}
		sub, err := subs.Get(r.Context(), id)
		if err != nil {
			storeErr(w, err)
			return
		}
		f, err := forms.GetForm(r.Context(), sub.FormID)
		if err != nil {
			storeErr(w, err)
			return
		}
		writeJSON(w, scoring.Breakdown(&f, sub.Answers))
	}
}

func evaluateSubmission(r *http.Request, forms form.Store, sub submission.Submission, overlay []submission.Answer) (rules.Result, error) {
	f, err := forms.GetForm(r.Context(), sub.FormID)
	if err != nil {
		return rules.Result{}, err
	}
	rs, err := forms.GetRules(r.Context(), sub.FormID)
	if err != nil {
		return rules.Result{}, err
	}
	answers := sub.Answers
	if answers == nil {
		answers = submission.AnswerSet{}
	}
	answers.Merge(overlay)
	return rules.Evaluate(rs, answers, &f)
}
