package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/formengage/formengage/internal/form"
	"github.com/formengage/formengage/internal/rules"
)

// POST /forms
func CreateFormHandler(store form.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f form.Form
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if f.Title == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		saved, err := store.PutForm(r.Context(), f)
		if err != nil {
			storeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, saved)
	}
}

// GET /forms
func ListFormsHandler(store form.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := form.ListOpts{}
		if v := r.URL.Query().Get("org_id"); v != "" {
			opts.OrgID, _ = strconv.ParseInt(v, 10, 64)
		}
		if v := r.URL.Query().Get("limit"); v != "" {
			opts.Limit, _ = strconv.Atoi(v)
		}
		if v := r.URL.Query().Get("offset"); v != "" {
			opts.Offset, _ = strconv.Atoi(v)
		}
		out, err := store.ListForms(r.Context(), opts)
		if err != nil {
			storeErr(w, err)
			return
		}
		if out == nil {
			out = []form.Summary{}
		}
		writeJSON(w, out)
	}
}

// GET /forms/{formID}
func GetFormHandler(store form.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := formID(r)
		if !ok {
			http.Error(w, "formID required", http.StatusBadRequest)
			return
		}
		f, err := store.GetForm(r.Context(), id)
		if err != nil {
			storeErr(w, err)
			return
		}
		writeJSON(w, f)
	}
}

// DELETE /forms/{formID}
func DeleteFormHandler(store form.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := formID(r)
		if !ok {
			http.Error(w, "formID required", http.StatusBadRequest)
			return
		}
		if err := store.DeleteForm(r.Context(), id); err != nil {
			storeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// PUT /forms/{formID}/rules
// Replaces the whole rule list; the array order is the evaluation order.
func PutRulesHandler(store form.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := formID(r)
		if !ok {
			http.Error(w, "formID required", http.StatusBadRequest)
			return
		}
		var rs []rules.Rule
		if err := json.NewDecoder(r.Body).Decode(&rs); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := store.PutRules(r.Context(), id, rs); err != nil {
			storeErr(w, err)
			return
		}
		writeJSON(w, rs)
	}
}

// GET /forms/{formID}/rules
func GetRulesHandler(store form.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := formID(r)
		if !ok {
			http.Error(w, "formID required", http.StatusBadRequest)
			return
		}
		rs, err := store.GetRules(r.Context(), id)
		if err != nil {
			storeErr(w, err)
			return
		}
		if rs == nil {
			rs = []rules.Rule{}
		}
		writeJSON(w, rs)
	}
}

// GET /public/forms/{formID} — respondent view, scores stripped.
func GetPublicFormHandler(store form.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := formID(r)
		if !ok {
			http.Error(w, "formID required", http.StatusBadRequest)
			return
		}
		f, err := store.GetFormPublic(r.Context(), id)
		if err != nil {
			storeErr(w, err)
			return
		}
		writeJSON(w, f)
	}
}
