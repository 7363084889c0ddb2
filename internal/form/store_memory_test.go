package form_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/formengage/formengage/internal/form"
	"github.com/formengage/formengage/internal/rules"
)

func i64(v int64) *int64 { return &v }

func TestMemoryStoreFormRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := form.NewInMemoryStore()

	f := form.Form{
		Title: "Onboarding",
		Pages: []form.Page{{ID: 1, Questions: []form.Question{
			{ID: 1, Type: form.TypeRadio, Options: []form.Option{{ID: 11, Text: "Yes", Score: 2}}},
		}}},
	}
	saved, err := store.PutForm(ctx, f)
	if err != nil {
		t.Fatal(err)
	}
	if saved.ID == 0 {
		t.Fatal("PutForm must assign an id")
	}

	got, err := store.GetForm(ctx, saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Onboarding" || len(got.Pages) != 1 {
		t.Errorf("round trip: %+v", got)
	}

	if _, err := store.GetForm(ctx, 9999); !errors.Is(err, form.ErrNotFound) {
		t.Errorf("missing form err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStorePublicFormStripsScores(t *testing.T) {
	ctx := context.Background()
	store := form.NewInMemoryStore()
	saved, err := store.PutForm(ctx, form.Form{
		Title: "Quiz",
		Pages: []form.Page{{ID: 1, Questions: []form.Question{
			{ID: 1, Type: form.TypeRadio, Options: []form.Option{{ID: 11, Score: 7}}},
		}}},
	})
	if err != nil {
		t.Fatal(err)
	}

	pub, err := store.GetFormPublic(ctx, saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if pub.Pages[0].Questions[0].Options[0].Score != 0 {
		t.Error("public view must strip option scores")
	}

	// the stored form keeps them
	full, err := store.GetForm(ctx, saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if full.Pages[0].Questions[0].Options[0].Score != 7 {
		t.Error("stripping a public copy must not mutate the stored form")
	}
}

func TestMemoryStoreRuleOrderPreserved(t *testing.T) {
	ctx := context.Background()
	store := form.NewInMemoryStore()
	saved, err := store.PutForm(ctx, form.Form{Title: "Ruled"})
	if err != nil {
		t.Fatal(err)
	}

	rs := []rules.Rule{
		{ID: 3, SourceQuestionID: 1, Condition: rules.IsSelected, TriggerOptionID: i64(1), Action: rules.TerminateForm},
		{ID: 1, SourceQuestionID: 1, Condition: rules.IsSelected, TriggerOptionID: i64(2), Action: rules.HideQuestion, TargetQuestionID: i64(5)},
		{ID: 2, SourceQuestionID: 1, Condition: rules.IsSelected, TriggerOptionID: i64(3), Action: rules.SkipToPage, TargetPageID: i64(2)},
	}
	if err := store.PutRules(ctx, saved.ID, rs); err != nil {
		t.Fatal(err)
	}
	got, err := store.GetRules(ctx, saved.ID)
	if err != nil {
		t.Fatal(err)
	}

	var gotIDs, wantIDs []int64
	for _, r := range got {
		gotIDs = append(gotIDs, r.ID)
	}
	for _, r := range rs {
		wantIDs = append(wantIDs, r.ID)
	}
	if !reflect.DeepEqual(gotIDs, wantIDs) {
		t.Errorf("rule order = %v, want %v (caller order is evaluation order)", gotIDs, wantIDs)
	}

	if err := store.PutRules(ctx, 9999, rs); !errors.Is(err, form.ErrNotFound) {
		t.Errorf("rules for missing form err = %v, want ErrNotFound", err)
	}
}
