package submission

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	sub, err := store.Create(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if sub.Status != StatusInProgress || sub.ID == "" {
		t.Fatalf("new submission: %+v", sub)
	}

	v := 42.0
	sub, err = store.SaveAnswers(ctx, sub.ID, []Answer{
		{QuestionID: 1, SelectedOptionIDs: []int64{10}},
		{QuestionID: 2, NumericValue: &v},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sub.Answers) != 2 {
		t.Fatalf("answers = %d, want 2", len(sub.Answers))
	}

	// saving again replaces per question, not wholesale
	sub, err = store.SaveAnswers(ctx, sub.ID, []Answer{{QuestionID: 1, SelectedOptionIDs: []int64{11}}})
	if err != nil {
		t.Fatal(err)
	}
	if len(sub.Answers) != 2 || sub.Answers[1].SelectedOptionIDs[0] != 11 {
		t.Errorf("merged answers: %+v", sub.Answers)
	}

	final, err := store.Finalize(ctx, sub.ID, 52)
	if err != nil {
		t.Fatal(err)
	}
	if final.Status != StatusSubmitted || final.TotalScore != 52 || final.SubmittedAt == 0 {
		t.Errorf("finalized: %+v", final)
	}

	if _, err := store.SaveAnswers(ctx, sub.ID, nil); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("save after submit err = %v, want ErrAlreadySubmitted", err)
	}
	if _, err := store.Finalize(ctx, sub.ID, 0); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("double finalize err = %v, want ErrAlreadySubmitted", err)
	}
	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing submission err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreListByForm(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	a, _ := store.Create(ctx, 1)
	b, _ := store.Create(ctx, 1)
	_, _ = store.Create(ctx, 2) // other form

	if _, err := store.Finalize(ctx, a.ID, 10); err != nil {
		t.Fatal(err)
	}

	all, err := store.ListByForm(ctx, 1, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("all = %d, want 2", len(all))
	}

	submitted, err := store.ListByForm(ctx, 1, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(submitted) != 1 || submitted[0].ID != a.ID {
		t.Errorf("submitted = %+v", submitted)
	}
	_ = b
}

func TestAnswerHelpers(t *testing.T) {
	a := Answer{
		QuestionID:        1,
		SelectedOptionIDs: []int64{3, 5},
		MatrixSelections: []MatrixSelection{
			{RowID: 1, ColumnID: 10},
			{RowID: 2, ColumnID: 20},
			{RowID: 1, ColumnID: 30}, // duplicate row: last wins
		},
	}
	if !a.HasOption(5) || a.HasOption(4) {
		t.Error("HasOption")
	}
	if col, ok := a.MatrixColumnFor(1); !ok || col != 30 {
		t.Errorf("MatrixColumnFor(1) = %d,%v; want 30,true", col, ok)
	}
	if _, ok := a.MatrixColumnFor(9); ok {
		t.Error("MatrixColumnFor(9) must miss")
	}
}

func TestMemoryStoreCreateChecksFormExists(t *testing.T) {
	ctx := context.Background()
	known := map[int64]bool{1: true}
	store := NewInMemoryStore(WithFormExists(func(_ context.Context, formID int64) bool {
		return known[formID]
	}))

	if _, err := store.Create(ctx, 1); err != nil {
		t.Fatalf("known form: %v", err)
	}
	if _, err := store.Create(ctx, 99); !errors.Is(err, ErrFormNotFound) {
		t.Errorf("unknown form err = %v, want ErrFormNotFound", err)
	}

	// without the check every form id is accepted
	open := NewInMemoryStore()
	if _, err := open.Create(ctx, 99); err != nil {
		t.Errorf("unchecked store err = %v, want nil", err)
	}
}
