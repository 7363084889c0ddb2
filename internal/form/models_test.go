package form

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseQuestionType(t *testing.T) {
	cases := map[string]QuestionType{
		"radio":      TypeRadio,
		"RADIO":      TypeRadio,
		"dropdown":   TypeDropdown,
		"multi":      TypeMulti,
		"checkbox":   TypeMulti,
		"matrix":     TypeMatrix,
		"slider":     TypeSlider,
		"text":       TypeText,
		"textarea":   TypeTextArea,
		"date":       TypeDate,
		"whatisthis": TypeUnknown,
		"":           TypeUnknown,
	}
	for in, want := range cases {
		if got := ParseQuestionType(in); got != want {
			t.Errorf("ParseQuestionType(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestQuestionTypeJSONRoundTrip(t *testing.T) {
	q := Question{ID: 1, Type: TypeMatrix}
	b, err := json.Marshal(q)
	if err != nil {
		t.Fatal(err)
	}
	var back Question
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back.Type != TypeMatrix {
		t.Errorf("round-trip type = %v, want matrix", back.Type)
	}

	// unknown stored names decode without error
	var q2 Question
	if err := json.Unmarshal([]byte(`{"id":2,"type":"hologram"}`), &q2); err != nil {
		t.Fatal(err)
	}
	if q2.Type != TypeUnknown {
		t.Errorf("unknown type name decoded to %v, want TypeUnknown", q2.Type)
	}
}

func sampleForm() Form {
	return Form{
		ID:    1,
		Title: "Satisfaction",
		Pages: []Page{
			{ID: 1, Questions: []Question{
				{ID: 10, Type: TypeRadio, Options: []Option{{ID: 101, Text: "Yes", Score: 5}}},
			}},
			{ID: 2, Questions: []Question{
				{ID: 20, Type: TypeMatrix,
					MatrixRows:    []MatrixRow{{ID: 1, Label: "Speed"}},
					MatrixColumns: []MatrixColumn{{ID: 201, Label: "Good", Score: 3}}},
			}},
		},
	}
}

func TestFormLookups(t *testing.T) {
	f := sampleForm()

	if q, ok := f.Question(20); !ok || q.Type != TypeMatrix {
		t.Errorf("Question(20) = %+v, %v", q, ok)
	}
	if _, ok := f.Question(99); ok {
		t.Error("Question(99) must miss")
	}
	if p, ok := f.Page(2); !ok || p.ID != 2 {
		t.Errorf("Page(2) = %+v, %v", p, ok)
	}
	if got := len(f.Questions()); got != 2 {
		t.Errorf("Questions() len = %d, want 2", got)
	}
}

func TestMatrixColumnScore(t *testing.T) {
	f := sampleForm()

	score, err := f.MatrixColumnScore(20, 201)
	if err != nil || score != 3 {
		t.Errorf("score = %v, err = %v", score, err)
	}

	// unknown column: answer-side junk, scores 0 without error
	score, err = f.MatrixColumnScore(20, 999)
	if err != nil || score != 0 {
		t.Errorf("unknown column: score = %v, err = %v", score, err)
	}

	// non-matrix question and missing question are structural errors
	if _, err := f.MatrixColumnScore(10, 101); !errors.Is(err, ErrInvalidFormStructure) {
		t.Errorf("non-matrix question: err = %v", err)
	}
	if _, err := f.MatrixColumnScore(99, 201); !errors.Is(err, ErrInvalidFormStructure) {
		t.Errorf("missing question: err = %v", err)
	}
}

func TestStripScores(t *testing.T) {
	f := sampleForm()
	f.StripScores()
	if f.Pages[0].Questions[0].Options[0].Score != 0 {
		t.Error("option score must be stripped")
	}
	if f.Pages[1].Questions[0].MatrixColumns[0].Score != 0 {
		t.Error("matrix column score must be stripped")
	}
}
