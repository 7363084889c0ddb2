package submission

import "errors"

var ErrNotFound = errors.New("submission not found")
var ErrAlreadySubmitted = errors.New("submission already submitted")

// ErrFormNotFound is returned by Store.Create when the target form does not
// exist. It is deliberately local to this package: importing the form
// package's sentinel here would cycle the import graph.
var ErrFormNotFound = errors.New("form not found")

const (
	StatusInProgress = "in_progress"
	StatusSubmitted  = "submitted"
)

// MatrixSelection pairs a matrix row with the single column chosen for it.
type MatrixSelection struct {
	RowID    int64 `json:"row_id"`
	ColumnID int64 `json:"column_id"`
}

// Answer is the respondent's answer to one question. Which fields are
// populated depends on the question type; engines read only what the type
// calls for and ignore the rest.
type Answer struct {
	QuestionID        int64             `json:"question_id"`
	SelectedOptionIDs []int64           `json:"selected_option_ids,omitempty"`
	NumericValue      *float64          `json:"numeric_value,omitempty"`
	TextValue         string            `json:"text_value,omitempty"`
	MatrixSelections  []MatrixSelection `json:"matrix_selections,omitempty"`
}

// AnswerSet is a snapshot of all answers of one submission, keyed by question.
type AnswerSet map[int64]Answer

// MatrixColumnFor returns the column selected for a row, if any. When the
// same row appears more than once the last occurrence wins.
func (a Answer) MatrixColumnFor(rowID int64) (int64, bool) {
	col, ok := int64(0), false
	for _, sel := range a.MatrixSelections {
		if sel.RowID == rowID {
			col, ok = sel.ColumnID, true
		}
	}
	return col, ok
}

// HasOption reports whether an option id is among the selected ones.
func (a Answer) HasOption(optionID int64) bool {
	for _, id := range a.SelectedOptionIDs {
		if id == optionID {
			return true
		}
	}
	return false
}

type Submission struct {
	ID          string    `json:"id"`
	FormID      int64     `json:"form_id"`
	Status      string    `json:"status"` // in_progress|submitted
	Answers     AnswerSet `json:"answers"`
	TotalScore  float64   `json:"total_score"`
	StartedAt   int64     `json:"started_at"`
	SubmittedAt int64     `json:"submitted_at,omitempty"`
}

// Merge overlays new answers onto the set, replacing per question.
func (s AnswerSet) Merge(in []Answer) {
	for _, a := range in {
		s[a.QuestionID] = a
	}
}
