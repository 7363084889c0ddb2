package scoring

import (
	"github.com/formengage/formengage/internal/form"
	"github.com/formengage/formengage/internal/submission"
)

// Contribution records which selected item supplied which part of a
// question's earned score. Choice questions fill OptionID; matrix questions
// fill RowID+ColumnID.
type Contribution struct {
	OptionID int64   `json:"option_id,omitempty"`
	RowID    int64   `json:"row_id,omitempty"`
	ColumnID int64   `json:"column_id,omitempty"`
	Label    string  `json:"label,omitempty"`
	Score    float64 `json:"score"`
}

type QuestionScore struct {
	QuestionID    int64             `json:"question_id"`
	Type          form.QuestionType `json:"type"`
	Earned        float64           `json:"earned"`
	Max           float64           `json:"max"`
	Contributions []Contribution    `json:"contributions,omitempty"`
}

// ScoreBreakdown is the per-question report for one submission, consumed by
// reporting/export collaborators.
type ScoreBreakdown struct {
	FormID    int64           `json:"form_id"`
	Total     float64         `json:"total"`
	Max       float64         `json:"max"`
	Questions []QuestionScore `json:"questions"`
}

// Breakdown scores every question of the form against the answers and
// reports per-item contributions for choice and matrix questions.
func Breakdown(f *form.Form, answers submission.AnswerSet) ScoreBreakdown {
	out := ScoreBreakdown{FormID: f.ID}
	for _, q := range f.Questions() {
		var ans *submission.Answer
		if a, ok := answers[q.ID]; ok {
			ans = &a
		}
		earned, max := ScoreQuestion(q, ans)
		qs := QuestionScore{
			QuestionID:    q.ID,
			Type:          q.Type,
			Earned:        earned,
			Max:           max,
			Contributions: contributions(q, ans),
		}
		out.Total += earned
		out.Max += max
		out.Questions = append(out.Questions, qs)
	}
	return out
}

func contributions(q *form.Question, ans *submission.Answer) []Contribution {
	if ans == nil {
		return nil
	}
	var out []Contribution
	switch {
	case q.Type.IsSingleChoice():
		if len(ans.SelectedOptionIDs) == 0 {
			return nil
		}
		if opt := optionByID(q, ans.SelectedOptionIDs[0]); opt != nil {
			out = append(out, Contribution{OptionID: opt.ID, Label: opt.Text, Score: opt.Score})
		}
	case q.Type == form.TypeMulti:
		for _, id := range ans.SelectedOptionIDs {
			if opt := optionByID(q, id); opt != nil {
				out = append(out, Contribution{OptionID: opt.ID, Label: opt.Text, Score: opt.Score})
			}
		}
	case q.Type == form.TypeMatrix:
		for _, row := range q.MatrixRows {
			colID, ok := ans.MatrixColumnFor(row.ID)
			if !ok {
				continue
			}
			for i := range q.MatrixColumns {
				if q.MatrixColumns[i].ID == colID {
					out = append(out, Contribution{
						RowID:    row.ID,
						ColumnID: colID,
						Label:    row.Label + " / " + q.MatrixColumns[i].Label,
						Score:    q.MatrixColumns[i].Score,
					})
					break
				}
			}
		}
	}
	return out
}

func optionByID(q *form.Question, id int64) *form.Option {
	for i := range q.Options {
		if q.Options[i].ID == id {
			return &q.Options[i]
		}
	}
	return nil
}
