// Package scoring computes per-question, per-submission, and maximum-possible
// scores. All scoring for a question type lives in ScoreQuestion — submission
// finalization, breakdown reporting, and test-mode preview all route through
// it rather than re-deriving the formulas.
package scoring

import (
	"github.com/formengage/formengage/internal/form"
	"github.com/formengage/formengage/internal/submission"
)

// DefaultSliderMax is the scoring ceiling for a slider question that has no
// slider config attached.
const DefaultSliderMax = 100

// ScoreQuestion returns the score earned by the answer and the question's
// maximum possible score. A nil or absent answer earns 0; the max depends
// only on the question.
func ScoreQuestion(q *form.Question, ans *submission.Answer) (earned, max float64) {
	switch q.Type {
	case form.TypeRadio, form.TypeDropdown:
		return scoreSingleChoice(q, ans), maxSingleChoice(q)
	case form.TypeMulti:
		return scoreMultiChoice(q, ans), maxMultiChoice(q)
	case form.TypeMatrix:
		return scoreMatrix(q, ans), maxMatrix(q)
	case form.TypeSlider:
		return scoreSlider(ans), maxSlider(q)
	default:
		// text, textarea, date, unknown: never scored
		return 0, 0
	}
}

// MaxQuestionScore returns the ceiling for one question.
func MaxQuestionScore(q *form.Question) float64 {
	_, max := ScoreQuestion(q, nil)
	return max
}

// ScoreSubmission totals ScoreQuestion over every question of the form.
func ScoreSubmission(f *form.Form, answers submission.AnswerSet) float64 {
	total := 0.0
	for _, q := range f.Questions() {
		var ans *submission.Answer
		if a, ok := answers[q.ID]; ok {
			ans = &a
		}
		earned, _ := ScoreQuestion(q, ans)
		total += earned
	}
	return total
}

// MaxFormScore totals the per-question ceilings, the denominator for
// percentage analytics.
func MaxFormScore(f *form.Form) float64 {
	max := 0.0
	for _, q := range f.Questions() {
		max += MaxQuestionScore(q)
	}
	return max
}

func scoreSingleChoice(q *form.Question, ans *submission.Answer) float64 {
	if ans == nil || len(ans.SelectedOptionIDs) == 0 {
		return 0
	}
	selected := ans.SelectedOptionIDs[0]
	for i := range q.Options {
		if q.Options[i].ID == selected {
			return q.Options[i].Score
		}
	}
	return 0
}

func maxSingleChoice(q *form.Question) float64 {
	max := 0.0
	for i := range q.Options {
		if q.Options[i].Score > max {
			max = q.Options[i].Score
		}
	}
	return max
}

func scoreMultiChoice(q *form.Question, ans *submission.Answer) float64 {
	if ans == nil {
		return 0
	}
	sum := 0.0
	for i := range q.Options {
		if ans.HasOption(q.Options[i].ID) {
			sum += q.Options[i].Score
		}
	}
	return sum
}

// maxMultiChoice sums only positive option scores: a negative-score option is
// never subtracted from the ceiling.
func maxMultiChoice(q *form.Question) float64 {
	sum := 0.0
	for i := range q.Options {
		if q.Options[i].Score > 0 {
			sum += q.Options[i].Score
		}
	}
	return sum
}

func scoreMatrix(q *form.Question, ans *submission.Answer) float64 {
	if ans == nil {
		return 0
	}
	sum := 0.0
	for _, row := range q.MatrixRows {
		colID, ok := ans.MatrixColumnFor(row.ID)
		if !ok {
			continue
		}
		for i := range q.MatrixColumns {
			if q.MatrixColumns[i].ID == colID {
				sum += q.MatrixColumns[i].Score
				break
			}
		}
	}
	return sum
}

func maxMatrix(q *form.Question) float64 {
	best := 0.0
	for i := range q.MatrixColumns {
		if q.MatrixColumns[i].Score > best {
			best = q.MatrixColumns[i].Score
		}
	}
	return float64(len(q.MatrixRows)) * best
}

// scoreSlider takes the raw numeric answer as the score — there is no lookup
// table for sliders.
func scoreSlider(ans *submission.Answer) float64 {
	if ans == nil || ans.NumericValue == nil {
		return 0
	}
	return *ans.NumericValue
}

func maxSlider(q *form.Question) float64 {
	if q.Slider == nil {
		return DefaultSliderMax
	}
	return q.Slider.Max
}
