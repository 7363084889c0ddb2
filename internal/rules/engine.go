package rules

import (
	"fmt"
	"sort"

	"github.com/formengage/formengage/internal/submission"
)

// MatrixScoreLookup resolves the score of a matrix column through the form
// model. *form.Form satisfies this.
type MatrixScoreLookup interface {
	MatrixColumnScore(questionID, columnID int64) (float64, error)
}

// Result is a declarative visibility/navigation snapshot. Hidden and Visible
// are kept disjoint by the action application; SkipToPageID is
// last-write-wins; Terminate is sticky once set.
type Result struct {
	hidden  map[int64]struct{}
	visible map[int64]struct{}

	SkipToPageID     *int64
	Terminate        bool
	TriggeredRuleIDs []int64
}

func newResult() Result {
	return Result{
		hidden:  map[int64]struct{}{},
		visible: map[int64]struct{}{},
	}
}

func (r *Result) hide(id int64) {
	r.hidden[id] = struct{}{}
	delete(r.visible, id)
}

func (r *Result) show(id int64) {
	r.visible[id] = struct{}{}
	delete(r.hidden, id)
}

// IsHidden reports whether a question ended up hidden.
func (r *Result) IsHidden(id int64) bool {
	_, ok := r.hidden[id]
	return ok
}

// IsVisible reports whether a question was explicitly made visible.
func (r *Result) IsVisible(id int64) bool {
	_, ok := r.visible[id]
	return ok
}

// HiddenQuestionIDs returns the hidden set in ascending id order.
func (r *Result) HiddenQuestionIDs() []int64 { return sortedIDs(r.hidden) }

// VisibleQuestionIDs returns the explicitly-visible set in ascending id order.
func (r *Result) VisibleQuestionIDs() []int64 { return sortedIDs(r.visible) }

func sortedIDs(set map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Evaluate runs every rule, in the given order, against the answers.
//
// Every rule's action is applied whether or not its condition held: hide and
// show invert on a false condition, skip and terminate apply only on a true
// one. There is no early exit — even after termination is signalled the
// remaining rules still run, because the result is a snapshot, not control
// flow. A rule is recorded in TriggeredRuleIDs iff its condition held.
//
// The only error is a structural one from the matrix-score lookup; everything
// else that cannot be evaluated (unknown condition or action, missing
// operand, missing answer) resolves to non-triggering or no-op.
func Evaluate(ruleList []Rule, answers submission.AnswerSet, scores MatrixScoreLookup) (Result, error) {
	res := newResult()
	for i := range ruleList {
		rule := &ruleList[i]
		met, err := conditionMet(rule, answers, scores)
		if err != nil {
			return Result{}, fmt.Errorf("rule %d: %w", rule.ID, err)
		}
		if met {
			res.TriggeredRuleIDs = append(res.TriggeredRuleIDs, rule.ID)
		}
		applyAction(rule, met, &res)
	}
	return res, nil
}

func conditionMet(rule *Rule, answers submission.AnswerSet, scores MatrixScoreLookup) (bool, error) {
	ans, ok := answers[rule.SourceQuestionID]
	if !ok {
		return false, nil
	}

	switch rule.Condition {
	case IsSelected:
		if rule.TriggerOptionID == nil {
			return false, nil
		}
		return ans.HasOption(*rule.TriggerOptionID), nil

	case IsNotSelected:
		if rule.TriggerOptionID == nil {
			return false, nil
		}
		return !ans.HasOption(*rule.TriggerOptionID), nil

	case IsGreaterThan, IsLessThan, IsEqualTo, IsNotEqualTo:
		if ans.NumericValue == nil || rule.MinValue == nil {
			return false, nil
		}
		v, ref := *ans.NumericValue, *rule.MinValue
		switch rule.Condition {
		case IsGreaterThan:
			return v > ref, nil
		case IsLessThan:
			return v < ref, nil
		case IsEqualTo:
			return v == ref, nil
		default:
			return v != ref, nil
		}

	case IsInRange:
		if ans.NumericValue == nil || rule.MinValue == nil || rule.MaxValue == nil {
			return false, nil
		}
		v := *ans.NumericValue
		return v >= *rule.MinValue && v <= *rule.MaxValue, nil

	case RowHasSelection:
		if rule.MatrixRowID == nil {
			return false, nil
		}
		_, ok := ans.MatrixColumnFor(*rule.MatrixRowID)
		return ok, nil

	case RowHasColumn:
		if rule.MatrixRowID == nil || rule.MatrixColumnID == nil {
			return false, nil
		}
		col, ok := ans.MatrixColumnFor(*rule.MatrixRowID)
		return ok && col == *rule.MatrixColumnID, nil

	case ColumnSelected:
		if rule.MatrixColumnID == nil {
			return false, nil
		}
		for _, sel := range ans.MatrixSelections {
			if sel.ColumnID == *rule.MatrixColumnID {
				return true, nil
			}
		}
		return false, nil

	case ScoreGreaterThan, ScoreLessThan, ScoreEqualTo:
		if rule.ScoreValue == nil || scores == nil {
			return false, nil
		}
		sum, err := matrixScoreSum(rule.SourceQuestionID, ans, scores)
		if err != nil {
			return false, err
		}
		switch rule.Condition {
		case ScoreGreaterThan:
			return sum > *rule.ScoreValue, nil
		case ScoreLessThan:
			return sum < *rule.ScoreValue, nil
		default:
			return sum == *rule.ScoreValue, nil
		}

	case ScoreInRange:
		if rule.MinValue == nil || rule.MaxValue == nil || scores == nil {
			return false, nil
		}
		sum, err := matrixScoreSum(rule.SourceQuestionID, ans, scores)
		if err != nil {
			return false, err
		}
		return sum >= *rule.MinValue && sum <= *rule.MaxValue, nil

	default:
		return false, nil
	}
}

// matrixScoreSum totals the scores of the columns selected across all rows of
// the source question. Row order does not matter to the sum.
func matrixScoreSum(questionID int64, ans submission.Answer, scores MatrixScoreLookup) (float64, error) {
	sum := 0.0
	for _, sel := range ans.MatrixSelections {
		s, err := scores.MatrixColumnScore(questionID, sel.ColumnID)
		if err != nil {
			return 0, err
		}
		sum += s
	}
	return sum, nil
}

func applyAction(rule *Rule, met bool, res *Result) {
	switch rule.Action {
	case HideQuestion:
		if rule.TargetQuestionID == nil {
			return
		}
		if met {
			res.hide(*rule.TargetQuestionID)
		} else {
			res.show(*rule.TargetQuestionID)
		}
	case ShowQuestion:
		if rule.TargetQuestionID == nil {
			return
		}
		if met {
			res.show(*rule.TargetQuestionID)
		} else {
			res.hide(*rule.TargetQuestionID)
		}
	case SkipToPage:
		if met && rule.TargetPageID != nil {
			id := *rule.TargetPageID
			res.SkipToPageID = &id
		}
	case TerminateForm:
		if met {
			res.Terminate = true
		}
	}
}
