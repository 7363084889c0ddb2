package rules

import (
	"encoding/json"
	"strings"
)

// Condition identifies what a rule tests against the source question's
// answer. Unknown names decode to ConditionUnknown, which never triggers.
type Condition int

const (
	ConditionUnknown Condition = iota
	IsSelected
	IsNotSelected
	IsGreaterThan
	IsLessThan
	IsEqualTo
	IsNotEqualTo
	IsInRange
	RowHasSelection
	RowHasColumn
	ColumnSelected
	ScoreGreaterThan
	ScoreLessThan
	ScoreEqualTo
	ScoreInRange
)

var conditionNames = map[Condition]string{
	IsSelected:       "is_selected",
	IsNotSelected:    "is_not_selected",
	IsGreaterThan:    "is_greater_than",
	IsLessThan:       "is_less_than",
	IsEqualTo:        "is_equal_to",
	IsNotEqualTo:     "is_not_equal_to",
	IsInRange:        "is_in_range",
	RowHasSelection:  "row_has_selection",
	RowHasColumn:     "row_has_column",
	ColumnSelected:   "column_selected",
	ScoreGreaterThan: "score_greater_than",
	ScoreLessThan:    "score_less_than",
	ScoreEqualTo:     "score_equal_to",
	ScoreInRange:     "score_in_range",
}

var conditionsByName = func() map[string]Condition {
	m := make(map[string]Condition, len(conditionNames))
	for c, n := range conditionNames {
		m[n] = c
	}
	return m
}()

func ParseCondition(s string) Condition {
	return conditionsByName[strings.ToLower(strings.TrimSpace(s))]
}

func (c Condition) String() string {
	if n, ok := conditionNames[c]; ok {
		return n
	}
	return "unknown"
}

func (c Condition) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }

func (c *Condition) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*c = ParseCondition(s)
	return nil
}

// isMatrixScore reports whether the condition sums selected matrix column
// scores, which requires resolving column scores through the form model.
func (c Condition) isMatrixScore() bool {
	switch c {
	case ScoreGreaterThan, ScoreLessThan, ScoreEqualTo, ScoreInRange:
		return true
	}
	return false
}

// Action identifies the effect a rule has on the evaluation result.
// Unknown names decode to ActionUnknown, which is a no-op.
type Action int

const (
	ActionUnknown Action = iota
	HideQuestion
	ShowQuestion
	SkipToPage
	TerminateForm
)

var actionNames = map[Action]string{
	HideQuestion:  "hide_question",
	ShowQuestion:  "show_question",
	SkipToPage:    "skip_to_page",
	TerminateForm: "terminate_form",
}

var actionsByName = func() map[string]Action {
	m := make(map[string]Action, len(actionNames))
	for a, n := range actionNames {
		m[n] = a
	}
	return m
}()

func ParseAction(s string) Action {
	return actionsByName[strings.ToLower(strings.TrimSpace(s))]
}

func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return "unknown"
}

func (a Action) MarshalJSON() ([]byte, error) { return json.Marshal(a.String()) }

func (a *Action) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*a = ParseAction(s)
	return nil
}

// Rule is one condition/action pair. Optional operands are pointers; a rule
// whose condition needs an operand that is nil simply never triggers — the
// caller's validation layer, not the engine, rejects malformed rules.
type Rule struct {
	ID               int64     `json:"id"`
	FormID           int64     `json:"form_id,omitempty"`
	SourceQuestionID int64     `json:"source_question_id"`
	Condition        Condition `json:"condition"`

	TriggerOptionID *int64   `json:"trigger_option_id,omitempty"`
	MinValue        *float64 `json:"min_value,omitempty"`
	MaxValue        *float64 `json:"max_value,omitempty"`
	MatrixRowID     *int64   `json:"matrix_row_id,omitempty"`
	MatrixColumnID  *int64   `json:"matrix_column_id,omitempty"`
	ScoreValue      *float64 `json:"score_value,omitempty"`

	Action           Action `json:"action"`
	TargetQuestionID *int64 `json:"target_question_id,omitempty"`
	TargetPageID     *int64 `json:"target_page_id,omitempty"`
}
