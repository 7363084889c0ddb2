package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFormStructure marks a form that violates a structural invariant
// the caller was supposed to enforce (e.g. a matrix question carrying no
// columns). Distinct from "no answer", which is never an error.
var ErrInvalidFormStructure = errors.New("invalid form structure")

var ErrNotFound = errors.New("form not found")

// QuestionType is resolved once when a form is decoded or constructed.
// Scoring and rule evaluation switch on it directly; nothing downstream
// re-parses a display string.
type QuestionType int

const (
	TypeUnknown QuestionType = iota
	TypeRadio
	TypeDropdown
	TypeMulti
	TypeMatrix
	TypeSlider
	TypeText
	TypeTextArea
	TypeDate
)

var typeNames = map[QuestionType]string{
	TypeRadio:    "radio",
	TypeDropdown: "dropdown",
	TypeMulti:    "multi",
	TypeMatrix:   "matrix",
	TypeSlider:   "slider",
	TypeText:     "text",
	TypeTextArea: "textarea",
	TypeDate:     "date",
}

// ParseQuestionType maps a wire/storage name to a QuestionType.
// Unknown names map to TypeUnknown, which scores 0/0 and never triggers rules.
func ParseQuestionType(s string) QuestionType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "radio", "single_choice":
		return TypeRadio
	case "dropdown", "select":
		return TypeDropdown
	case "multi", "multi_choice", "checkbox":
		return TypeMulti
	case "matrix":
		return TypeMatrix
	case "slider", "scale":
		return TypeSlider
	case "text":
		return TypeText
	case "textarea", "text_area":
		return TypeTextArea
	case "date":
		return TypeDate
	default:
		return TypeUnknown
	}
}

func (t QuestionType) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "unknown"
}

// IsChoice reports whether the type answers by selecting options.
func (t QuestionType) IsChoice() bool {
	return t == TypeRadio || t == TypeDropdown || t == TypeMulti
}

// IsSingleChoice reports whether at most one option may be selected.
func (t QuestionType) IsSingleChoice() bool {
	return t == TypeRadio || t == TypeDropdown
}

func (t QuestionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *QuestionType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*t = ParseQuestionType(s)
	return nil
}

type Option struct {
	ID    int64   `json:"id"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

type MatrixRow struct {
	ID           int64  `json:"id"`
	Label        string `json:"label"`
	DisplayOrder int    `json:"display_order"`
}

type MatrixColumn struct {
	ID           int64   `json:"id"`
	Label        string  `json:"label"`
	DisplayOrder int     `json:"display_order"`
	Score        float64 `json:"score"`
}

type SliderConfig struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// Question carries exactly one of Options, MatrixRows+MatrixColumns, or
// Slider, depending on Type. Text-family questions carry none.
type Question struct {
	ID         int64        `json:"id"`
	Type       QuestionType `json:"type"`
	Text       string       `json:"text,omitempty"`
	IsRequired bool         `json:"is_required,omitempty"`

	Options       []Option       `json:"options,omitempty"`
	MatrixRows    []MatrixRow    `json:"matrix_rows,omitempty"`
	MatrixColumns []MatrixColumn `json:"matrix_columns,omitempty"`
	Slider        *SliderConfig  `json:"slider,omitempty"`
}

type Page struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title,omitempty"`
	DisplayOrder int        `json:"display_order"`
	Questions    []Question `json:"questions"`
}

type Form struct {
	ID          int64  `json:"id"`
	OrgID       int64  `json:"org_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Pages       []Page `json:"pages"`

	CreatedAt int64 `json:"created_at,omitempty"`
}

// Question finds a question by id across all pages.
func (f *Form) Question(id int64) (*Question, bool) {
	for pi := range f.Pages {
		qs := f.Pages[pi].Questions
		for qi := range qs {
			if qs[qi].ID == id {
				return &qs[qi], true
			}
		}
	}
	return nil, false
}

// Questions returns all questions in page/display order.
func (f *Form) Questions() []*Question {
	var out []*Question
	for pi := range f.Pages {
		qs := f.Pages[pi].Questions
		for qi := range qs {
			out = append(out, &qs[qi])
		}
	}
	return out
}

// Page finds a page by id.
func (f *Form) Page(id int64) (*Page, bool) {
	for i := range f.Pages {
		if f.Pages[i].ID == id {
			return &f.Pages[i], true
		}
	}
	return nil, false
}

// MatrixColumnScore resolves the score of one matrix column of a question.
// A rule engine evaluating score conditions goes through here; a matrix
// question with no columns is a structural error, an unknown column id is
// answer-side junk and resolves to 0.
func (f *Form) MatrixColumnScore(questionID, columnID int64) (float64, error) {
	q, ok := f.Question(questionID)
	if !ok {
		return 0, fmt.Errorf("question %d: %w", questionID, ErrInvalidFormStructure)
	}
	if q.Type != TypeMatrix || len(q.MatrixColumns) == 0 {
		return 0, fmt.Errorf("question %d has no matrix columns: %w", questionID, ErrInvalidFormStructure)
	}
	for i := range q.MatrixColumns {
		if q.MatrixColumns[i].ID == columnID {
			return q.MatrixColumns[i].Score, nil
		}
	}
	return 0, nil
}

// StripScores blanks option and matrix-column scores for public delivery.
// Respondents never see the scoring key.
func (f *Form) StripScores() {
	for pi := range f.Pages {
		qs := f.Pages[pi].Questions
		for qi := range qs {
			for oi := range qs[qi].Options {
				qs[qi].Options[oi].Score = 0
			}
			for ci := range qs[qi].MatrixColumns {
				qs[qi].MatrixColumns[ci].Score = 0
			}
		}
	}
}
