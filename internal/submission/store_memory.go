package submission

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu         sync.RWMutex
	subs       map[string]Submission
	formExists func(ctx context.Context, formID int64) bool
}

// MemoryOption configures the in-memory store.
type MemoryOption func(*memoryStore)

// WithFormExists makes Create reject unknown forms the way the SQL store's
// foreign-key lookup does. Without it every form id is accepted.
func WithFormExists(fn func(ctx context.Context, formID int64) bool) MemoryOption {
	return func(m *memoryStore) { m.formExists = fn }
}

func NewInMemoryStore(opts ...MemoryOption) Store {
	m := &memoryStore{subs: map[string]Submission{}}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *memoryStore) Create(ctx context.Context, formID int64) (Submission, error) {
	if m.formExists != nil && !m.formExists(ctx, formID) {
		return Submission{}, fmt.Errorf("form %d: %w", formID, ErrFormNotFound)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Submission{
		ID:        uuid.NewString(),
		FormID:    formID,
		Status:    StatusInProgress,
		Answers:   AnswerSet{},
		StartedAt: time.Now().Unix(),
	}
	m.subs[s.ID] = s
	return s, nil
}

func (m *memoryStore) Get(_ context.Context, id string) (Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.subs[id]
	if !ok {
		return Submission{}, fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}
	return cloneSubmission(s), nil
}

func (m *memoryStore) SaveAnswers(_ context.Context, id string, answers []Answer) (Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok {
		return Submission{}, fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}
	if s.Status == StatusSubmitted {
		return Submission{}, ErrAlreadySubmitted
	}
	s = cloneSubmission(s)
	s.Answers.Merge(answers)
	m.subs[id] = s
	return cloneSubmission(s), nil
}

func (m *memoryStore) Finalize(_ context.Context, id string, totalScore float64) (Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok {
		return Submission{}, fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}
	if s.Status == StatusSubmitted {
		return Submission{}, ErrAlreadySubmitted
	}
	s.Status = StatusSubmitted
	s.TotalScore = totalScore
	s.SubmittedAt = time.Now().Unix()
	m.subs[id] = s
	return cloneSubmission(s), nil
}

func (m *memoryStore) ListByForm(_ context.Context, formID int64, submittedOnly bool) ([]Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Submission
	for _, s := range m.subs {
		if s.FormID != formID {
			continue
		}
		if submittedOnly && s.Status != StatusSubmitted {
			continue
		}
		out = append(out, cloneSubmission(s))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmittedAt != out[j].SubmittedAt {
			return out[i].SubmittedAt < out[j].SubmittedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func cloneSubmission(s Submission) Submission {
	answers := make(AnswerSet, len(s.Answers))
	for k, v := range s.Answers {
		v.SelectedOptionIDs = append([]int64(nil), v.SelectedOptionIDs...)
		v.MatrixSelections = append([]MatrixSelection(nil), v.MatrixSelections...)
		if v.NumericValue != nil {
			n := *v.NumericValue
			v.NumericValue = &n
		}
		answers[k] = v
	}
	s.Answers = answers
	return s
}
