package form

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/formengage/formengage/internal/rules"
)

type memoryStore struct {
	mu     sync.RWMutex
	nextID int64
	forms  map[int64]Form
	rules  map[int64][]rules.Rule
}

// NewInMemoryStore is for tests and test-mode tooling.
func NewInMemoryStore() Store {
	return &memoryStore{
		nextID: 1,
		forms:  map[int64]Form{},
		rules:  map[int64][]rules.Rule{},
	}
}

func (m *memoryStore) PutForm(_ context.Context, f Form) (Form, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f.ID == 0 {
		f.ID = m.nextID
		m.nextID++
	} else if f.ID >= m.nextID {
		m.nextID = f.ID + 1
	}
	if f.CreatedAt == 0 {
		f.CreatedAt = time.Now().Unix()
	}
	m.forms[f.ID] = f
	return f, nil
}

func (m *memoryStore) GetForm(_ context.Context, id int64) (Form, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.forms[id]
	if !ok {
		return Form{}, fmt.Errorf("form %d: %w", id, ErrNotFound)
	}
	return cloneForm(f), nil
}

func (m *memoryStore) GetFormPublic(ctx context.Context, id int64) (Form, error) {
	f, err := m.GetForm(ctx, id)
	if err != nil {
		return Form{}, err
	}
	f.StripScores()
	return f, nil
}

func (m *memoryStore) ListForms(_ context.Context, opts ListOpts) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Summary
	for _, f := range m.forms {
		if opts.OrgID != 0 && f.OrgID != opts.OrgID {
			continue
		}
		out = append(out, Summary{ID: f.ID, OrgID: f.OrgID, Title: f.Title, CreatedAt: f.CreatedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return nil, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *memoryStore) DeleteForm(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.forms[id]; !ok {
		return fmt.Errorf("form %d: %w", id, ErrNotFound)
	}
	delete(m.forms, id)
	delete(m.rules, id)
	return nil
}

func (m *memoryStore) PutRules(_ context.Context, formID int64, rs []rules.Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.forms[formID]; !ok {
		return fmt.Errorf("form %d: %w", formID, ErrNotFound)
	}
	cp := make([]rules.Rule, len(rs))
	copy(cp, rs)
	m.rules[formID] = cp
	return nil
}

func (m *memoryStore) GetRules(_ context.Context, formID int64) ([]rules.Rule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.forms[formID]; !ok {
		return nil, fmt.Errorf("form %d: %w", formID, ErrNotFound)
	}
	rs := m.rules[formID]
	cp := make([]rules.Rule, len(rs))
	copy(cp, rs)
	return cp, nil
}

// cloneForm deep-copies the page tree so callers can strip or mutate their
// copy without racing other readers.
func cloneForm(f Form) Form {
	pages := make([]Page, len(f.Pages))
	for i, p := range f.Pages {
		qs := make([]Question, len(p.Questions))
		for j, q := range p.Questions {
			qc := q
			qc.Options = append([]Option(nil), q.Options...)
			qc.MatrixRows = append([]MatrixRow(nil), q.MatrixRows...)
			qc.MatrixColumns = append([]MatrixColumn(nil), q.MatrixColumns...)
			if q.Slider != nil {
				s := *q.Slider
				qc.Slider = &s
			}
			qs[j] = qc
		}
		pc := p
		pc.Questions = qs
		pages[i] = pc
	}
	f.Pages = pages
	return f
}
