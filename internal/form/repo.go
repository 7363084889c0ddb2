package form

import (
	"context"

	"github.com/formengage/formengage/internal/rules"
)

type ListOpts struct {
	OrgID  int64
	Limit  int
	Offset int
}

type Summary struct {
	ID        int64  `json:"id"`
	OrgID     int64  `json:"org_id,omitempty"`
	Title     string `json:"title"`
	CreatedAt int64  `json:"created_at,omitempty"`
}

// Store persists forms and their ordered rule lists. Rule order is the
// evaluation order and must round-trip unchanged.
type Store interface {
	PutForm(ctx context.Context, f Form) (Form, error)
	GetForm(ctx context.Context, id int64) (Form, error)
	// GetFormPublic is GetForm with option and matrix-column scores stripped,
	// for delivery to respondents.
	GetFormPublic(ctx context.Context, id int64) (Form, error)
	ListForms(ctx context.Context, opts ListOpts) ([]Summary, error)
	DeleteForm(ctx context.Context, id int64) error

	PutRules(ctx context.Context, formID int64, rs []rules.Rule) error
	GetRules(ctx context.Context, formID int64) ([]rules.Rule, error)
}
