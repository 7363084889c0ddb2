package form

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/formengage/formengage/internal/rules"
)

// SQLStore persists forms in a single table: the page tree and the ordered
// rule list are JSON columns, as the JSON array preserves rule order exactly.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutForm(ctx context.Context, f Form) (Form, error) {
	pj, err := json.Marshal(f.Pages)
	if err != nil {
		return Form{}, err
	}
	if f.CreatedAt == 0 {
		f.CreatedAt = time.Now().Unix()
	}
	if f.ID == 0 {
		err = s.db.QueryRowContext(ctx,
			`INSERT INTO forms (org_id,title,description,pages_json,rules_json,created_at)
			 VALUES ($1,$2,$3,$4,'[]',$5) RETURNING id`,
			f.OrgID, f.Title, f.Description, string(pj), f.CreatedAt).Scan(&f.ID)
		return f, err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE forms SET org_id=$1, title=$2, description=$3, pages_json=$4 WHERE id=$5`,
		f.OrgID, f.Title, f.Description, string(pj), f.ID)
	return f, err
}

func (s *SQLStore) GetForm(ctx context.Context, id int64) (Form, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,org_id,title,description,pages_json,created_at FROM forms WHERE id=$1`, id)
	var f Form
	var pj string
	if err := row.Scan(&f.ID, &f.OrgID, &f.Title, &f.Description, &pj, &f.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Form{}, fmt.Errorf("form %d: %w", id, ErrNotFound)
		}
		return Form{}, err
	}
	if err := json.Unmarshal([]byte(pj), &f.Pages); err != nil {
		return Form{}, err
	}
	return f, nil
}

func (s *SQLStore) GetFormPublic(ctx context.Context, id int64) (Form, error) {
	f, err := s.GetForm(ctx, id)
	if err != nil {
		return Form{}, err
	}
	f.StripScores()
	return f, nil
}

func (s *SQLStore) ListForms(ctx context.Context, opts ListOpts) ([]Summary, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := `SELECT id,org_id,title,created_at FROM forms`
	args := []interface{}{}
	if opts.OrgID != 0 {
		q += ` WHERE org_id=$1`
		args = append(args, opts.OrgID)
	}
	q += fmt.Sprintf(` ORDER BY id LIMIT %d OFFSET %d`, limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Summary
	for rows.Next() {
		var fs Summary
		if err := rows.Scan(&fs.ID, &fs.OrgID, &fs.Title, &fs.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, fs)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteForm(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM forms WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("form %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLStore) PutRules(ctx context.Context, formID int64, rs []rules.Rule) error {
	if rs == nil {
		rs = []rules.Rule{}
	}
	rj, err := json.Marshal(rs)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE forms SET rules_json=$1 WHERE id=$2`, string(rj), formID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("form %d: %w", formID, ErrNotFound)
	}
	return nil
}

func (s *SQLStore) GetRules(ctx context.Context, formID int64) ([]rules.Rule, error) {
	row := s.db.QueryRowContext(ctx, `SELECT rules_json FROM forms WHERE id=$1`, formID)
	var rj string
	if err := row.Scan(&rj); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("form %d: %w", formID, ErrNotFound)
		}
		return nil, err
	}
	var rs []rules.Rule
	if err := json.Unmarshal([]byte(rj), &rs); err != nil {
		return nil, err
	}
	return rs, nil
}
