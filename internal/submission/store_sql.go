package submission

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) Create(ctx context.Context, formID int64) (Submission, error) {
	// ensure the form exists so the FK error doesn't leak to respondents
	var one int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM forms WHERE id=$1`, formID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, fmt.Errorf("form %d: %w", formID, ErrFormNotFound)
		}
		return Submission{}, err
	}
	sub := Submission{
		ID:        uuid.NewString(),
		FormID:    formID,
		Status:    StatusInProgress,
		Answers:   AnswerSet{},
		StartedAt: time.Now().Unix(),
	}
	aj, _ := json.Marshal(sub.Answers)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (id,form_id,status,total_score,answers_json,started_at)
		 VALUES ($1,$2,$3,0,$4,$5)`,
		sub.ID, sub.FormID, sub.Status, string(aj), sub.StartedAt)
	if err != nil {
		return Submission{}, err
	}
	return sub, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Submission, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,form_id,status,total_score,answers_json,started_at,COALESCE(submitted_at,0)
		 FROM submissions WHERE id=$1`, id)
	return scanSubmission(row, id)
}

func (s *SQLStore) SaveAnswers(ctx context.Context, id string, answers []Answer) (Submission, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return Submission{}, err
	}
	if sub.Status == StatusSubmitted {
		return Submission{}, ErrAlreadySubmitted
	}
	if sub.Answers == nil {
		sub.Answers = AnswerSet{}
	}
	sub.Answers.Merge(answers)
	aj, _ := json.Marshal(sub.Answers)
	if _, err := s.db.ExecContext(ctx,
		`UPDATE submissions SET answers_json=$1 WHERE id=$2`, string(aj), id); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

func (s *SQLStore) Finalize(ctx context.Context, id string, totalScore float64) (Submission, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return Submission{}, err
	}
	if sub.Status == StatusSubmitted {
		return Submission{}, ErrAlreadySubmitted
	}
	now := time.Now().Unix()
	if _, err := s.db.ExecContext(ctx,
		`UPDATE submissions SET status=$1, total_score=$2, submitted_at=$3 WHERE id=$4`,
		StatusSubmitted, totalScore, now, id); err != nil {
		return Submission{}, err
	}
	sub.Status = StatusSubmitted
	sub.TotalScore = totalScore
	sub.SubmittedAt = now
	return sub, nil
}

func (s *SQLStore) ListByForm(ctx context.Context, formID int64, submittedOnly bool) ([]Submission, error) {
	q := `SELECT id,form_id,status,total_score,answers_json,started_at,COALESCE(submitted_at,0)
	      FROM submissions WHERE form_id=$1`
	if submittedOnly {
		q += ` AND status='` + StatusSubmitted + `'`
	}
	q += ` ORDER BY COALESCE(submitted_at,0) ASC, id ASC`
	rows, err := s.db.QueryContext(ctx, q, formID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows, "")
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSubmission(row rowScanner, id string) (Submission, error) {
	var sub Submission
	var aj string
	if err := row.Scan(&sub.ID, &sub.FormID, &sub.Status, &sub.TotalScore, &aj, &sub.StartedAt, &sub.SubmittedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, fmt.Errorf("submission %s: %w", id, ErrNotFound)
		}
		return Submission{}, err
	}
	if err := json.Unmarshal([]byte(aj), &sub.Answers); err != nil {
		return Submission{}, err
	}
	return sub, nil
}
