package submission

import "context"

// Store persists submissions. Scoring happens in the caller: Finalize only
// records the computed total alongside the submitted status.
type Store interface {
	// Create starts an in-progress submission. A nonexistent form yields
	// ErrFormNotFound.
	Create(ctx context.Context, formID int64) (Submission, error)
	Get(ctx context.Context, id string) (Submission, error)
	SaveAnswers(ctx context.Context, id string, answers []Answer) (Submission, error)
	Finalize(ctx context.Context, id string, totalScore float64) (Submission, error)
	// ListByForm returns a form's submissions, submitted first ordered by
	// submission time ascending.
	ListByForm(ctx context.Context, formID int64, submittedOnly bool) ([]Submission, error)
}
