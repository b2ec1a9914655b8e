package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ResultReporter records final attempt scores in the attempts table. It
// satisfies session.ResultReporter for deployments where the score backend is
// this service's own database rather than a remote API.
type ResultReporter struct {
	pool *pgxpool.Pool
}

func NewResultReporter(pool *pgxpool.Pool) *ResultReporter {
	return &ResultReporter{pool: pool}
}

func (r *ResultReporter) ReportScore(ctx context.Context, userID, quizID string, score int) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO attempts (id, user_id, quiz_id, score) VALUES ($1, $2, $3, $4)`,
		uuid.NewString(), userID, quizID, score,
	)
	if err != nil {
		return fmt.Errorf("record attempt score: %w", err)
	}
	return nil
}
