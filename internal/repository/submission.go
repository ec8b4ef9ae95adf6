package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/solsmart/solsmart-backend/internal/models"
)

// ErrAlreadySubmitted means a record with the same address (compared
// case-insensitively) already exists in the ledger.
var ErrAlreadySubmitted = errors.New("wallet already submitted")

const uniqueViolation = "23505"

type SubmissionRepo struct {
	pool *pgxpool.Pool
}

func NewSubmissionRepo(pool *pgxpool.Pool) *SubmissionRepo {
	return &SubmissionRepo{pool: pool}
}

// Insert appends a submission to the ledger. The unique index on
// lower(address) makes "check existence and append" a single atomic
// operation: a concurrent duplicate surfaces here as ErrAlreadySubmitted
// no matter what any earlier Exists check observed.
func (r *SubmissionRepo) Insert(ctx context.Context, s *models.Submission) (*models.Submission, error) {
	ts := s.SubmittedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO submissions
		 (address, label, category, description, twitter, telegram,
		  status, portfolio_value, total_trades, win_rate, submitted_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 RETURNING *`,
		s.Address, s.Label, s.Category, s.Description, s.Twitter, s.Telegram,
		s.Status, s.PortfolioValue, s.TotalTrades, s.WinRate, ts,
	)

	saved, err := scanSubmission(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrAlreadySubmitted
		}
		return nil, err
	}
	return saved, nil
}

// Exists reports whether any ledger record matches the address
// case-insensitively.
func (r *SubmissionRepo) Exists(ctx context.Context, address string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM submissions WHERE lower(address) = lower($1))`,
		address,
	).Scan(&exists)
	return exists, err
}

// List returns the most recent submissions, newest first.
func (r *SubmissionRepo) List(ctx context.Context, limit int) ([]models.Submission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT * FROM submissions ORDER BY submitted_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSubmissions(rows)
}

// --- scan helpers ---

type scannable interface {
	Scan(dest ...any) error
}

func scanSubmission(row scannable) (*models.Submission, error) {
	var s models.Submission
	err := row.Scan(
		&s.ID, &s.Address, &s.Label, &s.Category, &s.Description,
		&s.Twitter, &s.Telegram, &s.Status, &s.PortfolioValue,
		&s.TotalTrades, &s.WinRate, &s.SubmittedAt, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collectSubmissions(rows pgx.Rows) ([]models.Submission, error) {
	var out []models.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}
