package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidhull/crewdesk/internal/dates"
)

// Store provides database operations for leave requests.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new leave store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const leaveColumns = `id, user_id, leave_type, from_date, to_date, reason, status, created_at, decided_at`

func scanRequest(row pgx.Row) (*Request, error) {
	r := &Request{}
	var from, to time.Time
	err := row.Scan(&r.ID, &r.UserID, &r.LeaveType, &from, &to, &r.Reason,
		&r.Status, &r.CreatedAt, &r.DecidedAt)
	if err != nil {
		return nil, err
	}
	r.From = dates.FromTime(from)
	r.To = dates.FromTime(to)
	return r, nil
}

// Create inserts a pending leave request.
func (s *Store) Create(ctx context.Context, in Request) (*Request, error) {
	r, err := scanRequest(s.pool.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO leave_requests
			(user_id, leave_type, from_date, to_date, reason, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING %s`, leaveColumns),
		in.UserID, in.LeaveType, in.From.Time(), in.To.Time(), in.Reason, StatusPending,
	))
	if err != nil {
		return nil, fmt.Errorf("creating leave request: %w", err)
	}
	return r, nil
}

// GetByID retrieves a leave request by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Request, error) {
	r, err := scanRequest(s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM leave_requests WHERE id = $1`, leaveColumns), id))
	if err != nil {
		return nil, fmt.Errorf("getting leave request: %w", err)
	}
	return r, nil
}

// ListForUser returns a user's leave requests, newest first.
func (s *Store) ListForUser(ctx context.Context, userID string) ([]*Request, error) {
	return s.list(ctx,
		fmt.Sprintf(`SELECT %s FROM leave_requests WHERE user_id = $1
			ORDER BY created_at DESC`, leaveColumns), userID)
}

// ListPending returns all requests awaiting a decision, oldest first.
func (s *Store) ListPending(ctx context.Context) ([]*Request, error) {
	return s.list(ctx,
		fmt.Sprintf(`SELECT %s FROM leave_requests WHERE status = 'pending'
			ORDER BY created_at`, leaveColumns))
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]*Request, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing leave requests: %w", err)
	}
	defer rows.Close()

	out := []*Request{}
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning leave row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Decide records an approval or rejection on a pending request. Deciding a
// request that is no longer pending fails.
func (s *Store) Decide(ctx context.Context, id, status string) (*Request, error) {
	if status != StatusApproved && status != StatusRejected {
		return nil, fmt.Errorf("invalid decision status %q", status)
	}

	r, err := scanRequest(s.pool.QueryRow(ctx,
		fmt.Sprintf(`UPDATE leave_requests SET status = $1, decided_at = now()
			WHERE id = $2 AND status = 'pending'
			RETURNING %s`, leaveColumns),
		status, id,
	))
	if err != nil {
		return nil, fmt.Errorf("deciding leave request: %w", err)
	}
	return r, nil
}
