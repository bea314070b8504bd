package shift

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidhull/crewdesk/internal/dates"
)

// Store provides database operations for shifts and their assignments.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new shift store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const shiftColumns = `id, name, start_time, end_time, work_days, grace_period_minutes,
	latitude, longitude, radius_meters, max_overtime_minutes, status, created_at, updated_at`

func scanShift(row pgx.Row) (*Shift, error) {
	s := &Shift{}
	var workDaysJSON []byte
	var lat, lng *float64
	var radius *int
	err := row.Scan(&s.ID, &s.Name, &s.StartTime, &s.EndTime, &workDaysJSON,
		&s.GracePeriodMinutes, &lat, &lng, &radius, &s.MaxOvertimeMinutes,
		&s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(workDaysJSON) > 0 {
		if err := json.Unmarshal(workDaysJSON, &s.WorkDays); err != nil {
			return nil, fmt.Errorf("unmarshaling work_days: %w", err)
		}
	}
	if s.WorkDays == nil {
		s.WorkDays = []int{}
	}
	if lat != nil && lng != nil && radius != nil {
		s.Geofence = &Geofence{Latitude: *lat, Longitude: *lng, RadiusMeters: *radius}
	}
	return s, nil
}

func geofenceArgs(g *Geofence) (lat, lng *float64, radius *int) {
	if g == nil {
		return nil, nil, nil
	}
	return &g.Latitude, &g.Longitude, &g.RadiusMeters
}

// Create inserts a new active shift.
func (s *Store) Create(ctx context.Context, in Shift) (*Shift, error) {
	workDaysJSON, err := json.Marshal(in.WorkDays)
	if err != nil {
		return nil, fmt.Errorf("marshaling work_days: %w", err)
	}
	lat, lng, radius := geofenceArgs(in.Geofence)

	out, err := scanShift(s.pool.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO shifts
			(name, start_time, end_time, work_days, grace_period_minutes,
			 latitude, longitude, radius_meters, max_overtime_minutes, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING %s`, shiftColumns),
		in.Name, in.StartTime, in.EndTime, workDaysJSON, in.GracePeriodMinutes,
		lat, lng, radius, in.MaxOvertimeMinutes, StatusActive,
	))
	if err != nil {
		return nil, fmt.Errorf("creating shift: %w", err)
	}
	return out, nil
}

// Update rewrites a shift's definition in place.
func (s *Store) Update(ctx context.Context, id string, in Shift) (*Shift, error) {
	workDaysJSON, err := json.Marshal(in.WorkDays)
	if err != nil {
		return nil, fmt.Errorf("marshaling work_days: %w", err)
	}
	lat, lng, radius := geofenceArgs(in.Geofence)

	out, err := scanShift(s.pool.QueryRow(ctx,
		fmt.Sprintf(`UPDATE shifts SET
			name = $1, start_time = $2, end_time = $3, work_days = $4,
			grace_period_minutes = $5, latitude = $6, longitude = $7,
			radius_meters = $8, max_overtime_minutes = $9, updated_at = now()
			WHERE id = $10
			RETURNING %s`, shiftColumns),
		in.Name, in.StartTime, in.EndTime, workDaysJSON, in.GracePeriodMinutes,
		lat, lng, radius, in.MaxOvertimeMinutes, id,
	))
	if err != nil {
		return nil, fmt.Errorf("updating shift: %w", err)
	}
	return out, nil
}

// SetStatus flips a shift between active and inactive. Deletion is a status
// flip so an inactive shift can be restored with its assignments intact.
func (s *Store) SetStatus(ctx context.Context, id, status string) (*Shift, error) {
	out, err := scanShift(s.pool.QueryRow(ctx,
		fmt.Sprintf(`UPDATE shifts SET status = $1, updated_at = now()
			WHERE id = $2 RETURNING %s`, shiftColumns),
		status, id,
	))
	if err != nil {
		return nil, fmt.Errorf("setting shift status: %w", err)
	}
	return out, nil
}

// GetByID retrieves a shift by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Shift, error) {
	out, err := scanShift(s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM shifts WHERE id = $1`, shiftColumns), id))
	if err != nil {
		return nil, fmt.Errorf("getting shift by id: %w", err)
	}
	return out, nil
}

// List returns shifts, optionally including inactive ones.
func (s *Store) List(ctx context.Context, includeInactive bool) ([]*Shift, error) {
	query := fmt.Sprintf(`SELECT %s FROM shifts`, shiftColumns)
	if !includeInactive {
		query += ` WHERE status = 'active'`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing shifts: %w", err)
	}
	defer rows.Close()

	var shifts []*Shift
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning shift row: %w", err)
		}
		shifts = append(shifts, sh)
	}
	return shifts, rows.Err()
}

const assignmentColumns = `id, shift_id, user_id, effective_from, effective_to, created_at`

func scanAssignment(row pgx.Row) (*Assignment, error) {
	a := &Assignment{}
	var from, to time.Time
	err := row.Scan(&a.ID, &a.ShiftID, &a.UserID, &from, &to, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.EffectiveFrom = dates.FromTime(from)
	a.EffectiveTo = dates.FromTime(to)
	return a, nil
}

// CreateAssignments inserts one assignment record per user in the batch, all
// sharing the request's window. Runs in a transaction so a batch either
// lands whole or not at all.
func (s *Store) CreateAssignments(ctx context.Context, req AssignRequest) ([]*Assignment, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning assignment batch: %w", err)
	}
	defer tx.Rollback(ctx)

	created := make([]*Assignment, 0, len(req.UserIDs))
	for _, userID := range req.UserIDs {
		a, err := scanAssignment(tx.QueryRow(ctx,
			fmt.Sprintf(`INSERT INTO shift_assignments
				(shift_id, user_id, effective_from, effective_to)
				VALUES ($1, $2, $3, $4)
				RETURNING %s`, assignmentColumns),
			req.ShiftID, userID, req.EffectiveFrom.Time(), req.EffectiveTo.Time(),
		))
		if err != nil {
			return nil, fmt.Errorf("creating assignment for user %s: %w", userID, err)
		}
		created = append(created, a)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing assignment batch: %w", err)
	}
	return created, nil
}

// ListAssignments returns all assignment records for a shift, oldest first.
func (s *Store) ListAssignments(ctx context.Context, shiftID string) ([]*Assignment, error) {
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM shift_assignments WHERE shift_id = $1
			ORDER BY created_at, id`, assignmentColumns), shiftID)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	defer rows.Close()

	assignments := []*Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning assignment row: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// ListAssignmentsForUser returns all of a user's assignments across shifts.
func (s *Store) ListAssignmentsForUser(ctx context.Context, userID string) ([]*Assignment, error) {
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM shift_assignments WHERE user_id = $1
			ORDER BY effective_from`, assignmentColumns), userID)
	if err != nil {
		return nil, fmt.Errorf("listing user assignments: %w", err)
	}
	defer rows.Close()

	assignments := []*Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning assignment row: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// DeleteAssignment removes one assignment record by its own id. Returns the
// number of rows removed so callers can distinguish "gone" from "never
// existed".
func (s *Store) DeleteAssignment(ctx context.Context, assignmentID string) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM shift_assignments WHERE id = $1`, assignmentID)
	if err != nil {
		return 0, fmt.Errorf("deleting assignment: %w", err)
	}
	return tag.RowsAffected(), nil
}
