package team

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidhull/crewdesk/internal/directory"
)

// Record is a team row as stored, holding identities rather than hydrated
// users. Hydrate turns a Record into a Team once the users are known.
type Record struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	DepartmentID string    `json:"departmentId"`
	LeaderID     string    `json:"teamLeadId"`
	MemberIDs    []string  `json:"userIds"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Hydrate resolves a stored record into a Team using lookup to fetch users
// by identity. Identities lookup cannot resolve are dropped from the roster;
// an unresolvable leader leaves the team leaderless rather than failing.
func Hydrate(rec Record, lookup func(id string) *directory.User) Team {
	t := Team{
		ID:           rec.ID,
		Name:         rec.Name,
		Description:  rec.Description,
		DepartmentID: rec.DepartmentID,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
	if rec.LeaderID != "" {
		t.Leader = lookup(rec.LeaderID)
	}
	members := NewMemberSet()
	for _, id := range rec.MemberIDs {
		if u := lookup(id); u != nil {
			members = members.Add(u)
		}
	}
	// The exclusivity invariant holds even if the stored roster drifted.
	if t.Leader != nil {
		members = members.Remove(t.Leader.Identity())
	}
	t.Members = members
	return t
}

// Store provides database operations for teams and their rosters.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new team store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const teamColumns = `id, name, description, department_id, leader_id, created_at, updated_at`

func scanRecord(row pgx.Row) (*Record, error) {
	rec := &Record{}
	var leaderID *string
	err := row.Scan(&rec.ID, &rec.Name, &rec.Description, &rec.DepartmentID,
		&leaderID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if leaderID != nil {
		rec.LeaderID = *leaderID
	}
	rec.MemberIDs = []string{}
	return rec, nil
}

// Create inserts a new team row. Members are attached separately via
// ReplaceMembers once the returned id is known.
func (s *Store) Create(ctx context.Context, in CreateRequest) (*Record, error) {
	var leaderID *string
	if in.TeamLeadID != "" {
		leaderID = &in.TeamLeadID
	}

	rec, err := scanRecord(s.pool.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO teams (name, description, department_id, leader_id)
			VALUES ($1, $2, $3, $4)
			RETURNING %s`, teamColumns),
		in.Name, in.Description, in.DepartmentID, leaderID,
	))
	if err != nil {
		return nil, fmt.Errorf("creating team: %w", err)
	}
	return rec, nil
}

// Update rewrites a team's own fields (not its roster).
func (s *Store) Update(ctx context.Context, id string, in UpdateRequest) (*Record, error) {
	var leaderID *string
	if in.TeamLeadID != "" {
		leaderID = &in.TeamLeadID
	}

	rec, err := scanRecord(s.pool.QueryRow(ctx,
		fmt.Sprintf(`UPDATE teams
			SET name = $1, description = $2, department_id = $3, leader_id = $4, updated_at = now()
			WHERE id = $5
			RETURNING %s`, teamColumns),
		in.Name, in.Description, in.DepartmentID, leaderID, id,
	))
	if err != nil {
		return nil, fmt.Errorf("updating team: %w", err)
	}

	members, err := s.memberIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.MemberIDs = members
	return rec, nil
}

// ReplaceMembers swaps the team's roster for the given identities, keeping
// their order. Runs in a transaction so a half-replaced roster is never
// visible.
func (s *Store) ReplaceMembers(ctx context.Context, teamID string, userIDs []string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning member replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1`, teamID); err != nil {
		return fmt.Errorf("clearing team members: %w", err)
	}
	for pos, userID := range userIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO team_members (team_id, user_id, position) VALUES ($1, $2, $3)`,
			teamID, userID, pos,
		); err != nil {
			return fmt.Errorf("inserting team member %s: %w", userID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing member replace: %w", err)
	}
	return nil
}

// GetByID retrieves a team row with its ordered roster identities.
func (s *Store) GetByID(ctx context.Context, id string) (*Record, error) {
	rec, err := scanRecord(s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM teams WHERE id = $1`, teamColumns), id))
	if err != nil {
		return nil, fmt.Errorf("getting team by id: %w", err)
	}

	members, err := s.memberIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.MemberIDs = members
	return rec, nil
}

// List returns all team rows with rosters, newest first.
func (s *Store) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM teams ORDER BY created_at DESC`, teamColumns))
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	var recs []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, rec := range recs {
		members, err := s.memberIDs(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		rec.MemberIDs = members
	}
	return recs, nil
}

// Delete removes a team and (via FK cascade) its roster rows.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting team: %w", err)
	}
	return nil
}

func (s *Store) memberIDs(ctx context.Context, teamID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id FROM team_members WHERE team_id = $1 ORDER BY position`, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing team members: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning member row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
