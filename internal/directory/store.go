package directory

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

const sessionDuration = 7 * 24 * time.Hour

// Store provides database operations for users and sessions.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new directory store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const userColumns = `id, email, username, password_hash, name, first_name,
	last_name, job_title, role_tags, role, created_at`

// scanUser scans a user row, handling the JSONB role_tags column.
func scanUser(scan func(dest ...any) error) (*User, error) {
	u := &User{}
	var tagsJSON []byte
	err := scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Name,
		&u.FirstName, &u.LastName, &u.JobTitle, &tagsJSON, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &u.RoleTags); err != nil {
			return nil, fmt.Errorf("unmarshaling role_tags: %w", err)
		}
	}
	if u.RoleTags == nil {
		u.RoleTags = []string{}
	}
	return u, nil
}

func marshalTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}

// Create inserts a new user with a bcrypt-hashed password.
func (s *Store) Create(ctx context.Context, in CreateUserInput) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	role := in.Role
	if role == "" {
		role = "member"
	}

	tagsJSON, err := marshalTags(in.RoleTags)
	if err != nil {
		return nil, fmt.Errorf("marshaling role_tags: %w", err)
	}

	u, err := scanUser(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			fmt.Sprintf(`INSERT INTO users
				(email, username, password_hash, name, first_name, last_name, job_title, role_tags, role)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				RETURNING %s`, userColumns),
			in.Email, in.Username, string(hash), in.Name, in.FirstName, in.LastName,
			in.JobTitle, tagsJSON, role,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return u, nil
}

// GetByID retrieves a user by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*User, error) {
	u, err := scanUser(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns), id,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("getting user by id: %w", err)
	}
	return u, nil
}

// GetByEmail retrieves a user by email address.
func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scanUser(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns), email,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return u, nil
}

// List returns all users in insertion order. Insertion order is what the
// candidate pickers paginate over, so it must be stable across calls.
func (s *Store) List(ctx context.Context) ([]*User, error) {
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at, id`, userColumns))
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetByIDs retrieves the users with the given ids, in the order requested.
// Unknown ids are skipped rather than errored.
func (s *Store) GetByIDs(ctx context.Context, userIDs []string) ([]*User, error) {
	if len(userIDs) == 0 {
		return []*User{}, nil
	}

	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM users WHERE id = ANY($1)`, userColumns), userIDs)
	if err != nil {
		return nil, fmt.Errorf("getting users by ids: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*User, len(userIDs))
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		byID[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*User, 0, len(userIDs))
	for _, id := range userIDs {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// Update performs a partial update on the user with the given id.
func (s *Store) Update(ctx context.Context, id string, in UpdateUserInput) (*User, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	addClause := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if in.Email != nil {
		addClause("email", *in.Email)
	}
	if in.Username != nil {
		addClause("username", *in.Username)
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		addClause("password_hash", string(hash))
	}
	if in.Name != nil {
		addClause("name", *in.Name)
	}
	if in.FirstName != nil {
		addClause("first_name", *in.FirstName)
	}
	if in.LastName != nil {
		addClause("last_name", *in.LastName)
	}
	if in.JobTitle != nil {
		addClause("job_title", *in.JobTitle)
	}
	if in.RoleTags != nil {
		tagsJSON, err := marshalTags(*in.RoleTags)
		if err != nil {
			return nil, fmt.Errorf("marshaling role_tags: %w", err)
		}
		addClause("role_tags", tagsJSON)
	}
	if in.Role != nil {
		addClause("role", *in.Role)
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, userColumns,
	)

	u, err := scanUser(func(dest ...any) error {
		return s.pool.QueryRow(ctx, query, args...).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return u, nil
}

// Upsert inserts or updates a user keyed by its canonical identity. Used by
// directory sync, where records arrive from an external source of truth and
// the local row mirrors it.
func (s *Store) Upsert(ctx context.Context, u *User) (*User, error) {
	tagsJSON, err := marshalTags(u.RoleTags)
	if err != nil {
		return nil, fmt.Errorf("marshaling role_tags: %w", err)
	}

	out, err := scanUser(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			fmt.Sprintf(`INSERT INTO users
				(id, email, username, password_hash, name, first_name, last_name, job_title, role_tags, role)
				VALUES ($1, $2, $3, '', $4, $5, $6, $7, $8, 'member')
				ON CONFLICT (id) DO UPDATE SET
					email = EXCLUDED.email,
					username = EXCLUDED.username,
					name = EXCLUDED.name,
					first_name = EXCLUDED.first_name,
					last_name = EXCLUDED.last_name,
					job_title = EXCLUDED.job_title,
					role_tags = EXCLUDED.role_tags
				RETURNING %s`, userColumns),
			u.ID, u.Email, u.Username, u.Name, u.FirstName, u.LastName, u.JobTitle, tagsJSON,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("upserting user: %w", err)
	}
	return out, nil
}

// Delete removes a user by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func CheckPassword(u *User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// CreateSession creates a new session for the given user. It returns the
// opaque plaintext token (to be sent to the client) and the stored session.
func (s *Store) CreateSession(ctx context.Context, userID string) (string, *Session, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", nil, fmt.Errorf("generating session token: %w", err)
	}
	plaintext := hex.EncodeToString(b)
	tokenHash := hashToken(plaintext)

	now := time.Now()
	expiresAt := now.Add(sessionDuration)

	sess := &Session{}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO sessions (token_hash, user_id, created_at, expires_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING token_hash, user_id, created_at, expires_at`,
		tokenHash, userID, now, expiresAt,
	).Scan(&sess.TokenHash, &sess.UserID, &sess.CreatedAt, &sess.ExpiresAt)
	if err != nil {
		return "", nil, fmt.Errorf("creating session: %w", err)
	}

	return plaintext, sess, nil
}

// GetSessionUser looks up a session by its plaintext token and returns the
// associated user. Returns an error if the session is expired or not found.
func (s *Store) GetSessionUser(ctx context.Context, plaintext string) (*User, error) {
	tokenHash := hashToken(plaintext)

	u, err := scanUser(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			`SELECT u.id, u.email, u.username, u.password_hash, u.name, u.first_name,
				u.last_name, u.job_title, u.role_tags, u.role, u.created_at
			 FROM sessions s JOIN users u ON s.user_id = u.id
			 WHERE s.token_hash = $1 AND s.expires_at > now()`,
			tokenHash,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("getting session user: %w", err)
	}
	return u, nil
}

// DeleteSession removes a session by its plaintext token.
func (s *Store) DeleteSession(ctx context.Context, plaintext string) error {
	tokenHash := hashToken(plaintext)
	_, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// CleanExpiredSessions deletes all sessions that have expired.
func (s *Store) CleanExpiredSessions(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, fmt.Errorf("cleaning expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func hashToken(plaintext string) string {
	h := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(h[:])
}
