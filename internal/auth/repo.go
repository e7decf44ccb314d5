package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huertohogar/huertohogar/internal/shared"
)

// Repository defines persistence operations for the credential subsystem.
// Each user owns at most one credential row, keyed by user id.
type Repository interface {
	FindUserByEmail(ctx context.Context, email string) (*UserRecord, error)
	FindUserByID(ctx context.Context, id int64) (*UserRecord, error)
	FindCredential(ctx context.Context, userID int64) (*Credential, error)
	CredentialExists(ctx context.Context, userID int64) (bool, error)
	CreateCredential(ctx context.Context, userID int64, passwordHash string) error
	ReplaceCredential(ctx context.Context, userID int64, passwordHash string) error
	DeleteCredential(ctx context.Context, userID int64) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindUserByEmail fetches the user slice needed for login by normalized email.
func (r *PGRepository) FindUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, email, role FROM users WHERE email = $1`, email)
	return scanUserRecord(row)
}

// FindUserByID fetches the user slice needed for password flows.
func (r *PGRepository) FindUserByID(ctx context.Context, id int64) (*UserRecord, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, email, role FROM users WHERE id = $1`, id)
	return scanUserRecord(row)
}

// FindCredential fetches the credential row owned by userID.
func (r *PGRepository) FindCredential(ctx context.Context, userID int64) (*Credential, error) {
	cred := Credential{UserID: userID}
	err := r.pool.QueryRow(ctx, `SELECT password_hash FROM credentials WHERE user_id = $1`, userID).
		Scan(&cred.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cred, nil
}

// CredentialExists reports whether a credential row exists for userID.
func (r *PGRepository) CredentialExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM credentials WHERE user_id = $1)`, userID).
		Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// CreateCredential inserts the credential row. A second insert for the same
// owner trips the primary key and surfaces as shared.ErrConflict.
func (r *PGRepository) CreateCredential(ctx context.Context, userID int64, passwordHash string) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO credentials (user_id, password_hash) VALUES ($1, $2)`, userID, passwordHash)
	if isUniqueViolation(err) {
		return shared.ErrConflict
	}
	return err
}

// ReplaceCredential swaps the stored hash for the owner's row.
func (r *PGRepository) ReplaceCredential(ctx context.Context, userID int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE credentials SET password_hash = $2 WHERE user_id = $1`, userID, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteCredential removes the owner's credential row.
func (r *PGRepository) DeleteCredential(ctx context.Context, userID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM credentials WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanUserRecord(row pgx.Row) (*UserRecord, error) {
	var rec UserRecord
	var role string
	if err := row.Scan(&rec.ID, &rec.Email, &role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	parsed, err := ParseRole(role)
	if err != nil {
		return nil, err
	}
	rec.Role = parsed
	return &rec, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Repository = (*PGRepository)(nil)
