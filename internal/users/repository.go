package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huertohogar/huertohogar/internal/auth"
	"github.com/huertohogar/huertohogar/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	List(ctx context.Context, limit, offset int) ([]User, int, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, user *User) (int64, error)
	Update(ctx context.Context, user *User) error
	UpdateRole(ctx context.Context, id int64, role auth.Role) error
	Delete(ctx context.Context, id int64) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, first_name, middle_name, paternal_surname, maternal_surname,
rut, dv, birth_date, region_id, address, email, phone, role, created_at, updated_at`

// List returns one page of users ordered by id plus the total count.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]User, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetByID fetches a user by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user and returns its id. A duplicate email surfaces as
// shared.ErrConflict.
func (r *Repository) Create(ctx context.Context, user *User) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO users
(first_name, middle_name, paternal_surname, maternal_surname, rut, dv, birth_date, region_id, address, email, phone, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
RETURNING id`,
		user.FirstName, user.MiddleName, user.PaternalSurname, user.MaternalSurname,
		user.RUT, user.DV, user.BirthDate, user.RegionID, user.Address, user.Email,
		user.Phone, string(user.Role)).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, shared.ErrConflict
		}
		return 0, err
	}
	return id, nil
}

// Update persists profile fields. Role and credential are out of reach here.
func (r *Repository) Update(ctx context.Context, user *User) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET
first_name = $2, middle_name = $3, paternal_surname = $4, maternal_surname = $5,
rut = $6, dv = $7, birth_date = $8, region_id = $9, address = $10, email = $11,
phone = $12, updated_at = NOW()
WHERE id = $1`,
		user.ID, user.FirstName, user.MiddleName, user.PaternalSurname, user.MaternalSurname,
		user.RUT, user.DV, user.BirthDate, user.RegionID, user.Address, user.Email, user.Phone)
	if err != nil {
		if isUniqueViolation(err) {
			return shared.ErrConflict
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpdateRole mutates only the role column.
func (r *Repository) UpdateRole(ctx context.Context, id int64, role auth.Role) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`, id, string(role))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a user row.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var user User
	var role string
	if err := row.Scan(&user.ID, &user.FirstName, &user.MiddleName, &user.PaternalSurname,
		&user.MaternalSurname, &user.RUT, &user.DV, &user.BirthDate, &user.RegionID,
		&user.Address, &user.Email, &user.Phone, &role, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return User{}, err
	}
	parsed, err := auth.ParseRole(role)
	if err != nil {
		return User{}, err
	}
	user.Role = parsed
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ RepositoryPort = (*Repository)(nil)
