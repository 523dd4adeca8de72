package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kova-store/internal/domain"
)

// UserRepository defines the persistence contract for users.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	UpsertOTP(ctx context.Context, email, code string, expiresAt time.Time) (domain.User, error)
	ClearOTP(ctx context.Context, id int64, code string) (bool, error)
	UpdateProfile(ctx context.Context, id int64, profile domain.Profile) error
	SetRole(ctx context.Context, email string, role domain.Role) error
}

// PgUserRepository implements UserRepository on top of pgxpool.
type PgUserRepository struct {
	pool dbtx
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `id, email, first_name, last_name, phone, role, otp_code, otp_expires_at, created_at`

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u    domain.User
		role string
		code *string
	)
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.Phone,
		&role,
		&code,
		&u.OtpExpiresAt,
		&u.CreatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	if code != nil {
		u.OtpCode = *code
	}
	return u, nil
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}
	return u, err
}

// UpsertOTP stores a fresh passcode, creating the user with the standard role
// when the email is unknown. Concurrent calls resolve last-writer-wins.
func (r *PgUserRepository) UpsertOTP(ctx context.Context, email, code string, expiresAt time.Time) (domain.User, error) {
	query := `
		INSERT INTO users (email, role, otp_code, otp_expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE
		SET otp_code = EXCLUDED.otp_code, otp_expires_at = EXCLUDED.otp_expires_at
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query,
		email,
		string(domain.RoleStandard),
		code,
		expiresAt,
		time.Now().UTC(),
	))
}

// ClearOTP consumes the pending passcode only if it still equals code.
// It reports false when another request already consumed or replaced it.
func (r *PgUserRepository) ClearOTP(ctx context.Context, id int64, code string) (bool, error) {
	const query = `
		UPDATE users
		SET otp_code = NULL, otp_expires_at = NULL
		WHERE id = $1 AND otp_code = $2
	`
	tag, err := r.pool.Exec(ctx, query, id, code)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgUserRepository) UpdateProfile(ctx context.Context, id int64, profile domain.Profile) error {
	const query = `
		UPDATE users
		SET first_name = $2, last_name = $3, phone = $4
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, profile.FirstName, profile.LastName, profile.Phone)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) SetRole(ctx context.Context, email string, role domain.Role) error {
	const query = `UPDATE users SET role = $2 WHERE email = $1`
	tag, err := r.pool.Exec(ctx, query, email, string(role))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
