package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"kova-store/internal/domain"
)

var userColumnNames = []string{"id", "email", "first_name", "last_name", "phone", "role", "otp_code", "otp_expires_at", "created_at"}

func newMockUserRepo(t *testing.T) (*PgUserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &PgUserRepository{pool: mock}, mock
}

func strPtr(s string) *string { return &s }

func TestPgUserRepositoryUpsertOTP(t *testing.T) {
	repo, mock := newMockUserRepo(t)
	expiresAt := time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC)
	createdAt := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO users \(email, role, otp_code, otp_expires_at, created_at\) VALUES \(\$1, \$2, \$3, \$4, \$5\) ON CONFLICT \(email\) DO UPDATE SET otp_code = EXCLUDED.otp_code, otp_expires_at = EXCLUDED.otp_expires_at RETURNING`).
		WithArgs("user@example.com", "standard", "042917", expiresAt, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(userColumnNames).
			AddRow(int64(7), "user@example.com", nil, nil, nil, "standard", strPtr("042917"), &expiresAt, createdAt))

	user, err := repo.UpsertOTP(context.Background(), "user@example.com", "042917", expiresAt)
	require.NoError(t, err)
	require.Equal(t, int64(7), user.ID)
	require.Equal(t, domain.RoleStandard, user.Role)
	require.Equal(t, "042917", user.OtpCode)
	require.True(t, user.OtpExpiresAt.Equal(expiresAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepositoryClearOTP(t *testing.T) {
	const clearSQL = `UPDATE users SET otp_code = NULL, otp_expires_at = NULL WHERE id = \$1 AND otp_code = \$2`

	tests := []struct {
		name     string
		affected int64
		err      error
		want     bool
	}{
		{name: "consumed", affected: 1, want: true},
		{name: "already consumed or replaced", affected: 0, want: false},
		{name: "store error", err: errors.New("connection reset")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newMockUserRepo(t)
			exp := mock.ExpectExec(clearSQL).WithArgs(int64(7), "042917")
			if tc.err != nil {
				exp.WillReturnError(tc.err)
			} else {
				exp.WillReturnResult(pgxmock.NewResult("UPDATE", tc.affected))
			}

			cleared, err := repo.ClearOTP(context.Background(), 7, "042917")
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tc.want, cleared)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPgUserRepositoryGetByEmail(t *testing.T) {
	repo, mock := newMockUserRepo(t)
	createdAt := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
		WithArgs("admin@example.com").
		WillReturnRows(pgxmock.NewRows(userColumnNames).
			AddRow(int64(1), "admin@example.com", strPtr("Ana"), nil, nil, "administrator", nil, nil, createdAt))
	mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
		WithArgs("ghost@example.com").
		WillReturnRows(pgxmock.NewRows(userColumnNames))

	user, err := repo.GetByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	require.True(t, user.IsAdmin())
	require.False(t, user.HasPendingOTP())
	require.Equal(t, "Ana", *user.FirstName)

	_, err = repo.GetByEmail(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, pgx.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepositorySetRole_UnknownEmail(t *testing.T) {
	repo, mock := newMockUserRepo(t)
	mock.ExpectExec(`UPDATE users SET role = \$2 WHERE email = \$1`).
		WithArgs("ghost@example.com", "administrator").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetRole(context.Background(), "ghost@example.com", domain.RoleAdministrator)
	require.ErrorIs(t, err, pgx.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
