package user

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fincore/bankapi/pkg/domain/ledger"
	domain "github.com/fincore/bankapi/pkg/domain/user"
	"github.com/fincore/bankapi/pkg/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockRepo(t *testing.T) (*repository, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return &repository{db: db}, mock
}

func TestUserRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users" (.+)`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), &dto.UserCreate{
		ID:        uuid.New(),
		FullName:  "Maria Silva",
		Email:     "maria@example.com",
		Password:  "hashed",
		CPF:       "12345678901",
		BirthDate: "1990-01-01",
	})
	require.NoError(t, err)
}

func TestUserRepository_GetNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 (.+)`).
		WithArgs(id, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.Get(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_GetByCPF(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "full_name", "email", "password", "cpf", "birth_date", "total_balance", "created_at", "updated_at"}).
		AddRow(id, "Maria Silva", "maria@example.com", "hashed", "12345678901", "1990-01-01", int64(1500), time.Now().UTC(), time.Now().UTC())
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE cpf = \$1 (.+)`).
		WithArgs("12345678901", 1).
		WillReturnRows(rows)

	u, err := repo.GetByCPF(context.Background(), "12345678901")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, int64(1500), u.TotalBalance)
	assert.Equal(t, "hashed", u.HashedPassword)
}

func TestUserRepository_AdjustBalance(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`UPDATE users SET total_balance = total_balance \+ \$1(.+)RETURNING total_balance`).
		WithArgs(int64(500), id, int64(500)).
		WillReturnRows(sqlmock.NewRows([]string{"total_balance"}).AddRow(int64(2000)))

	balance, err := repo.AdjustBalance(context.Background(), id, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), balance)
}

func TestUserRepository_AdjustBalanceInsufficientFunds(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	// guard clause filters the row out, then the existence check finds it
	mock.ExpectQuery(`UPDATE users SET total_balance = total_balance \+ \$1(.+)RETURNING total_balance`).
		WithArgs(int64(-5000), id, int64(-5000)).
		WillReturnRows(sqlmock.NewRows([]string{"total_balance"}))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	_, err := repo.AdjustBalance(context.Background(), id, -5000)
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
}

func TestUserRepository_AdjustBalanceUnknownUser(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`UPDATE users SET total_balance = total_balance \+ \$1(.+)RETURNING total_balance`).
		WithArgs(int64(100), id, int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"total_balance"}))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

	_, err := repo.AdjustBalance(context.Background(), id, 100)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_AdjustBalanceByCPF(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`UPDATE users SET total_balance = total_balance \+ \$1(.+)cpf = \$2(.+)RETURNING total_balance`).
		WithArgs(int64(300), "12345678901", int64(300)).
		WillReturnRows(sqlmock.NewRows([]string{"total_balance"}).AddRow(int64(300)))

	balance, err := repo.AdjustBalanceByCPF(context.Background(), "12345678901", 300)
	require.NoError(t, err)
	assert.Equal(t, int64(300), balance)
}

func TestUserRepository_ExistsByCPF(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE cpf = \$1`).
		WithArgs("12345678901").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	exists, err := repo.ExistsByCPF(context.Background(), "12345678901")
	require.NoError(t, err)
	assert.True(t, exists)
}
