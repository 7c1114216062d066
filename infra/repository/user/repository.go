package user

import (
	"context"
	"errors"

	"github.com/fincore/bankapi/pkg/domain/ledger"
	domain "github.com/fincore/bankapi/pkg/domain/user"
	"github.com/fincore/bankapi/pkg/dto"
	"github.com/fincore/bankapi/pkg/money"
	"github.com/fincore/bankapi/pkg/repository/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New creates a user repository bound to the given session.
func New(db *gorm.DB) user.Repository {
	return &repository{db: db}
}

func (r *repository) Create(
	ctx context.Context,
	create *dto.UserCreate,
) error {
	u := &User{
		ID:        create.ID,
		FullName:  create.FullName,
		Email:     create.Email,
		Password:  create.Password,
		CPF:       create.CPF,
		BirthDate: create.BirthDate,
	}
	return r.db.WithContext(
		ctx,
	).Create(u).Error
}

func (r *repository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*dto.UserRead, error) {
	var u User
	if err := r.db.WithContext(
		ctx,
	).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return mapModelToDTO(&u), nil
}

func (r *repository) GetByCPF(
	ctx context.Context,
	cpf string,
) (*dto.UserRead, error) {
	var u User
	if err := r.db.WithContext(
		ctx,
	).Where("cpf = ?", cpf).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return mapModelToDTO(&u), nil
}

func (r *repository) ExistsByCPF(
	ctx context.Context,
	cpf string,
) (bool, error) {
	var count int64
	err := r.db.WithContext(
		ctx,
	).Model(&User{}).Where("cpf = ?", cpf).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ExistsByEmail(
	ctx context.Context,
	email string,
) (bool, error) {
	var count int64
	err := r.db.WithContext(
		ctx,
	).Model(&User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AdjustBalance applies a signed delta as a single guarded increment. The
// balance check and the write happen in one statement, so concurrent
// adjustments can never interleave into a negative balance.
func (r *repository) AdjustBalance(
	ctx context.Context,
	id uuid.UUID,
	delta money.Amount,
) (money.Amount, error) {
	return r.adjust(ctx, "id = ?", id, delta)
}

func (r *repository) AdjustBalanceByCPF(
	ctx context.Context,
	cpf string,
	delta money.Amount,
) (money.Amount, error) {
	return r.adjust(ctx, "cpf = ?", cpf, delta)
}

func (r *repository) adjust(
	ctx context.Context,
	cond string,
	arg any,
	delta money.Amount,
) (money.Amount, error) {
	var balance money.Amount
	res := r.db.WithContext(ctx).Raw(
		"UPDATE users SET total_balance = total_balance + ?, updated_at = NOW() WHERE "+
			cond+" AND total_balance + ? >= 0 RETURNING total_balance",
		delta, arg, delta,
	).Scan(&balance)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&User{}).Where(cond, arg).Count(&count).Error; err != nil {
			return 0, err
		}
		if count == 0 {
			return 0, domain.ErrUserNotFound
		}
		return 0, ledger.ErrInsufficientFunds
	}
	return balance, nil
}

func mapModelToDTO(u *User) *dto.UserRead {
	return &dto.UserRead{
		ID:             u.ID,
		FullName:       u.FullName,
		Email:          u.Email,
		CPF:            u.CPF,
		BirthDate:      u.BirthDate,
		TotalBalance:   u.TotalBalance,
		HashedPassword: u.Password,
		CreatedAt:      u.CreatedAt,
	}
}

var _ user.Repository = (*repository)(nil)
