package transaction

import (
	"context"
	"errors"

	"github.com/fincore/bankapi/pkg/domain/ledger"
	"github.com/fincore/bankapi/pkg/dto"
	"github.com/fincore/bankapi/pkg/repository/transaction"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New creates a transaction repository bound to the given session.
func New(db *gorm.DB) transaction.Repository {
	return &repository{db: db}
}

func (r *repository) Create(
	ctx context.Context,
	create *dto.TransactionCreate,
) error {
	t := &Transaction{
		ID:         create.ID,
		UserID:     create.UserID,
		Type:       create.Type,
		Value:      create.Value,
		CPFOrigin:  create.CPFOrigin,
		NameOrigin: create.NameOrigin,
		CPFDest:    create.CPFDest,
		NameDest:   create.NameDest,
		CreatedAt:  create.CreatedAt,
	}
	return r.db.WithContext(
		ctx,
	).Create(t).Error
}

func (r *repository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*dto.TransactionRead, error) {
	var t Transaction
	if err := r.db.WithContext(
		ctx,
	).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrTransactionNotFound
		}
		return nil, err
	}
	return mapModelToDTO(&t), nil
}

func (r *repository) Update(
	ctx context.Context,
	id uuid.UUID,
	update *dto.TransactionUpdate,
) error {
	updates := make(map[string]interface{})
	if update.Value != nil {
		updates["value"] = *update.Value
	}
	if update.Attachment != nil {
		updates["attachment"] = *update.Attachment
	}
	if update.AttachmentName != nil {
		updates["attachment_name"] = *update.AttachmentName
	}
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&Transaction{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ledger.ErrTransactionNotFound
	}
	return nil
}

func (r *repository) Delete(
	ctx context.Context,
	id uuid.UUID,
) error {
	res := r.db.WithContext(
		ctx,
	).Delete(&Transaction{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ledger.ErrTransactionNotFound
	}
	return nil
}

// ListForUser pages the user's statement: transactions the user owns plus
// transfers received on the user's CPF, newest first.
func (r *repository) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	cpf string,
	filter *dto.TransactionListFilter,
) ([]*dto.TransactionRead, int64, error) {
	var total int64
	if err := r.statement(ctx, userID, cpf, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []Transaction
	err := r.statement(ctx, userID, cpf, filter).
		Order("created_at DESC, id DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	result := make([]*dto.TransactionRead, 0, len(models))
	for i := range models {
		result = append(result, mapModelToDTO(&models[i]))
	}
	return result, total, nil
}

func (r *repository) LastByType(
	ctx context.Context,
	userID uuid.UUID,
	txType string,
) (*dto.TransactionRead, error) {
	var t Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ?", userID, txType).
		Order("created_at DESC, id DESC").
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return mapModelToDTO(&t), nil
}

func (r *repository) statement(
	ctx context.Context,
	userID uuid.UUID,
	cpf string,
	filter *dto.TransactionListFilter,
) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&Transaction{}).
		Where("user_id = ? OR (type = ? AND cpf_dest = ?)", userID, "transfer", cpf)
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("cpf_origin LIKE ? OR cpf_dest LIKE ?", like, like)
	}
	if filter.ValueMin != nil {
		q = q.Where("value >= ?", *filter.ValueMin)
	}
	if filter.ValueMax != nil {
		q = q.Where("value <= ?", *filter.ValueMax)
	}
	if filter.DateFrom != nil {
		q = q.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("created_at < ?", *filter.DateTo)
	}
	return q
}

func mapModelToDTO(t *Transaction) *dto.TransactionRead {
	return &dto.TransactionRead{
		ID:             t.ID,
		UserID:         t.UserID,
		Type:           t.Type,
		Value:          t.Value,
		CPFOrigin:      t.CPFOrigin,
		NameOrigin:     t.NameOrigin,
		CPFDest:        t.CPFDest,
		NameDest:       t.NameDest,
		Attachment:     t.Attachment,
		AttachmentName: t.AttachmentName,
		CreatedAt:      t.CreatedAt,
	}
}

var _ transaction.Repository = (*repository)(nil)
