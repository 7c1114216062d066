// Package fixtures provides an in-memory unit of work implementing the
// repository contracts, used by service and handler tests. Do takes a
// snapshot before running the unit and restores it on error, mirroring the
// rollback semantics of the SQL implementation.
package fixtures

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/fincore/bankapi/pkg/domain/ledger"
	"github.com/fincore/bankapi/pkg/domain/user"
	"github.com/fincore/bankapi/pkg/dto"
	"github.com/fincore/bankapi/pkg/money"
	"github.com/fincore/bankapi/pkg/repository"
	txrepo "github.com/fincore/bankapi/pkg/repository/transaction"
	userrepo "github.com/fincore/bankapi/pkg/repository/user"
	"github.com/google/uuid"
)

// MemoryUoW is an in-memory repository.UnitOfWork.
type MemoryUoW struct {
	mu    sync.Mutex
	users map[uuid.UUID]*dto.UserRead
	txs   map[uuid.UUID]*dto.TransactionRead
}

// NewMemoryUoW creates an empty in-memory unit of work.
func NewMemoryUoW() *MemoryUoW {
	return &MemoryUoW{
		users: make(map[uuid.UUID]*dto.UserRead),
		txs:   make(map[uuid.UUID]*dto.TransactionRead),
	}
}

// Do runs fn against a snapshot boundary: on error all changes made inside
// fn are rolled back.
func (m *MemoryUoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	users, txs := m.cloneState()
	if err := fn(m); err != nil {
		m.users, m.txs = users, txs
		return err
	}
	return nil
}

// Users returns the in-memory user repository.
func (m *MemoryUoW) Users() userrepo.Repository { return &memoryUsers{m} }

// Transactions returns the in-memory transaction repository.
func (m *MemoryUoW) Transactions() txrepo.Repository { return &memoryTxs{m} }

// SeedUser inserts a user record directly, for test setup.
func (m *MemoryUoW) SeedUser(u *dto.UserRead) {
	cp := *u
	m.users[u.ID] = &cp
}

// UserBalance returns the stored balance, for test assertions.
func (m *MemoryUoW) UserBalance(id uuid.UUID) money.Amount {
	if u, ok := m.users[id]; ok {
		return u.TotalBalance
	}
	return 0
}

// TransactionCount returns the number of stored transactions.
func (m *MemoryUoW) TransactionCount() int { return len(m.txs) }

func (m *MemoryUoW) cloneState() (map[uuid.UUID]*dto.UserRead, map[uuid.UUID]*dto.TransactionRead) {
	users := make(map[uuid.UUID]*dto.UserRead, len(m.users))
	for k, v := range m.users {
		cp := *v
		users[k] = &cp
	}
	txs := make(map[uuid.UUID]*dto.TransactionRead, len(m.txs))
	for k, v := range m.txs {
		cp := *v
		txs[k] = &cp
	}
	return users, txs
}

type memoryUsers struct{ m *MemoryUoW }

func (r *memoryUsers) Create(ctx context.Context, create *dto.UserCreate) error {
	for _, u := range r.m.users {
		if u.CPF == create.CPF {
			return user.ErrCPFAlreadyRegistered
		}
		if u.Email == create.Email {
			return user.ErrEmailAlreadyRegistered
		}
	}
	r.m.users[create.ID] = &dto.UserRead{
		ID:             create.ID,
		FullName:       create.FullName,
		Email:          create.Email,
		CPF:            create.CPF,
		BirthDate:      create.BirthDate,
		HashedPassword: create.Password,
	}
	return nil
}

func (r *memoryUsers) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	u, ok := r.m.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memoryUsers) GetByCPF(ctx context.Context, cpf string) (*dto.UserRead, error) {
	for _, u := range r.m.users {
		if u.CPF == cpf {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *memoryUsers) ExistsByCPF(ctx context.Context, cpf string) (bool, error) {
	for _, u := range r.m.users {
		if u.CPF == cpf {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, u := range r.m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryUsers) AdjustBalance(ctx context.Context, id uuid.UUID, delta money.Amount) (money.Amount, error) {
	u, ok := r.m.users[id]
	if !ok {
		return 0, user.ErrUserNotFound
	}
	return r.adjust(u, delta)
}

func (r *memoryUsers) AdjustBalanceByCPF(ctx context.Context, cpf string, delta money.Amount) (money.Amount, error) {
	for _, u := range r.m.users {
		if u.CPF == cpf {
			return r.adjust(u, delta)
		}
	}
	return 0, user.ErrUserNotFound
}

func (r *memoryUsers) adjust(u *dto.UserRead, delta money.Amount) (money.Amount, error) {
	if u.TotalBalance+delta < 0 {
		return 0, ledger.ErrInsufficientFunds
	}
	u.TotalBalance += delta
	return u.TotalBalance, nil
}

type memoryTxs struct{ m *MemoryUoW }

func (r *memoryTxs) Create(ctx context.Context, create *dto.TransactionCreate) error {
	r.m.txs[create.ID] = &dto.TransactionRead{
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
	return nil
}

func (r *memoryTxs) Get(ctx context.Context, id uuid.UUID) (*dto.TransactionRead, error) {
	tx, ok := r.m.txs[id]
	if !ok {
		return nil, ledger.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

func (r *memoryTxs) Update(ctx context.Context, id uuid.UUID, update *dto.TransactionUpdate) error {
	tx, ok := r.m.txs[id]
	if !ok {
		return ledger.ErrTransactionNotFound
	}
	if update.Value != nil {
		tx.Value = *update.Value
	}
	if update.Attachment != nil {
		tx.Attachment = *update.Attachment
	}
	if update.AttachmentName != nil {
		tx.AttachmentName = *update.AttachmentName
	}
	return nil
}

func (r *memoryTxs) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.m.txs[id]; !ok {
		return ledger.ErrTransactionNotFound
	}
	delete(r.m.txs, id)
	return nil
}

func (r *memoryTxs) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	cpf string,
	filter *dto.TransactionListFilter,
) ([]*dto.TransactionRead, int64, error) {
	var matches []*dto.TransactionRead
	for _, tx := range r.m.txs {
		visible := tx.UserID == userID ||
			(tx.Type == string(ledger.TypeTransfer) && tx.CPFDest == cpf)
		if !visible || !matchesFilter(tx, filter) {
			continue
		}
		cp := *tx
		matches = append(matches, &cp)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].ID.String() > matches[j].ID.String()
		}
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	total := int64(len(matches))
	start := (filter.Page - 1) * filter.PageSize
	if start >= len(matches) {
		return []*dto.TransactionRead{}, total, nil
	}
	end := start + filter.PageSize
	if end > len(matches) {
		end = len(matches)
	}
	return matches[start:end], total, nil
}

func (r *memoryTxs) LastByType(ctx context.Context, userID uuid.UUID, txType string) (*dto.TransactionRead, error) {
	var last *dto.TransactionRead
	for _, tx := range r.m.txs {
		if tx.UserID != userID || tx.Type != txType {
			continue
		}
		if last == nil || tx.CreatedAt.After(last.CreatedAt) {
			cp := *tx
			last = &cp
		}
	}
	return last, nil
}

func matchesFilter(tx *dto.TransactionRead, f *dto.TransactionListFilter) bool {
	if f == nil {
		return true
	}
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if f.Search != "" &&
		!strings.Contains(tx.CPFOrigin, f.Search) &&
		!strings.Contains(tx.CPFDest, f.Search) {
		return false
	}
	if f.ValueMin != nil && tx.Value < *f.ValueMin {
		return false
	}
	if f.ValueMax != nil && tx.Value > *f.ValueMax {
		return false
	}
	if f.DateFrom != nil && tx.CreatedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && !tx.CreatedAt.Before(*f.DateTo) {
		return false
	}
	return true
}
