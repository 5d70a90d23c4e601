package memory

import (
	"context"
	"time"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/pkg/apperror"
)

type staffRepository struct {
	store *Store
}

func NewStaffRepository(store *Store) repository.StaffRepository {
	return &staffRepository{store: store}
}

func (r *staffRepository) Create(_ context.Context, account *model.Account, staff *model.Staff) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.insertAccountLocked(account); err != nil {
		return err
	}
	staff.ID = r.store.nextIDLocked()
	staff.AccountID = account.ID
	now := time.Now()
	if staff.JoinedAt.IsZero() {
		staff.JoinedAt = now
	}
	staff.CreatedAt = now
	staff.UpdatedAt = now
	cp := *staff
	r.store.staff[staff.ID] = &cp
	return nil
}

func (r *staffRepository) GetByAccount(_ context.Context, accountID int64) (*model.Staff, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, staff := range r.store.staff {
		if staff.AccountID == accountID {
			cp := *staff
			if account, ok := r.store.accounts[accountID]; ok {
				cp.Name = account.Name
				cp.Email = account.Email
			}
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("staff")
}

func (r *staffRepository) Update(_ context.Context, account *model.Account, staff *model.Staff) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if account != nil {
		if err := r.store.updateAccountLocked(account); err != nil {
			return err
		}
	}
	stored, ok := r.store.staff[staff.ID]
	if !ok {
		return apperror.NotFound("staff")
	}
	staff.CreatedAt = stored.CreatedAt
	staff.UpdatedAt = time.Now()
	cp := *staff
	r.store.staff[staff.ID] = &cp
	return nil
}
