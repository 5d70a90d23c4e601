package memory

import (
	"context"
	"strings"
	"time"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/pkg/apperror"
)

type accountRepository struct {
	store *Store
}

func NewAccountRepository(store *Store) repository.AccountRepository {
	return &accountRepository{store: store}
}

func (r *accountRepository) GetByID(_ context.Context, id int64) (*model.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	account, ok := r.store.accounts[id]
	if !ok {
		return nil, apperror.NotFound("account")
	}
	cp := *account
	return &cp, nil
}

func (r *accountRepository) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	needle := strings.ToLower(email)
	for _, account := range r.store.accounts {
		if account.Email == needle {
			cp := *account
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("account")
}

func (r *accountRepository) EmailExists(_ context.Context, email string, excludeID int64) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	needle := strings.ToLower(email)
	for _, account := range r.store.accounts {
		if account.Email == needle && account.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *accountRepository) List(_ context.Context, filter *model.AccountFilter) ([]*model.Account, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := []*model.Account{}
	for _, account := range r.store.accounts {
		if filter.Role != "" && account.Role != filter.Role {
			continue
		}
		if !matches(filter.Search, account.Name, account.Email) {
			continue
		}
		cp := *account
		matched = append(matched, &cp)
	}

	page, total := paginate(matched, filter.ListOptions, func(a, b *model.Account) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
	return page, total, nil
}

func (r *accountRepository) Update(_ context.Context, account *model.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.updateAccountLocked(account)
}

func (r *accountRepository) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.accounts[id]; !ok {
		return apperror.NotFound("account")
	}
	r.store.deleteAccountLocked(id)
	return nil
}

func (s *Store) insertAccountLocked(account *model.Account) error {
	account.Email = strings.ToLower(account.Email)
	for _, existing := range s.accounts {
		if existing.Email == account.Email {
			return apperror.Conflict("email already registered")
		}
	}
	account.ID = s.nextIDLocked()
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	cp := *account
	s.accounts[account.ID] = &cp
	return nil
}

func (s *Store) updateAccountLocked(account *model.Account) error {
	stored, ok := s.accounts[account.ID]
	if !ok {
		return apperror.NotFound("account")
	}
	account.Email = strings.ToLower(account.Email)
	for _, existing := range s.accounts {
		if existing.Email == account.Email && existing.ID != account.ID {
			return apperror.Conflict("email already registered")
		}
	}
	account.CreatedAt = stored.CreatedAt
	account.UpdatedAt = time.Now()
	cp := *account
	s.accounts[account.ID] = &cp
	return nil
}

// deleteAccountLocked removes the account and cascades to its profile, the
// way the FK constraints do in postgres.
func (s *Store) deleteAccountLocked(id int64) {
	delete(s.accounts, id)
	for did, d := range s.doctors {
		if d.AccountID == id {
			delete(s.doctors, did)
		}
	}
	for pid, p := range s.patients {
		if p.AccountID == id {
			delete(s.patients, pid)
		}
	}
	for sid, st := range s.staff {
		if st.AccountID == id {
			delete(s.staff, sid)
		}
	}
}
