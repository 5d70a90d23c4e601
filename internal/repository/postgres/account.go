package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/pkg/apperror"
)

type accountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	query := `SELECT * FROM accounts WHERE id = $1`
	var account model.Account
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		return nil, notFound(err, "account", "get account")
	}
	return &account, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	query := `SELECT * FROM accounts WHERE email = $1`
	var account model.Account
	if err := r.db.GetContext(ctx, &account, query, strings.ToLower(email)); err != nil {
		return nil, notFound(err, "account", "get account by email")
	}
	return &account, nil
}

func (r *accountRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1 AND id <> $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, strings.ToLower(email), excludeID); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

func (r *accountRepository) List(ctx context.Context, filter *model.AccountFilter) ([]*model.Account, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.Role != "" {
		args = append(args, filter.Role)
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM accounts WHERE ` + cond
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count accounts: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset())
	query := fmt.Sprintf(`
		SELECT * FROM accounts
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, cond, len(args)-1, len(args))

	accounts := []*model.Account{}
	if err := r.db.SelectContext(ctx, &accounts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, total, nil
}

func (r *accountRepository) Update(ctx context.Context, account *model.Account) error {
	query := `
		UPDATE accounts
		SET email = $1, password_hash = $2, name = $3, is_active = $4, updated_at = $5
		WHERE id = $6`
	account.UpdatedAt = time.Now()

	res, err := r.db.ExecContext(ctx, query,
		strings.ToLower(account.Email),
		account.PasswordHash,
		account.Name,
		account.IsActive,
		account.UpdatedAt,
		account.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email already registered")
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("account")
	}
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("account")
	}
	return nil
}

// insertAccount creates the account row inside a profile transaction.
func insertAccount(ctx context.Context, tx *sqlx.Tx, account *model.Account) error {
	query := `
		INSERT INTO accounts (email, password_hash, name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	err := tx.QueryRowxContext(ctx, query,
		strings.ToLower(account.Email),
		account.PasswordHash,
		account.Name,
		account.Role,
		account.IsActive,
		account.CreatedAt,
		account.UpdatedAt,
	).Scan(&account.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email already registered")
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// updateAccount updates the account row inside a profile transaction.
func updateAccount(ctx context.Context, tx *sqlx.Tx, account *model.Account) error {
	query := `
		UPDATE accounts
		SET email = $1, password_hash = $2, name = $3, is_active = $4, updated_at = $5
		WHERE id = $6`
	account.UpdatedAt = time.Now()

	_, err := tx.ExecContext(ctx, query,
		strings.ToLower(account.Email),
		account.PasswordHash,
		account.Name,
		account.IsActive,
		account.UpdatedAt,
		account.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email already registered")
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}
