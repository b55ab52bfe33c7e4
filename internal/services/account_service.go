package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spiceroute/spiceroute-be/internal/auth"
	"github.com/spiceroute/spiceroute-be/internal/models"
)

// AccountServiceProvider defines the interface for account services.
type AccountServiceProvider interface {
	GetAccountByID(ctx context.Context, id string) (models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (models.Account, error)
	Authenticate(ctx context.Context, email, password string) (models.Account, error)
	CreateEditor(ctx context.Context, email, password string) (models.Account, error)
	ListEditors(ctx context.Context) ([]models.Account, error)
	DeleteEditor(ctx context.Context, id string) error
}

// AccountService provides business logic for account management.
type AccountService struct {
	db *sql.DB // nil when no database is configured
}

// NewAccountService creates a new AccountService.
func NewAccountService(db *sql.DB) *AccountService {
	return &AccountService{db: db}
}

// GetAccountByID retrieves a single account by its ID.
func (s *AccountService) GetAccountByID(ctx context.Context, id string) (models.Account, error) {
	if s.db == nil {
		return models.Account{}, ErrUnavailable
	}

	var account models.Account
	row := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, password_salt, role, created_at FROM accounts WHERE id = ?", id)
	err := row.Scan(&account.ID, &account.Email, &account.PasswordHash, &account.PasswordSalt, &account.Role, &account.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Account{}, ErrNotFound
		}
		return models.Account{}, err
	}
	return account, nil
}

// GetAccountByEmail retrieves a single account by its normalized email.
func (s *AccountService) GetAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	if s.db == nil {
		return models.Account{}, ErrUnavailable
	}

	var account models.Account
	row := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, password_salt, role, created_at FROM accounts WHERE email = ?",
		models.NormalizeEmail(email))
	err := row.Scan(&account.ID, &account.Email, &account.PasswordHash, &account.PasswordSalt, &account.Role, &account.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Account{}, ErrNotFound
		}
		return models.Account{}, err
	}
	return account, nil
}

// Authenticate verifies an account's credentials. Unknown email and wrong
// password both come back as ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (models.Account, error) {
	account, err := s.GetAccountByEmail(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			return models.Account{}, ErrInvalidCredentials
		}
		return models.Account{}, err
	}

	ok, err := auth.VerifyPassword(password, account.PasswordSalt, account.PasswordHash)
	if err != nil {
		// A corrupt stored salt is a server-side fault, never a 401.
		return models.Account{}, fmt.Errorf("deriving credential hash: %w", err)
	}
	if !ok {
		return models.Account{}, ErrInvalidCredentials
	}
	return account, nil
}

// CreateEditor creates a new editor account, hashing its password. The role
// is always editor; there is no API path that creates an admin.
func (s *AccountService) CreateEditor(ctx context.Context, email, password string) (models.Account, error) {
	if s.db == nil {
		return models.Account{}, ErrUnavailable
	}

	email = models.NormalizeEmail(email)

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM accounts WHERE email = ?", email).Scan(&count); err != nil {
		return models.Account{}, err
	}
	if count > 0 {
		return models.Account{}, ErrConflict
	}

	hash, salt, err := auth.HashPassword(password)
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to hash password: %w", err)
	}

	account := models.Account{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		PasswordSalt: salt,
		Role:         models.RoleEditor,
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO accounts (id, email, password_hash, password_salt, role) VALUES (?, ?, ?, ?, ?)",
		account.ID, account.Email, account.PasswordHash, account.PasswordSalt, account.Role)
	if err != nil {
		// The UNIQUE column is the backstop for two concurrent creates.
		if strings.Contains(err.Error(), "UNIQUE") {
			return models.Account{}, ErrConflict
		}
		return models.Account{}, err
	}
	return account, nil
}

// ListEditors retrieves all editor accounts, sorted by email. With no
// database configured it degrades to an empty list.
func (s *AccountService) ListEditors(ctx context.Context) ([]models.Account, error) {
	editors := []models.Account{}
	if s.db == nil {
		return editors, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, email, role, created_at FROM accounts WHERE role = ? ORDER BY email", models.RoleEditor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var account models.Account
		if err := rows.Scan(&account.ID, &account.Email, &account.Role, &account.CreatedAt); err != nil {
			return nil, err
		}
		editors = append(editors, account)
	}
	return editors, rows.Err()
}

// DeleteEditor removes an editor account. Only editor rows qualify, so admin
// accounts can never be deleted through this path.
func (s *AccountService) DeleteEditor(ctx context.Context, id string) error {
	if s.db == nil {
		return ErrUnavailable
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = ? AND role = ?", id, models.RoleEditor)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
