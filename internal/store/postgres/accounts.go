package postgres

import (
	"context"
	"database/sql"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

// Accounts stores sign-up records and password hashes.
type Accounts struct {
	db *sql.DB
}

func NewAccounts(db *sql.DB) *Accounts {
	return &Accounts{db: db}
}

func (s *Accounts) CreateAccount(ctx context.Context, acc domain.Account, passwordHash []byte) (domain.Account, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, name, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
		acc.ID, acc.Name, acc.Email, passwordHash, acc.CreatedAt,
	)
	if err != nil {
		if code, _ := pgCode(err); code == codeUniqueViolation {
			return domain.Account{}, domain.ErrEmailTaken
		}
		return domain.Account{}, wrap("create account", err)
	}
	return acc, nil
}

func (s *Accounts) AccountByEmail(ctx context.Context, email string) (domain.Account, []byte, error) {
	var acc domain.Account
	var hash []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM accounts WHERE email = $1`, email,
	).Scan(&acc.ID, &acc.Name, &acc.Email, &hash, &acc.CreatedAt)
	if err != nil {
		return domain.Account{}, nil, wrap("get account", err)
	}
	return acc, hash, nil
}

func (s *Accounts) AccountByID(ctx context.Context, id string) (domain.Account, error) {
	var acc domain.Account
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, created_at FROM accounts WHERE id = $1`, id,
	).Scan(&acc.ID, &acc.Name, &acc.Email, &acc.CreatedAt)
	if err != nil {
		return domain.Account{}, wrap("get account", err)
	}
	return acc, nil
}
