package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"faceauth/internal/auth/domain"
	"faceauth/internal/database"
	"faceauth/pkg/crypto"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// UserStore persists accounts and sessions in Postgres. Embedding bytes
// are encrypted before they touch the database and decrypted on read.
type UserStore struct {
	db     database.Service
	cipher *crypto.Cipher
}

func NewUserStore(db database.Service, cipher *crypto.Cipher) UserRepository {
	return &UserStore{
		db:     db,
		cipher: cipher,
	}
}

var accountColumns = []string{
	"id", "name", "email", "password_hash", "embedding", "photo_url",
	"verified", "code_hash", "code_expires_at", "created_at", "last_login_at",
}

func (s *UserStore) CreateUser(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	encrypted, err := s.cipher.Encrypt(account.EmbeddingBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt embedding: %w", err)
	}

	query := `INSERT INTO accounts (name, email, password_hash, embedding, photo_url, verified, code_hash, code_expires_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id, created_at`

	err = s.db.Pool().QueryRow(ctx, query,
		account.Name,
		account.Email,
		account.PasswordHash,
		encrypted,
		account.PhotoURL,
		account.Verified,
		account.CodeHash,
		account.CodeExpiresAt,
	).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	return account, nil
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query, args, err := psql.Select(accountColumns...).
		From("accounts").
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, err
	}

	return s.queryAccount(ctx, query, args...)
}

func (s *UserStore) GetUserByID(ctx context.Context, accountID uuid.UUID) (*domain.Account, error) {
	query, args, err := psql.Select(accountColumns...).
		From("accounts").
		Where(sq.Eq{"id": accountID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	return s.queryAccount(ctx, query, args...)
}

func (s *UserStore) DeleteUser(ctx context.Context, accountID uuid.UUID) error {
	query := `DELETE FROM accounts WHERE id = $1`

	commandTag, err := s.db.Pool().Exec(ctx, query, accountID)
	if err != nil {
		return err
	}

	if commandTag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// ListAccounts returns every account for the duplicate-identity scan.
func (s *UserStore) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	query, args, err := psql.Select(accountColumns...).
		From("accounts").
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := s.scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func (s *UserStore) SetVerificationCode(ctx context.Context, accountID uuid.UUID, codeHash string, expiresAt time.Time) error {
	query := `UPDATE accounts SET code_hash = $2, code_expires_at = $3 WHERE id = $1`

	commandTag, err := s.db.Pool().Exec(ctx, query, accountID, codeHash, expiresAt)
	if err != nil {
		return err
	}

	if commandTag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// MarkVerified flips the account to verified and clears the pending code
// in the same statement, so a verified row can never carry code fields.
func (s *UserStore) MarkVerified(ctx context.Context, accountID uuid.UUID) error {
	query := `UPDATE accounts SET verified = true, code_hash = NULL, code_expires_at = NULL WHERE id = $1`

	commandTag, err := s.db.Pool().Exec(ctx, query, accountID)
	if err != nil {
		return err
	}

	if commandTag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

func (s *UserStore) UpdateLastLoginAt(ctx context.Context, accountID uuid.UUID) error {
	query := `UPDATE accounts SET last_login_at = NOW() WHERE id = $1`

	_, err := s.db.Pool().Exec(ctx, query, accountID)
	return err
}

func (s *UserStore) UpdatePhotoURL(ctx context.Context, accountID uuid.UUID, photoURL string) error {
	query := `UPDATE accounts SET photo_url = $2 WHERE id = $1`

	_, err := s.db.Pool().Exec(ctx, query, accountID, photoURL)
	return err
}

func (s *UserStore) CreateSession(ctx context.Context, session *domain.Session) error {
	query := `INSERT INTO sessions (account_id, session_token, ip_address, user_agent, expires_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.Pool().Exec(ctx, query,
		session.AccountID,
		session.SessionToken,
		session.IPAddress,
		session.UserAgent,
		session.ExpiresAt,
		session.CreatedAt,
	)
	return err
}

func (s *UserStore) GetSessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	query := `SELECT id, account_id, session_token, ip_address, user_agent, expires_at, created_at
			  FROM sessions WHERE session_token = $1 AND expires_at > NOW()`

	session := &domain.Session{}
	err := s.db.Pool().QueryRow(ctx, query, token).Scan(
		&session.ID,
		&session.AccountID,
		&session.SessionToken,
		&session.IPAddress,
		&session.UserAgent,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	return session, nil
}

func (s *UserStore) DeleteSessionByToken(ctx context.Context, token string) error {
	query := `DELETE FROM sessions WHERE session_token = $1`

	commandTag, err := s.db.Pool().Exec(ctx, query, token)
	if err != nil {
		return err
	}

	if commandTag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}

	return nil
}

func (s *UserStore) queryAccount(ctx context.Context, query string, args ...any) (*domain.Account, error) {
	row := s.db.Pool().QueryRow(ctx, query, args...)
	account, err := s.scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *UserStore) scanAccount(row pgx.Row) (*domain.Account, error) {
	account := &domain.Account{}
	var encrypted []byte
	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&encrypted,
		&account.PhotoURL,
		&account.Verified,
		&account.CodeHash,
		&account.CodeExpiresAt,
		&account.CreatedAt,
		&account.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}

	account.EmbeddingBytes, err = s.cipher.Decrypt(encrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt embedding for account %s: %w", account.ID, err)
	}

	return account, nil
}
