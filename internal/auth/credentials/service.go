package credentials

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/remcostoeten/testauth/internal/auth"
	"github.com/remcostoeten/testauth/internal/db"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// Callers must not distinguish the two to avoid account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyRegistered  = errors.New("credentials already exist")
)

type Service struct {
	db *db.DB
}

func NewService(db *db.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Register(
	ctx context.Context,
	name string,
	email string,
	password string,
) (auth.User, error) {

	var userID uuid.UUID

	// 1. Find or create user by email
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&userID)

	if err == sql.ErrNoRows {
		err = s.db.QueryRowContext(ctx, `
			INSERT INTO users (name, email)
			VALUES ($1, $2)
			RETURNING id
		`, name, email).Scan(&userID)
	}

	if err != nil {
		return auth.User{}, err
	}

	// 2. Check if credentials already exist
	var exists bool
	err = s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM credentials WHERE user_id = $1
		)
	`, userID).Scan(&exists)

	if err != nil {
		return auth.User{}, err
	}

	if exists {
		return auth.User{}, ErrAlreadyRegistered
	}

	// 3. Hash password
	hash, version, err := HashPassword(password)
	if err != nil {
		return auth.User{}, err
	}

	// 4. Insert credentials
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO credentials (user_id, password_hash, hash_version)
		VALUES ($1, $2, $3)
	`, userID, hash, version)

	if err != nil {
		return auth.User{}, err
	}

	return auth.User{ID: userID.String(), Name: name, Email: email}, nil
}

func (s *Service) Authenticate(
	ctx context.Context,
	email string,
	password string,
) (auth.User, error) {

	var (
		userID       uuid.UUID
		name         string
		storedEmail  string
		passwordHash string
	)

	// 1. Find user + credentials
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.name, u.email, c.password_hash
		FROM users u
		JOIN credentials c ON c.user_id = u.id
		WHERE LOWER(u.email) = LOWER($1)
	`, email).Scan(&userID, &name, &storedEmail, &passwordHash)

	if err != nil {
		// hide whether user exists or not
		return auth.User{}, ErrInvalidCredentials
	}

	// 2. Verify password
	if err := VerifyPassword(passwordHash, password); err != nil {
		return auth.User{}, ErrInvalidCredentials
	}

	return auth.User{ID: userID.String(), Name: name, Email: storedEmail}, nil
}
