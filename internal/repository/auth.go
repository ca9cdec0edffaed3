package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"chatguard/internal/models"
)

// AuthRepository stores the operator accounts for the HTTP control API.
type AuthRepository interface {
	GetUserByUsername(username string) (*models.User, error)
	CreateUser(user *models.User) error
	CountUsers() (int64, error)
}

type authRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewAuthRepository creates an AuthRepository over Postgres.
func NewAuthRepository(db *sqlx.DB, logger *zap.Logger) AuthRepository {
	return &authRepository{db: db, logger: logger}
}

func (r *authRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, password_hash, role FROM users WHERE username = $1`
	err := r.db.Get(&user, query, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *authRepository) CreateUser(user *models.User) error {
	query := `INSERT INTO users (username, password_hash, role) VALUES ($1, $2, $3) RETURNING id`
	return r.db.QueryRowx(query, user.Username, user.PasswordHash, user.Role).Scan(&user.ID)
}

func (r *authRepository) CountUsers() (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM users`
	err := r.db.Get(&count, query)
	return count, err
}
