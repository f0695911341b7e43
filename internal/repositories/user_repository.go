package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/evn/scheduler_backendl/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ListMembers(ctx context.Context) ([]models.User, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, first_name, password_hash, is_staff)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		user.Username,
		user.FirstName,
		user.PasswordHash,
		user.IsStaff,
	).Scan(&user.ID, &user.CreatedAt)
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, username, first_name, password_hash, is_staff, created_at
		FROM users
		WHERE id = $1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, first_name, password_hash, is_staff, created_at
		FROM users
		WHERE LOWER(username) = LOWER($1)`

	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

// ListMembers возвращает всех обычных (не staff) пользователей по алфавиту.
func (r *postgresUserRepository) ListMembers(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT id, username, first_name, password_hash, is_staff, created_at
		FROM users
		WHERE is_staff = FALSE
		ORDER BY username`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.FirstName, &u.PasswordHash, &u.IsStaff, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *postgresUserRepository) scanOne(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.PasswordHash, &u.IsStaff, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
