package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/evn/scheduler_backendl/internal/models"
)

var ErrPTONotFound = errors.New("pto request not found")

type PTORepository interface {
	Create(ctx context.Context, req *models.PTORequest) error
	GetByID(ctx context.Context, id int) (*models.PTORequest, error)
	// ListAll — все заявки, новые даты первыми.
	ListAll(ctx context.Context) ([]models.PTORequest, error)
	// ListByUser — заявки одного пользователя, новые даты первыми.
	ListByUser(ctx context.Context, userID int) ([]models.PTORequest, error)
	CountByStatus(ctx context.Context, status string) (int, error)
	UpdateStatus(ctx context.Context, id int, status string) error
}

type postgresPTORepository struct {
	db *sql.DB
}

func NewPostgresPTORepository(db *sql.DB) PTORepository {
	return &postgresPTORepository{db: db}
}

func (r *postgresPTORepository) Create(ctx context.Context, req *models.PTORequest) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO pto_requests (user_id, start_date, end_date, reason, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		req.UserID, req.StartDate, req.EndDate, req.Reason, req.Status,
	).Scan(&req.ID)
}

func (r *postgresPTORepository) GetByID(ctx context.Context, id int) (*models.PTORequest, error) {
	var p models.PTORequest
	err := r.db.QueryRowContext(ctx, `
		SELECT p.id, p.user_id, u.username, p.start_date::text, p.end_date::text, p.reason, p.status
		FROM pto_requests p
		JOIN users u ON p.user_id = u.id
		WHERE p.id = $1`, id,
	).Scan(&p.ID, &p.UserID, &p.Username, &p.StartDate, &p.EndDate, &p.Reason, &p.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPTONotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresPTORepository) ListAll(ctx context.Context) ([]models.PTORequest, error) {
	return r.list(ctx, `
		SELECT p.id, p.user_id, u.username, p.start_date::text, p.end_date::text, p.reason, p.status
		FROM pto_requests p
		JOIN users u ON p.user_id = u.id
		ORDER BY p.start_date DESC`)
}

func (r *postgresPTORepository) ListByUser(ctx context.Context, userID int) ([]models.PTORequest, error) {
	return r.list(ctx, `
		SELECT p.id, p.user_id, u.username, p.start_date::text, p.end_date::text, p.reason, p.status
		FROM pto_requests p
		JOIN users u ON p.user_id = u.id
		WHERE p.user_id = $1
		ORDER BY p.start_date DESC`, userID)
}

func (r *postgresPTORepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pto_requests WHERE status = $1`, status,
	).Scan(&count)
	return count, err
}

func (r *postgresPTORepository) UpdateStatus(ctx context.Context, id int, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE pto_requests SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrPTONotFound
	}
	return nil
}

func (r *postgresPTORepository) list(ctx context.Context, query string, args ...interface{}) ([]models.PTORequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.PTORequest
	for rows.Next() {
		var p models.PTORequest
		if err := rows.Scan(&p.ID, &p.UserID, &p.Username, &p.StartDate, &p.EndDate, &p.Reason, &p.Status); err != nil {
			return nil, err
		}
		requests = append(requests, p)
	}
	return requests, rows.Err()
}
