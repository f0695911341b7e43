package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/evn/scheduler_backendl/internal/models"
)

var ErrShiftNotFound = errors.New("shift not found")

type ShiftRepository interface {
	Create(ctx context.Context, shift *models.Shift) error
	CreateBatch(ctx context.Context, shifts []models.Shift) error
	GetByID(ctx context.Context, id int) (*models.Shift, error)
	Update(ctx context.Context, shift *models.Shift) error
	Delete(ctx context.Context, id int) error

	// ListCurrent — все смены, идущие прямо сейчас: start <= now <= end.
	ListCurrent(ctx context.Context, now time.Time) ([]models.Shift, error)
	// ListUpcomingForMember — ближайшие смены пользователя, по возрастанию начала.
	ListUpcomingForMember(ctx context.Context, memberID int, now time.Time, limit int) ([]models.Shift, error)
	// ListStartingBetween — смены всех пользователей с началом в [from, to].
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]models.Shift, error)
	// ListForMemberBetween — смены пользователя с началом в [from, to].
	// Верхняя граница включительная, как и нижняя.
	ListForMemberBetween(ctx context.Context, memberID int, from, to time.Time) ([]models.Shift, error)
}

type postgresShiftRepository struct {
	db *sql.DB
}

func NewPostgresShiftRepository(db *sql.DB) ShiftRepository {
	return &postgresShiftRepository{db: db}
}

const shiftColumns = `id, member_id, title, start_time_utc, end_time_utc, notes, created_by`

func (r *postgresShiftRepository) Create(ctx context.Context, shift *models.Shift) error {
	query := `
		INSERT INTO shifts (member_id, title, start_time_utc, end_time_utc, notes, created_by)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		RETURNING id`

	var createdBy sql.NullInt64
	if shift.CreatedBy != nil {
		createdBy = sql.NullInt64{Int64: int64(*shift.CreatedBy), Valid: true}
	}

	return r.db.QueryRowContext(ctx, query,
		shift.MemberID,
		shift.Title,
		shift.StartTimeUTC,
		shift.EndTimeUTC,
		shift.Notes,
		createdBy,
	).Scan(&shift.ID)
}

func (r *postgresShiftRepository) CreateBatch(ctx context.Context, shifts []models.Shift) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, s := range shifts {
		var createdBy sql.NullInt64
		if s.CreatedBy != nil {
			createdBy = sql.NullInt64{Int64: int64(*s.CreatedBy), Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO shifts (member_id, title, start_time_utc, end_time_utc, notes, created_by)
			VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)`,
			s.MemberID, s.Title, s.StartTimeUTC, s.EndTimeUTC, s.Notes, createdBy,
		)
		if err != nil {
			return fmt.Errorf("insert shift: %w", err)
		}
	}
	return tx.Commit()
}

func (r *postgresShiftRepository) GetByID(ctx context.Context, id int) (*models.Shift, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+shiftColumns+` FROM shifts WHERE id = $1`, id)

	s, err := scanShift(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *postgresShiftRepository) Update(ctx context.Context, shift *models.Shift) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE shifts
		SET member_id = $1, title = $2, start_time_utc = $3, end_time_utc = $4, notes = NULLIF($5, '')
		WHERE id = $6`,
		shift.MemberID, shift.Title, shift.StartTimeUTC, shift.EndTimeUTC, shift.Notes, shift.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrShiftNotFound
	}
	return nil
}

func (r *postgresShiftRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrShiftNotFound
	}
	return nil
}

func (r *postgresShiftRepository) ListCurrent(ctx context.Context, now time.Time) ([]models.Shift, error) {
	return r.list(ctx, `
		SELECT `+shiftColumns+`
		FROM shifts
		WHERE start_time_utc <= $1 AND end_time_utc >= $1
		ORDER BY start_time_utc`, now)
}

func (r *postgresShiftRepository) ListUpcomingForMember(ctx context.Context, memberID int, now time.Time, limit int) ([]models.Shift, error) {
	return r.list(ctx, `
		SELECT `+shiftColumns+`
		FROM shifts
		WHERE member_id = $1 AND start_time_utc >= $2
		ORDER BY start_time_utc
		LIMIT $3`, memberID, now, limit)
}

func (r *postgresShiftRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]models.Shift, error) {
	return r.list(ctx, `
		SELECT `+shiftColumns+`
		FROM shifts
		WHERE start_time_utc >= $1 AND start_time_utc <= $2
		ORDER BY start_time_utc`, from, to)
}

func (r *postgresShiftRepository) ListForMemberBetween(ctx context.Context, memberID int, from, to time.Time) ([]models.Shift, error) {
	return r.list(ctx, `
		SELECT `+shiftColumns+`
		FROM shifts
		WHERE member_id = $1 AND start_time_utc >= $2 AND start_time_utc <= $3
		ORDER BY start_time_utc`, memberID, from, to)
}

func (r *postgresShiftRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Shift, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []models.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, *s)
	}
	return shifts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanShift(row rowScanner) (*models.Shift, error) {
	var s models.Shift
	var notes sql.NullString
	var createdBy sql.NullInt64

	err := row.Scan(&s.ID, &s.MemberID, &s.Title, &s.StartTimeUTC, &s.EndTimeUTC, &notes, &createdBy)
	if err != nil {
		return nil, err
	}
	s.Notes = notes.String
	if createdBy.Valid {
		id := int(createdBy.Int64)
		s.CreatedBy = &id
	}
	// timestamptz приходит в локальной зоне соединения, приводим к UTC
	s.StartTimeUTC = s.StartTimeUTC.UTC()
	s.EndTimeUTC = s.EndTimeUTC.UTC()
	return &s, nil
}
