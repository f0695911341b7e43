package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/evn/scheduler_backendl/internal/models"
)

var ErrTeamMemberNotFound = errors.New("team member profile not found")

type TeamMemberRepository interface {
	GetByUserID(ctx context.Context, userID int) (*models.TeamMember, error)
	Create(ctx context.Context, member *models.TeamMember) error
	UpdateTimezone(ctx context.Context, userID int, timezone string) error
}

type postgresTeamMemberRepository struct {
	db *sql.DB
}

func NewPostgresTeamMemberRepository(db *sql.DB) TeamMemberRepository {
	return &postgresTeamMemberRepository{db: db}
}

func (r *postgresTeamMemberRepository) GetByUserID(ctx context.Context, userID int) (*models.TeamMember, error) {
	var m models.TeamMember
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, timezone FROM team_members WHERE user_id = $1`,
		userID,
	).Scan(&m.ID, &m.UserID, &m.Timezone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresTeamMemberRepository) Create(ctx context.Context, member *models.TeamMember) error {
	if member.Timezone == "" {
		member.Timezone = "UTC"
	}
	return r.db.QueryRowContext(ctx,
		`INSERT INTO team_members (user_id, timezone) VALUES ($1, $2) RETURNING id`,
		member.UserID, member.Timezone,
	).Scan(&member.ID)
}

func (r *postgresTeamMemberRepository) UpdateTimezone(ctx context.Context, userID int, timezone string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE team_members SET timezone = $1 WHERE user_id = $2`,
		timezone, userID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTeamMemberNotFound
	}
	return nil
}
