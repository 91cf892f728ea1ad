package repositories

import (
	"context"

	"github.com/lib/pq"

	"teamchat/internal/models"
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int64) (*models.Team, error)
	ListForMember(ctx context.Context, userID int64) ([]models.Team, error)
	ListAll(ctx context.Context) ([]models.Team, error)
	AddMember(ctx context.Context, teamID, userID int64) error
	RemoveMember(ctx context.Context, teamID, userID int64) error
}

type teamRepository struct {
	db DBTX
}

func NewTeamRepository(db DBTX) TeamRepository {
	return &teamRepository{db: db}
}

func scanTeam(row rowScanner) (*models.Team, error) {
	var (
		team    models.Team
		members pq.Int64Array
	)
	if err := row.Scan(&team.ID, &team.Name, &members, &team.CreatedAt); err != nil {
		return nil, err
	}
	team.MemberIDs = []int64(members)
	if team.MemberIDs == nil {
		team.MemberIDs = []int64{}
	}
	return &team, nil
}

func (r *teamRepository) Create(ctx context.Context, team *models.Team) error {
	const q = `INSERT INTO teams (id, name, member_ids, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, q, team.ID, team.Name, pq.Array(team.MemberIDs), team.CreatedAt)
	return err
}

func (r *teamRepository) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	const q = `SELECT id, name, member_ids, created_at FROM teams WHERE id = $1`
	team, err := scanTeam(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, notFound(err, "team")
	}
	return team, nil
}

func (r *teamRepository) ListForMember(ctx context.Context, userID int64) ([]models.Team, error) {
	const q = `
		SELECT id, name, member_ids, created_at
		FROM teams
		WHERE $1 = ANY(member_ids)
		ORDER BY created_at ASC`
	return r.list(ctx, q, userID)
}

func (r *teamRepository) ListAll(ctx context.Context) ([]models.Team, error) {
	return r.list(ctx, `SELECT id, name, member_ids, created_at FROM teams ORDER BY id`)
}

func (r *teamRepository) list(ctx context.Context, q string, args ...any) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *team)
	}
	return teams, rows.Err()
}

func (r *teamRepository) AddMember(ctx context.Context, teamID, userID int64) error {
	const q = `
		UPDATE teams
		SET member_ids = CASE WHEN $2 = ANY(member_ids) THEN member_ids ELSE array_append(member_ids, $2) END
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, teamID, userID)
	if err != nil {
		return err
	}
	return expectOneRow(res, "team")
}

func (r *teamRepository) RemoveMember(ctx context.Context, teamID, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE teams SET member_ids = array_remove(member_ids, $2) WHERE id = $1`, teamID, userID)
	if err != nil {
		return err
	}
	return expectOneRow(res, "team")
}
