package repositories

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"teamchat/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]models.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	DeleteByExternalID(ctx context.Context, externalID string) error
}

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, external_id, email, first_name, last_name, avatar_url, created_at, updated_at`

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u                   models.User
		first, last, avatar sql.NullString
	)
	if err := row.Scan(&u.ID, &u.ExternalID, &u.Email, &first, &last, &avatar, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.FirstName = stringPtr(first)
	u.LastName = stringPtr(last)
	u.AvatarURL = stringPtr(avatar)
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, external_id, email, first_name, last_name, avatar_url, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.ExternalID, user.Email,
		nullString(user.FirstName), nullString(user.LastName), nullString(user.AvatarURL),
		user.CreatedAt, user.UpdatedAt,
	)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE external_id = $1`, externalID))
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

// GetByIDs returns the users that exist among ids; unknown ids are skipped.
func (r *userRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ANY($1) ORDER BY id`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET email=$1, first_name=$2, last_name=$3, avatar_url=$4, updated_at=$5
		WHERE external_id=$6`
	res, err := r.db.ExecContext(ctx, query,
		user.Email, nullString(user.FirstName), nullString(user.LastName), nullString(user.AvatarURL),
		user.UpdatedAt, user.ExternalID,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res, "user")
}

func (r *userRepository) DeleteByExternalID(ctx context.Context, externalID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE external_id = $1`, externalID)
	if err != nil {
		return err
	}
	return expectOneRow(res, "user")
}
