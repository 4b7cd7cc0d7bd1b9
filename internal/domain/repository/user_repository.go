package repository

import (
	"context"
	"fmt"
	"strings"

	"pencraft/internal/domain/model"

	"github.com/jmoiron/sqlx"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id int64) (*model.User, error)
	// FindByUsername and FindByEmail ignore case.
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, id int64, upd model.UserUpdate) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

type sqlUserRepository struct {
	q sqlx.ExtContext
}

// username_lower and email_lower are folded in Go and carry the unique indexes;
// they are write-only and stay out of userColumns.
const userColumns = `id, username, password, full_name, email, bio, profile_image, is_admin, created_at`

func (r *sqlUserRepository) Create(ctx context.Context, user *model.User) error {
	user.CreatedAt = now()
	id, err := insertReturningID(ctx, r.q,
		`INSERT INTO users (username, password, full_name, email, username_lower, email_lower, bio, profile_image, is_admin, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		user.Username, user.Password, user.FullName, user.Email, strings.ToLower(user.Username), strings.ToLower(user.Email),
		user.Bio, user.ProfileImage, user.IsAdmin, user.CreatedAt)
	if err != nil {
		return wrapWriteErr("sqlUserRepository.Create", err)
	}
	user.ID = id
	return nil
}

func (r *sqlUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.findOne(ctx, `WHERE id = ?`, id)
}

func (r *sqlUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, `WHERE username_lower = ?`, strings.ToLower(username))
}

func (r *sqlUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, `WHERE email_lower = ?`, strings.ToLower(email))
}

func (r *sqlUserRepository) findOne(ctx context.Context, where string, args ...interface{}) (*model.User, error) {
	user := &model.User{}
	if err := getOne(ctx, r.q, user, `SELECT `+userColumns+` FROM users `+where, args...); err != nil {
		return nil, fmt.Errorf("sqlUserRepository.find: %w", err)
	}
	return user, nil
}

func (r *sqlUserRepository) Update(ctx context.Context, id int64, upd model.UserUpdate) (*model.User, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	upd.Apply(user)
	_, err = execAffected(ctx, r.q,
		`UPDATE users SET full_name = ?, bio = ?, profile_image = ? WHERE id = ?`,
		user.FullName, user.Bio, user.ProfileImage, id)
	if err != nil {
		return nil, wrapWriteErr("sqlUserRepository.Update", err)
	}
	return user, nil
}

func (r *sqlUserRepository) List(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	if err := selectAll(ctx, r.q, &users, `SELECT `+userColumns+` FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("sqlUserRepository.List: %w", err)
	}
	return users, nil
}
