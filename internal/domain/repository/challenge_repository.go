package repository

import (
	"context"
	"fmt"

	"pencraft/internal/common"
	"pencraft/internal/domain/model"

	"github.com/jmoiron/sqlx"
)

type ChallengeRepository interface {
	Create(ctx context.Context, challenge *model.Challenge) error
	FindByID(ctx context.Context, id int64) (*model.Challenge, error)
	List(ctx context.Context) ([]model.Challenge, error)
	Update(ctx context.Context, id int64, upd model.ChallengeUpdate) (*model.Challenge, error)
}

type ChallengeEntryRepository interface {
	Create(ctx context.Context, entry *model.ChallengeEntry) error
	FindByID(ctx context.Context, id int64) (*model.ChallengeEntry, error)
	ListByChallenge(ctx context.Context, challengeID int64) ([]model.ChallengeEntry, error)
	UpdateRank(ctx context.Context, id int64, rank int) (*model.ChallengeEntry, error)
}

type sqlChallengeRepository struct {
	q sqlx.ExtContext
}

const challengeColumns = `id, title, description, end_date, word_limit, created_at`

func (r *sqlChallengeRepository) Create(ctx context.Context, c *model.Challenge) error {
	c.CreatedAt = now()
	c.EndDate = c.EndDate.UTC()
	id, err := insertReturningID(ctx, r.q,
		`INSERT INTO challenges (title, description, end_date, word_limit, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		c.Title, c.Description, c.EndDate, c.WordLimit, c.CreatedAt)
	if err != nil {
		return wrapWriteErr("sqlChallengeRepository.Create", err)
	}
	c.ID = id
	return nil
}

func (r *sqlChallengeRepository) FindByID(ctx context.Context, id int64) (*model.Challenge, error) {
	c := &model.Challenge{}
	if err := getOne(ctx, r.q, c, `SELECT `+challengeColumns+` FROM challenges WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("sqlChallengeRepository.FindByID: %w", err)
	}
	return c, nil
}

func (r *sqlChallengeRepository) List(ctx context.Context) ([]model.Challenge, error) {
	challenges := []model.Challenge{}
	if err := selectAll(ctx, r.q, &challenges, `SELECT `+challengeColumns+` FROM challenges ORDER BY id`); err != nil {
		return nil, fmt.Errorf("sqlChallengeRepository.List: %w", err)
	}
	return challenges, nil
}

func (r *sqlChallengeRepository) Update(ctx context.Context, id int64, upd model.ChallengeUpdate) (*model.Challenge, error) {
	c, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	upd.Apply(c)
	c.EndDate = c.EndDate.UTC()
	_, err = execAffected(ctx, r.q,
		`UPDATE challenges SET title = ?, description = ?, end_date = ?, word_limit = ? WHERE id = ?`,
		c.Title, c.Description, c.EndDate, c.WordLimit, id)
	if err != nil {
		return nil, wrapWriteErr("sqlChallengeRepository.Update", err)
	}
	return c, nil
}

type sqlChallengeEntryRepository struct {
	q sqlx.ExtContext
}

const entryColumns = `id, challenge_id, writing_id, rank, created_at`

func (r *sqlChallengeEntryRepository) Create(ctx context.Context, e *model.ChallengeEntry) error {
	e.CreatedAt = now()
	id, err := insertReturningID(ctx, r.q,
		`INSERT INTO challenge_entries (challenge_id, writing_id, rank, created_at) VALUES (?, ?, ?, ?) RETURNING id`,
		e.ChallengeID, e.WritingID, e.Rank, e.CreatedAt)
	if err != nil {
		return wrapWriteErr("sqlChallengeEntryRepository.Create", err)
	}
	e.ID = id
	return nil
}

func (r *sqlChallengeEntryRepository) FindByID(ctx context.Context, id int64) (*model.ChallengeEntry, error) {
	e := &model.ChallengeEntry{}
	if err := getOne(ctx, r.q, e, `SELECT `+entryColumns+` FROM challenge_entries WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("sqlChallengeEntryRepository.FindByID: %w", err)
	}
	return e, nil
}

func (r *sqlChallengeEntryRepository) ListByChallenge(ctx context.Context, challengeID int64) ([]model.ChallengeEntry, error) {
	entries := []model.ChallengeEntry{}
	err := selectAll(ctx, r.q, &entries,
		`SELECT `+entryColumns+` FROM challenge_entries WHERE challenge_id = ? ORDER BY id`, challengeID)
	if err != nil {
		return nil, fmt.Errorf("sqlChallengeEntryRepository.ListByChallenge: %w", err)
	}
	return entries, nil
}

func (r *sqlChallengeEntryRepository) UpdateRank(ctx context.Context, id int64, rank int) (*model.ChallengeEntry, error) {
	n, err := execAffected(ctx, r.q, `UPDATE challenge_entries SET rank = ? WHERE id = ?`, rank, id)
	if err != nil {
		return nil, fmt.Errorf("sqlChallengeEntryRepository.UpdateRank: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("sqlChallengeEntryRepository.UpdateRank: %w", common.ErrNotFound)
	}
	return r.FindByID(ctx, id)
}
