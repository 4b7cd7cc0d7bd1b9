package model

import "time"

type Challenge struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	EndDate     time.Time `db:"end_date" json:"endDate"`
	WordLimit   *string   `db:"word_limit" json:"wordLimit"` // free text, e.g. "1000-2500"
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Ended reports whether submissions are closed at now.
func (c *Challenge) Ended(now time.Time) bool {
	return now.After(c.EndDate)
}

type ChallengeUpdate struct {
	Title       *string
	Description *string
	EndDate     *time.Time
	WordLimit   *string
}

func (upd ChallengeUpdate) Apply(c *Challenge) {
	if upd.Title != nil {
		c.Title = *upd.Title
	}
	if upd.Description != nil {
		c.Description = *upd.Description
	}
	if upd.EndDate != nil {
		c.EndDate = *upd.EndDate
	}
	if upd.WordLimit != nil {
		c.WordLimit = upd.WordLimit
	}
}

type ChallengeEntry struct {
	ID          int64     `db:"id" json:"id"`
	ChallengeID int64     `db:"challenge_id" json:"challengeId"`
	WritingID   int64     `db:"writing_id" json:"writingId"`
	Rank        *int      `db:"rank" json:"rank"` // assigned later by an admin
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
