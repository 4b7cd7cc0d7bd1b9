package model

import "time"

type Comment struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"userId"`
	WritingID int64     `db:"writing_id" json:"writingId"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Like is unique per (UserID, WritingID).
type Like struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"userId"`
	WritingID int64     `db:"writing_id" json:"writingId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Bookmark is unique per (UserID, WritingID).
type Bookmark struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"userId"`
	WritingID int64     `db:"writing_id" json:"writingId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Follow is unique per (FollowerID, FollowingID).
type Follow struct {
	ID          int64     `db:"id" json:"id"`
	FollowerID  int64     `db:"follower_id" json:"followerId"`
	FollowingID int64     `db:"following_id" json:"followingId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
