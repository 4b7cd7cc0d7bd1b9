package model

import "time"

// Response shapes returned by the HTTP API.

// AuthorSummary is the public part of a User attached to writings and comments.
type AuthorSummary struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	FullName     string  `json:"fullName"`
	ProfileImage *string `json:"profileImage"`
	Bio          *string `json:"bio,omitempty"`
}

func NewAuthorSummary(u *User) *AuthorSummary {
	if u == nil {
		return nil
	}
	return &AuthorSummary{ID: u.ID, Username: u.Username, FullName: u.FullName, ProfileImage: u.ProfileImage}
}

type WritingStats struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
}

type WritingView struct {
	Writing
	Author *AuthorSummary `json:"author"`
	Stats  WritingStats   `json:"stats"`
}

type UserInteraction struct {
	Liked      bool `json:"liked"`
	Bookmarked bool `json:"bookmarked"`
}

type WritingDetail struct {
	WritingView
	UserInteraction UserInteraction `json:"userInteraction"`
}

type CommentView struct {
	Comment
	Author *AuthorSummary `json:"author"`
}

type BookmarkView struct {
	Bookmark
	Writing WritingView `json:"writing"`
}

// FollowUser is a follower or followee together with the follow time.
type FollowUser struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"fullName"`
	ProfileImage *string   `json:"profileImage"`
	Bio          *string   `json:"bio"`
	FollowedAt   time.Time `json:"followedAt"`
}

type ProfileStats struct {
	WritingsCount  int `json:"writingsCount"`
	FollowersCount int `json:"followersCount"`
	FollowingCount int `json:"followingCount"`
}

type UserProfile struct {
	User
	Stats       ProfileStats `json:"stats"`
	IsFollowing bool         `json:"isFollowing"`
}

type ChallengeView struct {
	Challenge
	EntriesCount int `json:"entriesCount"`
}

type EntryView struct {
	ChallengeEntry
	Writing WritingView `json:"writing"`
}

type ChallengeDetail struct {
	Challenge
	Entries []EntryView `json:"entries"`
}

// EntrySubmission is returned when a writing is entered into a challenge.
type EntrySubmission struct {
	ChallengeEntry
	Writing Writing `json:"writing"`
}
