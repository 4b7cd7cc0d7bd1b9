package model

import (
	"encoding/json"
	"time"
)

type NotificationType string

const (
	NotificationComment       NotificationType = "comment"
	NotificationLike          NotificationType = "like"
	NotificationBookmark      NotificationType = "bookmark"
	NotificationFollow        NotificationType = "follow"
	NotificationChallengeRank NotificationType = "challenge_rank"
	NotificationFeatured      NotificationType = "featured"
)

type Notification struct {
	ID           int64                  `db:"id" json:"id"`
	UserID       int64                  `db:"user_id" json:"userId"`
	Type         NotificationType       `db:"type" json:"type"`
	Message      string                 `db:"message" json:"message"`
	IsRead       bool                   `db:"is_read" json:"isRead"`
	MetadataJSON string                 `db:"metadata" json:"-"`
	Metadata     map[string]interface{} `db:"-" json:"metadata"`
	CreatedAt    time.Time              `db:"created_at" json:"createdAt"`
}

func (n *Notification) EncodeMetadata() {
	if n.Metadata == nil {
		n.MetadataJSON = "null"
		return
	}
	b, _ := json.Marshal(n.Metadata)
	n.MetadataJSON = string(b)
}

func (n *Notification) DecodeMetadata() {
	n.Metadata = nil
	if n.MetadataJSON == "" || n.MetadataJSON == "null" {
		return
	}
	_ = json.Unmarshal([]byte(n.MetadataJSON), &n.Metadata)
}
