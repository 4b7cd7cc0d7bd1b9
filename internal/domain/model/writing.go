package model

import (
	"encoding/json"
	"strings"
	"time"
)

const wordsPerMinute = 200

type Writing struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"userId"`
	Title       string    `db:"title" json:"title"`
	Slug        string    `db:"slug" json:"slug"`
	Content     string    `db:"content" json:"content"`
	Description string    `db:"description" json:"description"`
	CoverImage  *string   `db:"cover_image" json:"coverImage"`
	Category    string    `db:"category" json:"category"`
	TagsJSON    string    `db:"tags" json:"-"`
	Tags        []string  `db:"-" json:"tags"`
	IsFeatured  bool      `db:"is_featured" json:"isFeatured"`
	ReadTime    int       `db:"read_time" json:"readTime"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// EncodeTags fills TagsJSON from Tags before a write.
func (w *Writing) EncodeTags() {
	if w.Tags == nil {
		w.TagsJSON = "null"
		return
	}
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(w.Tags)
	w.TagsJSON = strings.TrimSuffix(b.String(), "\n")
}

// DecodeTags fills Tags from TagsJSON after a read.
func (w *Writing) DecodeTags() {
	w.Tags = nil
	if w.TagsJSON == "" || w.TagsJSON == "null" {
		return
	}
	_ = json.Unmarshal([]byte(w.TagsJSON), &w.Tags)
}

// HasTag reports whether the writing carries tag, ignoring case.
func (w *Writing) HasTag(tag string) bool {
	for _, t := range w.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Matches reports whether query is a case-insensitive substring of the
// title, description, content, category or any tag.
func (w *Writing) Matches(query string) bool {
	q := strings.ToLower(query)
	for _, field := range []string{w.Title, w.Description, w.Content, w.Category} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	for _, t := range w.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// EstimateReadTime returns whole minutes at 200 words per minute, never less than one.
func EstimateReadTime(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// WritingUpdate is a partial update. Nil fields are left untouched.
type WritingUpdate struct {
	Title       *string
	Slug        *string
	Content     *string
	Description *string
	CoverImage  *string
	Category    *string
	Tags        *[]string
	IsFeatured  *bool
	ReadTime    *int
}

// Apply merges the non-nil fields of upd into w.
func (upd WritingUpdate) Apply(w *Writing) {
	if upd.Title != nil {
		w.Title = *upd.Title
	}
	if upd.Slug != nil {
		w.Slug = *upd.Slug
	}
	if upd.Content != nil {
		w.Content = *upd.Content
	}
	if upd.Description != nil {
		w.Description = *upd.Description
	}
	if upd.CoverImage != nil {
		w.CoverImage = upd.CoverImage
	}
	if upd.Category != nil {
		w.Category = *upd.Category
	}
	if upd.Tags != nil {
		w.Tags = *upd.Tags
	}
	if upd.IsFeatured != nil {
		w.IsFeatured = *upd.IsFeatured
	}
	if upd.ReadTime != nil {
		w.ReadTime = *upd.ReadTime
	}
}
