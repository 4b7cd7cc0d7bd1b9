package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"pencraft/internal/common"
	"pencraft/internal/domain/model"
	"pencraft/internal/domain/repository"
)

type ChallengeService struct {
	store repository.Store
	now   func() time.Time
}

func NewChallengeService(store repository.Store) *ChallengeService {
	return &ChallengeService{store: store, now: time.Now}
}

type CreateChallengeRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"required"`
	EndDate     time.Time `json:"endDate" validate:"required"`
	WordLimit   *string   `json:"wordLimit" validate:"omitempty,max=50"`
}

type RankEntryRequest struct {
	Rank int `json:"rank" validate:"required,min=1"`
}

func (s *ChallengeService) ListChallenges(ctx context.Context) ([]model.ChallengeView, error) {
	challenges, err := s.store.Challenges().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	views := make([]model.ChallengeView, 0, len(challenges))
	for _, c := range challenges {
		entries, err := s.store.Entries().ListByChallenge(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list entries: %w", err)
		}
		views = append(views, model.ChallengeView{Challenge: c, EntriesCount: len(entries)})
	}
	return views, nil
}

// GetChallenge returns the challenge with its live entries, ranked entries
// first by rank and the rest by likes.
func (s *ChallengeService) GetChallenge(ctx context.Context, id int64) (*model.ChallengeDetail, error) {
	c, err := s.store.Challenges().FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "challenge")
	}
	entries, err := s.store.Entries().ListByChallenge(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	views := make([]model.EntryView, 0, len(entries))
	for _, e := range entries {
		w, err := findWritingOrNil(ctx, s.store, e.WritingID)
		if err != nil {
			return nil, err
		}
		if w == nil {
			continue
		}
		wv, err := viewWriting(ctx, s.store, *w)
		if err != nil {
			return nil, err
		}
		views = append(views, model.EntryView{ChallengeEntry: e, Writing: wv})
	}
	SortEntries(views)
	return &model.ChallengeDetail{Challenge: *c, Entries: views}, nil
}

// SortEntries orders ranked entries by ascending rank ahead of unranked ones,
// which are ordered by descending like count.
func SortEntries(entries []model.EntryView) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.Rank != nil && b.Rank != nil:
			return *a.Rank < *b.Rank
		case a.Rank != nil:
			return true
		case b.Rank != nil:
			return false
		}
		return a.Writing.Stats.Likes > b.Writing.Stats.Likes
	})
}

func (s *ChallengeService) CreateChallenge(ctx context.Context, req CreateChallengeRequest) (*model.Challenge, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	c := &model.Challenge{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		EndDate:     req.EndDate.UTC(),
		WordLimit:   req.WordLimit,
	}
	if err := s.store.Challenges().Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}
	return c, nil
}

// SubmitEntry creates a writing for author and enters it into the challenge.
// Both rows are written in one transaction.
func (s *ChallengeService) SubmitEntry(ctx context.Context, author *model.User, challengeID int64, req CreateWritingRequest) (*model.EntrySubmission, error) {
	c, err := s.store.Challenges().FindByID(ctx, challengeID)
	if err != nil {
		return nil, notFoundAs(err, "challenge")
	}
	if c.Ended(s.now()) {
		return nil, common.Errorf("challenge has ended: %w", common.ErrBadRequest)
	}
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	w := newWriting(author.ID, req)
	entry := &model.ChallengeEntry{ChallengeID: challengeID}
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Writings().Create(ctx, w); err != nil {
			return fmt.Errorf("failed to create writing: %w", err)
		}
		entry.WritingID = w.ID
		if err := tx.Entries().Create(ctx, entry); err != nil {
			return fmt.Errorf("failed to create entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &model.EntrySubmission{ChallengeEntry: *entry, Writing: *w}, nil
}

// RankEntry assigns rank to an entry of the challenge and notifies the entry's author.
func (s *ChallengeService) RankEntry(ctx context.Context, admin *model.User, challengeID, entryID int64, req RankEntryRequest) (*model.ChallengeEntry, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	var updated *model.ChallengeEntry
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		c, err := tx.Challenges().FindByID(ctx, challengeID)
		if err != nil {
			return notFoundAs(err, "challenge")
		}
		e, err := tx.Entries().FindByID(ctx, entryID)
		if err != nil {
			return notFoundAs(err, "entry")
		}
		if e.ChallengeID != challengeID {
			return common.Errorf("entry not found for this challenge: %w", common.ErrNotFound)
		}
		if updated, err = tx.Entries().UpdateRank(ctx, entryID, req.Rank); err != nil {
			return fmt.Errorf("failed to rank entry: %w", err)
		}

		w, err := findWritingOrNil(ctx, tx, e.WritingID)
		if err != nil || w == nil {
			return err
		}
		return notify(ctx, tx, w.UserID, admin.ID, model.NotificationChallengeRank,
			fmt.Sprintf(`Your entry in "%s" challenge has been ranked #%d!`, c.Title, req.Rank),
			map[string]interface{}{"challengeId": c.ID, "entryId": e.ID, "writingId": w.ID, "rank": req.Rank})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
