package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"pencraft/internal/common"
	"pencraft/internal/domain/model"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactories lists the backends every contract test runs against.
// The Postgres backend joins in integration_test.go.
var storeFactories = map[string]func(t *testing.T) Store{
	"memory": func(t *testing.T) Store { return NewMemoryStore() },
	"sqlite": newSQLiteStore,
}

func newSQLiteStore(t *testing.T) Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pencraft.db")
	db, err := sqlx.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_time_format=sqlite")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, Migrate(context.Background(), db))
	t.Cleanup(func() { db.Close() })
	return NewSQLStore(db)
}

func eachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			fn(t, factory(t))
		})
	}
}

func strPtr(s string) *string { return &s }

func mustUser(t *testing.T, s Store, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, Password: "hash", FullName: username + " Doe", Email: username + "@example.com"}
	require.NoError(t, s.Users().Create(context.Background(), u))
	return u
}

func mustWriting(t *testing.T, s Store, userID int64, title string, tags ...string) *model.Writing {
	t.Helper()
	w := &model.Writing{
		UserID: userID, Title: title, Content: "body of " + title, Description: "about " + title,
		Category: "Fiction", Tags: tags, ReadTime: 1,
	}
	require.NoError(t, s.Writings().Create(context.Background(), w))
	return w
}

func TestUsers(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		alice := mustUser(t, s, "Alice")
		assert.Equal(t, int64(1), alice.ID)
		assert.False(t, alice.CreatedAt.IsZero())

		got, err := s.Users().FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)

		got, err = s.Users().FindByEmail(ctx, "ALICE@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Alice Doe", got.FullName)

		_, err = s.Users().FindByID(ctx, 42)
		assert.ErrorIs(t, err, common.ErrNotFound)

		dup := &model.User{Username: "ALICE", Password: "x", FullName: "x", Email: "other@example.com"}
		assert.ErrorIs(t, s.Users().Create(ctx, dup), common.ErrConflict)
		dup = &model.User{Username: "bob", Password: "x", FullName: "x", Email: "Alice@Example.com"}
		assert.ErrorIs(t, s.Users().Create(ctx, dup), common.ErrConflict)

		updated, err := s.Users().Update(ctx, alice.ID, model.UserUpdate{Bio: strPtr("writer")})
		require.NoError(t, err)
		assert.Equal(t, "writer", *updated.Bio)
		assert.Equal(t, "Alice Doe", updated.FullName)

		_, err = s.Users().Update(ctx, 99, model.UserUpdate{})
		assert.ErrorIs(t, err, common.ErrNotFound)

		mustUser(t, s, "bob")
		users, err := s.Users().List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "Alice", users[0].Username)
	})
}

func TestWritings(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		u := mustUser(t, s, "alice")
		w1 := mustWriting(t, s, u.ID, "Night Train", "Travel", "noir")
		w2 := mustWriting(t, s, u.ID, "Morning Song")

		got, err := s.Writings().FindByID(ctx, w1.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Travel", "noir"}, got.Tags)

		got, err = s.Writings().FindByID(ctx, w2.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Tags)

		byTag, err := s.Writings().ListByTag(ctx, "TRAVEL")
		require.NoError(t, err)
		require.Len(t, byTag, 1)
		assert.Equal(t, w1.ID, byTag[0].ID)

		byTag, err = s.Writings().ListByTag(ctx, "trav")
		require.NoError(t, err)
		assert.Empty(t, byTag)

		byCat, err := s.Writings().ListByCategory(ctx, "fiction")
		require.NoError(t, err)
		assert.Len(t, byCat, 2)

		found, err := s.Writings().Search(ctx, "SONG")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, w2.ID, found[0].ID)

		found, err = s.Writings().Search(ctx, "noi")
		require.NoError(t, err)
		require.Len(t, found, 1)

		found, err = s.Writings().Search(ctx, "100%")
		require.NoError(t, err)
		assert.Empty(t, found)

		time.Sleep(2 * time.Millisecond)
		featured := true
		updated, err := s.Writings().Update(ctx, w2.ID, model.WritingUpdate{IsFeatured: &featured})
		require.NoError(t, err)
		assert.True(t, updated.IsFeatured)
		assert.Equal(t, "Morning Song", updated.Title)
		assert.True(t, updated.UpdatedAt.After(w2.UpdatedAt))

		list, err := s.Writings().ListFeatured(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, w2.ID, list[0].ID)

		list, err = s.Writings().ListByUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, []int64{w1.ID, w2.ID}, []int64{list[0].ID, list[1].ID})

		deleted, err := s.Writings().Delete(ctx, w1.ID)
		require.NoError(t, err)
		assert.True(t, deleted)
		deleted, err = s.Writings().Delete(ctx, w1.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		w3 := mustWriting(t, s, u.ID, "Third")
		assert.Greater(t, w3.ID, w2.ID, "ids are never reused")
	})
}

func TestUsersFoldNonASCII(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		elodie := &model.User{Username: "Élodie", Password: "hash", FullName: "Élodie Roux", Email: "ÉLODIE@example.com"}
		require.NoError(t, s.Users().Create(ctx, elodie))

		dup := &model.User{Username: "élodie", Password: "hash", FullName: "x", Email: "other@example.com"}
		assert.ErrorIs(t, s.Users().Create(ctx, dup), common.ErrConflict)
		dup = &model.User{Username: "roux", Password: "hash", FullName: "x", Email: "élodie@EXAMPLE.com"}
		assert.ErrorIs(t, s.Users().Create(ctx, dup), common.ErrConflict)

		got, err := s.Users().FindByUsername(ctx, "ÉLODIE")
		require.NoError(t, err)
		assert.Equal(t, elodie.ID, got.ID)
		assert.Equal(t, "Élodie", got.Username)

		got, err = s.Users().FindByEmail(ctx, "élodie@example.com")
		require.NoError(t, err)
		assert.Equal(t, elodie.ID, got.ID)
	})
}

func TestWritingsMatchSpecialCharacters(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		u := mustUser(t, s, "alice")
		w := &model.Writing{
			UserID: u.ID, Title: `The "Lab" Notes`, Content: "a <b> tag & more", Description: "notes",
			Category: "Poésie", Tags: []string{"R&D", "ÉTÉ", `say "hi"`}, ReadTime: 1,
		}
		require.NoError(t, s.Writings().Create(ctx, w))
		mustWriting(t, s, u.ID, "Plain")

		got, err := s.Writings().FindByID(ctx, w.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"R&D", "ÉTÉ", `say "hi"`}, got.Tags)

		for _, tag := range []string{"r&d", "été", `SAY "HI"`} {
			byTag, err := s.Writings().ListByTag(ctx, tag)
			require.NoError(t, err)
			require.Len(t, byTag, 1, tag)
			assert.Equal(t, w.ID, byTag[0].ID)
		}

		byCat, err := s.Writings().ListByCategory(ctx, "POÉSIE")
		require.NoError(t, err)
		require.Len(t, byCat, 1)
		assert.Equal(t, w.ID, byCat[0].ID)

		for _, q := range []string{"r&d", "été", `"lab"`, "<B>", "poés"} {
			found, err := s.Writings().Search(ctx, q)
			require.NoError(t, err)
			require.Len(t, found, 1, q)
			assert.Equal(t, w.ID, found[0].ID)
		}
	})
}

func TestRelationsAreUnique(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		a := mustUser(t, s, "alice")
		b := mustUser(t, s, "bob")
		w := mustWriting(t, s, a.ID, "Poem")

		require.NoError(t, s.Likes().Create(ctx, &model.Like{UserID: b.ID, WritingID: w.ID}))
		assert.ErrorIs(t, s.Likes().Create(ctx, &model.Like{UserID: b.ID, WritingID: w.ID}), common.ErrConflict)
		n, err := s.Likes().CountByWriting(ctx, w.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		require.NoError(t, s.Bookmarks().Create(ctx, &model.Bookmark{UserID: b.ID, WritingID: w.ID}))
		assert.ErrorIs(t, s.Bookmarks().Create(ctx, &model.Bookmark{UserID: b.ID, WritingID: w.ID}), common.ErrConflict)

		require.NoError(t, s.Follows().Create(ctx, &model.Follow{FollowerID: a.ID, FollowingID: b.ID}))
		assert.ErrorIs(t, s.Follows().Create(ctx, &model.Follow{FollowerID: a.ID, FollowingID: b.ID}), common.ErrConflict)
		require.NoError(t, s.Follows().Create(ctx, &model.Follow{FollowerID: b.ID, FollowingID: a.ID}))

		followers, err := s.Follows().ListFollowers(ctx, b.ID)
		require.NoError(t, err)
		require.Len(t, followers, 1)
		assert.Equal(t, a.ID, followers[0].FollowerID)

		removed, err := s.Likes().Delete(ctx, b.ID, w.ID)
		require.NoError(t, err)
		assert.True(t, removed)
		removed, err = s.Likes().Delete(ctx, b.ID, w.ID)
		require.NoError(t, err)
		assert.False(t, removed)
		_, err = s.Likes().Find(ctx, b.ID, w.ID)
		assert.ErrorIs(t, err, common.ErrNotFound)

		require.NoError(t, s.Likes().Create(ctx, &model.Like{UserID: b.ID, WritingID: w.ID}))
	})
}

func TestDeletingWritingLeavesRelations(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		a := mustUser(t, s, "alice")
		w := mustWriting(t, s, a.ID, "Ephemeral")
		require.NoError(t, s.Comments().Create(ctx, &model.Comment{UserID: a.ID, WritingID: w.ID, Content: "hi"}))
		require.NoError(t, s.Bookmarks().Create(ctx, &model.Bookmark{UserID: a.ID, WritingID: w.ID}))

		_, err := s.Writings().Delete(ctx, w.ID)
		require.NoError(t, err)

		n, err := s.Comments().CountByWriting(ctx, w.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		bookmarks, err := s.Bookmarks().ListByUser(ctx, a.ID)
		require.NoError(t, err)
		assert.Len(t, bookmarks, 1)
	})
}

func TestNotifications(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		a := mustUser(t, s, "alice")
		for i, typ := range []model.NotificationType{model.NotificationLike, model.NotificationComment, model.NotificationFollow} {
			n := &model.Notification{UserID: a.ID, Type: typ, Message: string(typ), Metadata: map[string]interface{}{"seq": i}}
			require.NoError(t, s.Notifications().Create(ctx, n))
		}

		list, err := s.Notifications().ListByUser(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, model.NotificationFollow, list[0].Type)
		assert.Equal(t, model.NotificationLike, list[2].Type)
		assert.Equal(t, float64(2), list[0].Metadata["seq"])
		for i := 1; i < len(list); i++ {
			assert.False(t, list[i].CreatedAt.After(list[i-1].CreatedAt))
		}

		unread, err := s.Notifications().CountUnread(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, unread)

		read, err := s.Notifications().MarkRead(ctx, list[2].ID)
		require.NoError(t, err)
		assert.True(t, read.IsRead)

		marked, err := s.Notifications().MarkAllRead(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, marked)

		unread, err = s.Notifications().CountUnread(ctx, a.ID)
		require.NoError(t, err)
		assert.Zero(t, unread)

		_, err = s.Notifications().MarkRead(ctx, 999)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestChallengesAndEntries(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		end := time.Now().Add(96 * time.Hour).UTC().Truncate(time.Second)
		c := &model.Challenge{Title: "Future", Description: "d", EndDate: end, WordLimit: strPtr("1000-2500")}
		require.NoError(t, s.Challenges().Create(ctx, c))

		got, err := s.Challenges().FindByID(ctx, c.ID)
		require.NoError(t, err)
		assert.True(t, got.EndDate.Equal(end))
		assert.Equal(t, "1000-2500", *got.WordLimit)

		e := &model.ChallengeEntry{ChallengeID: c.ID, WritingID: 7}
		require.NoError(t, s.Entries().Create(ctx, e))
		assert.Nil(t, e.Rank)

		ranked, err := s.Entries().UpdateRank(ctx, e.ID, 2)
		require.NoError(t, err)
		require.NotNil(t, ranked.Rank)
		assert.Equal(t, 2, *ranked.Rank)

		entries, err := s.Entries().ListByChallenge(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)

		_, err = s.Entries().UpdateRank(ctx, 404, 1)
		assert.ErrorIs(t, err, common.ErrNotFound)

		title := "Renamed"
		updated, err := s.Challenges().Update(ctx, c.ID, model.ChallengeUpdate{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
	})
}

func TestWithTxRollsBack(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		a := mustUser(t, s, "alice")
		boom := errors.New("entry failed")

		err := s.WithTx(ctx, func(tx Store) error {
			w := &model.Writing{UserID: a.ID, Title: "Lost", Content: "c", Description: "d", Category: "Fiction", ReadTime: 1}
			if err := tx.Writings().Create(ctx, w); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		all, err := s.Writings().List(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)

		err = s.WithTx(ctx, func(tx Store) error {
			w := &model.Writing{UserID: a.ID, Title: "Kept", Content: "c", Description: "d", Category: "Fiction", ReadTime: 1}
			if err := tx.Writings().Create(ctx, w); err != nil {
				return err
			}
			return tx.Entries().Create(ctx, &model.ChallengeEntry{ChallengeID: 1, WritingID: w.ID})
		})
		require.NoError(t, err)

		all, err = s.Writings().List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "Kept", all[0].Title)
	})
}
