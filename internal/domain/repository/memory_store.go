package repository

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"pencraft/internal/common"
	"pencraft/internal/domain/model"
)

// table is an id-keyed map with a counter that starts at 1 and never goes back.
type table[T any] struct {
	rows map[int64]T
	next int64
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[int64]T), next: 1}
}

func (t *table[T]) nextID() int64 {
	id := t.next
	t.next++
	return id
}

func (t *table[T]) filter(keep func(T) bool) []T {
	ids := slices.Sorted(maps.Keys(t.rows))
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if row := t.rows[id]; keep == nil || keep(row) {
			out = append(out, row)
		}
	}
	return out
}

func (t *table[T]) clone() *table[T] {
	return &table[T]{rows: maps.Clone(t.rows), next: t.next}
}

type memTables struct {
	users         *table[model.User]
	writings      *table[model.Writing]
	comments      *table[model.Comment]
	likes         *table[model.Like]
	bookmarks     *table[model.Bookmark]
	follows       *table[model.Follow]
	challenges    *table[model.Challenge]
	entries       *table[model.ChallengeEntry]
	notifications *table[model.Notification]
}

func (m *memTables) clone() *memTables {
	return &memTables{
		users:         m.users.clone(),
		writings:      m.writings.clone(),
		comments:      m.comments.clone(),
		likes:         m.likes.clone(),
		bookmarks:     m.bookmarks.clone(),
		follows:       m.follows.clone(),
		challenges:    m.challenges.clone(),
		entries:       m.entries.clone(),
		notifications: m.notifications.clone(),
	}
}

// memStore keeps every table in process memory behind a single mutex.
// A transaction holds the mutex and works on a copy that replaces the
// live tables only when it succeeds.
type memStore struct {
	mu   *sync.Mutex
	t    *memTables
	inTx bool
}

func NewMemoryStore() Store {
	return &memStore{
		mu: &sync.Mutex{},
		t: &memTables{
			users:         newTable[model.User](),
			writings:      newTable[model.Writing](),
			comments:      newTable[model.Comment](),
			likes:         newTable[model.Like](),
			bookmarks:     newTable[model.Bookmark](),
			follows:       newTable[model.Follow](),
			challenges:    newTable[model.Challenge](),
			entries:       newTable[model.ChallengeEntry](),
			notifications: newTable[model.Notification](),
		},
	}
}

func (s *memStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *memStore) Users() UserRepository                 { return memUsers{s} }
func (s *memStore) Writings() WritingRepository           { return memWritings{s} }
func (s *memStore) Comments() CommentRepository           { return memComments{s} }
func (s *memStore) Likes() LikeRepository                 { return memLikes{s} }
func (s *memStore) Bookmarks() BookmarkRepository         { return memBookmarks{s} }
func (s *memStore) Follows() FollowRepository             { return memFollows{s} }
func (s *memStore) Challenges() ChallengeRepository       { return memChallenges{s} }
func (s *memStore) Entries() ChallengeEntryRepository     { return memEntries{s} }
func (s *memStore) Notifications() NotificationRepository { return memNotifications{s} }

func (s *memStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.t.clone()
	if err := fn(&memStore{mu: s.mu, t: work, inTx: true}); err != nil {
		return err
	}
	*s.t = *work
	return nil
}

func (s *memStore) Close() error { return nil }

func notFound(op string) error {
	return fmt.Errorf("%s: %w", op, common.ErrNotFound)
}

func conflict(op string) error {
	return fmt.Errorf("%s: %w", op, common.ErrConflict)
}

func memNow() time.Time {
	return time.Now().UTC()
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, user *model.User) error {
	defer r.s.lock()()
	for _, u := range r.s.t.users.rows {
		if strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email) {
			return conflict("memUsers.Create")
		}
	}
	user.ID = r.s.t.users.nextID()
	user.CreatedAt = memNow()
	r.s.t.users.rows[user.ID] = *user
	return nil
}

func (r memUsers) FindByID(_ context.Context, id int64) (*model.User, error) {
	defer r.s.lock()()
	u, ok := r.s.t.users.rows[id]
	if !ok {
		return nil, notFound("memUsers.FindByID")
	}
	return &u, nil
}

func (r memUsers) FindByUsername(_ context.Context, username string) (*model.User, error) {
	defer r.s.lock()()
	found := r.s.t.users.filter(func(u model.User) bool { return strings.EqualFold(u.Username, username) })
	if len(found) == 0 {
		return nil, notFound("memUsers.FindByUsername")
	}
	return &found[0], nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	defer r.s.lock()()
	found := r.s.t.users.filter(func(u model.User) bool { return strings.EqualFold(u.Email, email) })
	if len(found) == 0 {
		return nil, notFound("memUsers.FindByEmail")
	}
	return &found[0], nil
}

func (r memUsers) Update(_ context.Context, id int64, upd model.UserUpdate) (*model.User, error) {
	defer r.s.lock()()
	u, ok := r.s.t.users.rows[id]
	if !ok {
		return nil, notFound("memUsers.Update")
	}
	upd.Apply(&u)
	r.s.t.users.rows[id] = u
	return &u, nil
}

func (r memUsers) List(_ context.Context) ([]model.User, error) {
	defer r.s.lock()()
	return r.s.t.users.filter(nil), nil
}

type memWritings struct{ s *memStore }

func copyWriting(w model.Writing) model.Writing {
	w.Tags = slices.Clone(w.Tags)
	w.EncodeTags()
	return w
}

func (r memWritings) Create(_ context.Context, w *model.Writing) error {
	defer r.s.lock()()
	w.ID = r.s.t.writings.nextID()
	w.CreatedAt = memNow()
	w.UpdatedAt = w.CreatedAt
	w.EncodeTags()
	r.s.t.writings.rows[w.ID] = copyWriting(*w)
	return nil
}

func (r memWritings) FindByID(_ context.Context, id int64) (*model.Writing, error) {
	defer r.s.lock()()
	w, ok := r.s.t.writings.rows[id]
	if !ok {
		return nil, notFound("memWritings.FindByID")
	}
	w = copyWriting(w)
	return &w, nil
}

func (r memWritings) Update(_ context.Context, id int64, upd model.WritingUpdate) (*model.Writing, error) {
	defer r.s.lock()()
	w, ok := r.s.t.writings.rows[id]
	if !ok {
		return nil, notFound("memWritings.Update")
	}
	upd.Apply(&w)
	w.UpdatedAt = memNow()
	w = copyWriting(w)
	r.s.t.writings.rows[id] = w
	w = copyWriting(w)
	return &w, nil
}

func (r memWritings) Delete(_ context.Context, id int64) (bool, error) {
	defer r.s.lock()()
	if _, ok := r.s.t.writings.rows[id]; !ok {
		return false, nil
	}
	delete(r.s.t.writings.rows, id)
	return true, nil
}

func (r memWritings) list(keep func(model.Writing) bool) []model.Writing {
	defer r.s.lock()()
	rows := r.s.t.writings.filter(keep)
	for i := range rows {
		rows[i] = copyWriting(rows[i])
	}
	return rows
}

func (r memWritings) List(_ context.Context) ([]model.Writing, error) {
	return r.list(nil), nil
}

func (r memWritings) ListByUser(_ context.Context, userID int64) ([]model.Writing, error) {
	return r.list(func(w model.Writing) bool { return w.UserID == userID }), nil
}

func (r memWritings) ListFeatured(_ context.Context) ([]model.Writing, error) {
	return r.list(func(w model.Writing) bool { return w.IsFeatured }), nil
}

func (r memWritings) ListByCategory(_ context.Context, category string) ([]model.Writing, error) {
	return r.list(func(w model.Writing) bool { return strings.EqualFold(w.Category, category) }), nil
}

func (r memWritings) ListByTag(_ context.Context, tag string) ([]model.Writing, error) {
	return r.list(func(w model.Writing) bool { return w.HasTag(tag) }), nil
}

func (r memWritings) Search(_ context.Context, query string) ([]model.Writing, error) {
	return r.list(func(w model.Writing) bool { return w.Matches(query) }), nil
}

type memComments struct{ s *memStore }

func (r memComments) Create(_ context.Context, c *model.Comment) error {
	defer r.s.lock()()
	c.ID = r.s.t.comments.nextID()
	c.CreatedAt = memNow()
	r.s.t.comments.rows[c.ID] = *c
	return nil
}

func (r memComments) FindByID(_ context.Context, id int64) (*model.Comment, error) {
	defer r.s.lock()()
	c, ok := r.s.t.comments.rows[id]
	if !ok {
		return nil, notFound("memComments.FindByID")
	}
	return &c, nil
}

func (r memComments) ListByWriting(_ context.Context, writingID int64) ([]model.Comment, error) {
	defer r.s.lock()()
	return r.s.t.comments.filter(func(c model.Comment) bool { return c.WritingID == writingID }), nil
}

func (r memComments) CountByWriting(ctx context.Context, writingID int64) (int, error) {
	comments, err := r.ListByWriting(ctx, writingID)
	return len(comments), err
}

func (r memComments) Delete(_ context.Context, id int64) (bool, error) {
	defer r.s.lock()()
	if _, ok := r.s.t.comments.rows[id]; !ok {
		return false, nil
	}
	delete(r.s.t.comments.rows, id)
	return true, nil
}

type memLikes struct{ s *memStore }

func (r memLikes) Create(_ context.Context, l *model.Like) error {
	defer r.s.lock()()
	for _, existing := range r.s.t.likes.rows {
		if existing.UserID == l.UserID && existing.WritingID == l.WritingID {
			return conflict("memLikes.Create")
		}
	}
	l.ID = r.s.t.likes.nextID()
	l.CreatedAt = memNow()
	r.s.t.likes.rows[l.ID] = *l
	return nil
}

func (r memLikes) Find(_ context.Context, userID, writingID int64) (*model.Like, error) {
	defer r.s.lock()()
	found := r.s.t.likes.filter(func(l model.Like) bool { return l.UserID == userID && l.WritingID == writingID })
	if len(found) == 0 {
		return nil, notFound("memLikes.Find")
	}
	return &found[0], nil
}

func (r memLikes) ListByWriting(_ context.Context, writingID int64) ([]model.Like, error) {
	defer r.s.lock()()
	return r.s.t.likes.filter(func(l model.Like) bool { return l.WritingID == writingID }), nil
}

func (r memLikes) CountByWriting(ctx context.Context, writingID int64) (int, error) {
	likes, err := r.ListByWriting(ctx, writingID)
	return len(likes), err
}

func (r memLikes) Delete(_ context.Context, userID, writingID int64) (bool, error) {
	defer r.s.lock()()
	for id, l := range r.s.t.likes.rows {
		if l.UserID == userID && l.WritingID == writingID {
			delete(r.s.t.likes.rows, id)
			return true, nil
		}
	}
	return false, nil
}

type memBookmarks struct{ s *memStore }

func (r memBookmarks) Create(_ context.Context, b *model.Bookmark) error {
	defer r.s.lock()()
	for _, existing := range r.s.t.bookmarks.rows {
		if existing.UserID == b.UserID && existing.WritingID == b.WritingID {
			return conflict("memBookmarks.Create")
		}
	}
	b.ID = r.s.t.bookmarks.nextID()
	b.CreatedAt = memNow()
	r.s.t.bookmarks.rows[b.ID] = *b
	return nil
}

func (r memBookmarks) Find(_ context.Context, userID, writingID int64) (*model.Bookmark, error) {
	defer r.s.lock()()
	found := r.s.t.bookmarks.filter(func(b model.Bookmark) bool { return b.UserID == userID && b.WritingID == writingID })
	if len(found) == 0 {
		return nil, notFound("memBookmarks.Find")
	}
	return &found[0], nil
}

func (r memBookmarks) ListByUser(_ context.Context, userID int64) ([]model.Bookmark, error) {
	defer r.s.lock()()
	return r.s.t.bookmarks.filter(func(b model.Bookmark) bool { return b.UserID == userID }), nil
}

func (r memBookmarks) Delete(_ context.Context, userID, writingID int64) (bool, error) {
	defer r.s.lock()()
	for id, b := range r.s.t.bookmarks.rows {
		if b.UserID == userID && b.WritingID == writingID {
			delete(r.s.t.bookmarks.rows, id)
			return true, nil
		}
	}
	return false, nil
}

type memFollows struct{ s *memStore }

func (r memFollows) Create(_ context.Context, f *model.Follow) error {
	defer r.s.lock()()
	for _, existing := range r.s.t.follows.rows {
		if existing.FollowerID == f.FollowerID && existing.FollowingID == f.FollowingID {
			return conflict("memFollows.Create")
		}
	}
	f.ID = r.s.t.follows.nextID()
	f.CreatedAt = memNow()
	r.s.t.follows.rows[f.ID] = *f
	return nil
}

func (r memFollows) Find(_ context.Context, followerID, followingID int64) (*model.Follow, error) {
	defer r.s.lock()()
	found := r.s.t.follows.filter(func(f model.Follow) bool {
		return f.FollowerID == followerID && f.FollowingID == followingID
	})
	if len(found) == 0 {
		return nil, notFound("memFollows.Find")
	}
	return &found[0], nil
}

func (r memFollows) ListFollowers(_ context.Context, userID int64) ([]model.Follow, error) {
	defer r.s.lock()()
	return r.s.t.follows.filter(func(f model.Follow) bool { return f.FollowingID == userID }), nil
}

func (r memFollows) ListFollowing(_ context.Context, userID int64) ([]model.Follow, error) {
	defer r.s.lock()()
	return r.s.t.follows.filter(func(f model.Follow) bool { return f.FollowerID == userID }), nil
}

func (r memFollows) Delete(_ context.Context, followerID, followingID int64) (bool, error) {
	defer r.s.lock()()
	for id, f := range r.s.t.follows.rows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			delete(r.s.t.follows.rows, id)
			return true, nil
		}
	}
	return false, nil
}

type memChallenges struct{ s *memStore }

func (r memChallenges) Create(_ context.Context, c *model.Challenge) error {
	defer r.s.lock()()
	c.ID = r.s.t.challenges.nextID()
	c.CreatedAt = memNow()
	r.s.t.challenges.rows[c.ID] = *c
	return nil
}

func (r memChallenges) FindByID(_ context.Context, id int64) (*model.Challenge, error) {
	defer r.s.lock()()
	c, ok := r.s.t.challenges.rows[id]
	if !ok {
		return nil, notFound("memChallenges.FindByID")
	}
	return &c, nil
}

func (r memChallenges) List(_ context.Context) ([]model.Challenge, error) {
	defer r.s.lock()()
	return r.s.t.challenges.filter(nil), nil
}

func (r memChallenges) Update(_ context.Context, id int64, upd model.ChallengeUpdate) (*model.Challenge, error) {
	defer r.s.lock()()
	c, ok := r.s.t.challenges.rows[id]
	if !ok {
		return nil, notFound("memChallenges.Update")
	}
	upd.Apply(&c)
	r.s.t.challenges.rows[id] = c
	return &c, nil
}

type memEntries struct{ s *memStore }

func (r memEntries) Create(_ context.Context, e *model.ChallengeEntry) error {
	defer r.s.lock()()
	e.ID = r.s.t.entries.nextID()
	e.CreatedAt = memNow()
	r.s.t.entries.rows[e.ID] = *e
	return nil
}

func (r memEntries) FindByID(_ context.Context, id int64) (*model.ChallengeEntry, error) {
	defer r.s.lock()()
	e, ok := r.s.t.entries.rows[id]
	if !ok {
		return nil, notFound("memEntries.FindByID")
	}
	return &e, nil
}

func (r memEntries) ListByChallenge(_ context.Context, challengeID int64) ([]model.ChallengeEntry, error) {
	defer r.s.lock()()
	return r.s.t.entries.filter(func(e model.ChallengeEntry) bool { return e.ChallengeID == challengeID }), nil
}

func (r memEntries) UpdateRank(_ context.Context, id int64, rank int) (*model.ChallengeEntry, error) {
	defer r.s.lock()()
	e, ok := r.s.t.entries.rows[id]
	if !ok {
		return nil, notFound("memEntries.UpdateRank")
	}
	e.Rank = &rank
	r.s.t.entries.rows[id] = e
	return &e, nil
}

type memNotifications struct{ s *memStore }

func copyNotification(n model.Notification) model.Notification {
	n.DecodeMetadata()
	return n
}

func (r memNotifications) Create(_ context.Context, n *model.Notification) error {
	defer r.s.lock()()
	n.ID = r.s.t.notifications.nextID()
	n.CreatedAt = memNow()
	n.EncodeMetadata()
	n.DecodeMetadata()
	r.s.t.notifications.rows[n.ID] = *n
	return nil
}

func (r memNotifications) FindByID(_ context.Context, id int64) (*model.Notification, error) {
	defer r.s.lock()()
	n, ok := r.s.t.notifications.rows[id]
	if !ok {
		return nil, notFound("memNotifications.FindByID")
	}
	n = copyNotification(n)
	return &n, nil
}

func (r memNotifications) ListByUser(_ context.Context, userID int64) ([]model.Notification, error) {
	defer r.s.lock()()
	rows := r.s.t.notifications.filter(func(n model.Notification) bool { return n.UserID == userID })
	slices.SortStableFunc(rows, func(a, b model.Notification) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return int(b.ID - a.ID)
	})
	for i := range rows {
		rows[i] = copyNotification(rows[i])
	}
	return rows, nil
}

func (r memNotifications) MarkRead(_ context.Context, id int64) (*model.Notification, error) {
	defer r.s.lock()()
	n, ok := r.s.t.notifications.rows[id]
	if !ok {
		return nil, notFound("memNotifications.MarkRead")
	}
	n.IsRead = true
	r.s.t.notifications.rows[id] = n
	n = copyNotification(n)
	return &n, nil
}

func (r memNotifications) MarkAllRead(_ context.Context, userID int64) (int, error) {
	defer r.s.lock()()
	marked := 0
	for id, n := range r.s.t.notifications.rows {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			r.s.t.notifications.rows[id] = n
			marked++
		}
	}
	return marked, nil
}

func (r memNotifications) CountUnread(_ context.Context, userID int64) (int, error) {
	defer r.s.lock()()
	unread := 0
	for _, n := range r.s.t.notifications.rows {
		if n.UserID == userID && !n.IsRead {
			unread++
		}
	}
	return unread, nil
}
