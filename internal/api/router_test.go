package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pencraft/internal/api/middleware"
	"pencraft/internal/app/service"
	"pencraft/internal/common/security"
	"pencraft/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*httptest.Server
	store repository.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := repository.NewMemoryStore()
	tokens := security.NewTokenIssuer([]byte("router-test-secret"), time.Hour)
	revoker := security.NewMemoryRevoker()

	handler := NewRouter(Services{
		Auth:          service.NewAuthService(store, tokens, revoker),
		Writings:      service.NewWritingService(store),
		Comments:      service.NewCommentService(store),
		Interactions:  service.NewInteractionService(store),
		Users:         service.NewUserService(store),
		Challenges:    service.NewChallengeService(store),
		Notifications: service.NewNotificationService(store),
		Uploads:       service.NewUploadService(nil),
	}, RouterOptions{
		TokenAuth:   tokens.Auth,
		Auth:        middleware.NewAuth(store.Users(), revoker),
		FrontendURL: "http://localhost:5173",
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, store: store}
}

// do sends body as JSON and decodes the response into out when out is non-nil.
func (s *testServer) do(t *testing.T, method, path, token string, body, out interface{}) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type authResult struct {
	User struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Password string `json:"password"`
	} `json:"user"`
	Token string `json:"token"`
}

func (s *testServer) register(t *testing.T, username string) authResult {
	t.Helper()
	var res authResult
	code := s.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"username": username,
		"password": "secret1",
		"fullName": username + " Example",
		"email":    username + "@example.com",
	}, &res)
	require.Equal(t, http.StatusCreated, code)
	require.NotEmpty(t, res.Token)
	return res
}

func (s *testServer) createWriting(t *testing.T, token, title string) int64 {
	t.Helper()
	var w struct {
		ID       int64 `json:"id"`
		ReadTime int   `json:"readTime"`
	}
	code := s.do(t, http.MethodPost, "/api/writings", token, map[string]interface{}{
		"title":       title,
		"content":     "It was a dark and stormy night.",
		"description": "An opening line",
		"category":    "Fiction",
		"tags":        []string{"night"},
	}, &w)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, 1, w.ReadTime)
	return w.ID
}

func TestLikeFlow(t *testing.T) {
	s := newTestServer(t)
	a := s.register(t, "alice")
	b := s.register(t, "bob")
	assert.Empty(t, a.User.Password)

	wid := s.createWriting(t, a.Token, "Storm")
	path := fmt.Sprintf("/api/writings/%d", wid)

	assert.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, path+"/like", b.Token, nil, nil))

	var detail struct {
		Stats struct {
			Likes    int `json:"likes"`
			Comments int `json:"comments"`
		} `json:"stats"`
		Author struct {
			Username string `json:"username"`
		} `json:"author"`
		UserInteraction struct {
			Liked      bool `json:"liked"`
			Bookmarked bool `json:"bookmarked"`
		} `json:"userInteraction"`
	}
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, path, b.Token, nil, &detail))
	assert.Equal(t, 1, detail.Stats.Likes)
	assert.Equal(t, "alice", detail.Author.Username)
	assert.True(t, detail.UserInteraction.Liked)
	assert.False(t, detail.UserInteraction.Bookmarked)

	var errResp struct {
		Error string `json:"error"`
	}
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, path+"/like", b.Token, nil, &errResp))
	assert.Contains(t, errResp.Error, "already exists")

	var notes []struct {
		Type     string                 `json:"type"`
		Message  string                 `json:"message"`
		IsRead   bool                   `json:"isRead"`
		Metadata map[string]interface{} `json:"metadata"`
	}
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/notifications", a.Token, nil, &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "like", notes[0].Type)
	assert.Equal(t, float64(wid), notes[0].Metadata["writingId"])

	var unread struct {
		Count int `json:"count"`
	}
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/notifications/unread-count", a.Token, nil, &unread))
	assert.Equal(t, 1, unread.Count)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, path+"/like", b.Token, nil, nil))
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, path+"/like", b.Token, nil, nil))
}

func TestAuthRequiredAndOwnership(t *testing.T) {
	s := newTestServer(t)
	a := s.register(t, "alice")
	b := s.register(t, "bob")
	wid := s.createWriting(t, a.Token, "Mine")
	path := fmt.Sprintf("/api/writings/%d", wid)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/writings", "", map[string]string{"title": "x"}, nil))
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/user", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/user", "not-a-token", nil, nil))
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, path, b.Token, nil, nil))
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/admin/users", b.Token, nil, nil))
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/writings/abc", "", nil, nil))
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/writings/999", "", nil, nil))
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/writings?userId=abc", "", nil, nil))

	var validation struct {
		Error   string `json:"error"`
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	}
	code := s.do(t, http.MethodPost, "/api/writings", a.Token, map[string]string{"title": "Only a title"}, &validation)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, validation.Details)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, path, a.Token, nil, nil))
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	a := s.register(t, "alice")

	var me struct {
		Username string `json:"username"`
	}
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/user", a.Token, nil, &me))
	assert.Equal(t, "alice", me.Username)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodPost, "/api/logout", a.Token, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/user", a.Token, nil, nil))

	var login authResult
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": "alice", "password": "secret1",
	}, &login))
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/user", login.Token, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": "alice", "password": "wrong",
	}, nil))
}

func TestCookieSession(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")

	body, _ := json.Marshal(map[string]string{"username": "alice", "password": "secret1"})
	resp, err := s.Client().Post(s.URL+"/api/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "jwt" {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	req, err := http.NewRequest(http.MethodGet, s.URL+"/api/user", nil)
	require.NoError(t, err)
	req.AddCookie(session)
	resp, err = s.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestFollowAndProfile(t *testing.T) {
	s := newTestServer(t)
	a := s.register(t, "alice")
	b := s.register(t, "bob")
	followPath := fmt.Sprintf("/api/users/%d/follow", a.User.ID)

	assert.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, followPath, b.Token, nil, nil))
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, followPath, b.Token, nil, nil))
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", b.User.ID), b.Token, nil, nil))

	var profile struct {
		Username string `json:"username"`
		Stats    struct {
			FollowersCount int `json:"followersCount"`
		} `json:"stats"`
		IsFollowing bool `json:"isFollowing"`
	}
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d", a.User.ID), b.Token, nil, &profile))
	assert.Equal(t, 1, profile.Stats.FollowersCount)
	assert.True(t, profile.IsFollowing)

	var followers []struct {
		Username string `json:"username"`
	}
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d/followers", a.User.ID), "", nil, &followers))
	require.Len(t, followers, 1)
	assert.Equal(t, "bob", followers[0].Username)

	var updated struct {
		Bio string `json:"bio"`
	}
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/api/users/profile", a.Token, map[string]string{"bio": "Storyteller"}, &updated))
	assert.Equal(t, "Storyteller", updated.Bio)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, followPath, b.Token, nil, nil))
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, followPath, b.Token, nil, nil))
}

func TestChallengeFlow(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, service.Seed(ctx, s.store, "adminpass"))

	var admin authResult
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": "admin", "password": "adminpass",
	}, &admin))
	a := s.register(t, "alice")

	newChallenge := map[string]interface{}{
		"title":       "Ocean",
		"description": "Write about the sea",
		"endDate":     time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"wordLimit":   "500-1000",
	}
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/challenges", a.Token, newChallenge, nil))

	var challenge struct {
		ID int64 `json:"id"`
	}
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/challenges", admin.Token, newChallenge, &challenge))

	var entry struct {
		ID        int64 `json:"id"`
		WritingID int64 `json:"writingId"`
		Writing   struct {
			ID    int64  `json:"id"`
			Title string `json:"title"`
		} `json:"writing"`
	}
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, fmt.Sprintf("/api/challenges/%d/entries", challenge.ID), a.Token, map[string]interface{}{
		"title":       "Tides",
		"content":     "The tide came in.",
		"description": "A sea poem",
		"category":    "Poetry",
	}, &entry))
	assert.Equal(t, entry.Writing.ID, entry.WritingID)

	rankPath := fmt.Sprintf("/api/challenges/%d/entries/%d/rank", challenge.ID, entry.ID)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPut, rankPath, a.Token, map[string]int{"rank": 1}, nil))
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPut, rankPath, admin.Token, map[string]int{"rank": 1}, nil))

	var list []struct {
		Title        string `json:"title"`
		EntriesCount int    `json:"entriesCount"`
	}
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/challenges", "", nil, &list))
	require.Len(t, list, 2)

	var detail struct {
		Entries []struct {
			Rank    *int `json:"rank"`
			Writing struct {
				Title string `json:"title"`
			} `json:"writing"`
		} `json:"entries"`
	}
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, fmt.Sprintf("/api/challenges/%d", challenge.ID), "", nil, &detail))
	require.Len(t, detail.Entries, 1)
	require.NotNil(t, detail.Entries[0].Rank)
	assert.Equal(t, 1, *detail.Entries[0].Rank)
	assert.Equal(t, "Tides", detail.Entries[0].Writing.Title)

	var notes []struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/notifications", a.Token, nil, &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "challenge_rank", notes[0].Type)
	assert.Equal(t, `Your entry in "Ocean" challenge has been ranked #1!`, notes[0].Message)
}

func TestPublicEndpoints(t *testing.T) {
	s := newTestServer(t)

	var categories []string
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/categories", "", nil, &categories))
	assert.Equal(t, service.Categories, categories)

	resp, err := s.Client().Get(s.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	a := s.register(t, "alice")
	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("image", "cover.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, s.URL+"/api/uploads", &form)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+a.Token)
	resp, err = s.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
