package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/anonto42/microblog/internal/migrations"
	"github.com/anonto42/microblog/internal/models"
	"github.com/anonto42/microblog/internal/repositories"
	"github.com/anonto42/microblog/internal/tasks"
	"github.com/anonto42/microblog/pkg/config"
	"github.com/anonto42/microblog/pkg/firebase"
	"github.com/anonto42/microblog/pkg/mail/mailtest"
)

type memoryIndex struct {
	mu   sync.Mutex
	docs map[uint]string
}

func (m *memoryIndex) Add(_ context.Context, _ string, id uint, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs == nil {
		m.docs = map[uint]string{}
	}
	m.docs[id], _ = fields["body"].(string)
	return nil
}

func (m *memoryIndex) Remove(_ context.Context, _ string, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	return nil
}

func (m *memoryIndex) Query(_ context.Context, _ string, q string, _, _ int) ([]uint, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []uint
	for id, body := range m.docs {
		if strings.Contains(strings.ToLower(body), strings.ToLower(q)) {
			ids = append(ids, id)
		}
	}
	return ids, int64(len(ids)), nil
}

type fakeVerifier struct {
	identities map[string]*firebase.Identity
}

func (f fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*firebase.Identity, error) {
	if id, ok := f.identities[idToken]; ok {
		return id, nil
	}
	return nil, errors.New("bad token")
}

type testApp struct {
	e      *echo.Echo
	db     *gorm.DB
	mailer *mailtest.Recorder
	index  *memoryIndex
}

func newTestApp(t *testing.T, configure func(*Deps)) *testApp {
	t.Helper()
	cfg := (&config.Config{
		SecretKey: "test-secret",
		Admins:    []string{"admin@microblog.lol"},
	}).TestConfig()

	db, err := config.InitDB(cfg.DatabaseURL)
	require.NoError(t, err)
	t.Cleanup(db.CloseDB)
	require.NoError(t, migrations.Upgrade(db.Gorm, ""))

	app := &testApp{db: db.Gorm, mailer: &mailtest.Recorder{}, index: &memoryIndex{}}
	deps := Deps{Config: cfg, DB: db.Gorm, Mailer: app.mailer, Search: app.index}
	if configure != nil {
		configure(&deps)
	}
	app.e = New(deps)
	return app
}

func (a *testApp) do(t *testing.T, method, path, body, token string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// signup registers a user and returns a session token for them.
func (a *testApp) signup(t *testing.T, username string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/auth/register",
		`{"username":"`+username+`","email":"`+username+`@example.com","password":"password123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return a.login(t, username, "password123")
}

func (a *testApp) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/auth/login", `{"username":"`+username+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode(t, rec)["token"].(string)
}

func (a *testApp) post(t *testing.T, token, body string) uint {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/posts", `{"body":"`+body+`"}`, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return uint(decode(t, rec)["data"].(map[string]any)["id"].(float64))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func bodies(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	posts := decode(t, rec)["data"].(map[string]any)["posts"].([]any)
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.(map[string]any)["body"].(string)
	}
	return out
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])
}

func TestRegisterAndLogin(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodPost, "/api/v1/auth/register",
		`{"username":"susan","email":"susan@example.com","password":"password123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "susan", data["username"])
	assert.Contains(t, data["avatar"], "gravatar.com")
	assert.NotContains(t, rec.Body.String(), "password")

	rec = app.do(t, http.MethodPost, "/api/v1/auth/register",
		`{"username":"susan","email":"other@example.com","password":"password123"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/v1/auth/register",
		`{"username":"other","email":"susan@example.com","password":"password123"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/v1/auth/register", `{"username":"x","email":"bad","password":"1"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.NotEmpty(t, app.login(t, "susan", "password123"))

	rec = app.do(t, http.MethodPost, "/api/v1/auth/login", `{"username":"susan","password":"wrong-password"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = app.do(t, http.MethodPost, "/api/v1/auth/login", `{"username":"nobody","password":"password123"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t, nil)

	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodGet, "/api/v1/index", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodGet, "/api/v1/index", "", "garbage").Code)
}

func TestTimeline(t *testing.T) {
	app := newTestApp(t, nil)
	john := app.signup(t, "john")
	susan := app.signup(t, "susan")
	mary := app.signup(t, "mary")
	david := app.signup(t, "david")

	app.post(t, john, "post from john")
	app.post(t, susan, "post from susan")
	app.post(t, mary, "post from mary")
	app.post(t, david, "post from david")

	for _, f := range []struct{ token, target string }{
		{john, "susan"}, {john, "david"}, {susan, "mary"}, {mary, "david"},
	} {
		rec := app.do(t, http.MethodPost, "/api/v1/follow/"+f.target, "", f.token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	cases := map[string]struct {
		token string
		want  []string
	}{
		"john":  {john, []string{"post from david", "post from susan", "post from john"}},
		"susan": {susan, []string{"post from mary", "post from susan"}},
		"mary":  {mary, []string{"post from david", "post from mary"}},
		"david": {david, []string{"post from david"}},
	}
	for name, tc := range cases {
		rec := app.do(t, http.MethodGet, "/api/v1/index", "", tc.token)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, tc.want, bodies(t, rec), name)
	}

	rec := app.do(t, http.MethodGet, "/api/v1/index", "", john)
	meta := decode(t, rec)["meta"].(map[string]any)
	assert.Equal(t, float64(1), meta["currentPage"])
	assert.Equal(t, float64(3), meta["totalItems"])
	assert.Equal(t, false, meta["hasNextPage"])

	rec = app.do(t, http.MethodGet, "/api/v1/explore", "", david)
	assert.Len(t, bodies(t, rec), 4)
}

func TestTimelinePagination(t *testing.T) {
	app := newTestApp(t, nil)
	john := app.signup(t, "john")
	for i := 0; i < config.PostsPerPage+2; i++ {
		app.post(t, john, "post")
	}

	rec := app.do(t, http.MethodGet, "/api/v1/index?page=2", "", john)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, bodies(t, rec), 2)
	meta := decode(t, rec)["meta"].(map[string]any)
	assert.Equal(t, float64(2), meta["totalPages"])
	assert.Equal(t, true, meta["hasPreviousPage"])
	assert.Equal(t, false, meta["hasNextPage"])
}

func TestFollowRules(t *testing.T) {
	app := newTestApp(t, nil)
	john := app.signup(t, "john")
	susan := app.signup(t, "susan")

	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodPost, "/api/v1/follow/john", "", john).Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodPost, "/api/v1/follow/nobody", "", john).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodPost, "/api/v1/unfollow/susan", "", john).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodPost, "/api/v1/unfollow/john", "", john).Code)

	rec := app.do(t, http.MethodPost, "/api/v1/follow/susan", "", john)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "You are following susan!", decode(t, rec)["message"])
	assert.Equal(t, http.StatusConflict, app.do(t, http.MethodPost, "/api/v1/follow/susan", "", john).Code)

	rec = app.do(t, http.MethodGet, "/api/v1/notifications", "", susan)
	require.Equal(t, http.StatusOK, rec.Code)
	var notes []models.NotificationView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationNewFollower, notes[0].Name)
	assert.Equal(t, "john", notes[0].Data.(map[string]any)["username"])

	rec = app.do(t, http.MethodGet, "/api/v1/users/susan/followers", "", john)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decode(t, rec)["data"].(map[string]any)["users"].([]any)
	require.Len(t, users, 1)
	assert.Equal(t, "john", users[0].(map[string]any)["username"])

	rec = app.do(t, http.MethodGet, "/api/v1/users/john/followed", "", susan)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"].(map[string]any)["users"].([]any), 1)

	assert.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/api/v1/unfollow/susan", "", john).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodPost, "/api/v1/unfollow/susan", "", john).Code)
}

func TestProfile(t *testing.T) {
	app := newTestApp(t, nil)
	john := app.signup(t, "john")
	susan := app.signup(t, "susan")
	app.post(t, susan, "hello from susan")
	require.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/api/v1/follow/susan", "", john).Code)

	rec := app.do(t, http.MethodGet, "/api/v1/users/susan", "", john)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	user := data["user"].(map[string]any)
	assert.Equal(t, "susan", user["username"])
	assert.Contains(t, user["avatar"], "s=128")
	assert.Equal(t, float64(1), user["followers_count"])
	assert.Equal(t, float64(0), user["followed_count"])
	assert.Equal(t, true, user["is_following"])
	assert.NotNil(t, user["last_seen"])
	assert.Len(t, data["posts"].([]any), 1)

	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/api/v1/users/nobody", "", john).Code)
}

func TestUpdateProfile(t *testing.T) {
	app := newTestApp(t, nil)
	john := app.signup(t, "john")
	app.signup(t, "susan")

	rec := app.do(t, http.MethodPut, "/api/v1/profile", `{"username":"johnny","about_me":"I like Go"}`, john)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/api/v1/users/johnny", "", john)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "I like Go", decode(t, rec)["data"].(map[string]any)["user"].(map[string]any)["about_me"])

	rec = app.do(t, http.MethodPut, "/api/v1/profile", `{"username":"susan"}`, john)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(t, http.MethodPut, "/api/v1/profile", `{"username":"johnny","about_me":"`+strings.Repeat("a", 141)+`"}`, john)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeletePost(t *testing.T) {
	app := newTestApp(t, nil)
	john := app.signup(t, "john")
	susan := app.signup(t, "susan")
	id := app.post(t, john, "to be deleted")
	path := "/api/v1/posts/" + itoa(id)

	assert.Equal(t, http.StatusForbidden, app.do(t, http.MethodDelete, path, "", susan).Code)
	assert.Equal(t, http.StatusNoContent, app.do(t, http.MethodDelete, path, "", john).Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodDelete, path, "", john).Code)
	assert.Empty(t, app.index.docs)
}

func TestBlankPostRejected(t *testing.T) {
	app := newTestApp(t, nil)
	john := app.signup(t, "john")

	rec := app.do(t, http.MethodPost, "/api/v1/posts", `{"body":"   "}`, john)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "body must not be blank")

	rec = app.do(t, http.MethodGet, "/api/v1/explore", "", john)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, bodies(t, rec))

	app.post(t, john, "  padded  ")
	rec = app.do(t, http.MethodGet, "/api/v1/explore", "", john)
	assert.Equal(t, []string{"padded"}, bodies(t, rec))
}

func TestPostRecordsRequestLanguage(t *testing.T) {
	app := newTestApp(t, nil)
	john := app.signup(t, "john")

	rec := app.do(t, http.MethodPost, "/api/v1/posts", `{"body":"zdravo svete"}`, john, "Accept-Language", "sr")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "sr", decode(t, rec)["data"].(map[string]any)["language"])

	rec = app.do(t, http.MethodPost, "/api/v1/posts", `{"body":"hello world"}`, john)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "en", decode(t, rec)["data"].(map[string]any)["language"])
}

func TestSearch(t *testing.T) {
	app := newTestApp(t, nil)
	john := app.signup(t, "john")
	app.post(t, john, "the quick brown fox")
	app.post(t, john, "lazy dog")

	rec := app.do(t, http.MethodGet, "/api/v1/search?q=fox", "", john)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"the quick brown fox"}, bodies(t, rec))

	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodGet, "/api/v1/search?q=", "", john).Code)
}

func TestMessages(t *testing.T) {
	app := newTestApp(t, nil)
	john := app.signup(t, "john")
	susan := app.signup(t, "susan")

	rec := app.do(t, http.MethodPost, "/api/v1/send_message/john", `{"body":"hi john"}`, susan)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodPost, "/api/v1/send_message/nobody", `{"body":"hi"}`, susan).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodPost, "/api/v1/send_message/john", `{"body":"  "}`, susan).Code)

	unread := func() any {
		rec := app.do(t, http.MethodGet, "/api/v1/notifications", "", john)
		require.Equal(t, http.StatusOK, rec.Code)
		var notes []models.NotificationView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
		for _, n := range notes {
			if n.Name == models.NotificationUnreadMessageCount {
				return n.Data
			}
		}
		return nil
	}
	assert.Equal(t, float64(1), unread())

	rec = app.do(t, http.MethodGet, "/api/v1/messages", "", john)
	require.Equal(t, http.StatusOK, rec.Code)
	msgs := decode(t, rec)["data"].(map[string]any)["messages"].([]any)
	require.Len(t, msgs, 1)
	msg := msgs[0].(map[string]any)
	assert.Equal(t, "hi john", msg["body"])
	assert.Equal(t, "susan", msg["author"].(map[string]any)["username"])

	assert.Equal(t, float64(0), unread())
}

func TestNotificationsSince(t *testing.T) {
	app := newTestApp(t, nil)
	john := app.signup(t, "john")

	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodGet, "/api/v1/notifications?since=yesterday", "", john).Code)

	future := itoa(uint(time.Now().Add(time.Hour).Unix()))
	rec := app.do(t, http.MethodGet, "/api/v1/notifications?since="+future, "", john)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestPasswordReset(t *testing.T) {
	app := newTestApp(t, nil)
	app.signup(t, "john")

	rec := app.do(t, http.MethodPost, "/api/v1/auth/reset_password_request", `{"email":"nobody@example.com"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/v1/auth/reset_password_request", `{"email":"john@example.com"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Eventually(t, func() bool { return len(app.mailer.Messages()) == 1 }, 2*time.Second, 10*time.Millisecond)

	msg := app.mailer.Messages()[0]
	assert.Equal(t, "[Microblog] Reset Your Password", msg.Subject)
	assert.Equal(t, "admin@microblog.lol", msg.Sender)
	assert.Equal(t, []string{"john@example.com"}, msg.Recipients)

	_, rest, found := strings.Cut(msg.TextBody, "/reset_password/")
	require.True(t, found)
	token, _, _ := strings.Cut(rest, "\n")

	rec = app.do(t, http.MethodPost, "/api/v1/auth/reset_password/not-a-token", `{"password":"brand-new-pass"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/v1/auth/reset_password/"+token, `{"password":"brand-new-pass"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.NotEmpty(t, app.login(t, "john", "brand-new-pass"))
	rec = app.do(t, http.MethodPost, "/api/v1/auth/login", `{"username":"john","password":"password123"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExportPosts(t *testing.T) {
	t.Run("disabled without redis", func(t *testing.T) {
		app := newTestApp(t, nil)
		john := app.signup(t, "john")
		assert.Equal(t, http.StatusServiceUnavailable, app.do(t, http.MethodPost, "/api/v1/export_posts", "", john).Code)
	})

	t.Run("queued once", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })

		var db *gorm.DB
		app := newTestApp(t, func(d *Deps) {
			db = d.DB
			d.Queue = tasks.NewQueue(rdb, repositories.NewPostgresTaskRepository(d.DB))
		})
		require.NotNil(t, db)
		john := app.signup(t, "john")

		rec := app.do(t, http.MethodPost, "/api/v1/export_posts", "", john)
		require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
		assert.Equal(t, "Exporting posts...", decode(t, rec)["message"])
		assert.Equal(t, http.StatusConflict, app.do(t, http.MethodPost, "/api/v1/export_posts", "", john).Code)

		items, err := mr.List(tasks.QueueName)
		require.NoError(t, err)
		assert.Len(t, items, 1)

		rec = app.do(t, http.MethodGet, "/api/v1/tasks", "", john)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode(t, rec)["data"].(map[string]any)["tasks"].([]any), 1)
	})
}

func TestFirebaseLogin(t *testing.T) {
	app := newTestApp(t, nil)
	rec := app.do(t, http.MethodPost, "/api/v1/auth/firebase-login", `{"idToken":"abc"}`, "")
	assert.NotEqual(t, http.StatusOK, rec.Code)

	app = newTestApp(t, func(d *Deps) {
		d.Firebase = fakeVerifier{identities: map[string]*firebase.Identity{
			"new":      {UID: "fb-1", Email: "new.person@example.com", Name: "New Person"},
			"john":     {UID: "fb-2", Email: "john@example.com", EmailVerified: true},
			"impostor": {UID: "fb-3", Email: "john@example.com"},
		}}
	})
	app.signup(t, "john")

	rec = app.do(t, http.MethodPost, "/api/v1/auth/firebase-login", `{"idToken":"new"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, decode(t, rec)["token"])
	users := repositories.NewPostgresUserRepository(app.db)
	created, err := users.GetUserByFirebaseUID("fb-1")
	require.NoError(t, err)
	assert.Equal(t, "NewPerson", created.Username)

	rec = app.do(t, http.MethodPost, "/api/v1/auth/firebase-login", `{"idToken":"impostor"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	_, err = users.GetUserByFirebaseUID("fb-3")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	rec = app.do(t, http.MethodPost, "/api/v1/auth/firebase-login", `{"idToken":"john"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	linked, err := users.GetUserByFirebaseUID("fb-2")
	require.NoError(t, err)
	assert.Equal(t, "john", linked.Username)

	rec = app.do(t, http.MethodPost, "/api/v1/auth/firebase-login", `{"idToken":"forged"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLocalizedMessages(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodPost, "/api/v1/auth/login", `{"username":"nobody","password":"password123"}`, "",
		"Accept-Language", "sr-RS,sr;q=0.9")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Pogrešno korisničko ime ili lozinka", decode(t, rec)["message"])
	assert.Equal(t, "sr", rec.Header().Get("Content-Language"))
}

func TestAuthRateLimit(t *testing.T) {
	app := newTestApp(t, nil)

	limited := false
	for i := 0; i < 3*authRateLimit; i++ {
		rec := app.do(t, http.MethodPost, "/api/v1/auth/login", `{"username":"nobody","password":"password123"}`, "")
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	assert.True(t, limited)
}

func itoa(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}
