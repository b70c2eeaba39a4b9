package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/photo-gallery/internal/application"
	"github.com/oksasatya/photo-gallery/internal/domain/entity"
	"github.com/oksasatya/photo-gallery/internal/infrastructure/memory"
	"github.com/oksasatya/photo-gallery/pkg/helpers"
)

func newAccounts(t *testing.T) (*application.Service, *memory.Store) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	store := memory.NewStore()
	jwt := helpers.NewJWTManager("a", "r", time.Hour, time.Hour)
	return application.NewService(store.Users(), store.Photos(), nil, jwt, nil, logger), store
}

func engine(accounts *application.Service, guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ResolveActor(accounts))
	r.GET("/whoami", guard, func(c *gin.Context) {
		a := ActorFrom(c)
		c.String(http.StatusOK, a.Role.String()+":"+c.GetString(CtxUserIDKey))
	})
	return r
}

func token(t *testing.T, accounts *application.Service, u *entity.User) string {
	t.Helper()
	pair, err := accounts.IssueTokens(context.Background(), u)
	require.NoError(t, err)
	return pair.AccessToken
}

func TestResolveActor(t *testing.T) {
	accounts, store := newAccounts(t)
	u := &entity.User{Name: "Alice", Email: "alice@example.com", Password: "x"}
	require.NoError(t, store.Users().Create(context.Background(), u))
	tok := token(t, accounts, u)
	r := engine(accounts, func(c *gin.Context) { c.Next() })

	cases := []struct {
		name string
		set  func(*http.Request)
		want string
	}{
		{"no token", func(*http.Request) {}, "guest:"},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: helpers.AccessCookie, Value: tok}) }, "user:" + u.ID},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }, "user:" + u.ID},
		{"garbage", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, "guest:"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			tc.set(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, http.StatusOK, w.Code)
			require.Equal(t, tc.want, w.Body.String())
		})
	}
}

func TestResolveActorDeletedUserIsGuest(t *testing.T) {
	accounts, store := newAccounts(t)
	u := &entity.User{Name: "Alice", Email: "alice@example.com", Password: "x"}
	require.NoError(t, store.Users().Create(context.Background(), u))
	tok := token(t, accounts, u)
	require.NoError(t, store.Users().Delete(context.Background(), u.ID))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	engine(accounts, RequireAuth()).ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	accounts, store := newAccounts(t)
	regular := &entity.User{Name: "Alice", Email: "alice@example.com", Password: "x"}
	admin := &entity.User{Name: "Root", Email: "root@example.com", Password: "x", IsAdmin: true}
	require.NoError(t, store.Users().Create(context.Background(), regular))
	require.NoError(t, store.Users().Create(context.Background(), admin))
	r := engine(accounts, RequireAdmin())

	for _, tc := range []struct {
		tok  string
		want int
	}{
		{"", http.StatusUnauthorized},
		{token(t, accounts, regular), http.StatusForbidden},
		{token(t, accounts, admin), http.StatusOK},
	} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if tc.tok != "" {
			req.Header.Set("Authorization", "Bearer "+tc.tok)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, tc.want, w.Code)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	const id = "3f2b1c9e-1d2a-4f7b-9c8d-0e1f2a3b4c5d"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, id)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, id, w.Body.String())
	require.Equal(t, id, w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not a uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.NotEqual(t, "not a uuid", w.Body.String())
}
