package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"products-api/internal/adapter/cache"
	"products-api/internal/adapter/db/postgres"
	"products-api/internal/adapter/gin/handler"
	"products-api/internal/adapter/repository/cached"
	productuc "products-api/internal/usecase/product"
	useruc "products-api/internal/usecase/user"
	"products-api/pkg/security"
	"products-api/pkg/token"
)

type testServer struct {
	router *gin.Engine
	now    time.Time
}

func setupTestServer(t testing.TB, withCache bool) *testServer {
	t.Helper()
	log := zaptest.NewLogger(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, postgres.AutoMigrate(db))

	ts := &testServer{now: time.Now()}
	tokens, err := token.NewManager([]byte("test-secret"), token.WithClock(func() time.Time { return ts.now }))
	require.NoError(t, err)

	var productRepo productuc.Repository = postgres.NewProductRepoPG(db, log)
	if withCache {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		productRepo = cached.NewProductRepository(productRepo, cache.NewRedisProductCache(client, time.Minute, log), log)
	}

	userSvc := useruc.New(postgres.NewUserRepoPG(db, log), security.NewPasswordHasher(bcrypt.MinCost), tokens, log)
	productSvc := productuc.New(productRepo, log)

	ts.router = SetupRouter(
		handler.NewAuthHandler(userSvc, log),
		handler.NewProductHandler(productSvc, log),
		tokens,
		Config{
			ServiceName: "products-api",
			Mode:        gin.TestMode,
			HealthChecks: map[string]HealthCheck{
				"database": sqlDB.PingContext,
			},
		},
		log,
	)
	return ts
}

func (ts *testServer) do(t testing.TB, method, target, tok string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) login(t testing.TB, email, password string) string {
	t.Helper()

	w := ts.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp handler.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestCatalogWorkflow(t *testing.T) {
	for _, withCache := range []bool{false, true} {
		name := "database"
		if withCache {
			name = "cached"
		}
		t.Run(name, func(t *testing.T) {
			ts := setupTestServer(t, withCache)

			w := ts.do(t, http.MethodPost, "/account", "", gin.H{"name": "ana", "email": "ana@x.com", "password": "p1"})
			require.Equal(t, http.StatusOK, w.Code)
			var reg handler.RegisterResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))
			assert.Equal(t, "ana", reg.User.Name)
			assert.NotContains(t, w.Body.String(), "p1")

			tok := ts.login(t, "ana@x.com", "p1")

			milk := gin.H{"name": "Milk", "price": 4.5, "category": 0}
			w = ts.do(t, http.MethodPost, "/products", "", milk)
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			w = ts.do(t, http.MethodPost, "/products", tok, milk)
			require.Equal(t, http.StatusOK, w.Code)
			var created handler.ProductResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
			assert.NotZero(t, created.ID)

			w = ts.do(t, http.MethodGet, "/products", "", nil)
			require.Equal(t, http.StatusOK, w.Code)
			var list []handler.ProductResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
			require.Len(t, list, 1)
			assert.Equal(t, created, list[0])

			w = ts.do(t, http.MethodPut, "/products", tok, gin.H{
				"id": created.ID, "name": "Phone", "price": 800, "category": 3,
			})
			require.Equal(t, http.StatusOK, w.Code)
			var updated handler.ProductResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
			assert.Equal(t, created.ID, updated.ID)
			assert.Equal(t, "Phone", updated.Name)

			w = ts.do(t, http.MethodGet, "/products", "", nil)
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
			require.Len(t, list, 1)
			assert.Equal(t, "Phone", list[0].Name)

			w = ts.do(t, http.MethodDelete, "/products?Id="+created.ID.String(), tok, nil)
			assert.Equal(t, http.StatusNoContent, w.Code)

			w = ts.do(t, http.MethodDelete, "/products?Id="+created.ID.String(), tok, nil)
			assert.Equal(t, http.StatusNotFound, w.Code)

			w = ts.do(t, http.MethodGet, "/products", "", nil)
			assert.JSONEq(t, `[]`, w.Body.String())
		})
	}
}

func TestRegister_Collisions(t *testing.T) {
	ts := setupTestServer(t, false)

	w := ts.do(t, http.MethodPost, "/account", "", gin.H{"name": "ana", "email": "ana@x.com", "password": "p1"})
	require.Equal(t, http.StatusOK, w.Code)

	for _, body := range []gin.H{
		{"name": "bob", "email": "ana@x.com", "password": "p2"},
		{"name": "ana", "email": "bob@x.com", "password": "p2"},
	} {
		w = ts.do(t, http.MethodPost, "/account", "", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"conflict"}`, w.Body.String())
	}
}

func TestLogin_Mismatch(t *testing.T) {
	ts := setupTestServer(t, false)

	w := ts.do(t, http.MethodPost, "/account", "", gin.H{"name": "ana", "email": "ana@x.com", "password": "p1"})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": "ana@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": "nobody@x.com", "password": "p1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdate_UnknownProduct(t *testing.T) {
	ts := setupTestServer(t, false)
	_ = ts.do(t, http.MethodPost, "/account", "", gin.H{"name": "ana", "email": "ana@x.com", "password": "p1"})
	tok := ts.login(t, "ana@x.com", "p1")

	w := ts.do(t, http.MethodPut, "/products", tok, gin.H{
		"id": "00000000-0000-0000-0000-000000000001", "name": "Ghost", "price": 1, "category": 0,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToken_ExpiresAfterOneHour(t *testing.T) {
	ts := setupTestServer(t, false)
	_ = ts.do(t, http.MethodPost, "/account", "", gin.H{"name": "ana", "email": "ana@x.com", "password": "p1"})
	tok := ts.login(t, "ana@x.com", "p1")
	issued := ts.now
	body := gin.H{"name": "Milk", "price": 4.5, "category": 0}

	ts.now = issued.Add(time.Hour - time.Second)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/products", tok, body).Code)

	ts.now = issued.Add(time.Hour + time.Second)
	w := ts.do(t, http.MethodPost, "/products", tok, body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	ts := setupTestServer(t, false)

	for _, tc := range []struct{ method, target string }{
		{http.MethodPost, "/products"},
		{http.MethodPut, "/products"},
		{http.MethodDelete, "/products?Id=00000000-0000-0000-0000-000000000001"},
	} {
		w := ts.do(t, tc.method, tc.target, "not-a-jwt", gin.H{})
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.method)
	}

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/products", "", nil).Code)
}

func TestHealth(t *testing.T) {
	ts := setupTestServer(t, false)

	w := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"products-api","checks":{"database":"ok"}}`, w.Body.String())
}

func TestHealth_Unhealthy(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := zaptest.NewLogger(t)
	r := SetupRouter(
		handler.NewAuthHandler(nil, log),
		handler.NewProductHandler(nil, log),
		nil,
		Config{
			ServiceName: "products-api",
			HealthChecks: map[string]HealthCheck{
				"redis": func(context.Context) error { return errors.New("connection refused") },
			},
		},
		log,
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "unhealthy")
}

func TestAPIDocs(t *testing.T) {
	ts := setupTestServer(t, false)

	w := ts.do(t, http.MethodGet, SpecPath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc["swagger"])

	w = ts.do(t, http.MethodGet, "/swagger/index.html", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
