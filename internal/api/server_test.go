package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"employee_system/internal/config"
	"employee_system/internal/domain"
	"employee_system/internal/middleware"
	"employee_system/internal/repository"
	"employee_system/internal/service"
	"employee_system/internal/storage"
	"employee_system/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	tokens *utils.TokenService
	images *storage.LocalStore
	cache  *utils.Cache
	auth   *service.AuthGateway
}

type serverOption func(*config.Config, *Deps)

func withRedis(t *testing.T) serverOption {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return func(_ *config.Config, d *Deps) {
		d.Cache = utils.NewCache(rdb)
		d.RateLimiter = middleware.NewRateLimiter(rdb, 1000, time.Minute)
	}
}

func withProduction(buildDir string) serverOption {
	return func(cfg *config.Config, _ *Deps) {
		cfg.IsProd = true
		cfg.ClientBuildDir = buildDir
	}
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "api.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Employee{}))

	images, err := storage.NewLocalStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	tokens, err := utils.NewTokenService("api-test-secret")
	require.NoError(t, err)

	cfg := &config.Config{CORSOrigins: []string{"*"}, ClientBuildDir: t.TempDir(), TrustedProxies: []string{"127.0.0.1"}}
	d := Deps{Config: cfg, Tokens: tokens, Images: images}
	for _, opt := range opts {
		opt(cfg, &d)
	}
	d.Credentials = service.NewCredentialStore(repository.NewUserRepository(db))
	d.Auth = service.NewAuthGateway(d.Credentials, tokens, d.Cache)
	d.Employees = service.NewEmployeeService(repository.NewEmployeeRepository(db), images, d.Cache)
	d.Ping = func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}

	return &testServer{router: NewRouter(d), db: db, tokens: tokens, images: images, cache: d.Cache, auth: d.Auth}
}

func (s *testServer) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) postJSON(t *testing.T, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return s.do(t, http.MethodPost, path, "", bytes.NewReader(b), "application/json")
}

// login registers a user and returns a session token
func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	w := s.postJSON(t, "/api/auth/register", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = s.postJSON(t, "/api/auth/login", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

type formFile struct {
	field, name string
	content     []byte
}

type formField struct{ key, value string }

func multipartForm(t *testing.T, fields []formField, files ...formFile) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range fields {
		require.NoError(t, mw.WriteField(f.key, f.value))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func bobFields() []formField {
	return []formField{
		{"name", "Bob"}, {"email", "bob@x.com"}, {"mobile", "555"}, {"gender", "Male"},
	}
}

func (s *testServer) createEmployee(t *testing.T, token string, fields []formField, files ...formFile) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartForm(t, fields, files...)
	return s.do(t, http.MethodPost, "/api/employees/createEmployee", token, body, ct)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, w)["message"].(string)
}
