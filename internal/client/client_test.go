package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"employee_system/internal/api"
	"employee_system/internal/config"
	"employee_system/internal/domain"
	"employee_system/internal/repository"
	"employee_system/internal/service"
	"employee_system/internal/storage"
	"employee_system/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newAPIServer runs the real router over sqlite, a temp upload dir and miniredis
func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "client.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Employee{}))

	images, err := storage.NewLocalStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	tokens, err := utils.NewTokenService("client-test-secret")
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	cache := utils.NewCache(rdb)

	credentials := service.NewCredentialStore(repository.NewUserRepository(db))
	router := api.NewRouter(api.Deps{
		Config:      &config.Config{CORSOrigins: []string{"*"}},
		Tokens:      tokens,
		Cache:       cache,
		Credentials: credentials,
		Auth:        service.NewAuthGateway(credentials, tokens, cache),
		Employees:   service.NewEmployeeService(repository.NewEmployeeRepository(db), images, cache),
		Images:      images,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func loggedInClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	ctx := context.Background()
	c := New(srv.URL, srv.Client())
	require.NoError(t, c.Register(ctx, "alice", "pw123"))
	token, err := c.Login(ctx, "alice", "pw123")
	require.NoError(t, err)
	c.SetToken(token)
	return c
}

func TestClient_AuthFlow(t *testing.T) {
	srv := newAPIServer(t)
	ctx := context.Background()
	c := New(srv.URL+"/", srv.Client())

	require.NoError(t, c.Register(ctx, "alice", "pw123"))
	err := c.Register(ctx, "alice", "pw123")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))
	assert.Equal(t, "User already exists", err.(*APIError).Message)

	_, err = c.Login(ctx, "alice", "wrong")
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))

	token, err := c.Login(ctx, "alice", "pw123")
	require.NoError(t, err)
	c.SetToken(token)

	u, err := c.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.NotEmpty(t, u.ID)

	require.NoError(t, c.Logout(ctx))
	_, err = c.CurrentUser(ctx)
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
}

func TestClient_EmployeeCRUD(t *testing.T) {
	srv := newAPIServer(t)
	ctx := context.Background()
	c := loggedInClient(t, srv)

	imagePath := filepath.Join(t.TempDir(), "bob.png")
	require.NoError(t, os.WriteFile(imagePath, []byte("\x89PNG fake"), 0o644))

	bob, err := c.CreateEmployee(ctx, EmployeeForm{
		Name: "Bob", Email: "bob@x.com", Mobile: "555", Gender: "Male",
		Course: []string{"MCA", "BCA"}, ImagePath: imagePath,
	})
	require.NoError(t, err)
	assert.Equal(t, "HR", bob.Designation)
	assert.Equal(t, []string{"MCA", "BCA"}, bob.Course)
	require.NotNil(t, bob.Image)
	assert.Contains(t, *bob.Image, "/uploads/")

	resp, err := srv.Client().Get(*bob.Image)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, err = c.CreateEmployee(ctx, EmployeeForm{Name: "Bob2", Email: "bob@x.com", Mobile: "1", Gender: "Male"})
	assert.Equal(t, http.StatusConflict, StatusOf(err))

	_, err = c.CreateEmployee(ctx, EmployeeForm{Name: "NoMail", Gender: "Male"})
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))

	updated, err := c.UpdateEmployee(ctx, bob.ID, EmployeeForm{
		Name: "Robert", Email: "bob@x.com", Mobile: "555", Gender: "Other", Designation: "Manager",
	})
	require.NoError(t, err)
	assert.Equal(t, "Robert", updated.Name)
	assert.Equal(t, "Manager", updated.Designation)
	assert.Empty(t, updated.Course)
	assert.Equal(t, bob.Image, updated.Image)

	got, err := c.GetEmployee(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "Robert", got.Name)

	list, err := c.ListEmployees(ctx, SearchParams{Search: "rob", SortBy: "name", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, bob.ID, list[0].ID)

	deleted, err := c.DeleteEmployee(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, deleted.ID)

	_, err = c.GetEmployee(ctx, bob.ID)
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
	_, err = c.DeleteEmployee(ctx, bob.ID)
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
}

func TestClient_MissingImageFile(t *testing.T) {
	c := New("http://127.0.0.1:0", nil)
	_, err := c.CreateEmployee(context.Background(), EmployeeForm{Name: "x", ImagePath: "/does/not/exist.png"})
	require.Error(t, err)
	assert.Zero(t, StatusOf(err))
}

func TestDecodeError(t *testing.T) {
	err := decodeError(http.StatusTeapot, []byte(`{"message":"short and stout"}`))
	assert.Equal(t, "short and stout", err.Message)
	assert.Equal(t, "short and stout (HTTP 418)", err.Error())

	err = decodeError(http.StatusBadGateway, []byte("<html>"))
	assert.Equal(t, "Bad Gateway", err.Message)
}
