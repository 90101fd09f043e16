package service

import (
	"context"
	"strings"
	"testing"

	"employee_system/internal/domain"
	"employee_system/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCredentialStore_RegisterAndVerify(t *testing.T) {
	store := NewCredentialStore(repository.NewUserRepository(newTestDB(t)))
	ctx := context.Background()

	user, err := store.Register(ctx, "  alice ", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "pw123", user.PasswordHash)

	cost, err := bcrypt.Cost([]byte(user.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, BcryptCost, cost)

	got, err := store.VerifyCredentials(ctx, "alice", "pw123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	byID, err := store.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestCredentialStore_RegisterErrors(t *testing.T) {
	store := NewCredentialStore(repository.NewUserRepository(newTestDB(t)))
	ctx := context.Background()

	_, err := store.Register(ctx, "", "pw")
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
	_, err = store.Register(ctx, "bob", "")
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)

	_, err = store.Register(ctx, "bob", strings.Repeat("p", MaxPasswordLength+1))
	assert.ErrorIs(t, err, domain.ErrPasswordTooLong)
	assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
	_, err = store.Register(ctx, "bob", strings.Repeat("é", 37)) // 74 bytes, 37 runes
	assert.ErrorIs(t, err, domain.ErrPasswordTooLong)

	_, err = store.Register(ctx, "bob", strings.Repeat("p", MaxPasswordLength))
	require.NoError(t, err)
	_, err = store.Register(ctx, "bob", "other")
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
}

func TestCredentialStore_UniformInvalidCredentials(t *testing.T) {
	store := NewCredentialStore(repository.NewUserRepository(newTestDB(t)))
	ctx := context.Background()
	_, err := store.Register(ctx, "alice", "pw123")
	require.NoError(t, err)

	_, wrongPassword := store.VerifyCredentials(ctx, "alice", "nope")
	_, unknownUser := store.VerifyCredentials(ctx, "mallory", "pw123")
	assert.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestCredentialStore_VerifyRejectsOverlongPassword(t *testing.T) {
	store := NewCredentialStore(repository.NewUserRepository(newTestDB(t)))
	ctx := context.Background()
	password := strings.Repeat("p", MaxPasswordLength)
	_, err := store.Register(ctx, "alice", password)
	require.NoError(t, err)

	_, err = store.VerifyCredentials(ctx, "alice", password)
	require.NoError(t, err)
	_, err = store.VerifyCredentials(ctx, "alice", password+"extra")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestCredentialStore_FindByIDNotFound(t *testing.T) {
	store := NewCredentialStore(repository.NewUserRepository(newTestDB(t)))

	_, err := store.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// racingUsers reports a free username but loses the insert to a concurrent register
type racingUsers struct{ UserStore }

func (racingUsers) ExistsByUsername(context.Context, string) (bool, error) { return false, nil }
func (racingUsers) Create(context.Context, *domain.User) error { return domain.ErrUsernameTaken }

func TestCredentialStore_RegisterRace(t *testing.T) {
	store := NewCredentialStore(racingUsers{})

	_, err := store.Register(context.Background(), "alice", "pw")
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}
