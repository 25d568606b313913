package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"member_directory/internal/config"
	"member_directory/internal/logging"
	"member_directory/internal/model"
	"member_directory/internal/ratelimit"
	"member_directory/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bcrypt.MinCost keeps the suite fast
var testHasher = utils.NewPasswordHasher(4)

func newTestJWT() *utils.JWTUtil {
	return utils.NewJWTUtil("test-secret", "member-directory", "member-directory-clients", time.Hour)
}

func newTestAuthService(repo *fakeAccountRepo, limiter *ratelimit.Limiter) AuthService {
	return NewAuthService(repo, newTestJWT(), testHasher, limiter, logging.Discard())
}

func addAccount(t *testing.T, repo *fakeAccountRepo, email, password string, role model.Role, active bool) *model.Account {
	t.Helper()
	hash, err := testHasher.Hash(password)
	require.NoError(t, err)
	a := &model.Account{Email: email, Name: "Test", PasswordHash: hash, IsActive: active, Role: role}
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

func TestRegister(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newTestAuthService(repo, nil)

	account, err := svc.Register(context.Background(), model.RegisterRequest{Email: " New@Example.com ", Password: "password123", Name: "New"})
	require.NoError(t, err)

	assert.NotEmpty(t, account.ID)
	assert.Equal(t, "new@example.com", account.Email)
	assert.Equal(t, model.RoleDevotee, account.Role)
	assert.True(t, account.IsActive)
	assert.False(t, account.IsTempPassword)
	assert.True(t, testHasher.Compare("password123", repo.get(account.ID).PasswordHash))

	user := account.Public()
	assert.Equal(t, "Devotee", user.RoleName)
	assert.Equal(t, 3, user.UserRoleID)

	_, err = svc.Register(context.Background(), model.RegisterRequest{Email: "new@example.com", Password: "password123", Name: "Dup"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegister_PasswordTooLong(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newTestAuthService(repo, nil)

	// 40 runes, 80 bytes
	_, err := svc.Register(context.Background(), model.RegisterRequest{Email: "wide@example.com", Password: strings.Repeat("é", 40), Name: "Wide"})
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	found, err := repo.FindByEmail(context.Background(), "wide@example.com")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestLogin_LongPasswordUnknownEmailDoesFullWork(t *testing.T) {
	repo := newFakeAccountRepo()
	hasher := utils.NewPasswordHasher(10)
	hash, err := hasher.Hash("correct-horse")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), &model.Account{Email: "user@example.com", Name: "U", PasswordHash: hash, IsActive: true, Role: model.RoleDevotee}))
	svc := NewAuthService(repo, newTestJWT(), hasher, nil, logging.Discard())
	long := strings.Repeat("x", 80)

	start := time.Now()
	_, err = svc.Login(context.Background(), "user@example.com", long)
	known := time.Since(start)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	start = time.Now()
	_, err = svc.Login(context.Background(), "nobody@example.com", long)
	unknown := time.Since(start)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.Greater(t, unknown, known/4, "unknown email must pay the same bcrypt cost")
}

func TestLogin_TokenValidates(t *testing.T) {
	repo := newFakeAccountRepo()
	account := addAccount(t, repo, "user@example.com", "correct-horse", model.RoleAdmin, true)
	svc := newTestAuthService(repo, nil)

	res, err := svc.Login(context.Background(), "USER@example.com", "correct-horse")
	require.NoError(t, err)
	assert.False(t, res.IsTempPassword)

	claims, err := newTestJWT().ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.Subject)
	assert.Equal(t, "Admin", claims.Role)
	assert.Equal(t, "user@example.com", claims.Email)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	repo := newFakeAccountRepo()
	addAccount(t, repo, "a@b.com", "the-real-password", model.RoleDevotee, true)
	addAccount(t, repo, "off@b.com", "the-real-password", model.RoleDevotee, false)
	svc := newTestAuthService(repo, nil)

	_, wrongPassword := svc.Login(context.Background(), "a@b.com", "wrong")
	_, unknown := svc.Login(context.Background(), "nobody@b.com", "wrong")
	_, inactive := svc.Login(context.Background(), "off@b.com", "the-real-password")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, ErrInvalidCredentials)
	assert.ErrorIs(t, inactive, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknown.Error())
}

func TestLogin_RepositoryError(t *testing.T) {
	repo := newFakeAccountRepo()
	repo.err = errors.New("db down")
	svc := newTestAuthService(repo, nil)

	_, err := svc.Login(context.Background(), "a@b.com", "x")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_RateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	limiter := ratelimit.NewLimiter(client, ratelimit.Config{MaxAttempts: 2, Window: time.Minute})

	repo := newFakeAccountRepo()
	addAccount(t, repo, "a@b.com", "the-real-password", model.RoleDevotee, true)
	svc := newTestAuthService(repo, limiter)

	for i := 0; i < 2; i++ {
		_, err := svc.Login(context.Background(), "a@b.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, err := svc.Login(context.Background(), "a@b.com", "the-real-password")
	assert.ErrorIs(t, err, ErrRateLimited)

	mr.FastForward(time.Minute + time.Second)
	_, err = svc.Login(context.Background(), "a@b.com", "the-real-password")
	assert.NoError(t, err)
}

func TestLogin_LimiterDownFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	limiter := ratelimit.NewLimiter(client, ratelimit.Config{MaxAttempts: 1, Window: time.Minute})
	mr.Close()

	repo := newFakeAccountRepo()
	addAccount(t, repo, "a@b.com", "the-real-password", model.RoleDevotee, true)
	svc := newTestAuthService(repo, limiter)

	_, err := svc.Login(context.Background(), "a@b.com", "the-real-password")
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	repo := newFakeAccountRepo()
	account := addAccount(t, repo, "a@b.com", "old-password", model.RoleDevotee, true)
	require.NoError(t, repo.UpdatePassword(context.Background(), account.ID, repo.get(account.ID).PasswordHash, true))
	svc := newTestAuthService(repo, nil)

	err := svc.ChangePassword(context.Background(), account.ID, "not-it", "new-password")
	assert.ErrorIs(t, err, ErrCurrentPasswordIncorrect)

	require.NoError(t, svc.ChangePassword(context.Background(), account.ID, "old-password", "new-password"))
	assert.False(t, repo.get(account.ID).IsTempPassword)

	_, err = svc.Login(context.Background(), "a@b.com", "old-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), "a@b.com", "new-password")
	assert.NoError(t, err)

	err = svc.ChangePassword(context.Background(), "missing", "x", "y")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestGetAccount(t *testing.T) {
	repo := newFakeAccountRepo()
	account := addAccount(t, repo, "a@b.com", "password", model.RoleSuperAdmin, true)
	svc := newTestAuthService(repo, nil)

	got, err := svc.GetAccount(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleSuperAdmin, got.Role)

	_, err = svc.GetAccount(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestSeed(t *testing.T) {
	repo := newFakeAccountRepo()
	addAccount(t, repo, "existing@b.com", "password", model.RoleDevotee, true)
	svc := newTestAuthService(repo, nil)

	hash, err := testHasher.Hash("root-password")
	require.NoError(t, err)
	inactive := false

	err = svc.Seed(context.Background(), []config.SeedAccount{
		{Email: "Root@B.com", Name: "Root", PasswordHash: hash, Role: "superadmin"},
		{Email: "existing@b.com", Name: "Existing", PasswordHash: hash, Role: "Admin"},
		{Email: "off@b.com", Name: "Off", PasswordHash: hash, Active: &inactive},
	})
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), "root@b.com", "root-password")
	require.NoError(t, err)
	assert.Equal(t, "SuperAdmin", res.User.RoleName)

	// existing account keeps its role and password
	_, err = svc.Login(context.Background(), "existing@b.com", "root-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "off@b.com", "root-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.Seed(context.Background(), []config.SeedAccount{{Email: "x@b.com", PasswordHash: hash, Role: "Owner"}})
	assert.Error(t, err)
}
