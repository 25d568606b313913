package service

import (
	"context"
	"strings"
	"testing"

	"member_directory/internal/logging"
	"member_directory/internal/model"
	"member_directory/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLegacyService(t *testing.T, repo *fakeAccountRepo) LegacyService {
	t.Helper()
	c, err := utils.NewTextCipher("aes-passphrase")
	require.NoError(t, err)
	return NewLegacyService(repo, c, testHasher, logging.Discard())
}

func TestLegacy_EncryptDecrypt(t *testing.T) {
	svc := newTestLegacyService(t, newFakeAccountRepo())
	ctx := context.Background()

	sealed, err := svc.Encrypt(ctx, "hello devotee")
	require.NoError(t, err)
	assert.NotEqual(t, "hello devotee", sealed)

	opened, err := svc.Decrypt(ctx, sealed)
	require.NoError(t, err)
	assert.Equal(t, "hello devotee", opened)

	_, err = svc.Decrypt(ctx, "not-ciphertext")
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestLegacy_UpdatePassword(t *testing.T) {
	repo := newFakeAccountRepo()
	account := addAccount(t, repo, "a@b.com", "old-password", model.RoleDevotee, true)
	svc := newTestLegacyService(t, repo)
	auth := newTestAuthService(repo, nil)
	ctx := context.Background()

	require.NoError(t, svc.UpdatePassword(ctx, "A@B.com", "brand-new-pw"))
	assert.True(t, testHasher.Compare("brand-new-pw", repo.get(account.ID).PasswordHash))

	_, err := auth.Login(ctx, "a@b.com", "brand-new-pw")
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.UpdatePassword(ctx, "nobody@b.com", "x"), ErrAccountNotFound)
}

func TestLegacy_UpdatePassword_InactiveAccount(t *testing.T) {
	repo := newFakeAccountRepo()
	account := addAccount(t, repo, "off@b.com", "old-password", model.RoleDevotee, false)
	before := repo.get(account.ID).PasswordHash
	svc := newTestLegacyService(t, repo)

	assert.ErrorIs(t, svc.UpdatePassword(context.Background(), "off@b.com", "brand-new-pw"), ErrAccountNotFound)
	assert.Equal(t, before, repo.get(account.ID).PasswordHash)
}

func TestLegacy_UpdatePassword_TooLong(t *testing.T) {
	repo := newFakeAccountRepo()
	account := addAccount(t, repo, "a@b.com", "old-password", model.RoleDevotee, true)
	svc := newTestLegacyService(t, repo)

	assert.ErrorIs(t, svc.UpdatePassword(context.Background(), "a@b.com", strings.Repeat("é", 40)), ErrPasswordTooLong)
	assert.True(t, testHasher.Compare("old-password", repo.get(account.ID).PasswordHash))
}
