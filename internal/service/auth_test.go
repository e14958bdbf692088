package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram-app/backend/internal/models"
	"github.com/foodgram-app/backend/internal/service"
	"github.com/foodgram-app/backend/internal/testhelpers"
)

func TestRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, nil, service.LookupEmail)
	ctx := context.Background()

	user, err := svc.Register(ctx, service.RegisterInput{
		Email:    "new@example.com",
		Username: "newcomer",
		Password: "strong-password",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "strong-password", user.PasswordHash, "password is stored hashed")

	loggedIn, err := svc.Login(ctx, "new@example.com", "strong-password")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, nil, service.LookupEmail)
	ctx := context.Background()

	testhelpers.CreateTestUser(t, db, "taken@example.com", "taken")

	_, err := svc.Register(ctx, service.RegisterInput{
		Email:    "taken@example.com",
		Username: "fresh",
		Password: "strong-password",
	})
	assert.ErrorIs(t, err, service.ErrEmailTaken)

	_, err = svc.Register(ctx, service.RegisterInput{
		Email:    "fresh@example.com",
		Username: "taken",
		Password: "strong-password",
	})
	assert.ErrorIs(t, err, service.ErrUsernameTaken)
}

// Every login failure cause maps to the same error value, so the
// response cannot be used to probe which accounts exist.
func TestLoginFailuresAreUniform(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, nil, service.LookupEmail)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "known@example.com", "known")

	_, wrongPassword := svc.Login(ctx, "known@example.com", "not-the-password")
	_, unknownEmail := svc.Login(ctx, "nobody@example.com", testhelpers.TestPassword)

	assert.ErrorIs(t, wrongPassword, service.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, service.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())

	require.NoError(t, db.Model(user).Update("is_active", false).Error)
	_, deactivated := svc.Login(ctx, "known@example.com", testhelpers.TestPassword)
	assert.ErrorIs(t, deactivated, service.ErrInvalidCredentials)
}

func TestUsernameLookup(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, nil, service.LookupUsername)
	ctx := context.Background()

	testhelpers.CreateTestUser(t, db, "handle@example.com", "handle")

	_, err := svc.Login(ctx, "handle", testhelpers.TestPassword)
	assert.NoError(t, err)

	// With username lookup configured, the email is not an identity.
	_, err = svc.Login(ctx, "handle@example.com", testhelpers.TestPassword)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestIssueTokenIsIdempotent(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, nil, service.LookupEmail)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "user@example.com", "user")

	first, err := svc.IssueToken(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, first, 40)

	second, err := svc.IssueToken(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second, "repeated logins return the live token")

	var count int64
	require.NoError(t, db.Model(&models.AuthToken{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

// Concurrent first logins race at the user_id unique constraint; every
// caller must come back with the single winning key.
func TestConcurrentFirstLogin(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, nil, service.LookupEmail)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "user@example.com", "user")

	const workers = 8
	keys := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			keys[i], errs[i] = svc.IssueToken(ctx, user.ID)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, keys[0], keys[i])
	}

	var count int64
	require.NoError(t, db.Model(&models.AuthToken{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestValidateAndRevokeToken(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, nil, service.LookupEmail)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "user@example.com", "user")
	key, err := svc.IssueToken(ctx, user.ID)
	require.NoError(t, err)

	id, err := svc.ValidateToken(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	_, err = svc.ValidateToken(ctx, "0000000000000000000000000000000000000000")
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	require.NoError(t, svc.RevokeToken(ctx, user.ID))
	_, err = svc.ValidateToken(ctx, key)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	// Revoking again is a no-op.
	assert.NoError(t, svc.RevokeToken(ctx, user.ID))

	// The next login issues a fresh key.
	next, err := svc.IssueToken(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, key, next)
}

func TestValidateTokenRejectsDeactivatedUser(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, nil, service.LookupEmail)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "user@example.com", "user")
	key, err := svc.IssueToken(ctx, user.ID)
	require.NoError(t, err)

	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, err = svc.ValidateToken(ctx, key)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}
