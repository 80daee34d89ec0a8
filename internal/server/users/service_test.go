package users

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dropwatch/internal/common"
	"dropwatch/internal/logging"
	"dropwatch/internal/server/auth"
	"dropwatch/internal/server/config"
	"dropwatch/internal/server/otp"
)

// recordingSender keeps sent mail in memory so tests can read codes back.
type recordingSender struct {
	to, subject, body string
}

func (r *recordingSender) Send(_ context.Context, to, subject, body string) error {
	r.to, r.subject, r.body = to, subject, body
	return nil
}

var digitsRe = regexp.MustCompile(`\d{6}`)

func newTestService() (*Service, *recordingSender) {
	cfg := &config.Config{
		SecretKey:             "test-secret",
		TokenValidityDuration: time.Hour,
		AllowedEmailDomain:    "@gmail.com",
	}
	mail := &recordingSender{}
	svc := NewService(NewMemoryRepository(), otp.NewStore(5*time.Minute), mail, logging.NewDefault(), cfg)
	return svc, mail
}

func TestRegisterAndLoginPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	user, err := svc.Register(ctx, "ana", "Ana@gmail.com", "pass123", "Teacher")
	require.NoError(t, err)
	assert.Equal(t, "ana@gmail.com", user.Email, "email must be normalized")
	assert.Equal(t, RoleTeacher, user.Role, "role must be normalized")

	token, err := svc.LoginPassword(ctx, "ana@gmail.com", "pass123")
	require.NoError(t, err)

	identity, err := auth.GetIdentityFromToken(token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)
	assert.Equal(t, "ana@gmail.com", identity.Email)
	assert.Equal(t, RoleTeacher, identity.Role)
}

func TestLoginPassword_WrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Register(ctx, "ana", "ana@gmail.com", "pass123", "student")
	require.NoError(t, err)

	_, err = svc.LoginPassword(ctx, "ana@gmail.com", "nope")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = svc.LoginPassword(ctx, "ghost@gmail.com", "pass123")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestRegister_RejectsUnknownRoleAndDuplicates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Register(ctx, "ana", "ana@gmail.com", "pass123", "principal")
	assert.ErrorIs(t, err, common.ErrInvalidRole)

	_, err = svc.Register(ctx, "ana", "ana@gmail.com", "pass123", "student")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ana2", "ANA@gmail.com", "pass456", "student")
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestOTPLogin_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, mail := newTestService()

	_, err := svc.Register(ctx, "ana", "ana@gmail.com", "pass123", "admin")
	require.NoError(t, err)

	require.NoError(t, svc.StartOTPLogin(ctx, "ana@gmail.com"))
	code := digitsRe.FindString(mail.body)
	require.NotEmpty(t, code, "mail body should carry the code")

	_, err = svc.VerifyOTP(ctx, "ana@gmail.com", "000000")
	assert.ErrorIs(t, err, common.ErrCodeMismatch)

	token, err := svc.VerifyOTP(ctx, "ana@gmail.com", code)
	require.NoError(t, err)

	identity, err := auth.GetIdentityFromToken(token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, identity.Role)

	// The code is single use.
	_, err = svc.VerifyOTP(ctx, "ana@gmail.com", code)
	assert.ErrorIs(t, err, common.ErrCodeNotIssued)
}

func TestStartOTPLogin_DomainAndRegistration(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	assert.ErrorIs(t, svc.StartOTPLogin(ctx, "ana@yahoo.com"), common.ErrValidation)
	assert.ErrorIs(t, svc.StartOTPLogin(ctx, "ghost@gmail.com"), common.ErrNotFound)
}

func TestResetPassword_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, mail := newTestService()

	_, err := svc.Register(ctx, "ana", "ana@gmail.com", "old-pass", "student")
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "ana@gmail.com"))
	code := digitsRe.FindString(mail.body)
	require.NotEmpty(t, code)

	require.NoError(t, svc.ResetPassword(ctx, "ana@gmail.com", code, "new-pass"))

	_, err = svc.LoginPassword(ctx, "ana@gmail.com", "old-pass")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = svc.LoginPassword(ctx, "ana@gmail.com", "new-pass")
	assert.NoError(t, err)
}
