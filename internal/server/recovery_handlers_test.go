package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordRecoveryFlow(t *testing.T) {
	env := newTestEnv(t)
	h := env.server.Router()
	registerUser(t, h, "a@x.com", "pw123456", "A", "B")

	rec := doJSON(t, h, http.MethodPost, "/api/forgot-password", map[string]string{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, forgotPasswordMessage, body["message"])
	token, ok := body["resetToken"].(string)
	require.True(t, ok, "development delivery should echo the reset token")
	require.NotEmpty(t, token)

	rec = doJSON(t, h, http.MethodPost, "/api/verify-identity", map[string]string{
		"token":     token,
		"firstName": "A",
		"lastName":  "B",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	require.Equal(t, true, body["verified"])
	userID, ok := body["userId"].(string)
	require.True(t, ok)
	code, ok := body["verificationCode"].(string)
	require.True(t, ok, "development delivery should echo the verification code")
	require.Len(t, code, 6)

	rec = doJSON(t, h, http.MethodPost, "/api/reset-password", map[string]string{
		"userId":           userID,
		"verificationCode": code,
		"newPassword":      "newpw1234",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Password reset successfully", decodeBody(t, rec)["message"])

	rec = doJSON(t, h, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "a@x.com",
		"password": "newpw1234",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "a@x.com",
		"password": "pw123456",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestForgotPasswordDoesNotRevealAccounts(t *testing.T) {
	env := newTestEnv(t)
	h := env.server.Router()
	registerUser(t, h, "a@x.com", "pw123456", "A", "B")

	known := doJSON(t, h, http.MethodPost, "/api/forgot-password", map[string]string{"email": "a@x.com"})
	unknown := doJSON(t, h, http.MethodPost, "/api/forgot-password", map[string]string{"email": "ghost@x.com"})

	require.Equal(t, http.StatusOK, known.Code)
	require.Equal(t, http.StatusOK, unknown.Code)
	require.Equal(t, forgotPasswordMessage, decodeBody(t, known)["message"])
	require.Equal(t, forgotPasswordMessage, decodeBody(t, unknown)["message"])
	require.NotContains(t, decodeBody(t, unknown), "resetToken")
}

func TestVerifyIdentityRejectsBadToken(t *testing.T) {
	env := newTestEnv(t)
	h := env.server.Router()
	registerUser(t, h, "a@x.com", "pw123456", "A", "B")

	rec := doJSON(t, h, http.MethodPost, "/api/verify-identity", map[string]string{
		"token":     "deadbeef",
		"firstName": "A",
		"lastName":  "B",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid or expired token.", decodeBody(t, rec)["message"])
}

func TestVerifyIdentityRejectsNameMismatch(t *testing.T) {
	env := newTestEnv(t)
	h := env.server.Router()
	registerUser(t, h, "a@x.com", "pw123456", "A", "B")

	rec := doJSON(t, h, http.MethodPost, "/api/forgot-password", map[string]string{"email": "a@x.com"})
	token := decodeBody(t, rec)["resetToken"].(string)

	rec = doJSON(t, h, http.MethodPost, "/api/verify-identity", map[string]string{
		"token":     token,
		"firstName": "Wrong",
		"lastName":  "B",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Identity verification failed.", decodeBody(t, rec)["message"])

	// The token survives a failed identity check.
	rec = doJSON(t, h, http.MethodPost, "/api/verify-identity", map[string]string{
		"token":     token,
		"firstName": "a",
		"lastName":  "b",
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestResetPasswordRejectsShortPasswordWithoutLookup(t *testing.T) {
	env := newTestEnv(t)
	h := env.server.Router()
	registerUser(t, h, "a@x.com", "pw123456", "A", "B")

	rec := doJSON(t, h, http.MethodPost, "/api/reset-password", map[string]string{
		"userId":           "some-id",
		"verificationCode": "123456",
		"newPassword":      "short",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Password must be at least 8 characters long", decodeBody(t, rec)["message"])
	require.Zero(t, env.users.codeLookups)
}

func TestResetPasswordRejectsWrongCode(t *testing.T) {
	env := newTestEnv(t)
	h := env.server.Router()
	registerUser(t, h, "a@x.com", "pw123456", "A", "B")

	rec := doJSON(t, h, http.MethodPost, "/api/forgot-password", map[string]string{"email": "a@x.com"})
	token := decodeBody(t, rec)["resetToken"].(string)

	rec = doJSON(t, h, http.MethodPost, "/api/verify-identity", map[string]string{
		"token": token, "firstName": "A", "lastName": "B",
	})
	userID := decodeBody(t, rec)["userId"].(string)

	rec = doJSON(t, h, http.MethodPost, "/api/reset-password", map[string]string{
		"userId":           userID,
		"verificationCode": "000000",
		"newPassword":      "newpw1234",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid or expired code.", decodeBody(t, rec)["message"])
}
