package server

import (
	"errors"
	"log"
	"net/http"

	"tavola/internal/auth"
	"tavola/internal/i18n"
)

const forgotPasswordMessage = "If the email address exists, a password reset email has been sent with instructions."

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validateEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "Invalid email format")
		return
	}

	ctx := r.Context()
	locale := i18n.LocaleFromRequest(r)

	issued, err := s.Recovery.Request(ctx, req.Email)
	if err != nil {
		log.Printf("forgot-password: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to process request")
		return
	}

	// The response is identical whether or not the account exists; only the
	// delivery side effect is conditional.
	payload := map[string]interface{}{"message": forgotPasswordMessage}
	if issued != nil {
		extra, err := s.Delivery.DeliverResetToken(ctx, issued.User, issued.Token, locale)
		if err != nil {
			log.Printf("forgot-password: deliver token: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to process request")
			return
		}
		for k, v := range extra {
			payload[k] = v
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

type verifyIdentityRequest struct {
	Token     string `json:"token"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (s *Server) handleVerifyIdentity(w http.ResponseWriter, r *http.Request) {
	var req verifyIdentityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Token == "" || req.FirstName == "" || req.LastName == "" {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	ctx := r.Context()
	locale := i18n.LocaleFromRequest(r)

	issued, err := s.Recovery.Verify(ctx, req.Token, req.FirstName, req.LastName)
	switch {
	case errors.Is(err, auth.ErrInvalidOrExpiredToken):
		writeError(w, http.StatusBadRequest, "Invalid or expired token.")
		return
	case errors.Is(err, auth.ErrIdentityMismatch):
		writeError(w, http.StatusBadRequest, "Identity verification failed.")
		return
	case err != nil:
		log.Printf("verify-identity: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to verify identity")
		return
	}

	payload := map[string]interface{}{
		"message":  "Identity verified. Use the code to reset your password.",
		"verified": true,
		"userId":   issued.User.ID,
	}
	extra, err := s.Delivery.DeliverVerificationCode(ctx, issued.User, issued.Code, locale)
	if err != nil {
		log.Printf("verify-identity: deliver code: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to verify identity")
		return
	}
	for k, v := range extra {
		payload[k] = v
	}
	writeJSON(w, http.StatusOK, payload)
}

type resetPasswordRequest struct {
	UserID           string `json:"userId"`
	VerificationCode string `json:"verificationCode"`
	NewPassword      string `json:"newPassword"`
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" || req.VerificationCode == "" {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	err := s.Recovery.Consume(r.Context(), req.UserID, req.VerificationCode, req.NewPassword)
	switch {
	case errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters long")
		return
	case errors.Is(err, auth.ErrInvalidOrExpiredCode):
		writeError(w, http.StatusBadRequest, "Invalid or expired code.")
		return
	case err != nil:
		log.Printf("reset-password: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset successfully"})
}
