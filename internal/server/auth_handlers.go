package server

import (
	"log"
	"net/http"

	"tavola/internal/auth"
)

type registerRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Role      *string `json:"role"`
	Phone     *string `json:"phone"`
}

func userPayload(u *auth.User) map[string]interface{} {
	return map[string]interface{}{
		"id":        u.ID,
		"email":     u.Email,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"role":      u.Role,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !validateEmail(req.Email) || req.FirstName == "" || req.LastName == "" {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}
	if !validPassword(req.Password) {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters long")
		return
	}

	role := auth.RoleUser
	if req.Role != nil {
		if *req.Role != auth.RoleUser && *req.Role != auth.RoleAdmin {
			writeError(w, http.StatusBadRequest, "Invalid request data")
			return
		}
		role = *req.Role
	}

	ctx := r.Context()
	existing, err := s.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		log.Printf("register: lookup by email failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "A user with this email already exists.")
		return
	}

	hashed, err := s.Hasher.Hash(req.Password)
	if err != nil {
		log.Printf("register: hash failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user, err := s.Users.Create(ctx, &auth.User{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		PasswordHash: hashed,
		Role:         role,
	})
	if err != nil {
		log.Printf("register: create user failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := s.Tokens.Issue(user)
	if err != nil {
		log.Printf("register: issue token failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"token": token,
		"user":  userPayload(user),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validateEmail(req.Email) || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	ctx := r.Context()
	user, err := s.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		log.Printf("login: lookup by email failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	if user == nil || !s.Hasher.Compare(user.PasswordHash, req.Password) {
		writeError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, err := s.Tokens.Issue(user)
	if err != nil {
		log.Printf("login: issue token failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	auth.SetSessionCookie(w, token, s.Config.Production())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  userPayload(user),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, s.Config.Production())
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := sessionFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := s.Users.FindByID(r.Context(), claims.Subject)
	if err != nil {
		log.Printf("me: load user failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	payload := userPayload(user)
	payload["phone"] = user.Phone
	writeJSON(w, http.StatusOK, payload)
}
