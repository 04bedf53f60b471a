package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/mail"
	"serwer-detekcji/internal/auth"
	"serwer-detekcji/internal/database"
	"serwer-detekcji/internal/models"
	"strings"
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email           string  `json:"email" example:"jan@example.com"`
	FullName        string  `json:"full_name" example:"Jan Kowalski"`
	PhoneNumber     *string `json:"phone_number,omitempty" example:"+48123456789"`
	Password        string  `json:"password" example:"password123"`
	ConfirmPassword string  `json:"confirm_password" example:"password123"`
	SelectedPackage string  `json:"selected_package" example:"Standard"`
}

type LoginRequest struct {
	Email    string `json:"email" example:"jan@example.com"`
	Password string `json:"password" example:"password123"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...."`
	TokenType   string `json:"token_type" example:"bearer"`
}

type UserResponse struct {
	models.User
	Package *models.Package `json:"package,omitempty"`
}

// @Summary      Register a new account
// @Description  Creates a user account and assigns the selected subscription package. Falls back to the "Standard" package when the selection does not match any package.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        registerRequest  body      RegisterRequest  true  "Registration data"
// @Success      201              {object}  UserResponse
// @Failure      400              {string}  string "Validation error or email already registered"
// @Failure      500              {string}  string "Internal Server Error"
// @Router       /auth/register [post]
func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		http.Error(w, "Invalid email address", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.FullName) == "" {
		http.Error(w, "Full name cannot be empty", http.StatusBadRequest)
		return
	}
	if req.Password == "" {
		http.Error(w, "Password cannot be empty", http.StatusBadRequest)
		return
	}
	if req.Password != req.ConfirmPassword {
		http.Error(w, "Passwords do not match", http.StatusBadRequest)
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	selected := req.SelectedPackage
	if selected == "" {
		selected = "Standard"
	}
	pkg, err := s.store.GetPackageByName(r.Context(), selected)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if pkg == nil {
		pkg, err = s.store.GetPackageByName(r.Context(), "Standard")
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
	}

	params := database.CreateUserParams{
		Email:        req.Email,
		FullName:     req.FullName,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hashedPassword,
	}
	if pkg != nil {
		params.PackageID = &pkg.ID
	}

	user, err := s.store.CreateUser(r.Context(), params)
	if err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			http.Error(w, "Email already registered", http.StatusBadRequest)
			return
		}
		log.Printf("ERROR: Failed to create user: %v", err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(UserResponse{User: *user, Package: pkg})
}

// @Summary      Log in
// @Description  Authenticates a user, records the issued token in the session ledger and returns it as a bearer token valid for 30 days.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        loginRequest  body      LoginRequest  true  "Login Credentials"
// @Success      200           {object}  TokenResponse
// @Failure      400           {string}  string "Invalid request body"
// @Failure      401           {string}  string "Incorrect email or password"
// @Failure      500           {string}  string "Internal Server Error"
// @Router       /auth/login [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		http.Error(w, "Incorrect email or password", http.StatusUnauthorized)
		return
	}

	accessToken, err := auth.GenerateJWT(user, s.config.JWT.Secret)
	if err != nil {
		http.Error(w, "Failed to generate access token", http.StatusInternalServerError)
		return
	}

	sessionParams := database.CreateSessionParams{
		ID:           uuid.New(),
		UserID:       user.ID,
		SessionToken: accessToken,
		ExpiresAt:    time.Now().Add(auth.TokenTTL),
	}

	if err := s.store.CreateSession(r.Context(), sessionParams); err != nil {
		log.Printf("ERROR: Failed to create session for user %d: %v", user.ID, err)
		http.Error(w, "Failed to process login session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
	})
}

// @Summary      Get current user info
// @Description  Retrieves the authenticated user's account together with the assigned package.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  UserResponse
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /auth/me [get]
func (s *Server) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to retrieve user data", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	var pkg *models.Package
	if user.PackageID != nil {
		pkg, err = s.store.GetPackageByID(r.Context(), *user.PackageID)
		if err != nil {
			http.Error(w, "Failed to retrieve package data", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(UserResponse{User: *user, Package: pkg})
}

// @Summary      Log out
// @Description  Revokes the presented token by removing it from the session ledger.
// @Tags         auth
// @Security     BearerAuth
// @Success      204  {null}    nil "No Content"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /auth/logout [post]
func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	token := GetTokenFromContext(r.Context())

	if err := s.store.DeleteSessionByToken(r.Context(), token); err != nil {
		http.Error(w, "Failed to log out", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
