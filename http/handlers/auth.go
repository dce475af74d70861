package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"josaa-predictor/db"
	apperrors "josaa-predictor/errors"
	"josaa-predictor/http/middleware"
	resp "josaa-predictor/http/response"
	"josaa-predictor/models"
	"josaa-predictor/services"
	"josaa-predictor/utils"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AuthService encapsulates account and session operations
type AuthService struct {
	db *sql.DB
}

func NewAuthService(database *sql.DB) *AuthService {
	return &AuthService{db: database}
}

// Signup handles account registration
func (s *AuthService) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := utils.ValidateEmail(req.Email); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := utils.ValidateUsername(req.Username); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Reject duplicate username or email
	var existingID int
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM users WHERE username = $1`, req.Username).Scan(&existingID)
	if err == nil {
		respondError(w, "Username already exists", http.StatusConflict)
		return
	} else if err != sql.ErrNoRows {
		log.Printf("Error checking existing username: %v", err)
		respondError(w, "Server error", http.StatusInternalServerError)
		return
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT id FROM users WHERE email = $1`, req.Email).Scan(&existingID)
	if err == nil {
		respondError(w, "Email already registered", http.StatusConflict)
		return
	} else if err != sql.ErrNoRows {
		log.Printf("Error checking existing email: %v", err)
		respondError(w, "Server error", http.StatusInternalServerError)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		respondError(w, "Server error", http.StatusInternalServerError)
		return
	}

	var user models.User
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, username, hashed_password)
		VALUES ($1, $2, $3)
		RETURNING id, email, username, is_active, created_at`,
		req.Email, req.Username, hash,
	).Scan(&user.ID, &user.Email, &user.Username, &user.IsActive, &user.CreatedAt)
	if err != nil {
		// The pre-checks race with concurrent signups; the unique index
		// is the authority
		if msg, ok := uniqueViolationMessage(err); ok {
			respondError(w, msg, http.StatusConflict)
			return
		}
		log.Printf("Error inserting user: %v", err)
		respondError(w, "Server error", http.StatusInternalServerError)
		return
	}

	log.Printf("User registered: ID=%d, Username=%s", user.ID, user.Username)

	// Welcome email is best-effort
	if err := services.SendWelcomeEmail(user.Username, user.Email); err != nil {
		log.Printf("Warning: failed to send welcome email: %v", err)
	}

	respondJSON(w, http.StatusCreated, resp.StandardResponse{
		Status:  "success",
		Message: "Registration successful! Please login.",
		Data:    user.ToResponse(),
	})
}

// Login authenticates a user and issues a token
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		respondError(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	user, err := s.getUserByUsername(ctx, req.Username)
	if err == sql.ErrNoRows {
		respondError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}
	if err != nil {
		log.Printf("Error fetching user: %v", err)
		respondError(w, "Server error", http.StatusInternalServerError)
		return
	}

	if !user.IsActive {
		respondError(w, "Account is deactivated", http.StatusForbidden)
		return
	}

	if !utils.ComparePasswords(user.HashedPassword, req.Password) {
		respondError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	// Record the login before issuing the token
	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_login = $1 WHERE id = $2`, now, user.ID); err != nil {
		log.Printf("Warning: failed to update last_login for user %d: %v", user.ID, err)
	} else {
		user.LastLogin = &now
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		respondError(w, "Server error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, resp.StandardResponse{
		Status:  "success",
		Message: "Login successful",
		Data: models.LoginResponse{
			Token: token,
			User:  user.ToResponse(),
		},
	})
}

// Profile returns the authenticated user's account
func (s *AuthService) Profile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	user, err := s.getUserByID(r.Context(), userID)
	if err == sql.ErrNoRows {
		respondError(w, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Error fetching user %d: %v", userID, err)
		respondError(w, "Server error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, resp.StandardResponse{
		Status: "success",
		Data:   user.ToResponse(),
	})
}

// RequestPasswordReset issues a reset token and emails it to the user
func (s *AuthService) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	var req models.PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := utils.ValidateEmail(req.Email); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var userID int
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM users WHERE email = $1`, req.Email).Scan(&userID)
	if err == sql.ErrNoRows {
		respondError(w, "Email not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Error looking up email for reset: %v", err)
		respondError(w, "Server error", http.StatusInternalServerError)
		return
	}

	resetToken := uuid.NewString()
	if err := db.StoreResetToken(req.Email, resetToken); err != nil {
		log.Printf("Error storing reset token: %v", err)
		respondError(w, "Server error", http.StatusInternalServerError)
		return
	}

	if err := services.SendPasswordResetEmail(req.Email, resetToken); err != nil {
		log.Printf("Error sending reset email: %v", err)
		respondError(w, "Error sending reset email", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, resp.StandardResponse{
		Status:  "success",
		Message: "Reset instructions sent to your email",
	})
}

// ResetPassword redeems a reset token for a new password
func (s *AuthService) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	var req models.PasswordResetConfirm
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	valid, err := db.VerifyResetToken(req.Email, req.Token)
	if err != nil {
		log.Printf("Error verifying reset token: %v", err)
		respondError(w, "Server error", http.StatusInternalServerError)
		return
	}
	if !valid {
		respondError(w, "Invalid or expired reset token", http.StatusUnauthorized)
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		respondError(w, "Server error", http.StatusInternalServerError)
		return
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET hashed_password = $1 WHERE email = $2`, hash, req.Email)
	if err != nil {
		log.Printf("Error updating password: %v", err)
		respondError(w, "Server error", http.StatusInternalServerError)
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		respondError(w, "User not found", http.StatusNotFound)
		return
	}

	if err := db.ClearResetToken(req.Email); err != nil {
		log.Printf("Warning: failed to clear reset token for %s: %v", req.Email, err)
	}

	respondJSON(w, http.StatusOK, resp.StandardResponse{
		Status:  "success",
		Message: "Password reset successful! Please login.",
	})
}

func (s *AuthService) getUserByUsername(ctx context.Context, username string) (models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, username, hashed_password, is_active, created_at, last_login
		FROM users WHERE username = $1`, username))
}

func (s *AuthService) getUserByID(ctx context.Context, id int) (models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, username, hashed_password, is_active, created_at, last_login
		FROM users WHERE id = $1`, id))
}

func (s *AuthService) scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	var lastLogin sql.NullTime

	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.HashedPassword,
		&user.IsActive, &user.CreatedAt, &lastLogin)
	if err != nil {
		return user, err
	}

	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}

	return user, nil
}

// uniqueViolationMessage maps a Postgres unique-constraint violation on the
// users table to the matching conflict message
func uniqueViolationMessage(err error) (string, bool) {
	var pqErr *pq.Error
	if !apperrors.As(err, &pqErr) || pqErr.Code != "23505" {
		return "", false
	}
	if strings.Contains(pqErr.Constraint, "email") {
		return "Email already registered", true
	}
	return "Username already exists", true
}

// Helper functions (wrappers around response package shared by the handler package)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	resp.SendJSON(w, status, data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	resp.ErrorResponse(w, status, message)
}

// Public handler wrappers (package-level entry points used by the route table)
var authService *AuthService

func InitAuthHandlers(database *sql.DB) {
	authService = NewAuthService(database)
}

func Signup(w http.ResponseWriter, r *http.Request) {
	if authService == nil {
		authService = NewAuthService(db.DB)
	}
	authService.Signup(w, r)
}

func Login(w http.ResponseWriter, r *http.Request) {
	if authService == nil {
		authService = NewAuthService(db.DB)
	}
	authService.Login(w, r)
}

func Profile(w http.ResponseWriter, r *http.Request) {
	if authService == nil {
		authService = NewAuthService(db.DB)
	}
	authService.Profile(w, r)
}

func RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	if authService == nil {
		authService = NewAuthService(db.DB)
	}
	authService.RequestPasswordReset(w, r)
}

func ResetPassword(w http.ResponseWriter, r *http.Request) {
	if authService == nil {
		authService = NewAuthService(db.DB)
	}
	authService.ResetPassword(w, r)
}
