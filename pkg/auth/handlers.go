package auth

import (
	"encoding/json"
	"net/http"

	"github.com/antibyte/englang/pkg/configuration"
	"github.com/antibyte/englang/pkg/logger"
)

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned by the login endpoint.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message"`
}

// HandleLogin checks the credentials against [Users] and returns a token.
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		logger.AuthWarn("invalid method for login: %s", r.Method)
		respondWithError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		logger.AuthWarn("invalid JSON in login request: %v", err)
		respondWithError(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		respondWithError(w, "Username and password required", http.StatusBadRequest)
		return
	}

	if !CheckCredentials(req.Username, req.Password) {
		logger.AuthWarn("failed login for %q from %s", req.Username, r.RemoteAddr)
		respondWithError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := GenerateToken(req.Username)
	if err != nil {
		logger.AuthError("failed to generate token for %s: %v", req.Username, err)
		respondWithError(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(LoginResponse{
		Success: true,
		Token:   token,
		Message: "Login successful",
	})
}

// AuthRequired reports whether [Server] require_auth is set.
func AuthRequired() bool {
	return configuration.GetBool("Server", "require_auth", false)
}

// RequireToken rejects requests without a valid token when authentication
// is enabled. Valid claims are added to the request context.
func RequireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !AuthRequired() {
			next(w, r)
			return
		}

		tokenString, err := TokenFromRequest(r)
		if err != nil {
			logger.AuthWarn("no token in request to %s: %v", r.URL.Path, err)
			http.Error(w, "Unauthorized: token missing", http.StatusUnauthorized)
			return
		}

		claims, err := ValidateToken(tokenString)
		if err != nil {
			logger.AuthWarn("invalid token: %v", err)
			http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
			return
		}

		next(w, r.WithContext(AddClaimsToContext(r.Context(), claims)))
	}
}

func respondWithError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(LoginResponse{
		Success: false,
		Message: message,
	})
}
