package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	authmw "github.com/mind-engage/mentoring-core/internal/auth/middleware"
)

// LoginHandler verifies credentials against the users table (bcrypt) and,
// for the configured admin account, the env-provided hash. db may be nil in
// memory-store mode; only the admin account works then.
func LoginHandler(a *authmw.AuthService, db *sql.DB, adminUser, adminPassHash string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		sub, role := "", ""
		if req.Username == adminUser {
			if bcrypt.CompareHashAndPassword([]byte(adminPassHash), []byte(req.Password)) != nil {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			sub, role = adminUser, "admin"
		} else {
			if db == nil {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			var id, hash string
			err := db.QueryRowContext(r.Context(),
				`SELECT id, password_hash, role FROM users WHERE username=$1`,
				req.Username).Scan(&id, &hash, &role)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					http.Error(w, "invalid credentials", http.StatusUnauthorized)
					return
				}
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			sub = id
		}

		tok, err := a.IssueJWT(sub, role)
		if err != nil {
			http.Error(w, "issue token", 500)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": tok})
	}
}

type changePasswordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func ChangePasswordHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req changePasswordReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if req.NewPassword == "" {
			http.Error(w, "new password required", http.StatusBadRequest)
			return
		}

		var storedHash string
		err := db.QueryRow(`SELECT password_hash FROM users WHERE id=$1`, userID).Scan(&storedHash)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(req.OldPassword)) != nil {
			http.Error(w, "incorrect old password", http.StatusForbidden)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), 12)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		_, err = db.Exec(`UPDATE users SET password_hash=$1 WHERE id=$2`, hash, userID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
