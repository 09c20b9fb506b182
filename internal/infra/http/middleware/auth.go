package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
)

var warnOnce sync.Once

// StaffGate protects the CRM endpoints with the site-wide shared
// password (X-Staff-Password header or bearer token). With no password
// configured it lets everything through and warns once, so local
// development keeps working.
func StaffGate(password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if password == "" {
				warnOnce.Do(func() {
					log.Println("[AUTH] STAFF_PASSWORD not set, CRM endpoints are unprotected")
				})
				next.ServeHTTP(w, r)
				return
			}

			supplied := r.Header.Get("X-Staff-Password")
			if supplied == "" {
				supplied = bearerToken(r)
			}
			if subtle.ConstantTimeCompare([]byte(supplied), []byte(password)) != 1 {
				deny(w, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CronGate optionally protects the sweep trigger with a shared bearer
// secret. Unset means open, which is fine for deployments where the
// scheduler runs inside the same network.
func CronGate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret != "" {
				if subtle.ConstantTimeCompare([]byte(bearerToken(r)), []byte(secret)) != 1 {
					deny(w, "Unauthorized")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func deny(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": msg,
	})
}
