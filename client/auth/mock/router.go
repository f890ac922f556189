package mock

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type contextKey string

const usernameKey contextKey = "username"

// Handler returns the backend router
func (b *Backend) Handler() http.Handler {
	router := chi.NewRouter()
	router.Get("/api/health/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Post("/api/auth/token/", b.tokenHandler)
	router.Post("/api/auth/token/refresh/", b.refreshHandler)
	router.Post("/api/auth/logout/", b.logoutHandler)
	router.Group(func(r chi.Router) {
		r.Use(b.authenticate)
		r.Get("/api/auth/me/", b.meHandler)
		r.Post("/api/detect/upload", b.uploadHandler)
		r.Post("/api/detect/detect", b.detectHandler)
		r.Get("/api/detect/results", b.resultsHandler)
		r.Get("/api/detect/results/{id}", b.resultHandler)
		r.Get("/api/detect/summary", b.summaryHandler)
	})
	return router
}

// authenticate rejects requests without a valid bearer access token
func (b *Backend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deny := func(detail string) {
			b.unauthorized.Add(1)
			w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
			writeDetail(w, http.StatusUnauthorized, detail)
		}
		if b.alwaysDeny.Load() {
			deny("Given token not valid for any token type")
			return
		}
		scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
		if !ok || scheme != "Bearer" {
			deny("Authentication credentials were not provided.")
			return
		}
		username, err := b.verifyAccessToken(token)
		if err != nil {
			deny("Given token not valid for any token type")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), usernameKey, username)))
	})
}
