package mock

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/viant/detect/schema"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, &schema.Detail{Detail: detail})
}

// tokenHandler handles token-issue requests
func (b *Backend) tokenHandler(w http.ResponseWriter, r *http.Request) {
	request := &schema.LoginRequest{}
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	password, ok := b.Users[request.Username]
	if !ok || password != request.Password {
		writeDetail(w, http.StatusUnauthorized, "No active account found with the given credentials")
		return
	}
	access, err := b.createAccessToken(request.Username)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, &schema.TokenPair{Access: access, Refresh: b.createRefreshToken(request.Username)})
}

// refreshHandler handles token-refresh requests
func (b *Backend) refreshHandler(w http.ResponseWriter, r *http.Request) {
	b.refreshCalls.Add(1)
	if b.RefreshDelay > 0 {
		time.Sleep(b.RefreshDelay)
	}
	request := &schema.RefreshRequest{}
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	b.lastRefreshToken.Store(request.Refresh)
	username, ok := b.refreshTokens.Get(request.Refresh)
	if !ok || b.rejectRefresh.Load() {
		writeDetail(w, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}
	access, err := b.createAccessToken(username)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	pair := &schema.TokenPair{Access: access}
	if b.RotateRefresh {
		b.refreshTokens.Delete(request.Refresh)
		pair.Refresh = b.createRefreshToken(username)
	}
	writeJSON(w, http.StatusOK, pair)
}

// logoutHandler blacklists refresh token
func (b *Backend) logoutHandler(w http.ResponseWriter, r *http.Request) {
	b.logoutCalls.Add(1)
	if b.failLogout.Load() {
		writeDetail(w, http.StatusInternalServerError, "logout unavailable")
		return
	}
	request := &schema.RefreshRequest{}
	if err := json.NewDecoder(r.Body).Decode(request); err != nil || request.Refresh == "" {
		writeDetail(w, http.StatusBadRequest, "refresh token required")
		return
	}
	if _, ok := b.refreshTokens.Delete(request.Refresh); !ok {
		writeDetail(w, http.StatusBadRequest, "invalid refresh token")
		return
	}
	writeDetail(w, http.StatusOK, "logged out")
}
