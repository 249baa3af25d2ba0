package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gonewx/tears-of-aya/pkg/attempts"
	"github.com/gonewx/tears-of-aya/pkg/leaderboard"
)

// maxBodyBytes 请求体上限
const maxBodyBytes = 4 << 10

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.healthCheck != nil {
		if err := s.healthCheck(r.Context()); err != nil {
			log.Error().Err(err).Str("component", "Server").Msg("Health check failed")
			writeError(w, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	var req SubmitScoreRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := s.scores.Submit(r.Context(), req.Wallet, req.Score, req.Mode)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := q.Get("mode")

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	entries, err := s.scores.Top(r.Context(), mode, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if entries == nil {
		entries = []*leaderboard.Entry{}
	}
	writeJSON(w, http.StatusOK, LeaderboardResponse{Mode: mode, Entries: entries})
}

func (s *Server) handleBestScore(w http.ResponseWriter, r *http.Request) {
	entry, err := s.scores.Best(r.Context(), r.PathValue("wallet"), r.URL.Query().Get("mode"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleAttempts(w http.ResponseWriter, r *http.Request) {
	wallet := r.PathValue("wallet")
	n, err := s.ledger.Available(r.Context(), wallet)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AttemptsResponse{Wallet: wallet, Remaining: n})
}

func (s *Server) handleConsume(w http.ResponseWriter, r *http.Request) {
	wallet := r.PathValue("wallet")
	n, err := s.ledger.Consume(r.Context(), wallet)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AttemptsResponse{Wallet: wallet, Remaining: n})
}

func (s *Server) handleGrant(w http.ResponseWriter, r *http.Request) {
	if !s.authorizeAdmin(w, r) {
		return
	}

	var req GrantRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	wallet := r.PathValue("wallet")
	n, err := s.ledger.Grant(r.Context(), wallet, req.Count)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AttemptsResponse{Wallet: wallet, Remaining: n})
}

// authorizeAdmin 校验 Bearer 令牌;未配置令牌时发放接口关闭
func (s *Server) authorizeAdmin(w http.ResponseWriter, r *http.Request) bool {
	if s.adminToken == "" {
		writeError(w, http.StatusForbidden, "grant endpoint disabled")
		return false
	}

	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
		log.Warn().
			Str("component", "Server").
			Str("remote", r.RemoteAddr).
			Msg("Rejected grant request with bad admin token")
		writeError(w, http.StatusUnauthorized, "invalid admin token")
		return false
	}
	return true
}

// decodeJSON 解析请求体,失败时直接写 400
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// writeDomainError 把领域错误映射为状态码
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, leaderboard.ErrInvalidWallet),
		errors.Is(err, leaderboard.ErrInvalidScore),
		errors.Is(err, leaderboard.ErrInvalidMode),
		errors.Is(err, attempts.ErrInvalidWallet),
		errors.Is(err, attempts.ErrInvalidCount):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, leaderboard.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, attempts.ErrNoAttempts):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Str("component", "Server").Msg("Request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Str("component", "Server").Msg("Failed to write response")
	}
}
