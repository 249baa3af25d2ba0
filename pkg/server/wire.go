package server

import "github.com/gonewx/tears-of-aya/pkg/leaderboard"

// SubmitScoreRequest POST /api/scores 请求体
type SubmitScoreRequest struct {
	Wallet string `json:"wallet"`
	Score  int    `json:"score"`
	Mode   string `json:"mode"`
}

// LeaderboardResponse GET /api/leaderboard 响应体
type LeaderboardResponse struct {
	Mode    string               `json:"mode"`
	Entries []*leaderboard.Entry `json:"entries"`
}

// AttemptsResponse 次数查询与变更的响应体
type AttemptsResponse struct {
	Wallet    string `json:"wallet"`
	Remaining int    `json:"remaining"`
}

// GrantRequest POST /api/attempts/{wallet}/grant 请求体
type GrantRequest struct {
	Count int `json:"count"`
}

// ErrorResponse 错误响应体
type ErrorResponse struct {
	Error string `json:"error"`
}
