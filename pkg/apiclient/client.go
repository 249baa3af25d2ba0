// Package apiclient 是排行榜 API 的 HTTP 客户端,供游戏前端与机器人使用
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gonewx/tears-of-aya/pkg/leaderboard"
	"github.com/gonewx/tears-of-aya/pkg/server"
	"github.com/gonewx/tears-of-aya/pkg/session"
)

var (
	// ErrNotFound 服务端返回 404
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized 管理员令牌无效或接口关闭
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError 其他非 2xx 响应
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client 排行榜 API 客户端
type Client struct {
	baseURL    string
	adminToken string
	http       *http.Client
}

// Option 客户端可选项
type Option func(*Client)

// WithAdminToken 设置调用发放接口所需的令牌
func WithAdminToken(token string) Option {
	return func(c *Client) { c.adminToken = token }
}

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New 创建客户端
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	_ session.ScoreSubmitter = (*Client)(nil)
	_ session.AttemptGate    = (*Client)(nil)
)

// SubmitScore 上报一局分数
func (c *Client) SubmitScore(ctx context.Context, wallet string, score int, mode string) error {
	req := server.SubmitScoreRequest{Wallet: wallet, Score: score, Mode: mode}
	return c.do(ctx, http.MethodPost, "/api/scores", req, nil)
}

// Leaderboard 查询排行榜
func (c *Client) Leaderboard(ctx context.Context, mode string, limit int) ([]*leaderboard.Entry, error) {
	q := url.Values{}
	if mode != "" {
		q.Set("mode", mode)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/leaderboard"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp server.LeaderboardResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// Best 查询钱包最好成绩,没有记录时返回 ErrNotFound
func (c *Client) Best(ctx context.Context, wallet, mode string) (*leaderboard.Entry, error) {
	path := "/api/scores/" + url.PathEscape(wallet) + "/best"
	if mode != "" {
		path += "?mode=" + url.QueryEscape(mode)
	}

	var entry leaderboard.Entry
	if err := c.do(ctx, http.MethodGet, path, nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Available 剩余付费次数
func (c *Client) Available(ctx context.Context, wallet string) (int, error) {
	var resp server.AttemptsResponse
	if err := c.do(ctx, http.MethodGet, "/api/attempts/"+url.PathEscape(wallet), nil, &resp); err != nil {
		return 0, err
	}
	return resp.Remaining, nil
}

// Consume 扣除一次付费次数;没有次数时返回 session.ErrNoAttempts
func (c *Client) Consume(ctx context.Context, wallet string) (int, error) {
	var resp server.AttemptsResponse
	err := c.do(ctx, http.MethodPost, "/api/attempts/"+url.PathEscape(wallet)+"/consume", nil, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
			return 0, session.ErrNoAttempts
		}
		return 0, err
	}
	return resp.Remaining, nil
}

// Grant 发放付费次数(需要管理员令牌)
func (c *Client) Grant(ctx context.Context, wallet string, count int) (int, error) {
	var resp server.AttemptsResponse
	path := "/api/attempts/" + url.PathEscape(wallet) + "/grant"
	if err := c.do(ctx, http.MethodPost, path, server.GrantRequest{Count: count}, &resp); err != nil {
		return 0, err
	}
	return resp.Remaining, nil
}

// do 发送请求并解析 JSON 响应;out 为 nil 时丢弃响应体
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.adminToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.adminToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr server.ErrorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4<<10)).Decode(&apiErr)
		switch resp.StatusCode {
		case http.StatusNotFound:
			return ErrNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Error)
		}
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
