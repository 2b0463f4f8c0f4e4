// Package rest implements the repository interfaces on top of the fitness
// REST API (JSON over HTTP, /api/v1).
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"alcyxob/fitness-sync/internal/logger"
	"alcyxob/fitness-sync/internal/metrics"
	"alcyxob/fitness-sync/internal/repository"
)

const (
	apiPrefix       = "/api/v1"
	headerRequestID = "X-Request-ID"
)

// Config holds what the client needs to reach the API.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Token   string // optional bearer token
}

// Client is shared by all REST repositories. It is safe for concurrent use.
type Client struct {
	http    *resty.Client
	token   string
	log     *logger.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

// NewClient builds a client. log and rec may be nil.
func NewClient(cfg Config, log *logger.Logger, rec *metrics.Recorder) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}

	cli := resty.New().
		SetBaseURL(normalizeBaseURL(cfg.BaseURL)).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		http:    cli,
		token:   strings.TrimSpace(cfg.Token),
		log:     log,
		metrics: rec,
		now:     time.Now,
	}
}

// normalizeBaseURL strips trailing slashes and a trailing /api/v1, which
// every path already carries.
func normalizeBaseURL(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	base = strings.TrimSuffix(base, apiPrefix)
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return base
}

// call is one API request. Path params in path ({id}) are filled from params.
type call struct {
	op     string
	method string
	path   string
	params map[string]string
	query  map[string]string
	body   any
	out    any
}

func (c *Client) send(ctx context.Context, cl call) error {
	start := c.now()
	err := c.do(ctx, cl)
	c.metrics.ObserveCall(cl.op, err, c.now().Sub(start))
	return err
}

func (c *Client) do(ctx context.Context, cl call) error {
	if err := c.checkToken(); err != nil {
		return err
	}

	requestID := uuid.NewString()
	req := c.http.R().
		SetContext(ctx).
		SetHeader(headerRequestID, requestID).
		SetPathParams(cl.params).
		SetQueryParams(cl.query)
	if c.token != "" {
		req.SetAuthToken(c.token)
	}
	if cl.body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(cl.body)
	}

	resp, err := req.Execute(cl.method, apiPrefix+cl.path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", cl.op, ctxErr)
		}
		c.log.Warn().Err(err).Str("op", cl.op).Str("request_id", requestID).Msg("api unreachable")
		return fmt.Errorf("%w: %s: %v", repository.ErrConnectivity, cl.op, err)
	}
	if err = mapHTTPError(resp); err != nil {
		c.log.Debug().Err(err).Str("op", cl.op).Int("status", resp.StatusCode()).
			Str("request_id", requestID).Msg("api rejected request")
		return err
	}

	if cl.out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err = json.Unmarshal(resp.Body(), cl.out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", repository.ErrUnexpected, cl.op, err)
	}
	return nil
}

// checkToken refuses to send a JWT that has already expired. Opaque tokens
// are passed through untouched.
func (c *Client) checkToken() error {
	if c.token == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.token, claims); err != nil {
		return nil
	}
	if !claims.VerifyExpiresAt(c.now().Unix(), false) {
		return fmt.Errorf("%w: token expired", repository.ErrUnauthorized)
	}
	return nil
}
