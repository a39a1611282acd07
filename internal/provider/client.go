// Package provider is the HTTP client for the external identity backend
// (Supabase GoTrue). It owns account storage, password verification and
// token issuance; this client only moves requests and responses.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/Anan1218/homehealth/internal/metrics"
)

// User mirrors the provider's user record.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	CreatedAt    string         `json:"created_at"`
}

// Session is what the provider returns on signup and password sign-in.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	ExpiresAt   int64  `json:"expires_at"`
	User        *User  `json:"user"`
}

// APIError is a non-2xx answer from the provider.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Client talks to one GoTrue base URL with one API key. It is immutable
// and safe to share; construct the anon and service-role handles once at
// wiring time and inject them (no hidden singletons).
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type signUpReq struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

type passwordReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp creates an account. Not idempotent: the provider rejects a second
// call with the same email.
func (c *Client) SignUp(ctx context.Context, email, password string, data map[string]any) (*Session, error) {
	var sess Session
	err := c.call(ctx, "signup", http.MethodPost, "/auth/v1/signup", c.apiKey,
		signUpReq{Email: email, Password: password, Data: data}, &sess)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// SignInWithPassword exchanges email+password for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var sess Session
	err := c.call(ctx, "token", http.MethodPost, "/auth/v1/token?grant_type=password", c.apiKey,
		passwordReq{Email: email, Password: password}, &sess)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// GetUser introspects an access token and returns the user it belongs to.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var u User
	if err := c.call(ctx, "user", http.MethodGet, "/auth/v1/user", accessToken, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) call(ctx context.Context, op, method, path, bearer string, in, out any) error {
	sp, ctx := tracer.StartSpanFromContext(ctx, "gotrue."+op)
	defer sp.Finish()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		sp.SetTag("error", err)
		metrics.ProviderCallsTotal.WithLabelValues(op, "unavailable").Inc()
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: errMessage(resp.Body, resp.StatusCode)}
		sp.SetTag("error", apiErr)
		if resp.StatusCode >= 500 {
			metrics.ProviderCallsTotal.WithLabelValues(op, "unavailable").Inc()
		} else {
			metrics.ProviderCallsTotal.WithLabelValues(op, "rejected").Inc()
		}
		return apiErr
	}

	metrics.ProviderCallsTotal.WithLabelValues(op, "ok").Inc()
	return json.NewDecoder(resp.Body).Decode(out)
}

// GoTrue error bodies come in several shapes depending on version and
// endpoint; take the first message field present.
func errMessage(r io.Reader, status int) string {
	var e struct {
		Msg       string `json:"msg"`
		Message   string `json:"message"`
		ErrorDesc string `json:"error_description"`
		ErrorCode string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&e); err == nil {
		for _, m := range []string{e.Msg, e.Message, e.ErrorDesc, e.ErrorCode} {
			if m != "" {
				return m
			}
		}
	}
	return fmt.Sprintf("provider returned status %d", status)
}
