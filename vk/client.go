// Package vk is the chat-platform transport: an API client for outbound
// calls, a long poller for inbound updates, and a user directory.
package vk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const (
	apiBaseURL = "https://api.vk.com/method/"
	apiVersion = "5.131"
)

// apiError is the platform's error envelope.
type apiError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("vk api error %d: %s", e.Code, e.Message)
}

type apiResponse struct {
	Response json.RawMessage `json:"response"`
	Error    *apiError       `json:"error"`
}

// Client calls the platform API. All methods go through one rate limiter;
// community tokens are capped at 20 requests per second.
type Client struct {
	httpClient *http.Client
	token      string
	limiter    *rate.Limiter
}

func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 40 * time.Second},
		token:      token,
		limiter:    rate.NewLimiter(rate.Limit(20), 5),
	}
}

// call invokes one API method and decodes its response payload into result.
func (c *Client) call(ctx context.Context, method string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limiter interrupted")
	}

	params.Set("access_token", c.token)
	params.Set("v", apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		apiBaseURL+method, strings.NewReader(params.Encode()))
	if err != nil {
		return errors.Wrapf(err, "could not build %s request", method)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "could not call %s", method)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "could not read %s response", method)
	}

	var envelope apiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return errors.Wrapf(err, "could not decode %s response", method)
	}
	if envelope.Error != nil {
		return errors.Wrapf(envelope.Error, "%s failed", method)
	}
	if result != nil {
		if err := json.Unmarshal(envelope.Response, result); err != nil {
			return errors.Wrapf(err, "could not decode %s payload", method)
		}
	}
	return nil
}
