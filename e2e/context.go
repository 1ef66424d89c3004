package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TestContext carries HTTP state across the steps of one scenario.
type TestContext struct {
	BaseURL string
	Token   string
	Client  *http.Client

	LastStatus int
	LastBody   []byte
	SessionID  string
}

func NewTestContext(baseURL, token string) *TestContext {
	return &TestContext{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Reset clears per-scenario state.
func (tc *TestContext) Reset() {
	tc.LastStatus = 0
	tc.LastBody = nil
	tc.SessionID = ""
}

func (tc *TestContext) POST(ctx context.Context, path string, body any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	return tc.do(ctx, http.MethodPost, path, reader)
}

func (tc *TestContext) GET(ctx context.Context, path string) error {
	return tc.do(ctx, http.MethodGet, path, nil)
}

func (tc *TestContext) do(ctx context.Context, method, path string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, method, tc.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if tc.Token != "" {
		req.Header.Set("Authorization", "Bearer "+tc.Token)
	}
	resp, err := tc.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	tc.LastStatus = resp.StatusCode
	tc.LastBody, err = io.ReadAll(resp.Body)
	return err
}

// GetResponseField reads a dotted path such as "session.state" from the last
// JSON response.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var doc any
	if err := json.Unmarshal(tc.LastBody, &doc); err != nil {
		return nil, fmt.Errorf("decode response: %w (body: %s)", err, tc.LastBody)
	}
	for _, key := range strings.Split(field, ".") {
		obj, ok := doc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %q: %v is not an object", field, doc)
		}
		if doc, ok = obj[key]; !ok {
			return nil, fmt.Errorf("field %q missing in %s", field, tc.LastBody)
		}
	}
	return doc, nil
}

func (tc *TestContext) GetLastStatus() int { return tc.LastStatus }

func (tc *TestContext) GetSessionID() string { return tc.SessionID }

func (tc *TestContext) SetSessionID(id string) { tc.SessionID = id }
