package e2e

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// TestContext carries the HTTP client and the state shared by the steps of
// one scenario.
type TestContext struct {
	baseURL    string
	client     *http.Client
	status     int
	header     http.Header
	body       []byte
	savedIDs   map[string]string
	lastMethod string
	lastPath   string
}

func NewTestContext(baseURL string) *TestContext {
	return &TestContext{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: 10 * time.Second},
		savedIDs: make(map[string]string),
	}
}

// Reset clears the per-scenario state.
func (tc *TestContext) Reset() {
	tc.status = 0
	tc.header = nil
	tc.body = nil
	tc.savedIDs = make(map[string]string)
}

var placeholder = regexp.MustCompile(`\{(\w+)\}`)

// Expand replaces {name} placeholders with ids saved earlier in the scenario.
func (tc *TestContext) Expand(s string) string {
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		if v, ok := tc.savedIDs[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	})
}

func (tc *TestContext) Do(method, path, contentType, body string) error {
	path = tc.Expand(path)
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(tc.Expand(body))
	}
	req, err := http.NewRequest(method, tc.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != "" {
		if contentType == "" {
			contentType = "application/json"
		}
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.body, err = io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	tc.status = resp.StatusCode
	tc.header = resp.Header
	tc.lastMethod = method
	tc.lastPath = path
	return nil
}

func (tc *TestContext) GET(path string) error {
	return tc.Do(http.MethodGet, path, "", "")
}

func (tc *TestContext) POST(path string, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return tc.Do(http.MethodPost, path, "", string(raw))
}

func (tc *TestContext) Status() int { return tc.status }

func (tc *TestContext) Header(name string) string { return tc.header.Get(name) }

// GetResponseField reads a dotted path such as "region.id" from a JSON
// object response.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var doc any
	if err := json.Unmarshal(tc.body, &doc); err != nil {
		return nil, fmt.Errorf("response of %s %s is not JSON: %w", tc.lastMethod, tc.lastPath, err)
	}
	for _, part := range strings.Split(field, ".") {
		obj, ok := doc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %q: not an object", field)
		}
		if doc, ok = obj[part]; !ok {
			return nil, fmt.Errorf("field %q missing in response", field)
		}
	}
	return doc, nil
}

func (tc *TestContext) SaveID(name, value string) { tc.savedIDs[name] = value }
