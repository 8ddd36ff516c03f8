package testkit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kasir/config"
)

// Scenario describes one HTTP request against a handler and what the
// response must look like.
type Scenario struct {
	Name   string
	Method string
	URL    string

	// Body is sent as JSON; a string or []byte is sent as is.
	Body    any
	Headers map[string]string
	// Token is sent in the session cookie.
	Token string

	ExpectedCode int
	// Expect maps dotted paths into the decoded response body, such as
	// "data.details.0.name", to their expected values. JSON numbers decode
	// as float64.
	Expect map[string]any
	// Absent lists dotted paths that must not exist in the response.
	Absent []string
}

// Run executes every scenario as a subtest, in order.
func Run(t *testing.T, handler http.Handler, scenarios []Scenario) {
	t.Helper()
	for _, s := range scenarios {
		s := s
		t.Run(s.Name, func(t *testing.T) {
			rec := Do(t, handler, s)
			AssertStatusCode(t, s, rec.Code)
			AssertJSON(t, s, rec.Body.Bytes())
		})
	}
}

// Do fires s against handler and returns the recorded response.
func Do(t *testing.T, handler http.Handler, s Scenario) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	switch b := s.Body.(type) {
	case nil:
	case string:
		body = strings.NewReader(b)
	case []byte:
		body = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err, "[%s] encode request body", s.Name)
		body = bytes.NewReader(data)
	}

	method := strings.ToUpper(s.Method)
	if method == "" {
		method = http.MethodGet
	}
	req := httptest.NewRequest(method, s.URL, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}
	if s.Token != "" {
		req.AddCookie(&http.Cookie{Name: config.SessionCookie(), Value: s.Token})
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// AssertStatusCode checks the response code.
func AssertStatusCode(t *testing.T, s Scenario, got int) {
	t.Helper()
	if s.ExpectedCode == 0 {
		return
	}
	assert.Equal(t, s.ExpectedCode, got, "[%s] HTTP status code mismatch", s.Name)
}

// AssertJSON checks s.Expect and s.Absent against body.
func AssertJSON(t *testing.T, s Scenario, body []byte) {
	t.Helper()
	if len(s.Expect) == 0 && len(s.Absent) == 0 {
		return
	}

	var doc any
	if !assert.NoError(t, json.Unmarshal(body, &doc), "[%s] response is not valid JSON\nbody: %s", s.Name, body) {
		return
	}
	for path, want := range s.Expect {
		got, ok := Lookup(doc, path)
		if assert.True(t, ok, "[%s] %s missing in response\nbody: %s", s.Name, path, body) {
			assert.Equal(t, want, got, "[%s] %s mismatch", s.Name, path)
		}
	}
	for _, path := range s.Absent {
		_, ok := Lookup(doc, path)
		assert.False(t, ok, "[%s] %s should be absent", s.Name, path)
	}
}

// Decode unmarshals a recorded response body into a generic document.
func Decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc), "body: %s", rec.Body.String())
	return doc
}

// Lookup walks a decoded JSON document along a dotted path. Numeric
// segments index arrays.
func Lookup(doc any, path string) (any, bool) {
	cur := doc
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}
