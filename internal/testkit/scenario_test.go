package testkit

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	var doc any
	_ = json.Unmarshal([]byte(`{"data":{"details":[{"name":"Tea"},{"name":"Rice"}]},"status":"success"}`), &doc)

	v, ok := Lookup(doc, "data.details.1.name")
	assert.True(t, ok)
	assert.Equal(t, "Rice", v)

	_, ok = Lookup(doc, "data.details.2.name")
	assert.False(t, ok)

	_, ok = Lookup(doc, "status.code")
	assert.False(t, ok)
}

func TestRun(t *testing.T) {
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		_, err := r.Cookie("session")
		in["cookie"] = err == nil
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(in)
	})

	Run(t, echo, []Scenario{
		{
			Name:         "echo with cookie",
			Method:       http.MethodPost,
			URL:          "/echo",
			Body:         map[string]any{"qty": 2},
			Token:        "abc",
			ExpectedCode: http.StatusCreated,
			Expect:       map[string]any{"qty": float64(2), "cookie": true},
			Absent:       []string{"missing"},
		},
		{
			Name:         "raw body",
			Method:       http.MethodPost,
			URL:          "/echo",
			Body:         `{"name":"x"}`,
			ExpectedCode: http.StatusCreated,
			Expect:       map[string]any{"name": "x", "cookie": false},
		},
	})
}
