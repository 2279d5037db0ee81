package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
jane.doe@Example.com | +1 555-123-4567

Summary
Backend engineer building data platforms.

Experience
Senior Engineer at Acme Corp 2019 - 2022
- Built Go services
Developer, Initech 2016 - 2019

Education
Bachelor of Science, State University 2012 - 2016

Skills
Go, PostgreSQL, Docker; Kubernetes
`

func TestHeuristicParser_Sections(t *testing.T) {
	got, err := NewHeuristicParser().Parse(context.Background(), sampleResume)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, "jane.doe@example.com", got.Email)
	assert.Equal(t, "+1 555-123-4567", got.Phone)
	assert.Equal(t, "Backend engineer building data platforms.", got.Summary)
	assert.Equal(t, []string{"Go", "PostgreSQL", "Docker", "Kubernetes"}, got.Skills)

	require.Len(t, got.Experience, 2)
	assert.Equal(t, "Senior Engineer", got.Experience[0].Position)
	assert.Equal(t, "Acme Corp", got.Experience[0].Company)
	assert.Equal(t, "2019 - 2022", got.Experience[0].Date)
	assert.Equal(t, "Built Go services", got.Experience[0].Description)
	assert.Equal(t, "Initech", got.Experience[1].Company)

	require.Len(t, got.Education, 1)
	assert.Equal(t, "Bachelor of Science", got.Education[0].Degree)
	assert.Equal(t, "State University", got.Education[0].Institution)
	assert.Equal(t, "2012 - 2016", got.Education[0].Date)
}

func TestHeuristicParser_KeywordFallback(t *testing.T) {
	got, err := NewHeuristicParser().Parse(context.Background(), "John Smith\nWorked with python and Docker daily.")
	require.NoError(t, err)
	assert.Equal(t, "John Smith", got.Name)
	assert.Contains(t, got.Skills, "Python")
	assert.Contains(t, got.Skills, "Docker")
	assert.Empty(t, got.Experience)
}

func TestExtractJSON(t *testing.T) {
	cases := map[string]string{
		"plain":  `{"a":1}`,
		"fenced": "```json\n{\"a\":1}\n```",
		"prose":  "Here you go: {\"a\":1} hope it helps",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, `{"a":1}`, extractJSON(in))
		})
	}
	assert.Empty(t, extractJSON("no json here"))
}

func TestAnthropicParser_Parse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		var body anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-test", body.Model)
		require.Len(t, body.Messages, 1)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{
				"type": "text",
				"text": "```json\n{\"name\":\" Jane \",\"email\":\"JANE@X.IO\",\"skills\":[\"Go\"]}\n```",
			}},
		})
	}))
	defer srv.Close()

	got, err := NewAnthropicParser("secret", "claude-test", srv.URL).Parse(context.Background(), sampleResume)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.Name)
	assert.Equal(t, "jane@x.io", got.Email)
	assert.Equal(t, []string{"Go"}, got.Skills)
}

func TestAnthropicParser_Errors(t *testing.T) {
	_, err := NewAnthropicParser("", "m", "http://127.0.0.1:1").Parse(context.Background(), "x")
	require.Error(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"bad model"}}`))
	}))
	defer srv.Close()

	_, err = NewAnthropicParser("k", "m", srv.URL).Parse(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad model")
}

func TestGeminiParser_Parse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"name\":\"Jane\",\"skills\":[\"SQL\"],\"experience\":[{\"position\":\"Analyst\"}]}"}]}}]}`))
	}))
	defer srv.Close()

	got, err := NewGeminiParser("k", "gemini-test", srv.URL).Parse(context.Background(), sampleResume)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.Name)
	require.Len(t, got.Experience, 1)
	assert.Equal(t, "Analyst", got.Experience[0].Position)
}

func TestGeminiParser_EmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	_, err := NewGeminiParser("k", "m", srv.URL).Parse(context.Background(), "x")
	require.Error(t, err)
}
