package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-3-flash-preview:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req generateReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Contents)
		require.NotEmpty(t, req.Contents[0].Parts)

		w.WriteHeader(status)
		w.Write([]byte(reply))
	}))
}

func candidateBody(text string) string {
	out := generateResp{}
	out.Candidates = append(out.Candidates, struct {
		Content content `json:"content"`
	}{Content: content{Parts: []part{{Text: text}}}})
	b, _ := json.Marshal(out)
	return string(b)
}

func TestGenerateBio(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, candidateBody("  Mango lover from Malda.  "))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "")
	got := c.GenerateBio(context.Background(), "Cricket, Music", "English Bazar", "Rahul")
	assert.Equal(t, "Mango lover from Malda.", got)
}

func TestGenerateBioWithoutKey(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "", "")
	got := c.GenerateBio(context.Background(), "Cricket", "Ratua", "Priya")
	assert.Equal(t, "Hi, I'm Priya from Ratua. I like Cricket. (AI Key missing)", got)
}

func TestGenerateBioServerError(t *testing.T) {
	srv := newTestServer(t, http.StatusInternalServerError, `{"error":"boom"}`)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "")
	got := c.GenerateBio(context.Background(), "Cricket", "Chanchal", "Amit")
	assert.Equal(t, "Loves long walks and fresh mangoes.", got)
}

func TestGenerateBioEmptyCandidates(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"candidates":[]}`)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "")
	got := c.GenerateBio(context.Background(), "Cricket", "Gazole", "Sneha")
	assert.Equal(t, "Ready to mingle in Malda!", got)
}

func TestGenerateIcebreaker(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, candidateBody("Seen the Mahananda at sunset?"))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "")
	assert.Equal(t, "Seen the Mahananda at sunset?", c.GenerateIcebreaker(context.Background()))
}

func TestGenerateIcebreakerFallbacks(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "", "")
	assert.Equal(t, "What's your favorite place in Malda?", c.GenerateIcebreaker(context.Background()))

	srv := newTestServer(t, http.StatusOK, `{}`)
	defer srv.Close()
	c = NewClient(srv.URL, "test-key", "")
	assert.Equal(t, "How's the weather today?", c.GenerateIcebreaker(context.Background()))

	bad := newTestServer(t, http.StatusBadGateway, "upstream down")
	defer bad.Close()
	c = NewClient(bad.URL, "test-key", "")
	assert.Equal(t, "Do you like Himsagar or Langra mangoes better?", c.GenerateIcebreaker(context.Background()))
}
