package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/apply-agent/internal/errs"
)

func TestURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "ApplyAgent")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body><main>Backend Engineer role</main></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Contains(t, result.HTML, "Backend Engineer")
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-url", nil)
	require.Error(t, err)

	var cfgErr *errs.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestURL_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var apiErr *errs.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.False(t, apiErr.Transient)
	assert.False(t, errs.IsRetryable(err))
}

func TestURL_ServerErrorIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.True(t, errs.IsRetryable(err))
}

func TestURL_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)

	var netErr *errs.NetworkError
	assert.ErrorAs(t, err, &netErr)
	assert.True(t, errs.IsRetryable(err))
}

func TestExtractMainText_ContentSelector(t *testing.T) {
	html := `<html><body>
		<nav>Site navigation</nav>
		<div class="job-description">Build distributed systems in Go.</div>
		<footer>Footer junk</footer>
	</body></html>`

	text, err := ExtractMainText(html, JobPostingSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "distributed systems")
	assert.NotContains(t, text, "navigation")
	assert.NotContains(t, text, "Footer")
}

func TestExtractMainText_NoiseSelectors(t *testing.T) {
	html := `<html><body><main>
		Great role.
		<div class="eeo-statement">Equal opportunity text</div>
	</main></body></html>`

	text, err := ExtractMainText(html, []string{"main"}, ".eeo-statement")
	require.NoError(t, err)
	assert.Contains(t, text, "Great role")
	assert.NotContains(t, text, "Equal opportunity")
}

func TestExtractMainText_FallsBackToBody(t *testing.T) {
	html := `<html><body><p>Plain page text</p></body></html>`

	text, err := ExtractMainText(html, []string{".does-not-exist"})
	require.NoError(t, err)
	assert.Contains(t, text, "Plain page text")
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("too short"))
	assert.False(t, ShouldUseBrowser(strings.Repeat("a", MinContentLength+1)))
}
