package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/fio/internal/buildinfo"
)

func TestGet_Success(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = io.WriteString(w, "accountId;2400000001\n")
	}))
	defer srv.Close()

	body, err := New().Get(context.Background(), srv.URL+"/rest/last/tok/transactions.csv")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "accountId;2400000001\n", string(data))
	assert.Equal(t, buildinfo.UserAgent(), gotUA)
}

func TestGet_AnySuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	body, err := New().Get(context.Background(), srv.URL)
	require.NoError(t, err)
	body.Close()
}

func TestGet_CustomUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	body, err := New(WithUserAgent("acme-books/2.0"), WithHTTPClient(srv.Client())).Get(context.Background(), srv.URL)
	require.NoError(t, err)
	body.Close()
	assert.Equal(t, "acme-books/2.0", gotUA)
}

func TestGet_ErrorStatuses(t *testing.T) {
	for _, code := range []int{http.StatusConflict, http.StatusNotFound, http.StatusInternalServerError, http.StatusMultipleChoices} {
		t.Run(fmt.Sprint(code), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", code)
			}))
			defer srv.Close()

			body, err := New().Get(context.Background(), srv.URL)
			require.Error(t, err)
			assert.Nil(t, body)

			var herr *HTTPError
			require.True(t, errors.As(err, &herr))
			assert.Equal(t, code, herr.StatusCode)
			assert.Equal(t, code, StatusCode(err))
			assert.Equal(t, code == http.StatusConflict, IsRateLimited(err))
		})
	}
}

func TestHTTPError_Message(t *testing.T) {
	err := &HTTPError{StatusCode: 409, Status: "409 Conflict", URL: "https://example.test/rest/last/***/transactions.csv"}
	assert.Contains(t, err.Error(), "409 Conflict")
	assert.Contains(t, err.Error(), "30 seconds")

	err = &HTTPError{StatusCode: 500, Status: "500 Internal Server Error", URL: "https://example.test"}
	assert.NotContains(t, err.Error(), "30 seconds")
}

func TestIsRateLimited_Wrapped(t *testing.T) {
	err := fmt.Errorf("last: %w", &HTTPError{StatusCode: http.StatusConflict})
	assert.True(t, IsRateLimited(err))
	assert.False(t, IsRateLimited(errors.New("boom")))
	assert.False(t, IsRateLimited(nil))
	assert.Equal(t, 0, StatusCode(errors.New("boom")))
}

func TestGet_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Get(ctx, srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
