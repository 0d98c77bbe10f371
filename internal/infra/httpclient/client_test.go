//go:build unit

package httpclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tour-checkout/internal/infra"
	"tour-checkout/internal/infra/httpclient"
	"tour-checkout/internal/pkg/authctx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Do(t *testing.T) {
	t.Run("forwards bearer and decodes body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			assert.Equal(t, "k1", r.Header.Get("Idempotency-Key"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name":"ok"}`))
		}))
		defer srv.Close()

		c := httpclient.New(srv.URL+"/", time.Second, srv.Client())
		var out struct{ Name string }
		status, err := c.Do(authctx.WithBearer(context.Background(), "tok"), httpclient.Request{
			Method: http.MethodGet,
			Path:   "/x",
			Out:    &out,
			Header: http.Header{"Idempotency-Key": []string{"k1"}},
		})

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "ok", out.Name)
	})

	statusCases := []struct {
		status int
		kind   infra.RepositoryErrorKind
	}{
		{http.StatusUnauthorized, infra.KindUnauthorized},
		{http.StatusForbidden, infra.KindUnauthorized},
		{http.StatusNotFound, infra.KindNotFound},
		{http.StatusConflict, infra.KindConflict},
		{http.StatusBadRequest, infra.KindRejected},
		{http.StatusTooManyRequests, infra.KindUnavailable},
		{http.StatusBadGateway, infra.KindUnavailable},
		{http.StatusGatewayTimeout, infra.KindTimeout},
	}
	for _, tc := range statusCases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"message":"nope"}`))
			}))
			defer srv.Close()

			_, err := httpclient.New(srv.URL, time.Second, nil).Do(context.Background(), httpclient.Request{Method: http.MethodGet, Path: "/"})
			assert.True(t, infra.IsKind(err, tc.kind), "got %v", err)
			assert.Contains(t, err.Error(), "nope")
		})
	}

	t.Run("deadline is a timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}))
		defer srv.Close()

		_, err := httpclient.New(srv.URL, 20*time.Millisecond, nil).Do(context.Background(), httpclient.Request{Method: http.MethodGet, Path: "/"})
		assert.True(t, infra.IsKind(err, infra.KindTimeout), "got %v", err)
	})

	t.Run("unreachable is unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := httpclient.New(url, time.Second, nil).Do(context.Background(), httpclient.Request{Method: http.MethodGet, Path: "/"})
		assert.True(t, infra.IsKind(err, infra.KindUnavailable), "got %v", err)
	})
}
