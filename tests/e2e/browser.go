//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// Browser keeps cookies between requests the way a browser tab does.
type Browser struct {
	t       *testing.T
	router  *gin.Engine
	token   string
	cookies map[string]*http.Cookie
}

func NewBrowser(t *testing.T, router *gin.Engine, token string) *Browser {
	return &Browser{t: t, router: router, token: token, cookies: map[string]*http.Cookie{}}
}

func (b *Browser) Do(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	b.t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(b.t, err, "Failed to encode request body to JSON")
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return w
}

func (b *Browser) Cookie(name string) (*http.Cookie, bool) {
	c, ok := b.cookies[name]
	return c, ok
}
