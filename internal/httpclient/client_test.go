package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_Timeout(t *testing.T) {
	t.Parallel()

	c, err := New(Options{Timeout: "30s"})
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, c.Timeout)

	_, err = New(Options{Timeout: "soon"})
	require.Error(t, err)
}

func TestNew_SetsUserAgent(t *testing.T) {
	t.Parallel()

	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	c, err := New(Options{UserAgent: "regiongrid/test"})
	require.NoError(t, err)
	defer Close(c)

	resp, err := c.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "regiongrid/test", got)
}
