package instagram

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidPostURL(t *testing.T) {
	valid := []string{
		"https://instagram.com/p/Cxy123_-a",
		"https://www.instagram.com/p/Cxy123/",
		"http://instagram.com/reel/abc123",
		"https://www.instagram.com/tv/XYZ_987/?utm_source=share",
	}
	for _, u := range valid {
		require.True(t, ValidPostURL(u), u)
	}

	invalid := []string{
		"",
		"https://instagram.com/someprofile",
		"https://instagram.com/stories/someprofile/123",
		"https://example.com/p/Cxy123",
		"ftp://instagram.com/p/Cxy123",
		"https://instagram.com/p/",
	}
	for _, u := range invalid {
		require.False(t, ValidPostURL(u), u)
	}
}

func TestProbeCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/gone":
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	probe := NewProbe(2*time.Second, 0)

	require.NoError(t, probe.Check(srv.URL+"/ok"))
	require.ErrorIs(t, probe.Check(srv.URL+"/gone"), ErrUnreachable)
}

func TestProbeCheckUnreachableHost(t *testing.T) {
	probe := NewProbe(500*time.Millisecond, 0)
	require.ErrorIs(t, probe.Check("http://127.0.0.1:1/nothing"), ErrUnreachable)
}
