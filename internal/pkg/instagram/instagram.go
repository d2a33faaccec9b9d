package instagram

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/gojek/heimdall/v7/httpclient"
)

var ErrUnreachable = errors.New("content link unreachable")

// Post links only; profile and story URLs are not valid submissions.
var postURLPattern = regexp.MustCompile(`^https?://(www\.)?instagram\.com/(p|reel|tv)/[A-Za-z0-9_\-]+/?([?#].*)?$`)

func ValidPostURL(rawURL string) bool {
	return postURLPattern.MatchString(rawURL)
}

// Probe checks that a submitted content link actually resolves before the
// submission is stored. Instagram throttles aggressively, so the client
// retries transient failures with a short timeout.
type Probe struct {
	client *httpclient.Client
}

func NewProbe(timeout time.Duration, retries int) *Probe {
	return &Probe{
		client: httpclient.NewClient(
			httpclient.WithHTTPTimeout(timeout),
			httpclient.WithRetryCount(retries),
		),
	}
}

func (p *Probe) Check(rawURL string) error {
	res, err := p.client.Get(rawURL, http.Header{
		"User-Agent": []string{"viralbite-linkprobe/1.0"},
	})
	if err != nil {
		return ErrUnreachable
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return ErrUnreachable
	}
	return nil
}
