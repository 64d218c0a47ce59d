// Package http builds the HTTP client shared by the link scraper and the
// downloader.
package http

import (
	"context"
	"io"
	nethttp "net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/SiirRandall/tuxport/internal/logging"
)

// UserAgent is sent with every request. Some download hosts reject Go's
// default agent.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"

// Options configures NewClient.
type Options struct {
	// Timeout bounds a whole request including the body read. Zero means none.
	Timeout time.Duration
	// Retries is the number of transport-level retries. Zero disables retrying.
	Retries int
	Logger  *logging.Logger
}

// retryLogger adapts our logger to retryablehttp.LeveledLogger.
type retryLogger struct {
	log *logging.Logger
}

func (l retryLogger) Error(msg string, kv ...interface{}) {
	l.log.Error().Fields(kv).Msg(msg)
}

func (l retryLogger) Warn(msg string, kv ...interface{}) {
	l.log.Warn().Fields(kv).Msg(msg)
}

func (l retryLogger) Info(msg string, kv ...interface{}) {
	l.log.Debug().Fields(kv).Msg(msg)
}

func (l retryLogger) Debug(msg string, kv ...interface{}) {
	l.log.Debug().Fields(kv).Msg(msg)
}

// NewClient returns a standard *http.Client backed by retryablehttp. The last
// response is passed through unchanged once retries run out so callers can
// report the real status.
func NewClient(opts Options) *nethttp.Client {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = opts.Retries
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.Logger = retryLogger{log: opts.Logger}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := rc.StandardClient()
	c.Timeout = opts.Timeout
	return c
}

// Get issues a GET for url with the fixed User-Agent.
func Get(ctx context.Context, client *nethttp.Client, url string) (*nethttp.Response, error) {
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	return client.Do(req)
}

// StatusOK reports whether code is 2xx.
func StatusOK(code int) bool {
	return code >= 200 && code < 300
}

// ErrorBody reads at most 4 KiB of a failed response for error messages.
func ErrorBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	return string(b)
}
