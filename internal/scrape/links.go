// Package scrape finds downloadable Windows installers linked from a web page.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	tphttp "github.com/SiirRandall/tuxport/internal/http"
	"github.com/SiirRandall/tuxport/internal/logging"
)

const exeSuffix = ".exe"

// ErrNoLinksFound means the page was fetched but links to no .exe file.
var ErrNoLinksFound = errors.New("no .exe download links found on the page")

// StatusError is a non-2xx answer from the page server.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return "page request failed: " + e.Status
	}
	return fmt.Sprintf("page request failed: %s: %s", e.Status, e.Body)
}

// Error wraps any failure to fetch or read the page.
type Error struct {
	URL string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("scrape %s: %v", e.URL, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Scraper fetches pages with a shared client.
type Scraper struct {
	client *nethttp.Client
	log    *logging.Logger
}

// New creates a Scraper. A nil client gets a default one.
func New(client *nethttp.Client, log *logging.Logger) *Scraper {
	if client == nil {
		client = tphttp.NewClient(tphttp.Options{})
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Scraper{client: client, log: log}
}

// IsDirectExe reports whether rawURL already points at an .exe and needs no scraping.
func IsDirectExe(rawURL string) bool {
	return hasExeSuffix(rawURL)
}

// ExeLinks fetches pageURL and returns every href ending in .exe, in document
// order with duplicates kept, resolved to absolute URLs.
func (s *Scraper) ExeLinks(ctx context.Context, pageURL string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, &Error{URL: pageURL, Err: err}
	}

	resp, err := tphttp.Get(ctx, s.client, pageURL)
	if err != nil {
		return nil, &Error{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if !tphttp.StatusOK(resp.StatusCode) {
		return nil, &Error{URL: pageURL, Err: &StatusError{
			Code:   resp.StatusCode,
			Status: resp.Status,
			Body:   strings.TrimSpace(tphttp.ErrorBody(resp.Body)),
		}}
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, &Error{URL: pageURL, Err: fmt.Errorf("decode page: %w", err)}
	}

	refs, err := ExtractExeRefs(body)
	if err != nil {
		return nil, &Error{URL: pageURL, Err: err}
	}
	if len(refs) == 0 {
		return nil, ErrNoLinksFound
	}

	links := make([]string, 0, len(refs))
	for _, ref := range refs {
		u, err := base.Parse(ref)
		if err != nil {
			s.log.Debugf("Skipping unparsable link %q: %v", ref, err)
			continue
		}
		links = append(links, u.String())
	}
	if len(links) == 0 {
		return nil, ErrNoLinksFound
	}
	s.log.Debugf("Found %d .exe links on %s", len(links), pageURL)
	return links, nil
}

// ExtractExeRefs returns the raw href values ending in .exe, in document order.
// Invalid UTF-8 in attribute values is dropped.
func ExtractExeRefs(r io.Reader) ([]string, error) {
	var refs []string
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return refs, nil
			}
			return refs, fmt.Errorf("read page: %w", z.Err())
		case html.StartTagToken, html.SelfClosingTagToken:
			_, hasAttr := z.TagName()
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) != "href" {
					continue
				}
				ref := strings.TrimSpace(dropInvalid(string(val)))
				if hasExeSuffix(ref) {
					refs = append(refs, ref)
				}
			}
		}
	}
}

// dropInvalid removes invalid byte sequences, including the replacement
// characters a charset decoder substitutes for them.
func dropInvalid(s string) string {
	return strings.ReplaceAll(strings.ToValidUTF8(s, ""), string(utf8.RuneError), "")
}

func hasExeSuffix(s string) bool {
	return strings.HasSuffix(strings.ToLower(s), exeSuffix)
}
