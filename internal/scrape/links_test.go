package scrape

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tphttp "github.com/SiirRandall/tuxport/internal/http"
)

func servePage(t *testing.T, contentType, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Header.Get("User-Agent") != tphttp.UserAgent {
			nethttp.Error(w, "bad agent", nethttp.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", contentType)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExeLinksOrderCaseAndExclusion(t *testing.T) {
	page := `<html><body>
<a href="x.exe">x</a>
<a href="y.EXE">y</a>
<a href="z.txt">z</a>
</body></html>`
	srv := servePage(t, "text/html; charset=utf-8", page)
	pageURL := srv.URL + "/downloads/index.html"

	links, err := New(nil, nil).ExeLinks(context.Background(), pageURL)
	if err != nil {
		t.Fatalf("ExeLinks failed: %v", err)
	}

	expected := []string{srv.URL + "/downloads/x.exe", srv.URL + "/downloads/y.EXE"}
	if len(links) != len(expected) {
		t.Fatalf("expected %d links, got %d: %v", len(expected), len(links), links)
	}
	for i := range expected {
		if links[i] != expected[i] {
			t.Errorf("link %d: expected %s, got %s", i, expected[i], links[i])
		}
	}
}

func TestExeLinksKeepsDuplicatesAndAbsoluteURLs(t *testing.T) {
	page := `<a href='https://cdn.example.com/app.exe'>a</a>
<link href="/setup.exe">
<a href="https://cdn.example.com/app.exe">again</a>`
	srv := servePage(t, "text/html", page)

	links, err := New(nil, nil).ExeLinks(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("ExeLinks failed: %v", err)
	}
	expected := []string{
		"https://cdn.example.com/app.exe",
		srv.URL + "/setup.exe",
		"https://cdn.example.com/app.exe",
	}
	if strings.Join(links, "\n") != strings.Join(expected, "\n") {
		t.Errorf("expected %v, got %v", expected, links)
	}
}

func TestExeLinksNoneFound(t *testing.T) {
	srv := servePage(t, "text/html", `<a href="readme.txt">nothing here</a><p>setup.exe</p>`)

	_, err := New(nil, nil).ExeLinks(context.Background(), srv.URL)
	if !errors.Is(err, ErrNoLinksFound) {
		t.Errorf("expected ErrNoLinksFound, got %v", err)
	}
}

func TestExeLinksToleratesInvalidBytes(t *testing.T) {
	page := "<p>\xff\xfe broken</p><a href=\"tool\xff.exe\">t</a>"
	srv := servePage(t, "text/html; charset=utf-8", page)

	links, err := New(nil, nil).ExeLinks(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("ExeLinks failed: %v", err)
	}
	if len(links) != 1 || links[0] != srv.URL+"/tool.exe" {
		t.Errorf("expected invalid bytes dropped from link, got %v", links)
	}
}

func TestExeLinksStatusError(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		nethttp.Error(w, "gone", nethttp.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(nil, nil).ExeLinks(context.Background(), srv.URL)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != nethttp.StatusNotFound {
		t.Errorf("expected 404, got %d", se.Code)
	}
	var scrapeErr *Error
	if !errors.As(err, &scrapeErr) {
		t.Error("expected the status error to be wrapped in a scrape Error")
	}
}

func TestExeLinksNetworkError(t *testing.T) {
	srv := httptest.NewServer(nethttp.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := New(nil, nil).ExeLinks(context.Background(), addr)
	var scrapeErr *Error
	if !errors.As(err, &scrapeErr) {
		t.Errorf("expected scrape Error for closed server, got %v", err)
	}
}

func TestIsDirectExe(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"https://example.com/setup.exe", true},
		{"https://example.com/SETUP.EXE", true},
		{"https://example.com/downloads", false},
		{"https://example.com/setup.exe?x=1", false},
		{"", false},
	}
	for _, test := range tests {
		if got := IsDirectExe(test.url); got != test.expected {
			t.Errorf("IsDirectExe(%q) = %v, expected %v", test.url, got, test.expected)
		}
	}
}

func TestExtractExeRefs(t *testing.T) {
	refs, err := ExtractExeRefs(strings.NewReader(`<a href="a.exe"><img src="b.exe"><a HREF="c.Exe">`))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(refs, ",") != "a.exe,c.Exe" {
		t.Errorf("expected [a.exe c.Exe], got %v", refs)
	}
}
