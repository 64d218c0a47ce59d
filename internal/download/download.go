// Package download streams a remote installer to a local file.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	tphttp "github.com/SiirRandall/tuxport/internal/http"
	"github.com/SiirRandall/tuxport/internal/logging"
)

// ChunkSize is the read size used when the response declares its length.
const ChunkSize = 32 * 1024

// ErrNoFileName means the URL path has no basename to save under.
var ErrNoFileName = errors.New("URL has no file name")

// Error wraps every download failure with the source URL.
type Error struct {
	URL string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("download %s: %v", e.URL, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// StatusError is a non-2xx answer from the file server.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string { return "download failed: " + e.Status }

// ProgressFunc receives whole percentages, 0 to 100.
type ProgressFunc func(percent int)

// Downloader fetches files with a shared client.
type Downloader struct {
	client *nethttp.Client
	log    *logging.Logger
}

// New creates a Downloader. A nil client gets a default one.
func New(client *nethttp.Client, log *logging.Logger) *Downloader {
	if client == nil {
		client = tphttp.NewClient(tphttp.Options{})
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Downloader{client: client, log: log}
}

// FileName returns the basename of rawURL's path.
func FileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" || strings.ContainsAny(name, `/\`) {
		return "", ErrNoFileName
	}
	return name, nil
}

// Download saves rawURL as destDir/<basename> and returns the path. When the
// server declares a length, onProgress is called after every chunk; without
// one the body is copied in one go and onProgress is never called. An existing
// file at the destination is replaced.
func (d *Downloader) Download(ctx context.Context, rawURL, destDir string, onProgress ProgressFunc) (string, error) {
	name, err := FileName(rawURL)
	if err != nil {
		return "", &Error{URL: rawURL, Err: err}
	}
	dest := filepath.Join(destDir, name)

	resp, err := tphttp.Get(ctx, d.client, rawURL)
	if err != nil {
		return "", &Error{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()
	if !tphttp.StatusOK(resp.StatusCode) {
		return "", &Error{URL: rawURL, Err: &StatusError{Code: resp.StatusCode, Status: resp.Status}}
	}

	if err := EnsureDir(destDir); err != nil {
		return "", &Error{URL: rawURL, Err: err}
	}
	partial := filepath.Join(destDir, "."+name+"."+uuid.NewString()+".part")
	f, err := os.OpenFile(partial, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return "", &Error{URL: rawURL, Err: err}
	}

	total := resp.ContentLength
	d.log.Debugf("Downloading %s (%d bytes) to %s", rawURL, total, dest)
	if total > 0 {
		err = copyChunked(f, resp.Body, total, onProgress)
	} else {
		_, err = io.Copy(f, resp.Body)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(partial)
		return "", &Error{URL: rawURL, Err: err}
	}

	if err := os.Rename(partial, dest); err != nil {
		_ = os.Remove(partial)
		return "", &Error{URL: rawURL, Err: err}
	}
	return dest, nil
}

// copyChunked copies src to dst in ChunkSize reads, reporting progress after each.
func copyChunked(dst io.Writer, src io.Reader, total int64, onProgress ProgressFunc) error {
	buf := make([]byte, ChunkSize)
	var done int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return werr
			}
			done += int64(n)
			if onProgress != nil {
				onProgress(Percent(done, total))
			}
		}
		if errors.Is(rerr, io.EOF) {
			return nil
		}
		if rerr != nil {
			return rerr
		}
	}
}

// Percent is floor(done*100/total), capped at 100.
func Percent(done, total int64) int {
	if total <= 0 {
		return 0
	}
	p := done * 100 / total
	if p > 100 {
		p = 100
	}
	return int(p)
}
