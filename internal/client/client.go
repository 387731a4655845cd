package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"

	"github.com/rshade/holdview/internal/cache"
	"github.com/rshade/holdview/internal/holdings"
	"github.com/rshade/holdview/internal/logging"
	"github.com/rshade/holdview/pkg/version"
)

// Defaults used when Options leave a field zero.
const (
	DefaultPayloadPath      = "$.payload"
	DefaultTimeout          = 15 * time.Second
	DefaultMaxResponseBytes = 10 * 1024 * 1024

	// maxErrorBody caps the response body kept on a status error.
	maxErrorBody = 512
)

// Source says where a Result's holdings came from.
type Source string

// Result sources.
const (
	SourceNetwork  Source = "network"
	SourceFile     Source = "file"
	SourceSnapshot Source = "snapshot"
)

// Result is one successfully obtained holdings list.
type Result struct {
	Holdings []holdings.Holding
	Source   Source
	URL      string

	// FetchedAt is when the holdings were received; for snapshots, when the snapshot was taken.
	FetchedAt time.Time

	// FallbackReason is the network error that caused a snapshot to be served, if any.
	FallbackReason error
}

// IsSnapshot reports whether the result was served from the snapshot store.
func (r *Result) IsSnapshot() bool {
	return r != nil && r.Source == SourceSnapshot
}

// SnapshotStore persists the last good payload per URL.
type SnapshotStore interface {
	Get(url string) (*cache.Snapshot, error)
	Put(url string, payload json.RawMessage, fetchedAt time.Time) error
}

// Options configure a Client.
type Options struct {
	// URL is an http(s) endpoint, a file:// URL or a local file path.
	URL string

	// PayloadPath is the JSONPath of the holdings array in the response.
	PayloadPath string

	Timeout          time.Duration
	MaxResponseBytes int64

	// Headers are added to every request.
	Headers map[string]string

	// HTTPClient defaults to a client with no timeout of its own; Timeout applies per request.
	HTTPClient *http.Client

	// Snapshots, when set, receives every successful network payload.
	Snapshots SnapshotStore

	// FallbackOnError serves a snapshot when the network fetch fails.
	FallbackOnError bool

	// Offline serves only the snapshot and never touches the network.
	Offline bool
}

// Client fetches holdings from one source.
type Client struct {
	url         string
	filePath    string
	payloadPath string
	timeout     time.Duration
	maxBytes    int64
	headers     map[string]string
	http        *http.Client
	snapshots   SnapshotStore
	fallback    bool
	offline     bool

	group singleflight.Group
	now   func() time.Time
}

// New validates opts and creates a Client.
func New(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.URL)
	if raw == "" {
		return nil, errors.New("holdings URL is required")
	}

	c := &Client{
		url:         raw,
		payloadPath: opts.PayloadPath,
		timeout:     opts.Timeout,
		maxBytes:    opts.MaxResponseBytes,
		headers:     opts.Headers,
		http:        opts.HTTPClient,
		snapshots:   opts.Snapshots,
		fallback:    opts.FallbackOnError,
		offline:     opts.Offline,
		now:         time.Now,
	}
	if c.payloadPath == "" {
		c.payloadPath = DefaultPayloadPath
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.maxBytes <= 0 {
		c.maxBytes = DefaultMaxResponseBytes
	}
	if c.http == nil {
		c.http = &http.Client{}
	}

	path, isFile, err := localPath(raw)
	if err != nil {
		return nil, err
	}
	if isFile {
		c.filePath = path
	}
	return c, nil
}

// localPath resolves file:// URLs and bare paths. http(s) URLs return isFile false.
func localPath(raw string) (string, bool, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false, fmt.Errorf("invalid holdings URL %q: %w", raw, err)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return "", false, fmt.Errorf("invalid holdings URL %q: missing host", raw)
		}
		return "", false, nil
	case "file":
		path := u.Path
		if u.Host != "" && u.Host != "localhost" {
			path = u.Host + path
		}
		return filepath.FromSlash(path), true, nil
	case "":
		return raw, true, nil
	default:
		return "", false, fmt.Errorf("unsupported holdings URL scheme %q", u.Scheme)
	}
}

// URL returns the configured source.
func (c *Client) URL() string {
	return c.url
}

// IsLocal reports whether the source is a local file.
func (c *Client) IsLocal() bool {
	return c.filePath != ""
}

// fetched is the shared result of one coalesced network fetch.
type fetched struct {
	payload   json.RawMessage
	holdings  []holdings.Holding
	fetchedAt time.Time
}

// Fetch retrieves the holdings list.
//
// Concurrent calls share one request. On a non-canceled failure the last good
// snapshot is served when fallback is enabled. A canceled ctx always yields a
// KindCanceled error and never a result.
func (c *Client) Fetch(ctx context.Context) (*Result, error) {
	log := logging.FromContext(ctx).With().Str("component", "client").Str("url", c.url).Logger()

	if c.offline {
		res, err := c.fromSnapshot(nil)
		if err != nil {
			return nil, err
		}
		log.Info().Time("fetched_at", res.FetchedAt).Msg("serving snapshot in offline mode")
		return res, nil
	}

	start := c.now()
	f, err := c.coalesced(ctx)
	if ctx.Err() != nil {
		return nil, newFetchError(KindCanceled, c.url, ctx.Err())
	}

	if err != nil {
		log.Warn().Err(err).Str("kind", string(KindOf(err))).Dur("elapsed", c.now().Sub(start)).Msg("holdings fetch failed")
		if !c.fallback || c.snapshots == nil || c.IsLocal() || errors.Is(err, ErrCanceled) {
			return nil, err
		}
		res, snapErr := c.fromSnapshot(err)
		if snapErr != nil {
			log.Debug().Err(snapErr).Msg("no snapshot to fall back to")
			return nil, err
		}
		log.Warn().Time("fetched_at", res.FetchedAt).Msg("serving snapshot after failed fetch")
		return res, nil
	}

	source := SourceNetwork
	if c.IsLocal() {
		source = SourceFile
	}
	log.Debug().Int("count", len(f.holdings)).Dur("elapsed", c.now().Sub(start)).Msg("holdings fetched")

	if source == SourceNetwork && c.snapshots != nil {
		if putErr := c.snapshots.Put(c.url, f.payload, f.fetchedAt); putErr != nil && !errors.Is(putErr, cache.ErrDisabled) {
			log.Warn().Err(putErr).Msg("failed to store snapshot")
		}
	}

	return &Result{
		Holdings:  f.holdings,
		Source:    source,
		URL:       c.url,
		FetchedAt: f.fetchedAt,
	}, nil
}

// coalesced runs one fetch per URL at a time and shares its outcome. The shared
// request runs under the first caller's ctx; a caller whose ctx is still live when
// that request was canceled fetches again on its own.
func (c *Client) coalesced(ctx context.Context) (*fetched, error) {
	ch := c.group.DoChan(c.url, func() (any, error) {
		return c.fetchSource(ctx)
	})

	select {
	case <-ctx.Done():
		return nil, newFetchError(KindCanceled, c.url, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			if errors.Is(res.Err, ErrCanceled) && ctx.Err() == nil && res.Shared {
				return c.fetchSource(ctx)
			}
			return nil, res.Err
		}
		f, _ := res.Val.(*fetched)
		return f, nil
	}
}

// fromSnapshot serves the stored payload. reason is the failure that led here.
func (c *Client) fromSnapshot(reason error) (*Result, error) {
	if c.snapshots == nil {
		return nil, fmt.Errorf("%w for %s: cache disabled", ErrNoSnapshot, c.url)
	}
	snap, err := c.snapshots.Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %w", ErrNoSnapshot, c.url, err)
	}
	list, err := DecodeHoldings(snap.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %w", ErrNoSnapshot, c.url, err)
	}
	return &Result{
		Holdings:       list,
		Source:         SourceSnapshot,
		URL:            c.url,
		FetchedAt:      snap.FetchedAt,
		FallbackReason: reason,
	}, nil
}

func (c *Client) fetchSource(ctx context.Context) (*fetched, error) {
	var (
		body []byte
		err  error
	)
	if c.IsLocal() {
		body, err = c.readFile()
	} else {
		body, err = c.get(ctx)
	}
	if err != nil {
		return nil, err
	}

	payload, err := ExtractPayload(body, c.payloadPath)
	if err != nil {
		return nil, newFetchError(KindPayload, c.url, err)
	}
	list, err := DecodeHoldings(payload)
	if err != nil {
		return nil, newFetchError(KindPayload, c.url, err)
	}
	return &fetched{payload: payload, holdings: list, fetchedAt: c.now()}, nil
}

func (c *Client) readFile() ([]byte, error) {
	f, err := os.Open(c.filePath)
	if err != nil {
		return nil, newFetchError(KindNetwork, c.url, err)
	}
	defer f.Close()

	body, err := readLimited(f, c.maxBytes)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			return nil, newFetchError(KindPayload, c.url, fmt.Errorf("file exceeds %d bytes", c.maxBytes))
		}
		return nil, newFetchError(KindNetwork, c.url, err)
	}
	return body, nil
}

// get performs the GET under ctx with the per-request timeout.
func (c *Client) get(parent context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(parent, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, newFetchError(KindNetwork, c.url, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(parent.Err(), context.Canceled) {
			return nil, newFetchError(KindCanceled, c.url, parent.Err())
		}
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", c.timeout, err)
		}
		return nil, newFetchError(KindNetwork, c.url, err)
	}
	defer resp.Body.Close()

	body, readErr := readLimited(resp.Body, c.maxBytes)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			Kind:       KindStatus,
			URL:        c.url,
			StatusCode: resp.StatusCode,
			Body:       truncateBody(body),
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	if readErr != nil {
		if errors.Is(parent.Err(), context.Canceled) {
			return nil, newFetchError(KindCanceled, c.url, parent.Err())
		}
		if errors.Is(readErr, errBodyTooLarge) {
			return nil, newFetchError(KindPayload, c.url, fmt.Errorf("response exceeds %d bytes", c.maxBytes))
		}
		return nil, newFetchError(KindNetwork, c.url, fmt.Errorf("reading response: %w", readErr))
	}
	return body, nil
}

func truncateBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= maxErrorBody {
		return s
	}
	s = s[:maxErrorBody]
	for !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s + "..."
}
