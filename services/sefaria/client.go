// Package sefaria is a text.Provider backed by the Sefaria public API.
package sefaria

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"github.com/trezcool/rambam/core"
	"github.com/trezcool/rambam/core/text"
)

const DefaultBaseURL = "https://www.sefaria.org/api"

var (
	defaultSectionNames = []string{"Chapter", "Halakhah"}

	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rambam",
		Subsystem: "sefaria",
		Name:      "requests_total",
		Help:      "Sefaria API requests by endpoint and status code.",
	}, []string{"endpoint", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rambam",
		Subsystem: "sefaria",
		Name:      "request_duration_seconds",
		Help:      "Sefaria API request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
)

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Code    int
	Ref     string
	Chapter int // 0 for index requests
}

func (e *StatusError) Error() string {
	if e.Chapter == 0 {
		return fmt.Sprintf("sefaria index error: %d for %s", e.Code, e.Ref)
	}
	return fmt.Sprintf("sefaria API error: %d for %s ch.%d", e.Code, e.Ref, e.Chapter)
}

type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	HTTPClient        *http.Client // replaces the default client; Timeout is then ignored
}

// OptionsFromConfig maps the application config to client options.
func OptionsFromConfig(conf *core.Config) Options {
	return Options{
		BaseURL:           conf.Sefaria.BaseURL,
		Timeout:           conf.Sefaria.Timeout,
		RequestsPerSecond: conf.Sefaria.RequestsPerSecond,
		Burst:             conf.Sefaria.Burst,
	}
}

type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

var _ text.Provider = (*Client)(nil)

func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// ChapterPath is the escaped texts/ path segment for ref.chapter. Commas stay literal.
func ChapterPath(ref string, chapter int) string {
	return strings.ReplaceAll(url.PathEscape(ref+"."+strconv.Itoa(chapter)), "%2C", ",")
}

// IndexPath is the index/ path segment for ref, with spaces as underscores.
func IndexPath(ref string) string {
	return strings.ReplaceAll(url.PathEscape(strings.ReplaceAll(ref, " ", "_")), "%2C", ",")
}

type chapterResponse struct {
	Ref          string          `json:"ref"`
	HeRef        string          `json:"heRef"`
	Text         json.RawMessage `json:"text"`
	He           json.RawMessage `json:"he"`
	Next         *string         `json:"next"`
	Prev         *string         `json:"prev"`
	SectionNames []string        `json:"sectionNames"`
	Lengths      []int           `json:"lengths"`
	Book         string          `json:"book"`
}

// Chapter fetches one chapter. Missing arrays come back empty, missing section names get the
// Mishneh Torah default and a missing book is the requested ref.
func (c *Client) Chapter(ctx context.Context, ref string, chapter int) (text.Chapter, error) {
	var resp chapterResponse
	if err := c.get(ctx, "texts", "/texts/"+ChapterPath(ref, chapter), &StatusError{Ref: ref, Chapter: chapter}, &resp); err != nil {
		return text.Chapter{}, err
	}

	ch := text.Chapter{
		Ref:          resp.Ref,
		HeRef:        resp.HeRef,
		Book:         resp.Book,
		Text:         stringArray(resp.Text),
		He:           stringArray(resp.He),
		SectionNames: resp.SectionNames,
		Lengths:      resp.Lengths,
	}
	if resp.Next != nil {
		ch.Next = *resp.Next
	}
	if resp.Prev != nil {
		ch.Prev = *resp.Prev
	}
	if len(ch.SectionNames) == 0 {
		ch.SectionNames = append([]string(nil), defaultSectionNames...)
	}
	if ch.Lengths == nil {
		ch.Lengths = []int{}
	}
	if ch.Book == "" {
		ch.Book = ref
	}
	return ch, nil
}

// Index fetches the table of contents of ref.
func (c *Client) Index(ctx context.Context, ref string) (text.Index, error) {
	var idx text.Index
	if err := c.get(ctx, "index", "/index/"+IndexPath(ref), &StatusError{Ref: ref}, &idx); err != nil {
		return text.Index{}, err
	}
	return idx, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, statusErr *StatusError, v interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "waiting for rate limiter")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.http.Do(req)
	requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(endpoint, "error").Inc()
		return errors.Wrapf(err, "GET %s", path)
	}
	defer func() { _ = res.Body.Close() }()
	requestsTotal.WithLabelValues(endpoint, strconv.Itoa(res.StatusCode)).Inc()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, res.Body)
		statusErr.Code = res.StatusCode
		return statusErr
	}
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return errors.Wrapf(err, "decoding %s", path)
	}
	return nil
}

// stringArray keeps a JSON array of strings; anything else, including absence, is empty.
// Non-string entries become empty strings so positions are kept.
func stringArray(raw json.RawMessage) []string {
	var items []interface{}
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, _ := item.(string)
		out = append(out, s)
	}
	return out
}
