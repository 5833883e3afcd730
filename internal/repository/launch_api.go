package repository

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

	"launch_notifier"
	"launch_notifier/internal/models"
)

const (
	defaultUserAgent  = "launch-notifier/1.0"
	defaultTimeout    = 10 * time.Second
	unknownMission    = "Unknown Mission"
	maxResponseBytes  = 8 << 20
	detailedQueryMode = "detailed"
)

// Ensure LaunchLibraryClient implements LaunchRepo at compile time.
var _ LaunchRepo = (*LaunchLibraryClient)(nil)

// LaunchLibraryClient reads upcoming launches from the Launch Library 2 API.
type LaunchLibraryClient struct {
	endpoint  *url.URL
	http      *http.Client
	userAgent string
	provider  string
	limit     int
	sites     SiteResolver
}

// ClientOptions configures NewLaunchLibraryClient. HTTP is optional.
type ClientOptions struct {
	APIURL   string
	Provider string
	Limit    int
	Timeout  time.Duration
	Sites    SiteResolver
	HTTP     *http.Client
}

// NewLaunchLibraryClient builds a client for the "upcoming launches" endpoint.
func NewLaunchLibraryClient(opts ClientOptions) (*LaunchLibraryClient, error) {
	endpoint, err := url.Parse(strings.TrimSpace(opts.APIURL))
	if err != nil {
		return nil, fmt.Errorf("%w: parse api url: %w", launch_notifier.ErrConfig, err)
	}
	if endpoint.Scheme == "" || endpoint.Host == "" {
		return nil, fmt.Errorf("%w: api url %q needs scheme and host", launch_notifier.ErrConfig, opts.APIURL)
	}

	httpClient := opts.HTTP
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &LaunchLibraryClient{
		endpoint:  endpoint,
		http:      httpClient,
		userAgent: defaultUserAgent,
		provider:  opts.Provider,
		limit:     opts.Limit,
		sites:     opts.Sites,
	}, nil
}

// Upcoming issues one GET and converts every result into a LaunchRecord.
// Transport failures and non-2xx statuses are ErrNetwork; undecodable bodies are ErrData.
func (c *LaunchLibraryClient) Upcoming(ctx context.Context) ([]models.LaunchRecord, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: client is nil", launch_notifier.ErrNetwork)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", launch_notifier.ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: execute request: %w", launch_notifier.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: api %s returned status %d", launch_notifier.ErrNetwork, c.endpoint.Path, resp.StatusCode)
	}

	var payload upcomingResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", launch_notifier.ErrData, err)
	}
	if payload.Results == nil {
		return nil, fmt.Errorf("%w: response has no results field", launch_notifier.ErrData)
	}

	out := make([]models.LaunchRecord, 0, len(*payload.Results))
	for i, l := range *payload.Results {
		rec, err := c.toRecord(l)
		if err != nil {
			return nil, fmt.Errorf("%w: result %d (%s): %w", launch_notifier.ErrData, i, l.ID, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (c *LaunchLibraryClient) requestURL() string {
	u := *c.endpoint
	values := u.Query()
	if c.provider != "" {
		values.Set("lsp__name", c.provider)
	}
	if c.limit > 0 {
		values.Set("limit", strconv.Itoa(c.limit))
	}
	values.Set("mode", detailedQueryMode)
	u.RawQuery = values.Encode()
	return u.String()
}

func (c *LaunchLibraryClient) toRecord(l apiLaunch) (models.LaunchRecord, error) {
	net, err := parseNet(l.Net)
	if err != nil {
		return models.LaunchRecord{}, err
	}
	name := strings.TrimSpace(l.Name)
	if name == "" {
		name = unknownMission
	}
	padName, locationName := l.Pad.names()
	return models.LaunchRecord{
		Name:           name,
		NetTime:        net,
		SiteName:       c.sites.Resolve(padName, locationName),
		PayloadSummary: strings.TrimSpace(l.payloadSummary()),
	}, nil
}

// parseNet requires an explicit UTC offset; a zone-less timestamp is ambiguous.
func parseNet(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("net is empty")
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse net %q: %w", s, err)
	}
	return t, nil
}

// SiteResolver maps pad and location names onto one canonical site identifier.
type SiteResolver struct {
	Site     string
	Keywords []string // lower-case substrings
}

// Resolve returns Site when any keyword occurs in the pad or location name,
// otherwise the location name as reported (the pad name if there is no location).
// A keyword ending in a digit must not be followed by another digit: "slc-4" matches
// "SLC-4E" but not the Cape's "SLC-40".
func (r SiteResolver) Resolve(padName, locationName string) string {
	pad := strings.ToLower(padName)
	loc := strings.ToLower(locationName)
	for _, kw := range r.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if containsKeyword(pad, kw) || containsKeyword(loc, kw) {
			return r.Site
		}
	}
	if locationName != "" {
		return locationName
	}
	return padName
}

func containsKeyword(s, kw string) bool {
	for from := 0; from <= len(s)-len(kw); {
		i := strings.Index(s[from:], kw)
		if i < 0 {
			return false
		}
		end := from + i + len(kw)
		if end == len(s) || !isDigit(kw[len(kw)-1]) || !isDigit(s[end]) {
			return true
		}
		from += i + 1
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
