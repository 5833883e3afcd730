package repository

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"launch_notifier"
	"launch_notifier/internal/models"

	"github.com/google/go-cmp/cmp"
)

var vandenberg = SiteResolver{Site: "Vandenberg", Keywords: []string{"vandenberg", "vsfb", "slc-4", "slc-3"}}

const upcomingBody = `{
  "count": 3,
  "results": [
    {
      "id": "a1",
      "name": "Falcon 9 Block 5 | Starlink Group 6-34",
      "net": "2026-01-15T14:30:00Z",
      "pad": {"name": "Space Launch Complex 4E", "location": {"name": "Vandenberg SFB, CA, USA"}},
      "mission": {"name": "Starlink Group 6-34", "type": "Communications"},
      "rocket": {"configuration": {"name": "Falcon 9"}}
    },
    {
      "id": "b2",
      "name": "Falcon 9 Block 5 | Transporter-16",
      "net": "2026-01-20T10:00:00-08:00",
      "pad": {"name": "SLC-40", "location": {"name": "Cape Canaveral SFS, FL, USA"}},
      "mission": null,
      "rocket": {"configuration": {"name": "Falcon 9"}}
    },
    {
      "id": "c3",
      "name": "",
      "net": "2026-02-01T00:00:00Z",
      "pad": {"name": "SLC-4E", "location": null},
      "mission": {"name": ""},
      "rocket": null
    }
  ]
}`

func newTestClient(t *testing.T, serverURL string) *LaunchLibraryClient {
	t.Helper()
	c, err := NewLaunchLibraryClient(ClientOptions{
		APIURL:   serverURL + "/2.2.0/launch/upcoming/",
		Provider: "SpaceX",
		Limit:    100,
		Timeout:  2 * time.Second,
		Sites:    vandenberg,
	})
	if err != nil {
		t.Fatalf("NewLaunchLibraryClient returned error: %v", err)
	}
	return c
}

func TestLaunchLibraryClient_Upcoming_DecodesAndEncodesQuery(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	var gotPath, gotAccept, gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotAccept = r.Header.Get("Accept")
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(upcomingBody))
	}))
	t.Cleanup(server.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	got, err := newTestClient(t, server.URL).Upcoming(ctx)
	if err != nil {
		t.Fatalf("Upcoming returned error: %v", err)
	}

	if gotPath != "/2.2.0/launch/upcoming/" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotQuery.Get("lsp__name") != "SpaceX" || gotQuery.Get("limit") != "100" || gotQuery.Get("mode") != "detailed" {
		t.Fatalf("query = %v, want lsp__name/limit/mode encoded", gotQuery)
	}
	if gotAccept != "application/json" || gotUserAgent != defaultUserAgent {
		t.Fatalf("headers Accept=%q User-Agent=%q", gotAccept, gotUserAgent)
	}

	want := []models.LaunchRecord{
		{
			Name:           "Falcon 9 Block 5 | Starlink Group 6-34",
			NetTime:        time.Date(2026, 1, 15, 14, 30, 0, 0, time.UTC),
			SiteName:       "Vandenberg",
			PayloadSummary: "Starlink Group 6-34",
		},
		{
			Name:           "Falcon 9 Block 5 | Transporter-16",
			NetTime:        time.Date(2026, 1, 20, 18, 0, 0, 0, time.UTC),
			SiteName:       "Cape Canaveral SFS, FL, USA",
			PayloadSummary: "Falcon 9",
		},
		{
			Name:           unknownMission,
			NetTime:        time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			SiteName:       "Vandenberg",
			PayloadSummary: "",
		},
	}
	timeEqual := cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })
	if diff := cmp.Diff(want, got, timeEqual); diff != "" {
		t.Fatalf("Upcoming mismatch (-want +got):\n%s", diff)
	}
	if _, offset := got[1].NetTime.Zone(); offset != -8*3600 {
		t.Fatalf("API offset not preserved: %d", offset)
	}
}

func TestLaunchLibraryClient_Upcoming_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{}`, wantErr: launch_notifier.ErrNetwork},
		{name: "throttled", status: http.StatusTooManyRequests, body: `{"detail":"slow down"}`, wantErr: launch_notifier.ErrNetwork},
		{name: "malformed json", status: http.StatusOK, body: `{"results": [`, wantErr: launch_notifier.ErrData},
		{name: "missing results", status: http.StatusOK, body: `{"count": 0}`, wantErr: launch_notifier.ErrData},
		{name: "zone-less net", status: http.StatusOK, body: `{"results":[{"id":"x","name":"n","net":"2026-01-15T14:30:00"}]}`, wantErr: launch_notifier.ErrData},
		{name: "empty net", status: http.StatusOK, body: `{"results":[{"id":"x","name":"n","net":""}]}`, wantErr: launch_notifier.ErrData},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			t.Cleanup(server.Close)

			_, err := newTestClient(t, server.URL).Upcoming(context.Background())
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLaunchLibraryClient_Upcoming_EmptyResults(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"count":0,"results":[]}`))
	}))
	t.Cleanup(server.Close)

	got, err := newTestClient(t, server.URL).Upcoming(context.Background())
	if err != nil {
		t.Fatalf("Upcoming returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no records, got %d", len(got))
	}
}

func TestLaunchLibraryClient_Upcoming_UnreachableIsNetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	_, err := newTestClient(t, addr).Upcoming(context.Background())
	if !errors.Is(err, launch_notifier.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestLaunchLibraryClient_Upcoming_TimeoutIsNetworkError(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	c, err := NewLaunchLibraryClient(ClientOptions{
		APIURL:  server.URL,
		Timeout: 50 * time.Millisecond,
		Sites:   vandenberg,
	})
	if err != nil {
		t.Fatalf("NewLaunchLibraryClient returned error: %v", err)
	}
	_, err = c.Upcoming(context.Background())
	if !errors.Is(err, launch_notifier.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestNewLaunchLibraryClient_RejectsBadURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "not a url", "/relative/path", "http://"} {
		if _, err := NewLaunchLibraryClient(ClientOptions{APIURL: raw}); !errors.Is(err, launch_notifier.ErrConfig) {
			t.Errorf("NewLaunchLibraryClient(%q) error = %v, want ErrConfig", raw, err)
		}
	}
}

func TestSiteResolver_Resolve(t *testing.T) {
	t.Parallel()

	cases := []struct {
		pad, location, want string
	}{
		{"Space Launch Complex 4E", "Vandenberg SFB, CA, USA", "Vandenberg"},
		{"SLC-4E", "", "Vandenberg"},
		{"Space Launch Complex 40", "VSFB", "Vandenberg"},
		{"SLC-40", "Cape Canaveral SFS, FL, USA", "Cape Canaveral SFS, FL, USA"},
		{"SLC-40", "", "SLC-40"},
		{"SLC-3E", "", "Vandenberg"},
		{"LC-39A", "", "LC-39A"},
		{"", "", ""},
	}
	for _, tc := range cases {
		if got := vandenberg.Resolve(tc.pad, tc.location); got != tc.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tc.pad, tc.location, got, tc.want)
		}
	}
}
