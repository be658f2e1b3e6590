package storage

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"listings-feed-store/models"
	"listings-feed-store/normalize"
	"listings-feed-store/utils"
)

type fakeContents struct {
	sha     string
	content string // plain text; served base64-encoded
	size    int

	putBody map[string]string
	puts    int
}

func newFakeGitHub(t *testing.T, f *fakeContents) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/contents/"):
			if f.sha == "" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"sha":      f.sha,
				"content":  base64.StdEncoding.EncodeToString([]byte(f.content)),
				"encoding": "base64",
				"size":     f.size,
			})
		case r.Method == http.MethodPut && strings.Contains(r.URL.Path, "/contents/"):
			f.puts++
			f.putBody = map[string]string{}
			if err := json.NewDecoder(r.Body).Decode(&f.putBody); err != nil {
				t.Errorf("decode put body: %v", err)
			}
			json.NewEncoder(w).Encode(map[string]any{"ok": true})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestSync(srv *httptest.Server) *GitHubSync {
	return &GitHubSync{
		client:  srv.Client(),
		apiBase: srv.URL,
		token:   "test-token",
		branch:  "main",
		tables:  normalize.MustLoadTables(),
		logger:  utils.NewLogger(),
	}
}

func putContent(t *testing.T, f *fakeContents) string {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(f.putBody["content"])
	if err != nil {
		t.Fatalf("decode pushed content: %v", err)
	}
	return string(raw)
}

func TestSyncCSVMergesOnlyNewRecords(t *testing.T) {
	remote := "mls_number,price\n1111111,100\n"
	fake := &fakeContents{sha: "abc123", content: remote, size: len(remote)}
	srv := newFakeGitHub(t, fake)
	defer srv.Close()

	sync := newTestSync(srv)
	local := []*models.Listing{
		{MLSNumber: "1111111", Price: "999"}, // already remote
		{MLSNumber: "2222222", Price: "200"},
	}

	pushed, err := sync.SyncCSV("data/listings.csv", local)
	if err != nil {
		t.Fatalf("SyncCSV: %v", err)
	}
	if pushed != 1 {
		t.Fatalf("pushed = %d; want 1", pushed)
	}
	if fake.puts != 1 {
		t.Fatalf("puts = %d; want 1", fake.puts)
	}

	merged := putContent(t, fake)
	if !strings.Contains(merged, "1111111") || !strings.Contains(merged, "2222222") {
		t.Errorf("merged file missing records:\n%s", merged)
	}
	if strings.Count(merged, "1111111") != 1 {
		t.Errorf("remote record duplicated in merged file:\n%s", merged)
	}
	if fake.putBody["sha"] != "abc123" {
		t.Errorf("put sha = %q; want blob sha of existing file", fake.putBody["sha"])
	}
	if !strings.HasPrefix(fake.putBody["message"], "Add 1 new listings") {
		t.Errorf("commit message = %q", fake.putBody["message"])
	}
}

func TestSyncCSVCreatesMissingRemoteFile(t *testing.T) {
	fake := &fakeContents{}
	srv := newFakeGitHub(t, fake)
	defer srv.Close()

	sync := newTestSync(srv)
	pushed, err := sync.SyncCSV("data/listings.csv", []*models.Listing{
		{MLSNumber: "3333333", Timestamp: "2024-01-01 00:00:00"},
	})
	if err != nil {
		t.Fatalf("SyncCSV: %v", err)
	}
	if pushed != 1 {
		t.Fatalf("pushed = %d; want 1", pushed)
	}
	if _, hasSHA := fake.putBody["sha"]; hasSHA {
		t.Error("creating a new file must not send a sha")
	}

	merged := putContent(t, fake)
	lines := strings.Split(strings.TrimSpace(merged), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if got := strings.Split(lines[0], ",")[0]; got != models.CanonicalColumns[0] {
		t.Errorf("header starts with %q; want canonical columns", got)
	}
}

func TestSyncCSVSkipsWhenNothingNew(t *testing.T) {
	remote := "mls_number\n1111111\n"
	fake := &fakeContents{sha: "abc123", content: remote, size: len(remote)}
	srv := newFakeGitHub(t, fake)
	defer srv.Close()

	sync := newTestSync(srv)
	pushed, err := sync.SyncCSV("data/listings.csv", []*models.Listing{
		{MLSNumber: "1111111"},
	})
	if err != nil {
		t.Fatalf("SyncCSV: %v", err)
	}
	if pushed != 0 {
		t.Errorf("pushed = %d; want 0", pushed)
	}
	if fake.puts != 0 {
		t.Errorf("puts = %d; nothing should be written", fake.puts)
	}
}

func TestSyncCSVAbortsOnUnreadableRemote(t *testing.T) {
	// Remote file exists (sha set) but no content comes back.
	fake := &fakeContents{sha: "abc123", content: "", size: 0}
	srv := newFakeGitHub(t, fake)
	defer srv.Close()

	sync := newTestSync(srv)
	pushed, err := sync.SyncCSV("data/listings.csv", []*models.Listing{
		{MLSNumber: "4444444"},
	})
	if err != nil {
		t.Fatalf("SyncCSV: %v", err)
	}
	if pushed != 0 {
		t.Errorf("pushed = %d; want 0 on unreadable remote", pushed)
	}
	if fake.puts != 0 {
		t.Errorf("puts = %d; an unreadable remote must never be overwritten", fake.puts)
	}
}

func TestSyncCSVIdentifierSuffixNormalized(t *testing.T) {
	remote := "MLS Number\n5555555\n"
	fake := &fakeContents{sha: "abc123", content: remote, size: len(remote)}
	srv := newFakeGitHub(t, fake)
	defer srv.Close()

	sync := newTestSync(srv)
	pushed, err := sync.SyncCSV("data/listings.csv", []*models.Listing{
		{MLSNumber: "5555555.0"},
	})
	if err != nil {
		t.Fatalf("SyncCSV: %v", err)
	}
	if pushed != 0 {
		t.Errorf("pushed = %d; float-suffixed identifier should match remote", pushed)
	}
}
