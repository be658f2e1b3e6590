package storage

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"listings-feed-store/models"
	"listings-feed-store/normalize"
	"listings-feed-store/utils"
)

// GitHubSync pushes canonical listing CSVs to a hosted GitHub repository.
// Sync is an existence-based merge: only rows whose MLS number is absent from
// the remote file are appended, and the merged file is written back in one
// commit.
type GitHubSync struct {
	client  *http.Client
	apiBase string
	token   string
	branch  string
	tables  *normalize.Tables
	logger  *utils.Logger
}

// NewGitHubSync creates a sync client for the given "owner/repo".
func NewGitHubSync(token, repo, branch string, tables *normalize.Tables, logger *utils.Logger) *GitHubSync {
	return &GitHubSync{
		client:  &http.Client{Timeout: 60 * time.Second},
		apiBase: "https://api.github.com/repos/" + repo,
		token:   token,
		branch:  branch,
		tables:  tables,
		logger:  logger,
	}
}

type contentsResponse struct {
	SHA      string `json:"sha"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	Size     int    `json:"size"`
}

func (g *GitHubSync) doJSON(method, reqURL string, body io.Reader, out any) (int, error) {
	req, err := http.NewRequest(method, reqURL, body)
	if err != nil {
		return 0, fmt.Errorf("github: build request: %w", err)
	}
	req.Header.Set("Authorization", "token "+g.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("github: %s %s: %w", method, reqURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return resp.StatusCode, fmt.Errorf("github: %s %s: status %d: %s", method, reqURL, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("github: decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// fileContent fetches the remote file. It returns the decoded content and
// blob SHA; a missing file yields empty content and an empty SHA. Large files
// come back without inline content and are fetched through the blob API.
func (g *GitHubSync) fileContent(path string) (string, string, error) {
	reqURL := fmt.Sprintf("%s/contents/%s?ref=%s", g.apiBase, path, url.QueryEscape(g.branch))

	var meta contentsResponse
	status, err := g.doJSON(http.MethodGet, reqURL, nil, &meta)
	if err != nil {
		return "", "", err
	}
	if status == http.StatusNotFound {
		return "", "", nil
	}

	raw := meta.Content
	if raw == "" && meta.Size > 0 {
		var blob contentsResponse
		blobURL := fmt.Sprintf("%s/git/blobs/%s", g.apiBase, meta.SHA)
		if _, err := g.doJSON(http.MethodGet, blobURL, nil, &blob); err != nil {
			return "", meta.SHA, err
		}
		raw = blob.Content
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(raw, "\n", ""))
	if err != nil {
		return "", meta.SHA, fmt.Errorf("github: decode content of %s: %w", path, err)
	}
	return string(decoded), meta.SHA, nil
}

// putFile writes file content through the contents API, updating in place
// when a blob SHA is supplied.
func (g *GitHubSync) putFile(path, content, message, sha string) error {
	payload := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString([]byte(content)),
		"branch":  g.branch,
	}
	if sha != "" {
		payload["sha"] = sha
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("github: marshal put payload: %w", err)
	}

	reqURL := fmt.Sprintf("%s/contents/%s", g.apiBase, path)
	_, err = g.doJSON(http.MethodPut, reqURL, bytes.NewReader(body), nil)
	return err
}

// parseRemoteCSV reads the remote canonical CSV into listing records, using
// the remote file's own header so column-order drift is harmless.
func (g *GitHubSync) parseRemoteCSV(content string) ([]*models.Listing, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("github: parse remote header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = g.tables.Header(h)
	}

	var rows []*models.Listing
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			g.logger.Warn("[sync] skipping malformed remote row: %v", err)
			continue
		}
		l := &models.Listing{}
		for i, cell := range record {
			if i >= len(columns) {
				break
			}
			l.SetField(columns[i], cell)
		}
		l.MLSNumber = normalize.MLS(l.MLSNumber)
		rows = append(rows, l)
	}
	return rows, nil
}

func renderCSV(rows []*models.Listing) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(models.CanonicalColumns); err != nil {
		return "", fmt.Errorf("github: render header: %w", err)
	}
	for _, l := range rows {
		if err := w.Write(l.Row()); err != nil {
			return "", fmt.Errorf("github: render row: %w", err)
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

// SyncCSV merges locally scraped rows into the hosted CSV at path. Rows whose
// MLS number already exists remotely are skipped. Returns the number of rows
// pushed. When the remote file exists but its content cannot be read, the
// sync aborts without writing rather than risking data loss.
func (g *GitHubSync) SyncCSV(path string, local []*models.Listing) (int, error) {
	g.logger.Info("[sync] syncing %d scraped rows to %s", len(local), path)

	content, sha, err := g.fileContent(path)
	if err != nil {
		return 0, err
	}
	if content == "" && sha != "" {
		g.logger.Error("[sync] remote file exists but content could not be read — aborting to prevent data loss")
		return 0, nil
	}

	existing, err := g.parseRemoteCSV(content)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(existing))
	for _, l := range existing {
		if l.MLSNumber != "" {
			seen[l.MLSNumber] = struct{}{}
		}
	}
	g.logger.Info("[sync] existing records in remote: %d", len(seen))

	var fresh []*models.Listing
	for _, l := range local {
		if _, dup := seen[normalize.MLS(l.MLSNumber)]; !dup {
			fresh = append(fresh, l)
		}
	}
	if len(fresh) == 0 {
		g.logger.Info("[sync] no new records to sync")
		return 0, nil
	}

	merged, err := renderCSV(append(existing, fresh...))
	if err != nil {
		return 0, err
	}

	message := fmt.Sprintf("Add %d new listings (%s)", len(fresh), time.Now().Format("2006-01-02 15:04"))
	if err := g.putFile(path, merged, message, sha); err != nil {
		return 0, err
	}

	g.logger.Info("[sync] pushed %d new records (%d total)", len(fresh), len(existing)+len(fresh))
	return len(fresh), nil
}
