package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/fire-folders/folders/common"
	"github.com/ZanzyTHEbar/fire-folders/folders/types"

	"github.com/rs/zerolog"
)

// Client talks to the photo backend over HTTP
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

var (
	_ Remote   = (*Client)(nil)
	_ Uploader = (*Client)(nil)
)

// NewClient creates a client for the backend at baseURL
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) (*Client, error) {
	u := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if u == "" {
		return nil, fmt.Errorf("server URL is required")
	}
	if _, err := url.ParseRequestURI(u); err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", baseURL, err)
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "remote").Logger(),
	}, nil
}

type listUploadsResponse struct {
	Files []string `json:"files"`
}

type groupedPhotosResponse struct {
	Groups [][]types.Photo `json:"groups"`
}

type metadataEntry struct {
	DateTaken *string `json:"date_taken"`
	Ranking   *int    `json:"ranking"`
}

type updateRankingRequest struct {
	Filename string `json:"filename"`
	Ranking  int    `json:"ranking"`
}

type setGroupNameRequest struct {
	GroupIdx int    `json:"group_idx"`
	Name     string `json:"name"`
}

type uploadResponse struct {
	Uploaded []string `json:"uploaded"`
}

func (c *Client) ListUploads(ctx context.Context) ([]string, error) {
	var out listUploadsResponse
	if err := c.doJSON(ctx, "list uploads", http.MethodGet, "/list_uploads", nil, &out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

func (c *Client) ListGroups(ctx context.Context) ([][]types.Photo, error) {
	var out groupedPhotosResponse
	if err := c.doJSON(ctx, "list groups", http.MethodGet, "/grouped_photos", nil, &out); err != nil {
		return nil, err
	}
	return out.Groups, nil
}

// ListGroupNames decodes the index-keyed name map. Keys that are not
// non-negative integers are skipped.
func (c *Client) ListGroupNames(ctx context.Context) (map[int]string, error) {
	var raw map[string]string
	if err := c.doJSON(ctx, "list group names", http.MethodGet, "/group_names", nil, &raw); err != nil {
		return nil, err
	}
	out := make(map[int]string, len(raw))
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		idx, err := strconv.Atoi(k)
		if err != nil || idx < 0 {
			c.logger.Warn().Str("key", k).Msg("skipping malformed group name key")
			continue
		}
		out[idx] = raw[k]
	}
	return out, nil
}

// FetchMetadata reads the metadata document. The backend serves it as a
// static file, so a missing document means no metadata yet. Entries without a
// ranking are reported as Neutral.
func (c *Client) FetchMetadata(ctx context.Context) (map[types.PhotoID]types.Metadata, error) {
	var raw map[string]metadataEntry
	err := c.doJSON(ctx, "fetch metadata", http.MethodGet, "/uploads/metadata.json", nil, &raw)
	if err != nil {
		var re *common.RemoteError
		if errors.As(err, &re) && re.Status == http.StatusNotFound {
			return map[types.PhotoID]types.Metadata{}, nil
		}
		return nil, err
	}
	out := make(map[types.PhotoID]types.Metadata, len(raw))
	for name, entry := range raw {
		m := types.Metadata{Rank: types.RankNeutral}
		if entry.DateTaken != nil {
			m.DateTaken = *entry.DateTaken
		}
		if entry.Ranking != nil {
			m.Rank = types.Rank(*entry.Ranking)
		}
		out[types.PhotoID(name)] = m
	}
	return out, nil
}

func (c *Client) DeleteFile(ctx context.Context, id types.PhotoID) error {
	q := url.Values{}
	q.Set("filename", string(id))
	return c.doJSON(ctx, "delete "+string(id), http.MethodDelete, "/delete_upload?"+q.Encode(), nil, nil)
}

func (c *Client) SetRank(ctx context.Context, id types.PhotoID, rank types.Rank) error {
	req := updateRankingRequest{Filename: string(id), Ranking: int(rank)}
	return c.doJSON(ctx, "set rank of "+string(id), http.MethodPost, "/update_ranking", req, nil)
}

func (c *Client) SetGroupName(ctx context.Context, index int, name string) error {
	req := setGroupNameRequest{GroupIdx: index, Name: name}
	return c.doJSON(ctx, fmt.Sprintf("name group %d", index), http.MethodPost, "/set_group_name", req, nil)
}

// Upload posts files as a multipart form under the "files" field
func (c *Client) Upload(ctx context.Context, files []File) ([]string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := mw.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, fmt.Errorf("prepare upload of %s: %w", f.Name, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, fmt.Errorf("prepare upload of %s: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("prepare upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var out uploadResponse
	if err := c.do(req, "upload", &out); err != nil {
		return nil, err
	}
	return out.Uploaded, nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, reqBody any, dst any) error {
	var body io.Reader
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, op, dst)
}

func (c *Client) do(req *http.Request, op string, dst any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("op", op).Msg("remote call failed")
		return common.Unavailable(op, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("op", op).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("remote call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		return common.FromStatus(op, resp.StatusCode, errorDetail(msg, resp.Status))
	}
	if dst == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return common.Rejected(op, resp.StatusCode, fmt.Sprintf("decode response: %v", err))
	}
	return nil
}

// errorDetail extracts FastAPI's {"detail": "..."} message when present
func errorDetail(body []byte, status string) string {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != nil {
		if s, ok := payload.Detail.(string); ok {
			return s
		}
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return status
	}
	return text
}
