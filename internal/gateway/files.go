package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/wyejay/edulibrary-client/internal/models"
)

func (c *client) ListFiles(ctx context.Context, filter models.FileFilter) (*models.FilesResponse, error) {
	query := url.Values{}
	if filter.Category != "" && filter.Category != "all" {
		query.Set("category", filter.Category)
	}
	if filter.SearchText != "" {
		query.Set("search", filter.SearchText)
	}
	if filter.FeaturedOnly {
		query.Set("featured", "true")
	}

	var resp models.FilesResponse
	if err := c.getJSON(ctx, "/files", query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *client) Upload(ctx context.Context, req models.UploadRequest) (*models.UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("pdf", req.FileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(req.Content)); err != nil {
		return nil, fmt.Errorf("failed to copy file content: %w", err)
	}

	if err := writer.WriteField("category", req.Category); err != nil {
		return nil, fmt.Errorf("failed to write category field: %w", err)
	}
	if err := writer.WriteField("description", req.Description); err != nil {
		return nil, fmt.Errorf("failed to write description field: %w", err)
	}
	if err := writer.WriteField("tags", strings.Join(req.Tags, ",")); err != nil {
		return nil, fmt.Errorf("failed to write tags field: %w", err)
	}
	writer.Close()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.execute(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.failure(resp)
	}

	var result models.UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}

	c.logger.Info().
		Str("filename", result.Filename).
		Str("category", req.Category).
		Msg("File uploaded")

	return &result, nil
}

// Download streams the file body. The backend bumps download counters as a
// side effect, so this is never retried.
func (c *client) Download(ctx context.Context, id int) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DownloadURL(id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.execute(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, c.failure(resp)
	}
	return resp.Body, nil
}

func (c *client) DownloadURL(id int) string {
	return fmt.Sprintf("%s/download/%d", c.baseURL, id)
}

func (c *client) PreviewURL(id int) string {
	return fmt.Sprintf("%s/preview/%d", c.baseURL, id)
}

func (c *client) Delete(ctx context.Context, id int) error {
	if err := c.send(ctx, http.MethodDelete, fmt.Sprintf("/delete/%d", id), nil, nil); err != nil {
		return err
	}
	c.logger.Info().Int("file_id", id).Msg("File deleted")
	return nil
}
