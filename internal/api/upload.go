package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"

	apierrors "github.com/diogo/companion/internal/errors"
	"github.com/diogo/companion/internal/models"
)

const (
	// MaxAttachmentSize bounds a single uploaded blob
	MaxAttachmentSize = 20 * 1024 * 1024 // 20MB
)

// UploadedFile represents an uploaded attachment ready for use in prompts
type UploadedFile struct {
	ResourceID string
	Name       string
	MIMEType   string
	Size       int64
}

// Upload pushes an opaque byte blob to the content-push endpoint. The
// filename's extension is the only content-type hint the caller provides;
// the bytes themselves are never inspected.
func (c *Client) Upload(data []byte, filename string) (*UploadedFile, error) {
	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("refusing to upload empty blob %q", filename)
	}
	if int64(len(data)) > MaxAttachmentSize {
		return nil, fmt.Errorf("attachment %q exceeds maximum %d bytes", filename, MaxAttachmentSize)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write file data: %w", err)
	}
	_ = writer.Close()

	uploadID := generateUploadID()
	uploadURL := fmt.Sprintf("%s?upload_id=%s&upload_protocol=resumable",
		models.EndpointUpload, uploadID)

	req, err := fhttp.NewRequest(fhttp.MethodPost, uploadURL, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Goog-Upload-Protocol", "resumable")
	req.Header.Set("X-Goog-Upload-Command", "upload, finalize")
	req.Header.Set("X-Goog-Upload-Offset", "0")
	for key, value := range models.UploadHeaders() {
		req.Header.Set(key, value)
	}
	cookies := c.Cookies()
	addAuthCookies(req, &cookies)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkError("upload attachment", models.EndpointUpload, err)
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode == 429 {
		return nil, apierrors.NewUsageLimitError("upload throttled")
	}
	if resp.StatusCode != 200 && resp.StatusCode != 201 {
		apiErr := apierrors.NewAPIError(resp.StatusCode, models.EndpointUpload, "upload failed")
		return nil, apiErr.WithBody(string(respBody))
	}
	if readErr != nil {
		return nil, apierrors.NewNetworkError("read upload response", models.EndpointUpload, readErr)
	}

	// The endpoint answers with the bare resource ID
	resourceID := string(bytes.TrimSpace(respBody))
	if resourceID == "" {
		resourceID = uploadID
	}

	c.logger.Debug().Str("file", filename).Int("bytes", len(data)).Msg("attachment uploaded")

	return &UploadedFile{
		ResourceID: resourceID,
		Name:       filename,
		MIMEType:   models.MIMEForFilename(filename),
		Size:       int64(len(data)),
	}, nil
}

func generateUploadID() string {
	return fmt.Sprintf("companion-%d", time.Now().UnixNano())
}
