package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/companion/internal/errors"
	"github.com/diogo/companion/internal/models"
)

// GenerateOptions contains options for content generation
type GenerateOptions struct {
	Model    models.Model
	Metadata []string        // [cid, rid, rcid] for chat context
	Files    []*UploadedFile // Attachments to include in the prompt
}

// GenerateContent sends a prompt to Gemini and returns the parsed response
func (c *Client) GenerateContent(prompt string, opts *GenerateOptions) (*models.ModelOutput, error) {
	if prompt == "" {
		return nil, fmt.Errorf("prompt cannot be empty")
	}
	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}

	model := models.ModelUnspecified
	var metadata []string
	var files []*UploadedFile
	if opts != nil {
		if opts.Model.Name != "" {
			model = opts.Model
		}
		metadata = opts.Metadata
		files = opts.Files
	}

	payload, err := buildPayload(prompt, metadata, files)
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	form := url.Values{}
	form.Set("at", c.AccessToken())
	form.Set("f.req", payload)

	req, err := http.NewRequest(
		http.MethodPost,
		models.EndpointGenerate,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	for key, value := range model.Header {
		req.Header.Set(key, value)
	}
	cookies := c.Cookies()
	addAuthCookies(req, &cookies)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkError("generate content", models.EndpointGenerate, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode == 429 {
		return nil, apierrors.NewUsageLimitError(
			fmt.Sprintf("model %s is throttled, try again later", model.Name))
	}
	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := apierrors.NewAPIError(resp.StatusCode, models.EndpointGenerate, "generate content failed")
		return nil, apiErr.WithBody(string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.NewNetworkError("read generate response", models.EndpointGenerate, err)
	}

	return parseResponse(body, model.Name)
}

// buildPayload creates the f.req envelope for the generate request.
// Attachments are referenced as [[resource_id], filename] pairs; the prompt
// and conversation metadata follow the positional wire layout.
func buildPayload(prompt string, metadata []string, files []*UploadedFile) (string, error) {
	var inner []interface{}

	if len(files) > 0 {
		var fileParts []interface{}
		for _, file := range files {
			fileParts = append(fileParts, []interface{}{
				[]interface{}{file.ResourceID},
				file.Name,
			})
		}

		inner = []interface{}{
			[]interface{}{
				prompt,
				0,
				nil,
				fileParts,
			},
			nil,
			metadata,
		}
	} else {
		inner = []interface{}{
			[]interface{}{prompt},
			nil,
			metadata,
		}
	}

	innerJSON, err := json.Marshal(inner)
	if err != nil {
		return "", err
	}

	outer := []interface{}{
		nil,
		string(innerJSON),
	}
	outerJSON, err := json.Marshal(outer)
	if err != nil {
		return "", err
	}

	return string(outerJSON), nil
}

// parseResponse parses a generate response body
func parseResponse(body []byte, modelName string) (*models.ModelOutput, error) {
	// The response carries an anti-JSON prefix; find the first valid line
	var jsonLine string
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if gjson.Valid(line) {
			jsonLine = line
			break
		}
	}
	if jsonLine == "" {
		return nil, apierrors.NewParseError("no valid JSON found in response", "")
	}

	parsed := gjson.Parse(jsonLine)

	altErrorCode := parsed.Get(PathAltErrorCode)
	if altErrorCode.Exists() && !altErrorCode.IsArray() && altErrorCode.Int() > 0 {
		return nil, apierrors.FromErrorCode(
			apierrors.ErrorCode(altErrorCode.Int()), models.EndpointGenerate, modelName)
	}

	var responseBody gjson.Result
	parsed.ForEach(func(_, value gjson.Result) bool {
		bodyData := value.Get(PathBody)
		if !bodyData.Exists() {
			return true
		}
		bodyJSON := gjson.Parse(bodyData.String())
		if bodyJSON.Get(PathCandList).Exists() {
			responseBody = bodyJSON
			return false
		}
		return true
	})

	if !responseBody.Exists() {
		if errorCode := parsed.Get(PathErrorCode); errorCode.Exists() {
			return nil, apierrors.FromErrorCode(
				apierrors.ErrorCode(errorCode.Int()), models.EndpointGenerate, modelName)
		}
		return nil, apierrors.NewParseError("no response body found", PathBody)
	}

	var metadata []string
	if metadataResult := responseBody.Get(PathMetadata); metadataResult.IsArray() {
		metadataResult.ForEach(func(_, v gjson.Result) bool {
			metadata = append(metadata, v.String())
			return true
		})
	}

	candidateList := responseBody.Get(PathCandList)
	if !candidateList.Exists() || !candidateList.IsArray() {
		return nil, apierrors.NewParseError("no candidates found", PathCandList)
	}

	var candidates []models.Candidate
	candidateList.ForEach(func(_, candValue gjson.Result) bool {
		rcid := candValue.Get(PathCandRCID).String()
		if rcid == "" {
			return true // skip candidates without RCID
		}
		candidates = append(candidates, models.Candidate{
			RCID:     rcid,
			Text:     candValue.Get(PathCandText).String(),
			Thoughts: candValue.Get(PathCandThoughts).String(),
		})
		return true
	})

	if len(candidates) == 0 {
		return nil, apierrors.NewParseError("no valid candidates found", PathCandList)
	}

	return &models.ModelOutput{
		Metadata:   metadata,
		Candidates: candidates,
		Chosen:     0,
	}, nil
}
