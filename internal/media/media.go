package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Resource types understood by the media host. Audio is uploaded as "video",
// which is how the host classifies audio streams.
const (
	ResourceImage = "image"
	ResourceVideo = "video"
	ResourceRaw   = "raw"
)

// Upload is the durable result of pushing a buffer to the media host.
type Upload struct {
	URL      string
	PublicID string
}

// Store is the external media host: it accepts buffer uploads and returns a
// durable URL, and supports delete-by-identifier.
type Store interface {
	Upload(ctx context.Context, data []byte, resourceType string) (*Upload, error)
	Delete(ctx context.Context, publicID, resourceType string) error
}

// Client talks to a Cloudinary-compatible upload API over HTTP. Every request
// carries the client timeout so a slow media host cannot hold a request
// (or any database transaction) open indefinitely.
type Client struct {
	cloudName  string
	apiKey     string
	apiSecret  string
	folder     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a media host client.
func NewClient(cloudName, apiKey, apiSecret, folder string) *Client {
	return &Client{
		cloudName:  cloudName,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		folder:     folder,
		baseURL:    "https://api.cloudinary.com/v1_1",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload pushes a buffer and returns the hosted URL and public id.
func (c *Client) Upload(ctx context.Context, data []byte, resourceType string) (*Upload, error) {
	publicID := c.folder + "/" + uuid.New().String()
	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	signature := c.sign(map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	})

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", publicID)
	if err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	fields := map[string]string{
		"api_key":   c.apiKey,
		"timestamp": timestamp,
		"public_id": publicID,
		"signature": signature,
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("build upload form: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/%s/upload", c.baseURL, c.cloudName, resourceType)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload to media host: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read media host response: %w", err)
	}
	var parsed uploadResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode media host response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || parsed.SecureURL == "" {
		if parsed.Error.Message != "" {
			return nil, fmt.Errorf("media host rejected upload: %s", parsed.Error.Message)
		}
		return nil, fmt.Errorf("media host rejected upload: status %d", resp.StatusCode)
	}

	return &Upload{URL: parsed.SecureURL, PublicID: parsed.PublicID}, nil
}

// Delete removes an object by its public id.
func (c *Client) Delete(ctx context.Context, publicID, resourceType string) error {
	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	signature := c.sign(map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	})

	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("timestamp", timestamp)
	form.Set("api_key", c.apiKey)
	form.Set("signature", signature)

	endpoint := fmt.Sprintf("%s/%s/%s/destroy", c.baseURL, c.cloudName, resourceType)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build destroy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete from media host: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("media host rejected delete: status %d", resp.StatusCode)
	}
	return nil
}

// sign produces the request signature: the sorted query string of the signed
// params followed by the API secret, hashed with SHA-1.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}

var versionSegment = regexp.MustCompile(`^v\d+/`)

// PublicIDFromURL recovers the public id from a hosted URL so records that
// only persisted the URL can still be cleaned up remotely.
func PublicIDFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	_, after, found := strings.Cut(parsed.Path, "/upload/")
	if !found {
		return ""
	}
	after = versionSegment.ReplaceAllString(after, "")
	if idx := strings.LastIndex(after, "."); idx > 0 {
		after = after[:idx]
	}
	return after
}
