package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Memaso-max/schedule-sync-service/internal/models"
)

// Artifact paths within the contents API.
const (
	DataPath = "data.json"
	MetaPath = "data_meta.json"
)

// Endpoints locates the two read endpoints and the contents-style write base
// ("<base>/<path>" accepts GET for the current revision and PUT for updates).
type Endpoints struct {
	DataURL     string
	MetaURL     string
	ContentsURL string
}

type httpClient struct {
	endpoints   Endpoints
	httpc       *http.Client
	credentials CredentialProvider
}

// NewHTTPClient builds a Client against the given endpoints. A nil *http.Client
// falls back to http.DefaultClient; timeouts are whatever the injected client
// enforces.
func NewHTTPClient(endpoints Endpoints, httpc *http.Client, credentials CredentialProvider) Client {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	if credentials == nil {
		credentials = StaticToken("")
	}
	return &httpClient{endpoints: endpoints, httpc: httpc, credentials: credentials}
}

func (c *httpClient) FetchDocument(ctx context.Context) (*models.Snapshot, error) {
	body, err := c.get(ctx, c.endpoints.DataURL)
	if err != nil {
		return nil, err
	}
	var snap models.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("%w: decoding data document: %v", ErrRemoteFormat, err)
	}
	snap.Normalize()
	return &snap, nil
}

func (c *httpClient) FetchMetadata(ctx context.Context) (Metadata, error) {
	body, err := c.get(ctx, c.endpoints.MetaURL)
	if err != nil {
		return Metadata{}, err
	}
	var meta Metadata
	if err := json.Unmarshal(body, &meta); err != nil {
		return Metadata{}, fmt.Errorf("%w: decoding meta document: %v", ErrRemoteFormat, err)
	}
	return meta, nil
}

func (c *httpClient) PushDocument(ctx context.Context, snap *models.Snapshot, message string) (Metadata, error) {
	token, err := c.credentials.Token(ctx)
	if err != nil {
		return Metadata{}, err
	}

	doc := snap.Clone()
	doc.Normalize()
	meta := Metadata{LastUpdated: doc.LastUpdated}

	dataJSON, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Metadata{}, fmt.Errorf("encoding data document: %w", err)
	}
	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return Metadata{}, fmt.Errorf("encoding meta document: %w", err)
	}

	if err := c.putFile(ctx, token, DataPath, dataJSON, message); err != nil {
		return Metadata{}, err
	}
	if err := c.putFile(ctx, token, MetaPath, metaJSON, message+" (meta)"); err != nil {
		return Metadata{}, err
	}
	return meta, nil
}

func (c *httpClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrRemoteUnavailable, err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s returned %d", ErrRemoteUnavailable, rawURL, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrRemoteUnavailable, err)
	}
	return body, nil
}

// contentsFile is the revisioned view of an artifact returned by the contents
// endpoint.
type contentsFile struct {
	SHA     string `json:"sha"`
	Content string `json:"content"`
}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
}

// putFile performs one optimistic read-modify-write: read the artifact's
// current revision identifier, then write conditioned on it. A store that
// ignores the condition degrades to last-writer-wins.
func (c *httpClient) putFile(ctx context.Context, token, path string, content []byte, message string) error {
	target := c.contentsURL(path)

	sha, err := c.currentSHA(ctx, token, target)
	if err != nil {
		return err
	}

	payload := putRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		SHA:     sha,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding put request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: building request: %v", ErrRemoteUnavailable, err)
	}
	req.Header.Set("Authorization", "token "+token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: PUT %s returned %d", ErrAuthRequired, path, resp.StatusCode)
	default:
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: PUT %s returned %d: %s", ErrRemoteUnavailable, path, resp.StatusCode, text)
	}
}

// currentSHA reads the artifact's revision identifier; an artifact that does
// not exist yet simply has none.
func (c *httpClient) currentSHA(ctx context.Context, token, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("%w: building request: %v", ErrRemoteUnavailable, err)
	}
	req.Header.Set("Authorization", "token "+token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", nil
	}
	var file contentsFile
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return "", nil
	}
	return file.SHA, nil
}

func (c *httpClient) contentsURL(path string) string {
	return c.endpoints.ContentsURL + "/" + url.PathEscape(path)
}
