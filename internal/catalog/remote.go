// internal/catalog/remote.go
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"mcp-dosage-safety/internal/models"
)

// RemoteCatalog fetches supplement records from a content server reached
// through an MCP HTTP proxy, using the get_supplements tool.
type RemoteCatalog struct {
	httpClient *http.Client
	proxyURL   string
	apiKey     string
	serverName string
}

func NewRemoteCatalog(proxyURL, apiKey, serverName string) *RemoteCatalog {
	return &RemoteCatalog{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		proxyURL:   strings.TrimRight(proxyURL, "/"),
		apiKey:     apiKey,
		serverName: serverName,
	}
}

func (c *RemoteCatalog) GetRecords(ctx context.Context, ids []string) (map[string]models.CatalogRecord, error) {
	text, err := c.callTool(ctx, "get_supplements", map[string]any{"ids": ids})
	if err != nil {
		return nil, err
	}

	// The tool answers either with a bare array or with {"supplements": [...]}.
	list := gjson.Parse(text)
	if !list.IsArray() {
		list = list.Get("supplements")
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("unexpected get_supplements payload")
	}

	out := make(map[string]models.CatalogRecord, len(ids))
	var decodeErr error
	list.ForEach(func(_, value gjson.Result) bool {
		var raw RawRecord
		if err := json.Unmarshal([]byte(value.Raw), &raw); err != nil {
			decodeErr = fmt.Errorf("decode supplement: %w", err)
			return false
		}
		rec, err := Normalize(raw)
		if err != nil {
			decodeErr = err
			return false
		}
		out[rec.ID] = rec
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}

	var missing []string
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &NotFoundError{IDs: missing}
	}
	return out, nil
}

// callTool issues a JSON-RPC tools/call and returns the first text content.
func (c *RemoteCatalog) callTool(ctx context.Context, toolName string, args any) (string, error) {
	url := fmt.Sprintf("%s/%s", c.proxyURL, c.serverName)

	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]any{
			"name":      toolName,
			"arguments": args,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(data))
	}

	if msg := gjson.GetBytes(data, "error.message"); msg.Exists() {
		return "", fmt.Errorf("tool %s failed: %s", toolName, msg.String())
	}
	text := gjson.GetBytes(data, "result.content.0.text")
	if !text.Exists() {
		return "", fmt.Errorf("unexpected response format")
	}
	return text.String(), nil
}
