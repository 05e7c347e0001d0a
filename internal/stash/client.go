// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stash is a minimal GraphQL client for the Stash host API. It
// covers the two calls the plugin needs: reading the configured library
// paths and triggering a metadata scan.
package stash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/heic-convert/internal/httputil"
	"github.com/pdiddy/heic-convert/pkg/types"
)

const queryLibraryPaths = `
query Configuration {
    configuration {
        general {
            stashes {
                path
            }
        }
    }
}`

const mutationMetadataScan = `
mutation MetadataScan {
    metadataScan(input: {})
}`

// Client talks to one Stash instance. Construct with NewClient; the zero
// value is not usable.
type Client struct {
	conn types.ConnectionConfig
	http *http.Client
}

// NewClient builds a client for the given connection. The HTTP timeout
// comes from the connection config.
func NewClient(conn types.ConnectionConfig) *Client {
	return &Client{
		conn: conn,
		http: &http.Client{Timeout: conn.Timeout},
	}
}

// graphQLResponse is the GraphQL-over-HTTP response envelope.
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// execute posts a GraphQL document and unmarshals the data field into out.
// A non-2xx status or a non-empty errors array is returned as an error.
func (c *Client) execute(ctx context.Context, document string, out any) error {
	body, err := json.Marshal(map[string]any{
		"query":     document,
		"variables": map[string]any{},
	})
	if err != nil {
		return fmt.Errorf("encoding GraphQL request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.conn.GraphQLURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.conn.APIKey != "" {
		req.Header.Set("ApiKey", c.conn.APIKey)
	}
	if c.conn.SessionCookieName != "" && c.conn.SessionCookieValue != "" {
		req.AddCookie(&http.Cookie{Name: c.conn.SessionCookieName, Value: c.conn.SessionCookieValue})
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, 0)
	if err != nil {
		return fmt.Errorf("GraphQL request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GraphQL endpoint returned HTTP %d", resp.StatusCode)
	}

	var envelope graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("parsing GraphQL response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		msgs := make([]string, len(envelope.Errors))
		for i, e := range envelope.Errors {
			msgs[i] = e.Message
		}
		return fmt.Errorf("GraphQL errors: %s", strings.Join(msgs, "; "))
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("parsing GraphQL data: %w", err)
		}
	}
	return nil
}

// LibraryPaths returns the library root directories configured in Stash,
// in the order the host reports them.
func (c *Client) LibraryPaths(ctx context.Context) ([]string, error) {
	var data struct {
		Configuration struct {
			General struct {
				Stashes []struct {
					Path string `json:"path"`
				} `json:"stashes"`
			} `json:"general"`
		} `json:"configuration"`
	}

	if err := c.execute(ctx, queryLibraryPaths, &data); err != nil {
		return nil, fmt.Errorf("querying library paths: %w", err)
	}

	paths := make([]string, 0, len(data.Configuration.General.Stashes))
	for _, s := range data.Configuration.General.Stashes {
		paths = append(paths, s.Path)
	}
	return paths, nil
}

// TriggerScan asks the host to start a metadata scan over all libraries.
// The job ID the mutation returns is not consumed.
func (c *Client) TriggerScan(ctx context.Context) error {
	if err := c.execute(ctx, mutationMetadataScan, nil); err != nil {
		return fmt.Errorf("triggering metadata scan: %w", err)
	}
	return nil
}
