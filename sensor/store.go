// Package sensor reads the environmental JSON tree exposed by the IoT
// data store.
package sensor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "chimchat/errors"
)

// Store addresses a key-path JSON tree over HTTP, one GET per read:
// GET {base}/{path}.json, the convention of Firebase-style realtime
// databases. The store is optional: when no base URL is configured the
// orchestrator never constructs a Store at all.
type Store struct {
	baseURL string
	client  *http.Client
}

func NewStore(baseURL string, timeout time.Duration) *Store {
	return &Store{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// ReadPath returns the raw JSON subtree at path. An empty path reads
// the tree root. A JSON null (absent subtree) is returned as nil so
// callers can substitute an empty object.
func (s *Store) ReadPath(ctx context.Context, path string) (json.RawMessage, error) {
	url := s.baseURL + "/" + strings.Trim(path, "/") + ".json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStorage, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStorage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: sensor store returned %s", apperrors.ErrStorage, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStorage, err)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	return json.RawMessage(trimmed), nil
}
