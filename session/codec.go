package session

import (
	"bytes"
	"encoding/json"
	"fmt"

	"camping-admin/models"
)

func encodeIdentity(id *models.Identity) ([]byte, error) {
	if id == nil {
		return nil, fmt.Errorf("session identity is required")
	}
	blob, err := json.Marshal(id)
	if err != nil {
		return nil, fmt.Errorf("failed to encode identity: %w", err)
	}
	return blob, nil
}

func decodeSession(id, token string, blob []byte) (*models.Session, error) {
	trimmed := bytes.TrimSpace(blob)
	if len(trimmed) == 0 || string(trimmed) == "undefined" || string(trimmed) == "null" {
		return nil, fmt.Errorf("%w: missing identity", ErrCorrupt)
	}

	var identity models.Identity
	if err := json.Unmarshal(trimmed, &identity); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &models.Session{ID: id, Token: token, Identity: &identity}, nil
}
