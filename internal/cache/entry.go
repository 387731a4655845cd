package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Snapshot is one stored holdings payload.
type Snapshot struct {
	// Key is the SHA256 of the normalized source URL.
	Key string `json:"key"`

	// URL is the source the payload was fetched from.
	URL string `json:"url"`

	// Payload is the raw holdings array as extracted from the response envelope.
	Payload json.RawMessage `json:"payload"`

	// FetchedAt is when the payload was received from the network.
	FetchedAt time.Time `json:"fetched_at"`

	// ExpiresAt is when the snapshot stops being served. Zero means never.
	ExpiresAt time.Time `json:"expires_at"`

	// TTLSeconds is the TTL the snapshot was written with, 0 for none.
	TTLSeconds int `json:"ttl_seconds"`
}

// NewSnapshot creates a snapshot for url fetched at fetchedAt.
// A ttlSeconds of 0 creates a snapshot that never expires.
func NewSnapshot(url string, payload json.RawMessage, fetchedAt time.Time, ttlSeconds int) *Snapshot {
	s := &Snapshot{
		Key:        KeyForURL(url),
		URL:        url,
		Payload:    payload,
		FetchedAt:  fetchedAt,
		TTLSeconds: ttlSeconds,
	}
	if ttlSeconds > 0 {
		s.ExpiresAt = fetchedAt.Add(time.Duration(ttlSeconds) * time.Second)
	}
	return s
}

// KeyForURL derives the store key for a source URL.
// Trailing slashes and surrounding whitespace do not change the key.
func KeyForURL(url string) string {
	normalized := strings.TrimRight(strings.TrimSpace(url), "/")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// IsExpired reports whether the snapshot is past its expiry.
func (s *Snapshot) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Age returns how long ago the payload was fetched.
func (s *Snapshot) Age() time.Duration {
	return time.Since(s.FetchedAt)
}

// TimeUntilExpiration returns the time left before expiry, 0 if expired.
// Snapshots without expiry return -1.
func (s *Snapshot) TimeUntilExpiration() time.Duration {
	if s.ExpiresAt.IsZero() {
		return -1
	}
	return max(time.Until(s.ExpiresAt), 0)
}

// MarshalJSON writes times as RFC3339 for readable snapshot files.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	type Alias Snapshot
	expires := ""
	if !s.ExpiresAt.IsZero() {
		expires = s.ExpiresAt.Format(time.RFC3339)
	}
	return json.Marshal(&struct {
		*Alias

		FetchedAt string `json:"fetched_at"`
		ExpiresAt string `json:"expires_at,omitempty"`
	}{
		Alias:     (*Alias)(s),
		FetchedAt: s.FetchedAt.Format(time.RFC3339),
		ExpiresAt: expires,
	})
}

// UnmarshalJSON parses the RFC3339 timestamps written by MarshalJSON.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	if s == nil {
		return errors.New("cannot unmarshal into nil Snapshot")
	}
	type Alias Snapshot
	aux := &struct {
		*Alias

		FetchedAt string `json:"fetched_at"`
		ExpiresAt string `json:"expires_at"`
	}{
		Alias: (*Alias)(s),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if s.FetchedAt, err = time.Parse(time.RFC3339, aux.FetchedAt); err != nil {
		return err
	}
	s.ExpiresAt = time.Time{}
	if aux.ExpiresAt != "" {
		if s.ExpiresAt, err = time.Parse(time.RFC3339, aux.ExpiresAt); err != nil {
			return err
		}
	}
	return nil
}
