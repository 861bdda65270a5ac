package qrprofile

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidURL   = errors.New("invalid payment url")
	ErrNotFound     = errors.New("qr profile not found")

	// ErrMirrorWrite reports a failed remote snapshot write. The in-memory
	// mutation is already committed when this is returned.
	ErrMirrorWrite = errors.New("remote mirror write failed")
)

// Fields accepted by UpdateField.
const (
	FieldBank    = "bank"
	FieldAccount = "account"
	FieldURL     = "url"
	FieldLogo    = "logo"
)

type Profile struct {
	Identity  string    `json:"identity"`
	Bank      string    `json:"bank"`    // account holder display name
	Account   string    `json:"account"` // account number, opaque
	URL       string    `json:"url"`     // payment url/text encoded into the QR
	Logo      string    `json:"logo,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Mirror receives the full profile table on every mutation.
type Mirror interface {
	ReplaceProfiles(ctx context.Context, profiles []Profile) error
}

// Encoder renders a payment URL into a QR image. Set and url updates call it
// as side validation only; the image is never stored.
type Encoder interface {
	Encode(content string) ([]byte, error)
}

// Store maps a seller identity to banking display data, at most one profile
// per identity.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]Profile
	mirror   Mirror
	enc      Encoder
	now      func() time.Time
}

func New(mirror Mirror, enc Encoder) *Store {
	return &Store{
		profiles: make(map[string]Profile),
		mirror:   mirror,
		enc:      enc,
		now:      time.Now,
	}
}

func (s *Store) Get(identity string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[identity]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// Exists implements ledger.ProfileDirectory.
func (s *Store) Exists(identity string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.profiles[identity]
	return ok
}

// Set creates or overwrites the profile for an identity. The URL is
// normalized and must both parse and QR-encode before anything is stored.
func (s *Store) Set(ctx context.Context, identity string, p Profile) (*Profile, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, fmt.Errorf("%w: identity is required", ErrInvalidInput)
	}
	if strings.TrimSpace(p.Bank) == "" || strings.TrimSpace(p.Account) == "" {
		return nil, fmt.Errorf("%w: bank and account are required", ErrInvalidInput)
	}

	normalized, err := NormalizeURL(p.URL)
	if err != nil {
		return nil, err
	}
	if _, err := s.enc.Encode(normalized); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	p.Identity = identity
	p.URL = normalized
	p.UpdatedAt = s.now().UTC()

	s.mu.Lock()
	s.profiles[identity] = p
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.mirror.ReplaceProfiles(ctx, snapshot); err != nil {
		return &p, fmt.Errorf("%w: %v", ErrMirrorWrite, err)
	}
	return &p, nil
}

// UpdateField mutates a single field of an existing profile.
func (s *Store) UpdateField(ctx context.Context, identity, field, value string) (*Profile, error) {
	value = strings.TrimSpace(value)
	if field != FieldLogo && value == "" {
		return nil, fmt.Errorf("%w: value is required", ErrInvalidInput)
	}

	if field == FieldURL {
		normalized, err := NormalizeURL(value)
		if err != nil {
			return nil, err
		}
		if _, err := s.enc.Encode(normalized); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
		}
		value = normalized
	}

	s.mu.Lock()
	p, ok := s.profiles[identity]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}

	switch field {
	case FieldBank:
		p.Bank = value
	case FieldAccount:
		p.Account = value
	case FieldURL:
		p.URL = value
	case FieldLogo:
		p.Logo = value
	default:
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidInput, field)
	}
	p.UpdatedAt = s.now().UTC()
	s.profiles[identity] = p
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.mirror.ReplaceProfiles(ctx, snapshot); err != nil {
		return &p, fmt.Errorf("%w: %v", ErrMirrorWrite, err)
	}
	return &p, nil
}

// Remove deletes the profile for an identity.
func (s *Store) Remove(ctx context.Context, identity string) error {
	s.mu.Lock()
	if _, ok := s.profiles[identity]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.profiles, identity)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.mirror.ReplaceProfiles(ctx, snapshot); err != nil {
		return fmt.Errorf("%w: %v", ErrMirrorWrite, err)
	}
	return nil
}

// Replace swaps the whole table, used when hydrating from the mirror at
// startup. It does not write back.
func (s *Store) Replace(profiles []Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles = make(map[string]Profile, len(profiles))
	for _, p := range profiles {
		s.profiles[p.Identity] = p
	}
}

// Len reports the number of stored profiles.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// snapshotLocked returns profiles in identity order so the mirror layout is
// deterministic across writes.
func (s *Store) snapshotLocked() []Profile {
	out := make([]Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identity < out[j].Identity })
	return out
}

// NormalizeURL prefixes http:// when the value has no scheme, then requires
// the result to parse with a non-empty host.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: url is required", ErrInvalidURL)
	}
	candidate := raw
	if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
		candidate = "http://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return candidate, nil
}
