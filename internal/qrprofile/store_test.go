package qrprofile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// --- Helpers -------------------------------------------------------------

type fakeMirror struct {
	writes  int
	lastLen int
	err     error
}

func (m *fakeMirror) ReplaceProfiles(_ context.Context, profiles []Profile) error {
	if m.err != nil {
		return m.err
	}
	m.writes++
	m.lastLen = len(profiles)
	return nil
}

type fakeEncoder struct {
	calls int
	err   error
}

func (e *fakeEncoder) Encode(string) ([]byte, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

func newTestStore(t *testing.T) (*Store, *fakeMirror, *fakeEncoder) {
	t.Helper()

	mirror := &fakeMirror{}
	enc := &fakeEncoder{}
	return New(mirror, enc), mirror, enc
}

func validProfile() Profile {
	return Profile{Bank: "NGUYEN VAN YEN", Account: "0123456789", URL: "pay.example.com/yen"}
}

// --- Tests ---------------------------------------------------------------

func TestStore_Set_NormalizesURL(t *testing.T) {
	s, mirror, enc := newTestStore(t)

	p, err := s.Set(context.Background(), "seller-1", validProfile())
	require.NoError(t, err)
	require.Equal(t, "http://pay.example.com/yen", p.URL)
	require.Equal(t, "seller-1", p.Identity)
	require.False(t, p.UpdatedAt.IsZero())
	require.Equal(t, 1, mirror.writes)
	require.Equal(t, 1, enc.calls)
	require.True(t, s.Exists("seller-1"))
}

func TestStore_Set_KeepsExplicitScheme(t *testing.T) {
	s, _, _ := newTestStore(t)

	in := validProfile()
	in.URL = "https://pay.example.com/yen"
	p, err := s.Set(context.Background(), "seller-1", in)
	require.NoError(t, err)
	require.Equal(t, "https://pay.example.com/yen", p.URL)
}

// This test validates:
// - an invalid url is rejected before any persistence or qr generation
func TestStore_Set_RejectsBadURL(t *testing.T) {
	s, mirror, _ := newTestStore(t)

	for _, bad := range []string{"", "   ", "http://"} {
		in := validProfile()
		in.URL = bad
		_, err := s.Set(context.Background(), "seller-1", in)
		require.ErrorIs(t, err, ErrInvalidURL, "url %q", bad)
	}
	require.Equal(t, 0, mirror.writes)
	require.False(t, s.Exists("seller-1"))
}

func TestStore_Set_RejectsUnencodableURL(t *testing.T) {
	s, mirror, enc := newTestStore(t)
	enc.err = errors.New("content too long")

	_, err := s.Set(context.Background(), "seller-1", validProfile())
	require.ErrorIs(t, err, ErrInvalidURL)
	require.Equal(t, 0, mirror.writes)
}

func TestStore_Set_RequiresBankAndAccount(t *testing.T) {
	s, _, _ := newTestStore(t)

	in := validProfile()
	in.Bank = ""
	_, err := s.Set(context.Background(), "seller-1", in)
	require.ErrorIs(t, err, ErrInvalidInput)

	in = validProfile()
	in.Account = "  "
	_, err = s.Set(context.Background(), "seller-1", in)
	require.ErrorIs(t, err, ErrInvalidInput)
}

// This test validates:
// - a failed mirror write keeps the in-memory profile (soft failure)
func TestStore_Set_KeepsProfileOnMirrorFailure(t *testing.T) {
	s, mirror, _ := newTestStore(t)
	mirror.err = errors.New("backend down")

	_, err := s.Set(context.Background(), "seller-1", validProfile())
	require.ErrorIs(t, err, ErrMirrorWrite)
	require.True(t, s.Exists("seller-1"))
}

func TestStore_UpdateField(t *testing.T) {
	s, mirror, _ := newTestStore(t)
	_, err := s.Set(context.Background(), "seller-1", validProfile())
	require.NoError(t, err)

	p, err := s.UpdateField(context.Background(), "seller-1", FieldBank, "TRAN THI B")
	require.NoError(t, err)
	require.Equal(t, "TRAN THI B", p.Bank)

	p, err = s.UpdateField(context.Background(), "seller-1", FieldURL, "newpay.example.com")
	require.NoError(t, err)
	require.Equal(t, "http://newpay.example.com", p.URL)

	_, err = s.UpdateField(context.Background(), "seller-1", FieldURL, "http://")
	require.ErrorIs(t, err, ErrInvalidURL)

	_, err = s.UpdateField(context.Background(), "seller-1", "iban", "x")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.UpdateField(context.Background(), "nobody", FieldBank, "x")
	require.ErrorIs(t, err, ErrNotFound)

	require.Equal(t, 3, mirror.writes) // set + two successful updates
}

func TestStore_Remove(t *testing.T) {
	s, _, _ := newTestStore(t)
	_, err := s.Set(context.Background(), "seller-1", validProfile())
	require.NoError(t, err)

	require.NoError(t, s.Remove(context.Background(), "seller-1"))
	require.False(t, s.Exists("seller-1"))
	require.ErrorIs(t, s.Remove(context.Background(), "seller-1"), ErrNotFound)
}

func TestStore_Replace_Rehydrates(t *testing.T) {
	s, mirror, _ := newTestStore(t)

	s.Replace([]Profile{
		{Identity: "seller-1", Bank: "A", Account: "1", URL: "http://a.example.com"},
		{Identity: "seller-2", Bank: "B", Account: "2", URL: "http://b.example.com"},
	})

	require.Equal(t, 2, s.Len())
	require.True(t, s.Exists("seller-2"))
	require.Equal(t, 0, mirror.writes) // hydration never writes back
}

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"pay.example.com", "http://pay.example.com", true},
		{"  pay.example.com/x?a=1  ", "http://pay.example.com/x?a=1", true},
		{"https://pay.example.com", "https://pay.example.com", true},
		{"http://pay.example.com", "http://pay.example.com", true},
		{"", "", false},
		{"http://", "", false},
	}
	for _, tc := range cases {
		got, err := NormalizeURL(tc.in)
		if tc.ok {
			require.NoError(t, err, "url %q", tc.in)
			require.Equal(t, tc.want, got)
		} else {
			require.ErrorIs(t, err, ErrInvalidURL, "url %q", tc.in)
		}
	}
}
