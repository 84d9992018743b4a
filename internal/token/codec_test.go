package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(issuer string) *Codec {
	return NewCodec("test-signing-key", issuer)
}

func Test_Issue_RoundTrip(t *testing.T) {
	codec := newTestCodec("zevis")

	tok, err := codec.Issue("42", "", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := codec.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "zevis", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt.Time))
}

func Test_Issue_ScopeCarried(t *testing.T) {
	codec := newTestCodec("")

	tok, err := codec.Issue("7", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := codec.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Scope)
}

func Test_Verify_Malformed(t *testing.T) {
	codec := newTestCodec("zevis")

	_, err := codec.Verify("not-a-token")
	require.ErrorIs(t, err, ErrMalformed)
}

func Test_Verify_WrongSecret(t *testing.T) {
	other := NewCodec("different-secret", "zevis")

	tok, err := other.Issue("42", "", time.Hour)
	require.NoError(t, err)

	_, err = newTestCodec("zevis").Verify(tok)
	require.ErrorIs(t, err, ErrMalformed)
}

func Test_Verify_Expired(t *testing.T) {
	codec := newTestCodec("zevis")

	tok, err := codec.Issue("42", "", time.Second)
	require.NoError(t, err)

	// Shift the verifier's clock instead of sleeping through the TTL.
	codec.now = func() time.Time { return time.Now().Add(2 * time.Second) }

	_, err = codec.Verify(tok)
	require.ErrorIs(t, err, ErrExpired)
}

func Test_Verify_ExpiredWallClock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping wall-clock expiry test in short mode")
	}
	codec := newTestCodec("")

	tok, err := codec.Issue("42", "", time.Second)
	require.NoError(t, err)

	time.Sleep(2 * time.Second)

	_, err = codec.Verify(tok)
	require.ErrorIs(t, err, ErrExpired)
}

func Test_Verify_IssuerMismatch(t *testing.T) {
	other := NewCodec("test-signing-key", "someone-else")

	tok, err := other.Issue("42", "", time.Hour)
	require.NoError(t, err)

	_, err = newTestCodec("zevis").Verify(tok)
	require.ErrorIs(t, err, ErrIssuerMismatch)
}

func Test_Verify_NoIssuerConfigured(t *testing.T) {
	other := NewCodec("test-signing-key", "anything")

	tok, err := other.Issue("42", "", time.Hour)
	require.NoError(t, err)

	// An empty expected issuer accepts tokens from any issuer.
	_, err = newTestCodec("").Verify(tok)
	require.NoError(t, err)
}
