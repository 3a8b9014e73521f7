package localfs

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duetags/duetags/internal/domain"
)

func TestSaveOpenRemove(t *testing.T) {
	ctx := context.Background()
	s := New(t.TempDir())

	path, err := s.Save(ctx, "abc/etiqueta.png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "abc/etiqueta.png", path)

	data, err := s.Open(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	require.NoError(t, s.Remove(ctx, path))
	_, err = s.Open(ctx, path)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// removing twice is fine
	assert.NoError(t, s.Remove(ctx, path))
}

func TestRejectsEscapingPaths(t *testing.T) {
	ctx := context.Background()
	s := New(t.TempDir())

	for _, p := range []string{"../fora.png", "/etc/passwd", "a/../../fora.png", "."} {
		_, err := s.Save(ctx, p, []byte("x"))
		assert.Error(t, err, "path %q", p)
	}
}

func TestSignedPathRoundTrip(t *testing.T) {
	s := NewSigner("segredo")
	now := time.Now()
	s.now = func() time.Time { return now }

	u := s.SignedPath("abc/etiqueta.png", time.Hour)
	assert.Contains(t, u, "/files/abc/etiqueta.png?")

	exp := strconv.FormatInt(now.Add(time.Hour).Unix(), 10)
	sig := s.sign("abc/etiqueta.png", now.Add(time.Hour).Unix())
	assert.True(t, s.Verify("abc/etiqueta.png", exp, sig))

	// wrong path, wrong sig, expired
	assert.False(t, s.Verify("abc/outra.png", exp, sig))
	assert.False(t, s.Verify("abc/etiqueta.png", exp, "deadbeef"))
	s.now = func() time.Time { return now.Add(2 * time.Hour) }
	assert.False(t, s.Verify("abc/etiqueta.png", exp, sig))
}
