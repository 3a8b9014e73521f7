package mercadopago

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyExternalRef(t *testing.T) {
	id := uuid.NewString()
	ext := id + "|" + signExternal(id)

	got, ok := VerifyExternalRef(ext)
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestVerifyExternalRefRejectsTampering(t *testing.T) {
	id := uuid.NewString()
	other := uuid.NewString()

	cases := []string{
		"",
		id,
		id + "|deadbeef",
		other + "|" + signExternal(id),
		id + "|" + signExternal(id) + "|extra",
	}
	for _, ext := range cases {
		_, ok := VerifyExternalRef(ext)
		assert.False(t, ok, "ext %q", ext)
	}
}

func TestCreatePreferenceRequiresToken(t *testing.T) {
	g := NewGateway("")
	_, err := g.CreatePreference(context.Background(), nil)
	require.Error(t, err)
}
