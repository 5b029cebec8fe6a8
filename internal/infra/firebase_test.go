package infra

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticVerifier(t *testing.T) {
	v := NewStaticVerifier("dev-token", "dev-user")

	tok, err := v.VerifyIDToken(context.Background(), "dev-token")
	require.NoError(t, err)
	assert.Equal(t, "dev-user", tok.UID)

	_, err = v.VerifyIDToken(context.Background(), "dev-token2")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
