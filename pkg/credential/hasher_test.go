package credential

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func Test_BcryptVerifier(t *testing.T) {
	v := NewBcryptVerifier(bcrypt.MinCost)

	hash, err := v.Hash("secret")
	require.NoError(t, err)
	require.NotEqual(t, "secret", hash)

	require.NoError(t, v.Verify(hash, "secret"))
	require.ErrorIs(t, v.Verify(hash, "wrong"), ErrMismatchedPassword)
	require.Error(t, v.Verify("not-a-hash", "secret"))
}

func Test_BcryptVerifier_InvalidCost(t *testing.T) {
	require.Equal(t, bcrypt.DefaultCost, NewBcryptVerifier(0).cost)
	require.Equal(t, bcrypt.DefaultCost, NewBcryptVerifier(99).cost)
}
