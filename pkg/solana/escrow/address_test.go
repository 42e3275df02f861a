package escrow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escrow-payments/escrow-program/pkg/solana"
)

func TestGetCustodyAuthorityAddress(t *testing.T) {
	keys := generateKeys(t, 2)

	authority, bump, err := GetCustodyAuthorityAddress(keys[0])
	require.NoError(t, err)

	// deterministic per program
	again, againBump, err := GetCustodyAuthorityAddress(keys[0])
	require.NoError(t, err)
	assert.Equal(t, authority, again)
	assert.Equal(t, bump, againBump)

	// the bump reproduces the same address directly
	direct, err := solana.CreateProgramAddress(keys[0], custodyAuthoritySeed, []byte{bump})
	require.NoError(t, err)
	assert.Equal(t, authority, direct)

	// distinct programs derive distinct authorities
	other, _, err := GetCustodyAuthorityAddress(keys[1])
	require.NoError(t, err)
	assert.NotEqual(t, authority, other)
}
