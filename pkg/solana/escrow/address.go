package escrow

import (
	"crypto/ed25519"

	"github.com/escrow-payments/escrow-program/pkg/solana"
)

var custodyAuthoritySeed = []byte("escrow")

// GetCustodyAuthorityAddress derives the address holding authority over
// temp custody token accounts for the given escrow program.
//
// The address is off-curve: no private key exists for it, and the program
// "signs" as it by presenting the seed and bump to the token program at
// invoke time.
func GetCustodyAuthorityAddress(program ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		program,
		custodyAuthoritySeed,
	)
}
