package system

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58/base58"
)

// SystemAccount is the native system program.
//
// https://explorer.solana.com/address/11111111111111111111111111111111
var SystemAccount ed25519.PublicKey

// RentSysVar points to the system variable "Rent".
var RentSysVar ed25519.PublicKey

func init() {
	var err error

	RentSysVar, err = base58.Decode("SysvarRent111111111111111111111111111111111")
	if err != nil {
		panic(err)
	}

	SystemAccount, err = base58.Decode("11111111111111111111111111111111")
	if err != nil {
		panic(err)
	}
}
