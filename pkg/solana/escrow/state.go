package escrow

import (
	"crypto/ed25519"

	"github.com/escrow-payments/escrow-program/pkg/solana"
	"github.com/escrow-payments/escrow-program/pkg/solana/binary"
)

// StateSize is the packed byte length of an escrow record.
const StateSize = (1 + // is_initialized
	32 + // initializer
	32 + // temp_custody_account
	32 + // initializer_receive_account
	8) // expected_amount

// Escrow is the record describing one in-progress trade, persisted in the
// escrow account's data buffer. Once initialized, every field is immutable
// for the life of the record.
type Escrow struct {
	// Whether the record has been written by an initialize instruction.
	IsInitialized bool
	// The party that opened the trade. Receives the counter-party's
	// payment and the reclaimed account deposits.
	Initializer ed25519.PublicKey
	// The token account holding the initializer's offered tokens,
	// controlled by the program's custody authority.
	TempCustodyAccount ed25519.PublicKey
	// The token account that must receive the taker's payment.
	InitializerReceiveAccount ed25519.PublicKey
	// The amount of the counter token the initializer demands.
	ExpectedAmount uint64
}

func (e *Escrow) Marshal() []byte {
	b := make([]byte, StateSize)

	var offset int
	binary.PutBool(b, e.IsInitialized, &offset)
	binary.PutKey32(b[offset:], e.Initializer, &offset)
	binary.PutKey32(b[offset:], e.TempCustodyAccount, &offset)
	binary.PutKey32(b[offset:], e.InitializerReceiveAccount, &offset)
	binary.PutUint64(b[offset:], e.ExpectedAmount, &offset)

	return b
}

// Unmarshal decodes an initialized escrow record. It fails with
// ErrInvalidAccountData if the buffer doesn't match the layout size, and
// with ErrUninitializedAccount if the record was never initialized.
func (e *Escrow) Unmarshal(b []byte) error {
	if err := e.UnmarshalUnchecked(b); err != nil {
		return err
	}
	if !e.IsInitialized {
		return solana.ErrUninitializedAccount
	}
	return nil
}

// UnmarshalUnchecked decodes a record that may not have been initialized
// yet (an all-zero buffer is fine). The buffer length must still match
// the layout size exactly; truncated or oversized buffers fail.
func (e *Escrow) UnmarshalUnchecked(b []byte) error {
	if len(b) != StateSize {
		return solana.ErrInvalidAccountData
	}

	var offset int
	binary.GetBool(b, &e.IsInitialized, &offset)
	binary.GetKey32(b[offset:], &e.Initializer, &offset)
	binary.GetKey32(b[offset:], &e.TempCustodyAccount, &offset)
	binary.GetKey32(b[offset:], &e.InitializerReceiveAccount, &offset)
	binary.GetUint64(b[offset:], &e.ExpectedAmount, &offset)

	return nil
}
