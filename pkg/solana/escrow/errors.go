package escrow

import (
	"github.com/escrow-payments/escrow-program/pkg/solana"
)

// Custom error codes reported by the escrow program.
const (
	// ErrorInvalidInstruction indicates the instruction data could not
	// be decoded.
	ErrorInvalidInstruction solana.CustomError = iota
	// ErrorNotRentExempt indicates the escrow record account doesn't
	// hold the minimum balance required to persist.
	ErrorNotRentExempt
	// ErrorExpectedAmountMismatch indicates the taker's amount doesn't
	// exactly match what the initializer demanded. Partial fills are
	// not supported.
	ErrorExpectedAmountMismatch
	// ErrorAmountOverflow indicates a lamport balance would overflow.
	ErrorAmountOverflow
)
