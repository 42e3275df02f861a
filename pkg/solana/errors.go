package solana

import (
	"fmt"

	"github.com/pkg/errors"
)

// Instruction-level failures shared by program implementations. These
// mirror the runtime's instruction error vocabulary so a processing
// result maps one-to-one onto what the ledger would report.
var (
	ErrMissingRequiredSignature  = errors.New("missing required signature")
	ErrIncorrectProgramID        = errors.New("incorrect program id")
	ErrAccountAlreadyInitialized = errors.New("account already initialized")
	ErrUninitializedAccount      = errors.New("uninitialized account")
	ErrInvalidAccountData        = errors.New("invalid account data")
	ErrNotEnoughAccountKeys      = errors.New("not enough account keys")
)

// CustomError is the numerical error returned by a non-system program.
type CustomError int

func (c CustomError) Error() string {
	return fmt.Sprintf("custom program error: %#x", int(c))
}
