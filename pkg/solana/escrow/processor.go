package escrow

import (
	"bytes"
	"crypto/ed25519"
	"math"

	"github.com/escrow-payments/escrow-program/pkg/solana"
	"github.com/escrow-payments/escrow-program/pkg/solana/system"
	"github.com/escrow-payments/escrow-program/pkg/solana/token"
)

// Invoker executes instructions against other programs on behalf of the
// escrow program. InvokeSigned additionally presents derivation seeds,
// which the runtime resolves to a program address the escrow program is
// then considered to have signed for.
type Invoker interface {
	Invoke(instruction solana.Instruction) error
	InvokeSigned(instruction solana.Instruction, seeds ...[]byte) error
}

// Processor executes escrow instructions against the accounts passed to
// the program. All validation happens before any state is written or any
// cross-program invocation is made, so a failed instruction leaves no
// partial effects of its own.
type Processor struct {
	invoker Invoker
}

func NewProcessor(invoker Invoker) *Processor {
	return &Processor{
		invoker: invoker,
	}
}

func (p *Processor) Process(program ed25519.PublicKey, accounts []*solana.AccountInfo, data []byte) error {
	decoded, err := DecodeInstruction(data)
	if err != nil {
		return err
	}

	switch cmd := decoded.(type) {
	case *InitializeEscrow:
		return p.processInitializeEscrow(program, accounts, cmd.Amount)
	case *Exchange:
		return p.processExchange(program, accounts, cmd.Amount)
	default:
		return ErrorInvalidInstruction
	}
}

func (p *Processor) processInitializeEscrow(program ed25519.PublicKey, accounts []*solana.AccountInfo, amount uint64) error {
	if len(accounts) < 6 {
		return solana.ErrNotEnoughAccountKeys
	}

	initializer := accounts[0]
	tempCustody := accounts[1]
	receiveAccount := accounts[2]
	escrowAccount := accounts[3]
	rentSysVar := accounts[4]
	tokenProgram := accounts[5]

	if !initializer.IsSigner {
		return solana.ErrMissingRequiredSignature
	}
	if !bytes.Equal(receiveAccount.Owner, token.ProgramKey) {
		return solana.ErrIncorrectProgramID
	}
	if !bytes.Equal(rentSysVar.Key, system.RentSysVar) {
		return solana.ErrInvalidAccountData
	}
	if !bytes.Equal(tokenProgram.Key, token.ProgramKey) {
		return solana.ErrIncorrectProgramID
	}

	rent := system.DefaultRent()
	if !rent.IsExempt(escrowAccount.Lamports, len(escrowAccount.Data)) {
		return ErrorNotRentExempt
	}

	var state Escrow
	if err := state.UnmarshalUnchecked(escrowAccount.Data); err != nil {
		return err
	}
	if state.IsInitialized {
		return solana.ErrAccountAlreadyInitialized
	}

	state.IsInitialized = true
	state.Initializer = initializer.Key
	state.TempCustodyAccount = tempCustody.Key
	state.InitializerReceiveAccount = receiveAccount.Key
	state.ExpectedAmount = amount
	copy(escrowAccount.Data, state.Marshal())

	custodyAuthority, _, err := GetCustodyAuthorityAddress(program)
	if err != nil {
		return err
	}

	return p.invoker.Invoke(token.SetAuthority(
		tempCustody.Key,
		initializer.Key,
		custodyAuthority,
		token.AuthorityTypeAccountHolder,
	))
}

func (p *Processor) processExchange(program ed25519.PublicKey, accounts []*solana.AccountInfo, amount uint64) error {
	if len(accounts) < 9 {
		return solana.ErrNotEnoughAccountKeys
	}

	taker := accounts[0]
	takerPaying := accounts[1]
	takerReceiving := accounts[2]
	tempCustody := accounts[3]
	initializerMain := accounts[4]
	initializerReceive := accounts[5]
	escrowAccount := accounts[6]
	tokenProgram := accounts[7]
	custodyAuthority := accounts[8]

	if !taker.IsSigner {
		return solana.ErrMissingRequiredSignature
	}

	var state Escrow
	if err := state.Unmarshal(escrowAccount.Data); err != nil {
		return err
	}

	if !bytes.Equal(state.TempCustodyAccount, tempCustody.Key) {
		return solana.ErrInvalidAccountData
	}
	if !bytes.Equal(state.InitializerReceiveAccount, initializerReceive.Key) {
		return solana.ErrInvalidAccountData
	}
	if !bytes.Equal(state.Initializer, initializerMain.Key) {
		return solana.ErrInvalidAccountData
	}
	if amount != state.ExpectedAmount {
		return ErrorExpectedAmountMismatch
	}

	var custody token.Account
	if !custody.Unmarshal(tempCustody.Data) {
		return solana.ErrInvalidAccountData
	}

	derived, bump, err := GetCustodyAuthorityAddress(program)
	if err != nil {
		return err
	}
	if !bytes.Equal(custodyAuthority.Key, derived) {
		return solana.ErrInvalidAccountData
	}
	if !bytes.Equal(tokenProgram.Key, token.ProgramKey) {
		return solana.ErrIncorrectProgramID
	}

	// Taker pays the initializer the demanded amount.
	err = p.invoker.Invoke(token.Transfer(
		takerPaying.Key,
		initializerReceive.Key,
		taker.Key,
		state.ExpectedAmount,
	))
	if err != nil {
		return err
	}

	// The full custody balance is released to the taker, signed by the
	// derived authority.
	err = p.invoker.InvokeSigned(token.Transfer(
		tempCustody.Key,
		takerReceiving.Key,
		derived,
		custody.Amount,
	), custodyAuthoritySeed, []byte{bump})
	if err != nil {
		return err
	}

	err = p.invoker.InvokeSigned(token.CloseAccount(
		tempCustody.Key,
		initializerMain.Key,
		derived,
	), custodyAuthoritySeed, []byte{bump})
	if err != nil {
		return err
	}

	// Retire the record: the deposit goes back to the initializer and
	// the data is zeroed so the record can't be replayed.
	if initializerMain.Lamports > math.MaxUint64-escrowAccount.Lamports {
		return ErrorAmountOverflow
	}
	initializerMain.Lamports += escrowAccount.Lamports
	escrowAccount.Lamports = 0
	for i := range escrowAccount.Data {
		escrowAccount.Data[i] = 0
	}

	return nil
}
