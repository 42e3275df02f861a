package escrow

import (
	"crypto/ed25519"

	"github.com/escrow-payments/escrow-program/pkg/solana"
	"github.com/escrow-payments/escrow-program/pkg/solana/system"
	"github.com/escrow-payments/escrow-program/pkg/solana/token"
)

// InitializeTradeArgs describes everything an initializer needs to open a
// trade. TempCustodyAccount and EscrowAccount are fresh keypairs created
// within the same transaction.
type InitializeTradeArgs struct {
	Program ed25519.PublicKey

	Initializer        ed25519.PublicKey
	OfferedTokenSource ed25519.PublicKey
	OfferedMint        ed25519.PublicKey
	ReceiveAccount     ed25519.PublicKey

	TempCustodyAccount ed25519.PublicKey
	EscrowAccount      ed25519.PublicKey

	OfferedAmount  uint64
	ExpectedAmount uint64
}

// InitializeTrade assembles the instructions to open a trade: create and
// fund the temp custody account with the offered tokens, create the
// escrow record account, and hand both over to the program. All five
// instructions must execute in a single transaction, since the temp
// custody account briefly sits under the initializer's sole authority.
func InitializeTrade(args InitializeTradeArgs) []solana.Instruction {
	rent := system.DefaultRent()

	return []solana.Instruction{
		system.CreateAccount(
			args.Initializer,
			args.TempCustodyAccount,
			token.ProgramKey,
			rent.MinimumBalance(token.AccountSize),
			token.AccountSize,
		),
		token.InitializeAccount(
			args.TempCustodyAccount,
			args.OfferedMint,
			args.Initializer,
		),
		token.Transfer(
			args.OfferedTokenSource,
			args.TempCustodyAccount,
			args.Initializer,
			args.OfferedAmount,
		),
		system.CreateAccount(
			args.Initializer,
			args.EscrowAccount,
			args.Program,
			rent.MinimumBalance(StateSize),
			StateSize,
		),
		NewInitializeEscrowInstruction(
			args.Program,
			&InitializeEscrowInstructionAccounts{
				Initializer:               args.Initializer,
				TempCustodyAccount:        args.TempCustodyAccount,
				InitializerReceiveAccount: args.ReceiveAccount,
				EscrowAccount:             args.EscrowAccount,
			},
			args.ExpectedAmount,
		),
	}
}

// ExchangeTradeArgs describes everything a taker needs to settle a trade.
// The account values mirror the escrow record the initializer published.
type ExchangeTradeArgs struct {
	Program ed25519.PublicKey

	Taker                 ed25519.PublicKey
	TakerPayingAccount    ed25519.PublicKey
	TakerReceivingAccount ed25519.PublicKey

	TempCustodyAccount        ed25519.PublicKey
	InitializerMainAccount    ed25519.PublicKey
	InitializerReceiveAccount ed25519.PublicKey
	EscrowAccount             ed25519.PublicKey

	Amount uint64
}

// ExchangeTrade assembles the instruction to settle a trade. The custody
// authority is derived locally from the program key.
func ExchangeTrade(args ExchangeTradeArgs) (solana.Instruction, error) {
	custodyAuthority, _, err := GetCustodyAuthorityAddress(args.Program)
	if err != nil {
		return solana.Instruction{}, err
	}

	return NewExchangeInstruction(
		args.Program,
		&ExchangeInstructionAccounts{
			Taker:                     args.Taker,
			TakerPayingAccount:        args.TakerPayingAccount,
			TakerReceivingAccount:     args.TakerReceivingAccount,
			TempCustodyAccount:        args.TempCustodyAccount,
			InitializerMainAccount:    args.InitializerMainAccount,
			InitializerReceiveAccount: args.InitializerReceiveAccount,
			EscrowAccount:             args.EscrowAccount,
			CustodyAuthority:          custodyAuthority,
		},
		args.Amount,
	), nil
}
