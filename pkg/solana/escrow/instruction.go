// Package escrow implements a two-party atomic token swap. An initializer
// locks offered tokens in a temp custody account controlled by the
// program's derived authority; a taker later pays the demanded amount and
// receives the locked tokens, all within one instruction.
package escrow

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/escrow-payments/escrow-program/pkg/solana"
	"github.com/escrow-payments/escrow-program/pkg/solana/system"
	"github.com/escrow-payments/escrow-program/pkg/solana/token"
)

type Command byte

const (
	CommandInitializeEscrow Command = iota
	CommandExchange

	CommandUnknown = Command(math.MaxUint8)
)

// instructionDataSize is a 1-byte command tag followed by an 8-byte
// little-endian amount. There is no versioning byte and no length prefix,
// and trailing bytes are rejected.
const instructionDataSize = 1 + 8

// DecodedInstruction is one of the instruction variants, decoded once at
// the processing boundary.
type DecodedInstruction interface {
	Command() Command
}

// InitializeEscrow opens a trade: it writes the escrow record and hands
// control of the temp custody account to the program's derived authority.
// Amount is the amount of the counter token the initializer demands.
type InitializeEscrow struct {
	Amount uint64
}

func (InitializeEscrow) Command() Command { return CommandInitializeEscrow }

// Exchange settles a trade: the taker pays the demanded amount and
// receives the full balance of the temp custody account. Amount must
// exactly match the record's expected amount.
type Exchange struct {
	Amount uint64
}

func (Exchange) Command() Command { return CommandExchange }

// DecodeInstruction decodes raw instruction data into one of the variants.
// Anything other than a known tag followed by exactly 8 bytes of amount
// fails with ErrorInvalidInstruction.
func DecodeInstruction(data []byte) (DecodedInstruction, error) {
	if len(data) != instructionDataSize {
		return nil, ErrorInvalidInstruction
	}

	amount := binary.LittleEndian.Uint64(data[1:])

	switch Command(data[0]) {
	case CommandInitializeEscrow:
		return &InitializeEscrow{Amount: amount}, nil
	case CommandExchange:
		return &Exchange{Amount: amount}, nil
	default:
		return nil, ErrorInvalidInstruction
	}
}

func marshalInstructionData(command Command, amount uint64) []byte {
	data := make([]byte, instructionDataSize)
	data[0] = byte(command)
	binary.LittleEndian.PutUint64(data[1:], amount)
	return data
}

type InitializeEscrowInstructionAccounts struct {
	Initializer               ed25519.PublicKey
	TempCustodyAccount        ed25519.PublicKey
	InitializerReceiveAccount ed25519.PublicKey
	EscrowAccount             ed25519.PublicKey
}

func NewInitializeEscrowInstruction(
	program ed25519.PublicKey,
	accounts *InitializeEscrowInstructionAccounts,
	amount uint64,
) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   0. `[signer]` The account of the party initializing the escrow.
	//   1. `[writable]` The temp custody token account, already funded
	//      with the offered tokens.
	//   2. `[]` The initializer's token account to receive the taker's
	//      payment.
	//   3. `[writable]` The escrow record account.
	//   4. `[]` Rent sysvar.
	//   5. `[]` The token program.
	return solana.NewInstruction(
		program,
		marshalInstructionData(CommandInitializeEscrow, amount),
		solana.NewReadonlyAccountMeta(accounts.Initializer, true),
		solana.NewAccountMeta(accounts.TempCustodyAccount, false),
		solana.NewReadonlyAccountMeta(accounts.InitializerReceiveAccount, false),
		solana.NewAccountMeta(accounts.EscrowAccount, false),
		solana.NewReadonlyAccountMeta(system.RentSysVar, false),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
	)
}

type ExchangeInstructionAccounts struct {
	Taker                     ed25519.PublicKey
	TakerPayingAccount        ed25519.PublicKey
	TakerReceivingAccount     ed25519.PublicKey
	TempCustodyAccount        ed25519.PublicKey
	InitializerMainAccount    ed25519.PublicKey
	InitializerReceiveAccount ed25519.PublicKey
	EscrowAccount             ed25519.PublicKey
	CustodyAuthority          ed25519.PublicKey
}

func NewExchangeInstruction(
	program ed25519.PublicKey,
	accounts *ExchangeInstructionAccounts,
	amount uint64,
) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   0. `[signer]` The account of the party taking the trade.
	//   1. `[writable]` The taker's token account paying the demanded
	//      amount.
	//   2. `[writable]` The taker's token account to receive the
	//      escrowed tokens.
	//   3. `[writable]` The temp custody token account.
	//   4. `[writable]` The initializer's main account, receiving the
	//      reclaimed deposits.
	//   5. `[writable]` The initializer's configured receive account.
	//   6. `[writable]` The escrow record account.
	//   7. `[]` The token program.
	//   8. `[]` The program's custody authority.
	return solana.NewInstruction(
		program,
		marshalInstructionData(CommandExchange, amount),
		solana.NewReadonlyAccountMeta(accounts.Taker, true),
		solana.NewAccountMeta(accounts.TakerPayingAccount, false),
		solana.NewAccountMeta(accounts.TakerReceivingAccount, false),
		solana.NewAccountMeta(accounts.TempCustodyAccount, false),
		solana.NewAccountMeta(accounts.InitializerMainAccount, false),
		solana.NewAccountMeta(accounts.InitializerReceiveAccount, false),
		solana.NewAccountMeta(accounts.EscrowAccount, false),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
		solana.NewReadonlyAccountMeta(accounts.CustodyAuthority, false),
	)
}

func GetCommand(program ed25519.PublicKey, m solana.Message, index int) (Command, error) {
	if index >= len(m.Instructions) {
		return CommandUnknown, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]

	if !bytes.Equal(m.Accounts[i.ProgramIndex], program) {
		return CommandUnknown, solana.ErrIncorrectProgram
	}
	if len(i.Data) == 0 {
		return CommandUnknown, errors.New("escrow instruction missing data")
	}

	return Command(i.Data[0]), nil
}

type DecompiledInitializeEscrow struct {
	Initializer               ed25519.PublicKey
	TempCustodyAccount        ed25519.PublicKey
	InitializerReceiveAccount ed25519.PublicKey
	EscrowAccount             ed25519.PublicKey
	Amount                    uint64
}

func DecompileInitializeEscrow(program ed25519.PublicKey, m solana.Message, index int) (*DecompiledInitializeEscrow, error) {
	if index >= len(m.Instructions) {
		return nil, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]

	if !bytes.Equal(m.Accounts[i.ProgramIndex], program) {
		return nil, solana.ErrIncorrectProgram
	}
	if !bytes.HasPrefix(i.Data, []byte{byte(CommandInitializeEscrow)}) {
		return nil, solana.ErrIncorrectInstruction
	}
	if len(i.Data) != instructionDataSize {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}
	if len(i.Accounts) != 6 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if !bytes.Equal(system.RentSysVar, m.Accounts[i.Accounts[4]]) {
		return nil, errors.Errorf("invalid rent sysvar")
	}
	if !bytes.Equal(token.ProgramKey, m.Accounts[i.Accounts[5]]) {
		return nil, errors.Errorf("invalid token program")
	}

	return &DecompiledInitializeEscrow{
		Initializer:               m.Accounts[i.Accounts[0]],
		TempCustodyAccount:        m.Accounts[i.Accounts[1]],
		InitializerReceiveAccount: m.Accounts[i.Accounts[2]],
		EscrowAccount:             m.Accounts[i.Accounts[3]],
		Amount:                    binary.LittleEndian.Uint64(i.Data[1:]),
	}, nil
}

type DecompiledExchange struct {
	Taker                     ed25519.PublicKey
	TakerPayingAccount        ed25519.PublicKey
	TakerReceivingAccount     ed25519.PublicKey
	TempCustodyAccount        ed25519.PublicKey
	InitializerMainAccount    ed25519.PublicKey
	InitializerReceiveAccount ed25519.PublicKey
	EscrowAccount             ed25519.PublicKey
	CustodyAuthority          ed25519.PublicKey
	Amount                    uint64
}

func DecompileExchange(program ed25519.PublicKey, m solana.Message, index int) (*DecompiledExchange, error) {
	if index >= len(m.Instructions) {
		return nil, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]

	if !bytes.Equal(m.Accounts[i.ProgramIndex], program) {
		return nil, solana.ErrIncorrectProgram
	}
	if !bytes.HasPrefix(i.Data, []byte{byte(CommandExchange)}) {
		return nil, solana.ErrIncorrectInstruction
	}
	if len(i.Data) != instructionDataSize {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}
	if len(i.Accounts) != 9 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if !bytes.Equal(token.ProgramKey, m.Accounts[i.Accounts[7]]) {
		return nil, errors.Errorf("invalid token program")
	}

	return &DecompiledExchange{
		Taker:                     m.Accounts[i.Accounts[0]],
		TakerPayingAccount:        m.Accounts[i.Accounts[1]],
		TakerReceivingAccount:     m.Accounts[i.Accounts[2]],
		TempCustodyAccount:        m.Accounts[i.Accounts[3]],
		InitializerMainAccount:    m.Accounts[i.Accounts[4]],
		InitializerReceiveAccount: m.Accounts[i.Accounts[5]],
		EscrowAccount:             m.Accounts[i.Accounts[6]],
		CustodyAuthority:          m.Accounts[i.Accounts[8]],
		Amount:                    binary.LittleEndian.Uint64(i.Data[1:]),
	}, nil
}
