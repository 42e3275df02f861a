package solana

import "crypto/ed25519"

// AccountInfo is the view of an account presented to program logic for a
// single invocation. Lamports and Data are mutable when IsWritable is set;
// the runtime discards all mutations if the invocation fails.
type AccountInfo struct {
	Key        ed25519.PublicKey
	Lamports   uint64
	Owner      ed25519.PublicKey
	Data       []byte
	IsSigner   bool
	IsWritable bool
}
