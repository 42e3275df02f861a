package system

// Default rent configuration of the runtime. An account whose balance
// covers two years of rent at these rates is exempt from collection and
// persists indefinitely.
const (
	// DefaultLamportsPerByteYear is based on 10^9 lamports per SOL,
	// $1 per SOL, and $0.01 per megabyte-year.
	DefaultLamportsPerByteYear = 1_000_000_000 / 100 * 365 / (1024 * 1024)

	// DefaultExemptionThreshold is the number of years of rent an
	// account balance must cover to be exempt from collection.
	DefaultExemptionThreshold = 2.0

	// accountStorageOverhead is charged on top of an account's data
	// length to account for its metadata.
	accountStorageOverhead = 128
)

// Rent holds the parameters of the rent sysvar.
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  float64
}

// DefaultRent returns the rent parameters the runtime ships with.
func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: DefaultLamportsPerByteYear,
		ExemptionThreshold:  DefaultExemptionThreshold,
	}
}

// MinimumBalance returns the smallest balance, in lamports, at which an
// account with dataLen bytes of data is rent exempt.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	bytes := uint64(dataLen) + accountStorageOverhead
	return uint64(float64(bytes*r.LamportsPerByteYear) * r.ExemptionThreshold)
}

// IsExempt reports whether an account with the given balance and data
// length is exempt from rent collection.
func (r Rent) IsExempt(lamports uint64, dataLen int) bool {
	return lamports >= r.MinimumBalance(dataLen)
}
