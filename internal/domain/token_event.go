package domain

// TokenCreationEvent represents a pump.fun token creation decoded from
// program logs. Immutable once constructed; it lives only for the duration
// of one pipeline pass.
type TokenCreationEvent struct {
	Name         string // token name (UTF-8, NUL padding stripped)
	Symbol       string // token symbol
	URI          string // off-chain metadata URI
	Mint         string // mint address (base58)
	BondingCurve string // bonding curve address (base58)
	User         string // creator wallet address (base58)
	MintTime     string // UTC timestamp, second precision, set at decode completion
}
