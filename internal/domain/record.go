package domain

// PersistedRecord is one flattened row of token creation data plus enrichment,
// in the column order the sink writes it.
type PersistedRecord struct {
	Name         string
	Symbol       string
	URI          string
	Mint         string
	BondingCurve string
	User         string
	MintTime     string
	Image        string
	Twitter      string
	Telegram     string
	Website      string
}

// NewPersistedRecord flattens an event and its metadata into one record.
func NewPersistedRecord(ev *TokenCreationEvent, meta TokenMetadata) *PersistedRecord {
	return &PersistedRecord{
		Name:         ev.Name,
		Symbol:       ev.Symbol,
		URI:          ev.URI,
		Mint:         ev.Mint,
		BondingCurve: ev.BondingCurve,
		User:         ev.User,
		MintTime:     ev.MintTime,
		Image:        meta.Image,
		Twitter:      meta.Twitter,
		Telegram:     meta.Telegram,
		Website:      meta.Website,
	}
}

// RecordHeader returns the column names for persisted records.
// The order is fixed and must match Row.
func RecordHeader() []string {
	return []string{
		"name", "symbol", "uri", "mint", "bonding_curve", "user",
		"mint_time", "image", "twitter", "telegram", "website",
	}
}

// Row returns the record's values in header order.
func (r *PersistedRecord) Row() []string {
	return []string{
		r.Name, r.Symbol, r.URI, r.Mint, r.BondingCurve, r.User,
		r.MintTime, r.Image, r.Twitter, r.Telegram, r.Website,
	}
}
