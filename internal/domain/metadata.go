package domain

// NotAvailable is the sentinel for an absent optional metadata field.
// Persisted records always carry it instead of an empty value.
const NotAvailable = "NA"

// TokenMetadata holds fields fetched from a token's off-chain metadata URI.
// Every field is either a normalized absolute URL or NotAvailable.
type TokenMetadata struct {
	Image    string
	Twitter  string
	Telegram string
	Website  string
}

// UnavailableMetadata returns metadata with every field set to NotAvailable.
// Used when the fetch fails or the response is malformed.
func UnavailableMetadata() TokenMetadata {
	return TokenMetadata{
		Image:    NotAvailable,
		Twitter:  NotAvailable,
		Telegram: NotAvailable,
		Website:  NotAvailable,
	}
}
