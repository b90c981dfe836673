package dto

// AddOutcome is the result of adding one symbol. A nil Quote means the
// symbol is unknown upstream and nothing was stored.
type AddOutcome struct {
	Symbol string
	Quote  *Quote
}

// RemoveOutcome is the result of removing one symbol.
type RemoveOutcome struct {
	Symbol  string
	Removed bool
}
