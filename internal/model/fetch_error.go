package model

// FetchError records a failed fetch or decode for one account.
type FetchError struct {
	RunID   string `json:"run_id"`
	Symbol  string `json:"symbol,omitempty"`
	Account string `json:"account"`
	Error   string `json:"error"`
}
