package handler

// SubmitRequest carries the submit event. The fields are optional; when set
// they update the session inputs before the conversion runs.
type SubmitRequest struct {
	Amount string `json:"amount,omitempty"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
}

// AmountChangedRequest carries one amount input event
type AmountChangedRequest struct {
	Text string `json:"text"`
}

// AmountChangedResponse echoes the sanitized amount text
type AmountChangedResponse struct {
	Text string `json:"text"`
}

// CurrencyChangedRequest carries one selection event for either dropdown
type CurrencyChangedRequest struct {
	Field string `json:"field"`
	Code  string `json:"code"`
}

// CatalogResponse lists the selectable currencies
type CatalogResponse struct {
	Base       string   `json:"base"`
	Currencies []string `json:"currencies"`
}

// ConvertResponse is the stateless conversion endpoint's payload
type ConvertResponse struct {
	From            string `json:"from"`
	To              string `json:"to"`
	Amount          string `json:"amount"`
	ExchangeRate    string `json:"exchange_rate"`
	ConvertedAmount string `json:"converted_amount"`
	RateText        string `json:"rate_text"`
}

// HealthResponse reports liveness and catalog readiness
type HealthResponse struct {
	Status        string `json:"status"`
	CatalogLoaded bool   `json:"catalog_loaded"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}
