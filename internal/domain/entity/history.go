package entity

// PricePoint is one observation in a historical price series, as returned by
// the external market-data API.
type PricePoint struct {
	Timestamp int64   `json:"timestamp"` // milliseconds since epoch
	Price     float64 `json:"price"`
}
