package entity

import "math/big"

// MonitorSnapshot is a point-in-time view of one PriceMonitor contract,
// already converted to display units. It is replaced wholesale on every
// successful refresh and never partially updated.
type MonitorSnapshot struct {
	Breached      bool    `json:"breached"`
	Threshold     float64 `json:"threshold"`
	LastPrice     float64 `json:"lastPrice"`
	LastUpdatedAt int64   `json:"lastUpdatedAt"` // milliseconds since epoch
}

// RawMonitorState carries the four observable contract fields exactly as
// read from the chain, before any unit conversion.
type RawMonitorState struct {
	Breached  bool
	Threshold *big.Int
	LastPrice *big.Int
	UpdatedAt *big.Int // seconds since epoch
}

// PriceUpdateResult is the fresh state returned after an updatePrice
// transaction has been mined.
type PriceUpdateResult struct {
	LastPrice float64 `json:"lastPrice"`
	Breached  bool    `json:"breached"`
}

// ThresholdResult is the fresh state returned after a setThreshold
// transaction has been mined.
type ThresholdResult struct {
	Breached bool `json:"breached"`
}
