package entity

// Token holds the details of one tracked asset. The token set is loaded once
// from the catalog file at startup; only Price changes afterwards.
type Token struct {
	ID          string   `json:"id" yaml:"id"`
	Label       string   `json:"label" yaml:"label"`
	Symbol      string   `json:"symbol" yaml:"symbol"`
	LogoURL     string   `json:"logoUrl,omitempty" yaml:"logoUrl,omitempty"`
	FeedAddress string   `json:"feedAddress" yaml:"feedAddress"`
	Price       *float64 `json:"price,omitempty" yaml:"-"`
}
