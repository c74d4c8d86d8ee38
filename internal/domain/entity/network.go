package entity

// ChainMetadata holds everything the wallet needs to register and switch to
// the target network. The structure is defined at the domain level to be used
// across application and infrastructure layers.
type ChainMetadata struct {
	ChainID          string `json:"chainId" yaml:"chainId"` // hex, e.g. "0xa869"
	Name             string `json:"chainName" yaml:"name"`
	RPCURL           string `json:"-" yaml:"rpcUrl"`
	CurrencyName     string `json:"-" yaml:"currencyName"`
	CurrencySymbol   string `json:"-" yaml:"currencySymbol"`
	CurrencyDecimals int    `json:"-" yaml:"currencyDecimals"`
	BlockExplorerURL string `json:"-" yaml:"blockExplorerUrl"`
}

// TxRequest describes a transaction handed to the wallet session for signing
// and submission.
type TxRequest struct {
	From string
	To   string
	Data []byte
}

// WalletStatus reports the externally-owned wallet session state as the
// dashboard sees it. Account is empty when no account is connected.
type WalletStatus struct {
	Connected bool   `json:"connected"`
	Account   string `json:"account,omitempty"`
	ChainID   string `json:"chainId,omitempty"`
}
