package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/DinosaurDerek/rocketlink/internal/domain/entity"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server     ServerConfig      `yaml:"server"`
	Chain      ChainConfig       `yaml:"chain"`
	TokensFile string            `yaml:"tokensFile"`
	Contracts  map[string]string `yaml:"contracts"` // token id -> deployed PriceMonitor address
	Wallet     WalletConfig      `yaml:"wallet"`
	Polling    PollingConfig     `yaml:"polling"`
	History    HistoryConfig     `yaml:"history"`
	RpcClient  RpcClientConfig   `yaml:"rpcClient"`
	Logging    LoggingConfig     `yaml:"logging"`
}

// ServerConfig holds the server-specific configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// ChainConfig describes the single target network, including the metadata a
// wallet needs to register it.
type ChainConfig struct {
	ChainID          string `yaml:"chainId"` // hex, e.g. "0xa869"
	Name             string `yaml:"name"`
	RPCURL           string `yaml:"rpcUrl"`
	CurrencyName     string `yaml:"currencyName"`
	CurrencySymbol   string `yaml:"currencySymbol"`
	CurrencyDecimals int    `yaml:"currencyDecimals"`
	ExplorerURL      string `yaml:"explorerUrl"`
}

// Metadata converts the chain section into the domain shape threaded through
// the network guard and wallet session.
func (c ChainConfig) Metadata() entity.ChainMetadata {
	return entity.ChainMetadata{
		ChainID:          c.ChainID,
		Name:             c.Name,
		RPCURL:           c.RPCURL,
		CurrencyName:     c.CurrencyName,
		CurrencySymbol:   c.CurrencySymbol,
		CurrencyDecimals: c.CurrencyDecimals,
		BlockExplorerURL: c.ExplorerURL,
	}
}

// WalletConfig holds the wallet bridge endpoint. An empty URL disables the
// write paths.
type WalletConfig struct {
	BridgeURL string `yaml:"bridgeUrl"`
}

// PollingConfig holds the refresh intervals and visibility handling.
type PollingConfig struct {
	FeedIntervalMillis    int64 `yaml:"feedIntervalMillis"`
	MonitorIntervalMillis int64 `yaml:"monitorIntervalMillis"`
	VisibilityTTLSeconds  int   `yaml:"visibilityTtlSeconds"`
	StartVisible          *bool `yaml:"startVisible"`
}

// HistoryConfig holds the configuration for the market-data history client.
type HistoryConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	CacheTTLMinutes      int    `yaml:"cacheTTLMinutes"`
}

// RpcClientConfig holds configuration for the chain RPC client.
type RpcClientConfig struct {
	DialTimeoutMs int64 `yaml:"dialTimeoutMs"`
	CallTimeoutMs int64 `yaml:"callTimeoutMs"`
	RateLimit     int   `yaml:"rateLimit"`
	BurstLimit    int   `yaml:"burstLimit"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
	File  string `yaml:"file"`
}

// LoadConfig loads configuration from a YAML file and applies defaults for
// anything not set.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if cfg.Chain.ChainID == "" {
		return nil, fmt.Errorf("chain.chainId must be set in %s", path)
	}
	if cfg.Chain.RPCURL == "" {
		return nil, fmt.Errorf("chain.rpcUrl must be set in %s", path)
	}
	for id, addr := range cfg.Contracts {
		if addr == "" {
			return nil, fmt.Errorf("contracts.%s has an empty monitor address", id)
		}
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}

	if cfg.TokensFile == "" {
		cfg.TokensFile = "config/tokens.json"
		logrus.Infof("tokensFile not set, defaulting to %s", cfg.TokensFile)
	}
	if cfg.Chain.CurrencyDecimals == 0 {
		cfg.Chain.CurrencyDecimals = 18
	}

	if cfg.Polling.FeedIntervalMillis == 0 {
		cfg.Polling.FeedIntervalMillis = 45000
		logrus.Infof("polling.feedIntervalMillis not set, defaulting to %d ms", cfg.Polling.FeedIntervalMillis)
	}
	if cfg.Polling.MonitorIntervalMillis == 0 {
		cfg.Polling.MonitorIntervalMillis = 30000
		logrus.Infof("polling.monitorIntervalMillis not set, defaulting to %d ms", cfg.Polling.MonitorIntervalMillis)
	}
	if cfg.Polling.VisibilityTTLSeconds == 0 {
		cfg.Polling.VisibilityTTLSeconds = 90
	}
	if cfg.Polling.StartVisible == nil {
		visible := true
		cfg.Polling.StartVisible = &visible
	}

	if cfg.History.BaseURL == "" {
		cfg.History.BaseURL = "https://api.coingecko.com/api/v3"
		logrus.Infof("history.baseURL not set, defaulting to %s", cfg.History.BaseURL)
	}
	if cfg.History.RequestTimeoutMillis == 0 {
		cfg.History.RequestTimeoutMillis = 10000
	}
	if cfg.History.CacheTTLMinutes == 0 {
		cfg.History.CacheTTLMinutes = 5
	}

	if cfg.RpcClient.DialTimeoutMs == 0 {
		cfg.RpcClient.DialTimeoutMs = 10000
	}
	if cfg.RpcClient.CallTimeoutMs == 0 {
		cfg.RpcClient.CallTimeoutMs = 10000
	}
	if cfg.RpcClient.RateLimit == 0 {
		cfg.RpcClient.RateLimit = 10
	}
	if cfg.RpcClient.BurstLimit == 0 {
		cfg.RpcClient.BurstLimit = 5
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
