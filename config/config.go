package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env      string
	LogLevel int

	Database   DatabaseConfigs
	ApiServer  APIServerConfigs
	Auth       AuthConfigs
	Session    SessionConfigs
	Storage    S3Configs
	File       FileConfigs
	Pinata     PinataConfigs
	ImageGen   ImageGenConfigs
	Redis      RedisConfigs
	Kafka      KafkaConfigs
	Blockchain BlockchainConfigs
	Bridge     BridgeConfigs
	Search     SearchConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
	LogLevel string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

// MigrationConnectionString allows several statements per query, which the
// versioned migration files need.
func (d *DatabaseConfigs) MigrationConnectionString() string {
	return d.ConnectionString() + "&multiStatements=true"
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string
}

type APIServerConfigs struct {
	ServerConfigs

	MaxLimit       int
	DefaultLimit   int
	AllowedOrigins []string
}

type SessionConfigs struct {
	Secret string
	Name   string
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type FileConfigs struct {
	MaxSize       int64
	ThumbnailSize int
}

type S3Configs struct {
	Region         string
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	Bucket         string
	SSLDisabled    bool
}

// Enabled reports whether generated images should be copied to S3.
func (c S3Configs) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

type PinataConfigs struct {
	Token   string
	Gateway string
}

type ImageGenConfigs struct {
	Endpoint string
	APIKey   string
	Model    string
	Size     string
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr string
}

type BlockchainConfigs struct {
	SecretKey                  string
	SolanaPrivateKey           string
	ChainsFile                 string
	DefaultChain               string
	RefreshConnectionFrequency time.Duration
	ReloadFrequency            time.Duration
	WatchInterval              time.Duration
}

type BridgeConfigs struct {
	PollInterval time.Duration
	Timeout      time.Duration
	MaxWorkers   int
}

type SearchConfigs struct {
	IndexDir string
}

// ChainConfig is one entry of the chains TOML file.
type ChainConfig struct {
	Chain          string   `toml:"chain" json:"chain"`
	DisplayName    string   `toml:"display_name" json:"display_name"`
	Kind           string   `toml:"kind" json:"kind"`
	ChainID        int64    `toml:"chain_id" json:"chain_id"`
	Rpcs           []string `toml:"rpcs" json:"rpcs"`
	CurrencySymbol string   `toml:"currency_symbol" json:"currency_symbol"`
	ExplorerURL    string   `toml:"explorer_url" json:"explorer_url"`
	NFTAddress     string   `toml:"nft_address" json:"nft_address"`
	VaultAddress   string   `toml:"vault_address" json:"vault_address"`
	Confirmations  int      `toml:"confirmations" json:"confirmations"`

	// ETH
	UseEip1559 bool `toml:"use_eip_1559" json:"use_eip_1559"` // For gas calculation
}

type ChainsFile struct {
	Chains []ChainConfig `toml:"chains"`
}
