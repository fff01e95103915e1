package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/pelletier/go-toml"

	"github.com/sig-0/cashrates/types"
)

const DefaultListenAddress = "0.0.0.0:8545"

var (
	ErrInvalidListenAddress = errors.New("invalid listen address")
	ErrInvalidTTL           = errors.New("invalid cache TTL")
	ErrInvalidBankCount     = errors.New("invalid default bank count")
	ErrNoCurrencies         = errors.New("no currencies configured")
	ErrNoTargetAmounts      = errors.New("no target amounts configured")
	ErrInvalidThreshold     = errors.New("invalid threshold")
)

var listenAddressRegex = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}:\d+$`)

// Config defines the base-level server configuration
type Config struct {
	// The associated CORS config, if any
	CORSConfig *CORS `toml:"cors_config"`

	// The quote aggregation settings
	Quotes *Quotes `toml:"quotes"`

	// The P2P market aggregation settings
	P2P *P2P `toml:"p2p"`

	// The address at which the server will be served.
	// Format should be: <IP>:<PORT>
	ListenAddress string `toml:"listen_address"`
}

// CORS defines the CORS middleware configuration
type CORS struct {
	AllowedOrigins []string `toml:"allowed_origins"`
	AllowedMethods []string `toml:"allowed_methods"`
	AllowedHeaders []string `toml:"allowed_headers"`
}

// Quotes defines the cash-quote cache and listing settings
type Quotes struct {
	// Supported currencies, in presentation order
	Currencies []string `toml:"currencies"`

	// Supported cities
	Cities []string `toml:"cities"`

	// Cached quote dataset lifetime, in seconds
	TTLSeconds int64 `toml:"ttl_seconds"`

	// Cached statistics lifetime, in seconds
	StatsTTLSeconds int64 `toml:"stats_ttl_seconds"`

	// Number of banks returned when no limit is requested
	DefaultBankCount int `toml:"default_bank_count"`
}

// P2P defines the P2P market aggregation thresholds
type P2P struct {
	TargetAmounts     []int   `toml:"target_amounts"`
	TrustedMinOrders  int     `toml:"trusted_min_orders"`
	TrustedMinSuccess float64 `toml:"trusted_min_success"`
	TopMinFinished    int     `toml:"top_min_finished"`
	TopMinSuccess     float64 `toml:"top_min_success"`
	TopSize           int     `toml:"top_size"`
}

// DefaultConfig returns the default server configuration
func DefaultConfig() *Config {
	return &Config{
		ListenAddress: DefaultListenAddress,
		CORSConfig:    DefaultCORSConfig(),
		Quotes:        DefaultQuotesConfig(),
		P2P:           DefaultP2PConfig(),
	}
}

// DefaultCORSConfig returns the default CORS configuration
func DefaultCORSConfig() *CORS {
	return &CORS{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}
}

// DefaultQuotesConfig returns the default quote settings
func DefaultQuotesConfig() *Quotes {
	return &Quotes{
		Currencies:       []string{"usd", "eur", "gbp", "aed"},
		Cities:           []string{"Moscow", "SPB"},
		TTLSeconds:       600,
		StatsTTLSeconds:  600,
		DefaultBankCount: 5,
	}
}

// DefaultP2PConfig returns the default P2P aggregation thresholds
func DefaultP2PConfig() *P2P {
	return &P2P{
		TargetAmounts:     []int{10000, 30000, 60000, 100000},
		TrustedMinOrders:  1000,
		TrustedMinSuccess: 95,
		TopMinFinished:    400,
		TopMinSuccess:     90,
		TopSize:           50,
	}
}

// ValidateConfig validates the server configuration.
// Unknown currency and city names are rejected here, at load time
func ValidateConfig(config *Config) error {
	// Validate the listen address
	if !listenAddressRegex.MatchString(config.ListenAddress) {
		return ErrInvalidListenAddress
	}

	if config.Quotes == nil {
		config.Quotes = DefaultQuotesConfig()
	}

	if config.P2P == nil {
		config.P2P = DefaultP2PConfig()
	}

	q := config.Quotes

	if q.TTLSeconds <= 0 || q.StatsTTLSeconds <= 0 {
		return ErrInvalidTTL
	}

	if q.DefaultBankCount <= 0 {
		return ErrInvalidBankCount
	}

	if len(q.Currencies) == 0 {
		return ErrNoCurrencies
	}

	for _, c := range q.Currencies {
		if _, err := types.ParseCurrency(c); err != nil {
			return fmt.Errorf("invalid configured currency: %w", err)
		}
	}

	for _, c := range q.Cities {
		if _, err := types.ParseCity(c); err != nil {
			return fmt.Errorf("invalid configured city: %w", err)
		}
	}

	p := config.P2P

	if len(p.TargetAmounts) == 0 {
		return ErrNoTargetAmounts
	}

	if p.TrustedMinOrders <= 0 || p.TopMinFinished <= 0 || p.TopSize <= 0 {
		return ErrInvalidThreshold
	}

	if p.TrustedMinSuccess <= 0 || p.TrustedMinSuccess > 100 {
		return ErrInvalidThreshold
	}

	if p.TopMinSuccess <= 0 || p.TopMinSuccess > 100 {
		return ErrInvalidThreshold
	}

	return nil
}

// Read reads the configuration from the given path
func Read(path string) (*Config, error) {
	// Read the config file
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Parse it, on top of the defaults
	cfg := DefaultConfig()

	if err := toml.Unmarshal(content, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ParsedCurrencies returns the configured currency list as domain types
func (q *Quotes) ParsedCurrencies() []types.Currency {
	out := make([]types.Currency, 0, len(q.Currencies))

	for _, c := range q.Currencies {
		currency, err := types.ParseCurrency(c)
		if err != nil {
			continue // rejected during validation
		}

		out = append(out, currency)
	}

	return out
}

// ParsedCities returns the configured city list as domain types
func (q *Quotes) ParsedCities() []types.City {
	out := make([]types.City, 0, len(q.Cities))

	for _, c := range q.Cities {
		city, err := types.ParseCity(c)
		if err != nil {
			continue // rejected during validation
		}

		out = append(out, city)
	}

	return out
}
