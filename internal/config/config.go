// Package config loads the static contract universe (spec §4.2) and the
// engine's runtime settings from a YAML file plus environment overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"ctenex/internal/models"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// ContractConfig is the on-disk shape of one contract entry.
type ContractConfig struct {
	ID             string `mapstructure:"id"`
	Commodity      string `mapstructure:"commodity"`
	DeliveryPeriod string `mapstructure:"delivery_period"`
	StartDate      string `mapstructure:"start_date"`
	EndDate        string `mapstructure:"end_date"`
	Location       string `mapstructure:"location"`
	TickSize       string `mapstructure:"tick_size"`
	ContractSize   string `mapstructure:"contract_size"`
}

// ServerConfig holds the HTTP façade's bind address and related settings.
type ServerConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// JournalConfig selects and configures the trade journal sink.
type JournalConfig struct {
	Driver      string `mapstructure:"driver"` // "memory" or "postgres"
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// Config is the fully parsed configuration tree.
type Config struct {
	Server    ServerConfig     `mapstructure:"server"`
	Journal   JournalConfig    `mapstructure:"journal"`
	Contracts []ContractConfig `mapstructure:"contracts"`
}

const dateLayout = "2006-01-02"

// Load reads configuration from path if non-empty, otherwise from a file
// named "ctenex.yaml" in the working directory or /etc/ctenex, then applies
// CTENEX_-prefixed environment overrides (e.g. CTENEX_SERVER_LISTEN_ADDR).
// Load does not check contract entries; BuildContracts rejects malformed
// ones, so a bad contract universe is a startup error, not a runtime one.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("ctenex")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/ctenex")
	if path != "" {
		v.SetConfigFile(path)
	}

	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("journal.driver", "memory")

	v.SetEnvPrefix("ctenex")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if len(cfg.Contracts) == 0 {
		cfg.Contracts = []ContractConfig{defaultContract}
	}

	return &cfg, nil
}

// defaultContract is the baseline contract from spec.md §4.2's worked
// example, used when no contracts section is configured.
var defaultContract = ContractConfig{
	ID:             "UK-BL-MAR-25",
	Commodity:      "power",
	DeliveryPeriod: "monthly",
	StartDate:      "2025-03-01",
	EndDate:        "2025-03-31",
	Location:       "GB",
	TickSize:       "0.01",
	ContractSize:   "1.0",
}

// BuildContracts parses the configured contract entries into domain
// contracts.
func BuildContracts(entries []ContractConfig) ([]models.Contract, error) {
	out := make([]models.Contract, 0, len(entries))
	for _, e := range entries {
		start, err := time.Parse(dateLayout, e.StartDate)
		if err != nil {
			return nil, fmt.Errorf("contract %s: invalid start_date: %w", e.ID, err)
		}
		end, err := time.Parse(dateLayout, e.EndDate)
		if err != nil {
			return nil, fmt.Errorf("contract %s: invalid end_date: %w", e.ID, err)
		}
		tickSize, err := decimal.NewFromString(e.TickSize)
		if err != nil {
			return nil, fmt.Errorf("contract %s: invalid tick_size: %w", e.ID, err)
		}
		contractSize, err := decimal.NewFromString(e.ContractSize)
		if err != nil {
			return nil, fmt.Errorf("contract %s: invalid contract_size: %w", e.ID, err)
		}
		commodity, err := models.ParseCommodity(e.Commodity)
		if err != nil {
			return nil, fmt.Errorf("contract %s: %w", e.ID, err)
		}
		period, err := models.ParseDeliveryPeriod(e.DeliveryPeriod)
		if err != nil {
			return nil, fmt.Errorf("contract %s: %w", e.ID, err)
		}

		out = append(out, models.Contract{
			ID:             models.ContractID(e.ID),
			Commodity:      commodity,
			DeliveryPeriod: period,
			StartDate:      start,
			EndDate:        end,
			Location:       e.Location,
			TickSize:       tickSize,
			ContractSize:   contractSize,
		})
	}
	return out, nil
}
