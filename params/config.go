package params

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/marginforge/isolex/internal/filter"
	"github.com/marginforge/isolex/internal/money"
)

// Instrument holds the exchange's fee schedule, leverage, contract flavor,
// and order filters (spec.md §6).
type Instrument struct {
	FuturesType     money.FuturesType
	StartingBalance money.Amount
	Leverage        money.Leverage
	FeeMaker        money.Rate
	FeeTaker        money.Rate
	PriceFilter     filter.PriceFilter
	QuantityFilter  filter.QuantityFilter
	MaxActiveOrders int
}

// Config is the full set of exchange parameters a driver loads at startup.
type Config struct {
	Instrument Instrument
}

// Default mirrors lfest-rs's bundled example configuration: a linear
// contract, 1x leverage, zero fees, a unit tick/lot size, and a generous
// active-order cap.
func Default() Config {
	return Config{
		Instrument: Instrument{
			FuturesType:     money.Linear,
			StartingBalance: money.QuoteFromFloat(1),
			Leverage:        money.LeverageFromFloat(1),
			FeeMaker:        money.RateFromFloat(0),
			FeeTaker:        money.RateFromFloat(0),
			PriceFilter:     filter.DefaultPriceFilter(),
			QuantityFilter: filter.QuantityFilter{
				MinQuantity: money.BaseFromFloat(0),
				MaxQuantity: money.BaseFromFloat(0),
				StepSize:    money.BaseFromFloat(1),
			},
			MaxActiveOrders: 200,
		},
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	// Try to load .env file (optional - won't fail if not exists)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load() // loads .env from current directory
	}

	if ft := os.Getenv("ISOLEX_FUTURES_TYPE"); ft != "" {
		if ft == "Inverse" {
			cfg.Instrument.FuturesType = money.Inverse
		} else {
			cfg.Instrument.FuturesType = money.Linear
		}
	}
	if v := os.Getenv("ISOLEX_STARTING_BALANCE"); v != "" {
		cfg.Instrument.StartingBalance = parsePairedAmount(cfg.Instrument.FuturesType, v)
	}
	if v := os.Getenv("ISOLEX_LEVERAGE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Instrument.Leverage = money.LeverageFromFloat(f)
		}
	}
	if v := os.Getenv("ISOLEX_FEE_MAKER"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Instrument.FeeMaker = money.RateFromFloat(f)
		}
	}
	if v := os.Getenv("ISOLEX_FEE_TAKER"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Instrument.FeeTaker = money.RateFromFloat(f)
		}
	}
	if v := os.Getenv("ISOLEX_MAX_ACTIVE_ORDERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Instrument.MaxActiveOrders = n
		}
	}

	return cfg
}

// parsePairedAmount parses s as a decimal and builds the wallet-currency
// Amount for ft: the starting balance is always denominated in whatever
// currency the instrument's margin is held in.
func parsePairedAmount(ft money.FuturesType, s string) money.Amount {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return money.MarginZero(ft)
	}
	if ft == money.Linear {
		return money.QuoteFromFloat(f)
	}
	return money.BaseFromFloat(f)
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
