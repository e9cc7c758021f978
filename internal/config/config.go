package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration. It is loaded once at
// startup and passed into component constructors; nothing reads it globally.
type Config struct {
	Shopify   ShopifyConfig   `yaml:"shopify" mapstructure:"shopify"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Dsers     DsersConfig     `yaml:"dsers" mapstructure:"dsers"`
	Criteria  CriteriaConfig  `yaml:"criteria" mapstructure:"criteria"`
	Scoring   ScoringConfig   `yaml:"scoring" mapstructure:"scoring"`
	Pricing   PricingConfig   `yaml:"pricing" mapstructure:"pricing"`
	Ledger    LedgerConfig    `yaml:"ledger" mapstructure:"ledger"`
	Scrape    ScrapeConfig    `yaml:"scrape" mapstructure:"scrape"`
	Images    ImagesConfig    `yaml:"images" mapstructure:"images"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ShopifyConfig holds Admin API credentials and catalog labels.
type ShopifyConfig struct {
	StoreURL     string  `yaml:"store_url" mapstructure:"store_url"`
	AccessToken  string  `yaml:"access_token" mapstructure:"access_token"`
	APIVersion   string  `yaml:"api_version" mapstructure:"api_version"`
	Vendor       string  `yaml:"vendor" mapstructure:"vendor"`
	RateLimitRPS float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
}

// AnthropicConfig holds oracle API settings.
type AnthropicConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	Model       string `yaml:"model" mapstructure:"model"`
	MaxTokens   int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// DsersConfig holds the supplier-sync bridge settings.
type DsersConfig struct {
	BridgeURL   string `yaml:"bridge_url" mapstructure:"bridge_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// CriteriaConfig holds the acceptance filter thresholds.
type CriteriaConfig struct {
	MinOrders         int      `yaml:"min_orders" mapstructure:"min_orders"`
	MinRating         float64  `yaml:"min_rating" mapstructure:"min_rating"`
	MinReviews        int      `yaml:"min_reviews" mapstructure:"min_reviews"`
	PriceMin          float64  `yaml:"price_min" mapstructure:"price_min"`
	PriceMax          float64  `yaml:"price_max" mapstructure:"price_max"`
	MaxShippingDays   int      `yaml:"max_shipping_days" mapstructure:"max_shipping_days"`
	ForbiddenKeywords []string `yaml:"forbidden_keywords" mapstructure:"forbidden_keywords"`
}

// ScoringConfig holds the score gate and the deterministic fallback weights.
type ScoringConfig struct {
	MinScore          float64 `yaml:"min_score" mapstructure:"min_score"`
	FallbackApproveAt float64 `yaml:"fallback_approve_at" mapstructure:"fallback_approve_at"`
	FXRate            float64 `yaml:"fx_rate" mapstructure:"fx_rate"`
	WeightHighOrders  float64 `yaml:"weight_high_orders" mapstructure:"weight_high_orders"`
	WeightMidOrders   float64 `yaml:"weight_mid_orders" mapstructure:"weight_mid_orders"`
	WeightRating      float64 `yaml:"weight_rating" mapstructure:"weight_rating"`
	WeightPriceBand   float64 `yaml:"weight_price_band" mapstructure:"weight_price_band"`
}

// CategoryPricing overrides pricing knobs for one category.
type CategoryPricing struct {
	Markup         float64 `yaml:"markup" mapstructure:"markup"`
	DefaultFreight float64 `yaml:"default_freight" mapstructure:"default_freight"`
}

// PricingConfig holds tax, markup and rounding configuration.
type PricingConfig struct {
	Markup         float64                    `yaml:"markup" mapstructure:"markup"`
	ImportDutyRate float64                    `yaml:"import_duty_rate" mapstructure:"import_duty_rate"`
	TaxRate        float64                    `yaml:"tax_rate" mapstructure:"tax_rate"`
	DefaultFreight float64                    `yaml:"default_freight" mapstructure:"default_freight"`
	PriceFloor     float64                    `yaml:"price_floor" mapstructure:"price_floor"`
	CompareAtRatio float64                    `yaml:"compare_at_ratio" mapstructure:"compare_at_ratio"`
	InterestRate   float64                    `yaml:"interest_rate" mapstructure:"interest_rate"`
	RoundingTable  string                     `yaml:"rounding_table" mapstructure:"rounding_table"` // optional YAML file path
	Categories     map[string]CategoryPricing `yaml:"categories" mapstructure:"categories"`
}

// LedgerConfig selects the processed-ledger backend.
type LedgerConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite | postgres | memory
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ScrapeConfig configures the marketplace listing parser and fetcher.
type ScrapeConfig struct {
	Categories   []string `yaml:"categories" mapstructure:"categories"`
	MaxPerPage   int      `yaml:"max_per_page" mapstructure:"max_per_page"`
	TimeoutSecs  int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimitRPS float64  `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
}

// ImagesConfig configures the image download pipeline.
type ImagesConfig struct {
	MaxImages   int `yaml:"max_images" mapstructure:"max_images"`
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxAttempts    int  `yaml:"max_attempts" mapstructure:"max_attempts"`
	RetryBackoffMs int  `yaml:"retry_backoff_ms" mapstructure:"retry_backoff_ms"`
	Force          bool `yaml:"force" mapstructure:"force"`
}

// ServerConfig configures the status server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("GARIMPO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)

	v.SetDefault("shopify.api_version", "2024-01")
	v.SetDefault("shopify.vendor", "TWP Acessórios")
	v.SetDefault("shopify.rate_limit_rps", 2)

	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 1500)
	v.SetDefault("anthropic.timeout_secs", 60)

	v.SetDefault("dsers.timeout_secs", 120)

	v.SetDefault("criteria.min_orders", 500)
	v.SetDefault("criteria.min_rating", 4.5)
	v.SetDefault("criteria.min_reviews", 100)
	v.SetDefault("criteria.price_min", 5.0)
	v.SetDefault("criteria.price_max", 30.0)
	v.SetDefault("criteria.max_shipping_days", 30)
	v.SetDefault("criteria.forbidden_keywords", []string{
		"replica", "fake", "copy", "brand", "nike", "adidas", "gucci",
		"louis vuitton", "rolex", "battery", "liquid", "aerosol",
	})

	v.SetDefault("scoring.min_score", 70)
	v.SetDefault("scoring.fallback_approve_at", 60)
	v.SetDefault("scoring.fx_rate", 5.5)
	v.SetDefault("scoring.weight_high_orders", 30)
	v.SetDefault("scoring.weight_mid_orders", 20)
	v.SetDefault("scoring.weight_rating", 25)
	v.SetDefault("scoring.weight_price_band", 20)

	v.SetDefault("pricing.markup", 2.5)
	v.SetDefault("pricing.import_duty_rate", 0.15)
	v.SetDefault("pricing.tax_rate", 0.18)
	v.SetDefault("pricing.default_freight", 30.0)
	v.SetDefault("pricing.price_floor", 29.90)
	v.SetDefault("pricing.compare_at_ratio", 1.30)
	v.SetDefault("pricing.interest_rate", 0.0199)

	v.SetDefault("ledger.driver", "sqlite")
	v.SetDefault("ledger.path", "data/ledger.db")

	v.SetDefault("scrape.categories", []string{
		"brincos", "colares", "pulseiras", "aneis", "relogios", "oculos", "bolsas",
	})
	v.SetDefault("scrape.max_per_page", 20)
	v.SetDefault("scrape.timeout_secs", 30)
	v.SetDefault("scrape.rate_limit_rps", 0.5)

	v.SetDefault("images.max_images", 6)
	v.SetDefault("images.concurrency", 4)
	v.SetDefault("images.timeout_secs", 15)

	v.SetDefault("batch.max_attempts", 3)
	v.SetDefault("batch.retry_backoff_ms", 30000)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate rejects configurations that cannot start a batch run. Credential
// checks happen here, before any candidate is processed.
func (c *Config) Validate() error {
	if c.Shopify.StoreURL == "" {
		return eris.New("config: shopify.store_url is required")
	}
	if c.Shopify.AccessToken == "" {
		return eris.New("config: shopify.access_token is required")
	}
	if c.Pricing.TaxRate < 0 || c.Pricing.TaxRate >= 1 {
		return eris.Errorf("config: pricing.tax_rate %.2f out of range [0,1)", c.Pricing.TaxRate)
	}
	if c.Pricing.ImportDutyRate < 0 {
		return eris.New("config: pricing.import_duty_rate must not be negative")
	}
	if c.Pricing.Markup <= 0 {
		return eris.New("config: pricing.markup must be positive")
	}
	if c.Criteria.PriceMin > c.Criteria.PriceMax {
		return eris.Errorf("config: criteria.price_min %.2f above price_max %.2f",
			c.Criteria.PriceMin, c.Criteria.PriceMax)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
