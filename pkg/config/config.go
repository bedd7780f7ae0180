package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server  ServerConfig
	Cache   CacheConfig
	Web     WebConfig
	LLM     LLMConfig
	Pricing PricingConfig
	Images  ImageConfig
	History HistoryConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port              string        `envconfig:"SERVER_PORT" default:"9090"`
	ReadHeaderTimeout time.Duration `envconfig:"SERVER_READ_HEADER_TIMEOUT" default:"15s"`
	IdleTimeout       time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"120s"`
	MaxConcurrent     int           `envconfig:"SERVER_MAX_CONCURRENT" default:"3"`
	Debug             bool          `envconfig:"DEBUG" default:"false"`
}

// CacheConfig holds the two-tier cache settings.
type CacheConfig struct {
	Dir        string        `envconfig:"CACHE_DIR" default:".cache"`
	TTL        time.Duration `envconfig:"CACHE_TTL" default:"168h"`
	MaxEntries int           `envconfig:"CACHE_MAX_ENTRIES" default:"500"`
}

// WebConfig holds settings for outbound search and scraping requests.
type WebConfig struct {
	RequestTimeout   time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	RequestDelay     time.Duration `envconfig:"REQUEST_DELAY" default:"500ms"`
	MaxSearchResults int           `envconfig:"MAX_SEARCH_RESULTS" default:"10"`
	MaxScrapeResults int           `envconfig:"MAX_SCRAPE_RESULTS" default:"6"`
	MaxContentLength int           `envconfig:"MAX_CONTENT_LENGTH" default:"5000"`
	UserAgent        string        `envconfig:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"`
	RetailerFile     string        `envconfig:"RETAILER_FILE" default:""`
}

// LLMConfig holds settings for the text-generation collaborator.
type LLMConfig struct {
	APIKey      string        `envconfig:"GROQ_API_KEY" default:""`
	Endpoint    string        `envconfig:"GROQ_ENDPOINT" default:"https://api.groq.com/openai/v1/chat/completions"`
	Model       string        `envconfig:"GROQ_MODEL" default:"llama-3.3-70b-versatile"`
	Timeout     time.Duration `envconfig:"GROQ_TIMEOUT" default:"60s"`
	Temperature float64       `envconfig:"GROQ_TEMPERATURE" default:"0.3"`
}

// PricingConfig holds aggregation and recommendation tunables. The scoring
// weights are preserved from the original heuristics but kept configurable.
type PricingConfig struct {
	RapidAPIKey      string  `envconfig:"RAPIDAPI_KEY" default:""`
	TrustWeight      float64 `envconfig:"PRICING_TRUST_WEIGHT" default:"0.4"`
	PriceWeight      float64 `envconfig:"PRICING_PRICE_WEIGHT" default:"0.6"`
	ExcellentSpread  float64 `envconfig:"PRICING_EXCELLENT_SPREAD" default:"20"`
	GoodSpread       float64 `envconfig:"PRICING_GOOD_SPREAD" default:"10"`
	USDNairaFallback float64 `envconfig:"USD_NGN_FALLBACK" default:"1600"`
}

// ImageConfig holds image-engine tunables and ranking weights.
type ImageConfig struct {
	MaxImages       int `envconfig:"MAX_IMAGES" default:"5"`
	BrandDomainBump int `envconfig:"IMAGE_BRAND_DOMAIN_BUMP" default:"100"`
	MarketplaceBump int `envconfig:"IMAGE_MARKETPLACE_BUMP" default:"40"`
	TokenBump       int `envconfig:"IMAGE_TOKEN_BUMP" default:"5"`
	ProductPathBump int `envconfig:"IMAGE_PRODUCT_PATH_BUMP" default:"8"`
	NegativePenalty int `envconfig:"IMAGE_NEGATIVE_PENALTY" default:"20"`
	ResolutionBump  int `envconfig:"IMAGE_RESOLUTION_BUMP" default:"5"`
}

// HistoryConfig holds the report-history database settings.
type HistoryConfig struct {
	DBPath string `envconfig:"HISTORY_DB_PATH" default:"./history.db"`
}

// Load reads configuration from environment variables and applies the
// optional retailer-table override file.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Web.RetailerFile != "" {
		if err := LoadRetailerFile(cfg.Web.RetailerFile); err != nil {
			return nil, fmt.Errorf("failed to load retailer file: %w", err)
		}
	}
	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
