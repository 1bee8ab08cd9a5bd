package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort int

	Redis     Redis
	Cart      Cart
	Pricing   Pricing
	Catalog   Catalog
	Backend   Backend
	Telemetry Telemetry
}

type Redis struct {
	URL string
}

type Cart struct {
	Key         string
	TemplateKey string
}

type Pricing struct {
	TaxRate string
}

type Catalog struct {
	MinOrderQty      int
	Unit             string
	MRPMarkup        string
	PlaceholderImage string
	SectionSize      int
}

// Backend holds the order-management backend endpoints and the client
// credentials exchanged for a bearer token on every order attempt.
type Backend struct {
	TokenURL     string
	OrderURL     string
	QueryURL     string
	ClientID     string
	ClientSecret string
	AccountID    string
	AuthTimeout  time.Duration
	OrderTimeout time.Duration
}

type Telemetry struct {
	Enabled      bool
	OTLPEndpoint string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("http.port", 8080)

	v.SetDefault("redis.url", "redis://localhost:6379/0")

	v.SetDefault("cart.key", "cart")
	v.SetDefault("cart.template_key", "cart:templates")

	v.SetDefault("pricing.tax_rate", "0.18")

	v.SetDefault("catalog.min_order_qty", 10)
	v.SetDefault("catalog.unit", "units")
	v.SetDefault("catalog.mrp_markup", "1.1")
	v.SetDefault("catalog.placeholder_image", "https://via.placeholder.com/150")
	v.SetDefault("catalog.section_size", 6)

	v.SetDefault("backend.token_url", "")
	v.SetDefault("backend.order_url", "")
	v.SetDefault("backend.query_url", "")
	v.SetDefault("backend.client_id", "")
	v.SetDefault("backend.client_secret", "")
	v.SetDefault("backend.account_id", "")
	v.SetDefault("backend.auth_timeout", 10*time.Second)
	v.SetDefault("backend.order_timeout", 10*time.Second)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.otlp_endpoint", "")
}

// Load reads configuration from the optional file at path and from the
// environment. Environment keys are the upper-cased dotted keys with dots
// replaced by underscores, e.g. BACKEND_ORDER_TIMEOUT=5s.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{
		AppEnv:   v.GetString("app.env"),
		LogLevel: v.GetString("log.level"),
		HTTPPort: v.GetInt("http.port"),
		Redis: Redis{
			URL: v.GetString("redis.url"),
		},
		Cart: Cart{
			Key:         v.GetString("cart.key"),
			TemplateKey: v.GetString("cart.template_key"),
		},
		Pricing: Pricing{
			TaxRate: v.GetString("pricing.tax_rate"),
		},
		Catalog: Catalog{
			MinOrderQty:      v.GetInt("catalog.min_order_qty"),
			Unit:             v.GetString("catalog.unit"),
			MRPMarkup:        v.GetString("catalog.mrp_markup"),
			PlaceholderImage: v.GetString("catalog.placeholder_image"),
			SectionSize:      v.GetInt("catalog.section_size"),
		},
		Backend: Backend{
			TokenURL:     v.GetString("backend.token_url"),
			OrderURL:     v.GetString("backend.order_url"),
			QueryURL:     v.GetString("backend.query_url"),
			ClientID:     v.GetString("backend.client_id"),
			ClientSecret: v.GetString("backend.client_secret"),
			AccountID:    v.GetString("backend.account_id"),
			AuthTimeout:  v.GetDuration("backend.auth_timeout"),
			OrderTimeout: v.GetDuration("backend.order_timeout"),
		},
		Telemetry: Telemetry{
			Enabled:      v.GetBool("telemetry.enabled"),
			OTLPEndpoint: v.GetString("telemetry.otlp_endpoint"),
		},
	}

	if cfg.Backend.AuthTimeout <= 0 || cfg.Backend.OrderTimeout <= 0 {
		return Config{}, fmt.Errorf("backend timeouts must be positive, got auth=%s order=%s",
			cfg.Backend.AuthTimeout, cfg.Backend.OrderTimeout)
	}

	return cfg, nil
}
