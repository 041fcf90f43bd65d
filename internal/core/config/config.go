package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`
	// CORSAllowOrigins is the comma separated list of origins allowed by the CORS middleware.
	CORSAllowOrigins string `mapstructure:"CORS_ALLOW_ORIGINS" default:"*"`

	// Database holds the Postgres configuration.
	Database DatabaseConfig `mapstructure:",squash"`

	// Redis holds the Redis connection configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// OptimoRoute holds the route-optimization API configuration.
	OptimoRoute OptimoRouteConfig `mapstructure:",squash"`

	// BulkOrders holds the bulk fetch pipeline tuning.
	BulkOrders BulkOrdersConfig `mapstructure:",squash"`

	// Kafka holds the event publisher configuration.
	Kafka KafkaConfig `mapstructure:",squash"`

	// Proxy holds the optional outbound proxy used for upstream calls.
	Proxy ProxyConfig `mapstructure:",squash"`
}

// DatabaseConfig holds database connection details.
type DatabaseConfig struct {
	// URL is the Postgres connection string (Supabase "connection string" works as-is).
	URL string `mapstructure:"DATABASE_URL" required:"true"`
	// MaxConns caps the pool size.
	MaxConns int `mapstructure:"DB_MAX_CONNS" default:"10"`
	// MigrateOnStart applies pending migrations when the API boots.
	MigrateOnStart bool `mapstructure:"DB_MIGRATE_ON_START" default:"true"`
}

// RedisConfig holds the cache connection.
type RedisConfig struct {
	// URL has the form redis://[:password@]host[:port][/database].
	URL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
}

// OptimoRouteConfig holds the credentials for the OptimoRoute API.
type OptimoRouteConfig struct {
	// URL is the API base URL, without a trailing slash.
	URL string `mapstructure:"OPTIMOROUTE_URL" default:"https://api.optimoroute.com/v1"`
	// APIKey is sent as a bearer token. It never leaves the server.
	APIKey string `mapstructure:"OPTIMOROUTE_API_KEY" required:"true"`
	// TimeoutSeconds bounds every upstream call.
	TimeoutSeconds int `mapstructure:"OPTIMOROUTE_TIMEOUT_SECONDS" default:"30"`
	// CompletionBatch is the number of order numbers per get_completion_details call.
	CompletionBatch int `mapstructure:"OPTIMOROUTE_COMPLETION_BATCH" default:"500"`
	// CompletionCacheTTLMinutes is how long terminal completion details stay cached.
	CompletionCacheTTLMinutes int `mapstructure:"COMPLETION_CACHE_TTL_MINUTES" default:"1440"`
}

// Timeout returns the upstream timeout as a duration.
func (c OptimoRouteConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CompletionCacheTTL returns the completion cache TTL as a duration.
func (c OptimoRouteConfig) CompletionCacheTTL() time.Duration {
	return time.Duration(c.CompletionCacheTTLMinutes) * time.Minute
}

// BulkOrdersConfig tunes the pagination driver.
type BulkOrdersConfig struct {
	// MaxPages stops a fetch that keeps returning continuation tokens.
	MaxPages int `mapstructure:"BULK_MAX_PAGES" default:"200"`
	// PageDelayMS is waited between two page requests.
	PageDelayMS int `mapstructure:"BULK_PAGE_DELAY_MS" default:"0"`
	// SessionTTLMinutes is how long a fetch session is kept in Redis.
	SessionTTLMinutes int `mapstructure:"BULK_SESSION_TTL_MINUTES" default:"120"`
}

// PageDelay returns the inter-page delay as a duration.
func (c BulkOrdersConfig) PageDelay() time.Duration {
	return time.Duration(c.PageDelayMS) * time.Millisecond
}

// SessionTTL returns the session TTL as a duration.
func (c BulkOrdersConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// KafkaConfig holds the event publisher settings. Publishing is disabled when Brokers is empty.
type KafkaConfig struct {
	// Brokers is a comma separated broker list.
	Brokers string `mapstructure:"KAFKA_BROKERS"`
	// WorkOrderTopic receives work order events.
	WorkOrderTopic string `mapstructure:"KAFKA_WORK_ORDER_TOPIC" default:"work-orders"`
}

// BrokerList splits Brokers into addresses.
func (c KafkaConfig) BrokerList() []string {
	var out []string
	for _, b := range strings.Split(c.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// ProxyConfig holds the outbound proxy settings.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"OUTBOUND_PROXY_ENABLED" default:"false"`
	Hostname string `mapstructure:"OUTBOUND_PROXY_HOST"`
	Port     int    `mapstructure:"OUTBOUND_PROXY_PORT"`
	Username string `mapstructure:"OUTBOUND_PROXY_USER"`
	Password string `mapstructure:"OUTBOUND_PROXY_PASSWORD"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if config.OptimoRoute.CompletionBatch <= 0 {
		return nil, fmt.Errorf("OPTIMOROUTE_COMPLETION_BATCH must be positive")
	}

	return &config, nil
}

// processTags binds every tagged field to its env key and registers its default in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("bind env %s: %w", key, err)
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && isZero(val.Field(i)) {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
