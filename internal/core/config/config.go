package config

import (
	"errors"
	"fmt"
	"reflect"

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

	// Portal holds the courier portal endpoints and credentials.
	Portal PortalConfig `mapstructure:",squash"`

	// Redis holds the connection details for the outcome ledger and row store.
	Redis RedisConfig `mapstructure:",squash"`

	// Dispatch holds the upstream order-management API configuration.
	Dispatch DispatchConfig `mapstructure:",squash"`

	// Scraper holds tuning knobs for batch scraping.
	Scraper ScraperConfig `mapstructure:",squash"`

	// Proxy holds optional upstream proxy settings for browser logins.
	Proxy ProxyConfig `mapstructure:",squash"`
}

// PortalConfig holds the Anjani Courier portal endpoints and login credentials.
type PortalConfig struct {
	// BaseURL is the root of the courier portal, also the login page.
	BaseURL string `mapstructure:"PORTAL_BASE_URL" default:"http://www.anjanicourier.in/"`
	// TrackingURL is the unauthenticated tracking page endpoint.
	TrackingURL string `mapstructure:"PORTAL_TRACKING_URL" default:"http://anjanicourier.in/Doc_Track.aspx"`
	// PincodeReportURL is the authenticated pincode report endpoint.
	PincodeReportURL string `mapstructure:"PORTAL_PINCODE_URL" default:"http://www.anjanicourier.in/Rpt_PinCodeShow.aspx"`
	// Username is the portal login user.
	Username string `mapstructure:"PORTAL_USERNAME" required:"true"`
	// Password is the portal login password.
	Password string `mapstructure:"PORTAL_PASSWORD" required:"true"`
}

// RedisConfig holds Redis connection details.
type RedisConfig struct {
	// URL is the Redis connection string, e.g. redis://localhost:6379/0.
	URL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
}

// DispatchConfig holds the upstream order-management API configuration.
type DispatchConfig struct {
	// URL is the base URL of the order-management API.
	URL string `mapstructure:"DISPATCH_API_URL"`
}

// ScraperConfig holds pacing and timeout tuning for the scraping pipeline.
type ScraperConfig struct {
	// HTTPTimeoutSeconds bounds every portal request.
	HTTPTimeoutSeconds int `mapstructure:"SCRAPER_HTTP_TIMEOUT_SECONDS" default:"30"`
	// TrackingConcurrency limits concurrent tracking lookups in a batch.
	TrackingConcurrency int `mapstructure:"SCRAPER_TRACKING_CONCURRENCY" default:"5"`
	// PauseEvery pauses the pincode batch after this many requests.
	PauseEvery int `mapstructure:"SCRAPER_PAUSE_EVERY" default:"20"`
	// PauseSeconds is the length of the batch pause.
	PauseSeconds int `mapstructure:"SCRAPER_PAUSE_SECONDS" default:"20"`
	// DeliveryZoneThreshold is the serviceability cutoff for the
	// delivery-zone fraction of a pincode.
	DeliveryZoneThreshold float64 `mapstructure:"SCRAPER_DELIVERY_ZONE_THRESHOLD" default:"0.80"`
	// ExportPath is where workbook exports land when a request does not
	// name an output file.
	ExportPath string `mapstructure:"SCRAPER_EXPORT_PATH" default:"pincode_details.xlsx"`
}

// ProxyConfig holds optional upstream proxy settings for the login browser.
type ProxyConfig struct {
	// Host is the proxy hostname. Empty disables the proxy.
	Host string `mapstructure:"PROXY_HOST"`
	// Port is the proxy port.
	Port int `mapstructure:"PROXY_PORT"`
	// Username is the proxy auth user.
	Username string `mapstructure:"PROXY_USERNAME"`
	// Password is the proxy auth password.
	Password string `mapstructure:"PROXY_PASSWORD"`
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

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
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
			v.BindEnv(key)
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

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
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
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
