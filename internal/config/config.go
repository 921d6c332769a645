package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every runtime knob for the storefront backend.
type Config struct {
	Addr        string
	DatabaseURL string
	RedisAddr   string
	JWTSecret   string

	// BaseCurrency is the settlement currency; all stored amounts are in
	// its minor units. Display conversion never changes what is charged.
	BaseCurrency string

	// HomeCountryCode marks the domestic shipping region.
	HomeCountryCode string

	// ShippingFeePerItem applies per unit for international orders, in
	// minor units. Domestic orders ship free.
	ShippingFeePerItem int64

	// MinimumOrderTotal is the payment provider's floor for a session.
	MinimumOrderTotal int64

	// CartMaxItems bounds how many line items are persisted per device.
	CartMaxItems int

	RateTTL          time.Duration
	GeoEndpoint      string
	RatePrimaryURL   string
	RateSecondaryURL string

	ProviderURL        string
	CheckoutSuccessURL string
	CheckoutCancelURL  string
}

func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:               getEnv("ADDR", ":8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		BaseCurrency:       getEnv("BASE_CURRENCY", "AED"),
		HomeCountryCode:    getEnv("HOME_COUNTRY_CODE", "AE"),
		ShippingFeePerItem: getEnvInt64("SHIPPING_FEE_PER_ITEM", 12000),
		MinimumOrderTotal:  getEnvInt64("MINIMUM_ORDER_TOTAL", 200),
		CartMaxItems:       int(getEnvInt64("CART_MAX_ITEMS", 20)),
		RateTTL:            getEnvDuration("RATE_TTL", 6*time.Hour),
		GeoEndpoint:        getEnv("GEO_ENDPOINT", "https://ipapi.co/json/"),
		RatePrimaryURL:     getEnv("RATE_PRIMARY_URL", "https://open.er-api.com/v6/latest"),
		RateSecondaryURL:   getEnv("RATE_SECONDARY_URL", "https://api.exchangerate.host/latest"),
		ProviderURL:        os.Getenv("PROVIDER_URL"),
		CheckoutSuccessURL: getEnv("CHECKOUT_SUCCESS_URL", "/account?checkout=success&session_id={CHECKOUT_SESSION_ID}"),
		CheckoutCancelURL:  getEnv("CHECKOUT_CANCEL_URL", "/checkout?canceled=true"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
