package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"GO_ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// OAuth
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleCallbackURL  string `mapstructure:"GOOGLE_CALLBACK_URL"`

	GithubClientID     string `mapstructure:"GITHUB_CLIENT_ID"`
	GithubClientSecret string `mapstructure:"GITHUB_CLIENT_SECRET"`
	GithubCallbackURL  string `mapstructure:"GITHUB_CALLBACK_URL"`

	// R2 / S3 media hosting
	R2AccountID       string `mapstructure:"R2_ACCOUNT_ID"`
	R2AccessKeyID     string `mapstructure:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `mapstructure:"R2_SECRET_ACCESS_KEY"`
	R2BucketName      string `mapstructure:"R2_BUCKET_NAME"`
	R2PublicURL       string `mapstructure:"R2_PUBLIC_URL"` // Custom domain

	// Payments
	RazorpayKeyID     string `mapstructure:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret string `mapstructure:"RAZORPAY_KEY_SECRET"`

	// Set in the Razorpay dashboard per webhook; distinct from the API secret
	RazorpayWebhookSecret string `mapstructure:"RAZORPAY_WEBHOOK_SECRET"`
	PaymentCurrency       string `mapstructure:"PAYMENT_CURRENCY"`
}

var AppConfig *Config

// defaults also registers every key so AutomaticEnv can fill them without a .env file.
var defaults = map[string]string{
	"PORT":                 "8080",
	"GO_ENV":               "development",
	"DATABASE_URL":         "",
	"JWT_SECRET":           "",
	"FRONTEND_URL":         "http://localhost:3000",
	"REDIS_ADDR":           "localhost:6379",
	"REDIS_PASSWORD":       "",
	"GOOGLE_CLIENT_ID":     "",
	"GOOGLE_CLIENT_SECRET": "",
	"GOOGLE_CALLBACK_URL":  "",
	"GITHUB_CLIENT_ID":     "",
	"GITHUB_CLIENT_SECRET": "",
	"GITHUB_CALLBACK_URL":  "",
	"R2_ACCOUNT_ID":        "",
	"R2_ACCESS_KEY_ID":     "",
	"R2_SECRET_ACCESS_KEY": "",
	"R2_BUCKET_NAME":       "",
	"R2_PUBLIC_URL":        "",
	"RAZORPAY_KEY_ID":      "",
	"RAZORPAY_KEY_SECRET":  "",

	"RAZORPAY_WEBHOOK_SECRET": "",
	"PAYMENT_CURRENCY":        "INR",
}

func LoadConfig() {
	for key, value := range defaults {
		viper.SetDefault(key, value)
	}

	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
}

// StorageConfigured reports whether R2 credentials are present.
func (c *Config) StorageConfigured() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" && c.R2BucketName != ""
}

// PaymentsConfigured reports whether the Razorpay keys are present.
func (c *Config) PaymentsConfigured() bool {
	return c.RazorpayKeyID != "" && c.RazorpayKeySecret != ""
}
