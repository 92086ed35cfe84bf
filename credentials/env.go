package credentials

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment variable keys, resolved under the TWITTER_ prefix
// (TWITTER_BEARER_TOKEN, TWITTER_CONSUMER_KEY, ...).
const (
	envBearerToken    = "bearer_token"
	envBasicToken     = "basic_token"
	envClientID       = "client_id"
	envClientSecret   = "client_secret"
	envConsumerKey    = "consumer_key"
	envConsumerSecret = "consumer_secret"
	envAccessToken    = "access_token"
	envAccessSecret   = "access_secret"
)

// FromEnv reads credential configuration from the environment. A
// .env file in the working directory is loaded first when present;
// real environment variables take precedence over it.
func FromEnv() Config {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("twitter")
	v.AutomaticEnv()
	for _, key := range []string{
		envBearerToken, envBasicToken,
		envClientID, envClientSecret,
		envConsumerKey, envConsumerSecret,
		envAccessToken, envAccessSecret,
	} {
		// AutomaticEnv alone does not register keys that never appear
		// in a config file, so bind each one explicitly.
		_ = v.BindEnv(key)
	}

	return Config{
		BearerToken:    v.GetString(envBearerToken),
		BasicToken:     v.GetString(envBasicToken),
		ClientID:       v.GetString(envClientID),
		ClientSecret:   v.GetString(envClientSecret),
		ConsumerKey:    v.GetString(envConsumerKey),
		ConsumerSecret: v.GetString(envConsumerSecret),
		AccessToken:    v.GetString(envAccessToken),
		AccessSecret:   v.GetString(envAccessSecret),
	}
}

// NewFromEnv builds a Set from environment configuration.
func NewFromEnv(opts ...Option) (*Set, error) {
	return New(FromEnv(), opts...)
}
