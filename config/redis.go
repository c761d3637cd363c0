package config

// RedisConfig contains Redis configuration. Redis backs the persistent
// token store and the provider identity cache.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`

	// TokenCipherKey is a base64-encoded 32-byte AES key. When set, the
	// persisted access token is encrypted at rest.
	TokenCipherKey string `env:"TOKEN_CIPHER_KEY" envDefault:""`
}
