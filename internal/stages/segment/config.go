// internal/stages/segment/config.go
package segment

type Config struct {
	Temperature float64
}

func DefaultConfig() *Config {
	return &Config{
		Temperature: 0.4,
	}
}
