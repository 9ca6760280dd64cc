// internal/stages/paraphrase/config.go
package paraphrase

type Config struct {
	Temperature float64
}

func DefaultConfig() *Config {
	return &Config{
		Temperature: 0.5,
	}
}
