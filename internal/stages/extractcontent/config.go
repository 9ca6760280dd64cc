// internal/stages/extractcontent/config.go
package extractcontent

type Config struct {
	Temperature float64
}

func DefaultConfig() *Config {
	return &Config{
		Temperature: 0.4,
	}
}
