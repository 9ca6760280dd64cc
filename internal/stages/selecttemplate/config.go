// internal/stages/selecttemplate/config.go
package selecttemplate

type Config struct {
	Temperature float64
}

func DefaultConfig() *Config {
	return &Config{
		Temperature: 0.3,
	}
}
