package internal

import (
	"fmt"
	"time"
)

type Config struct {
	Host             string        `env:"HOST,required=true"`
	Port             int           `env:"PORT,required=true"`
	LogLevel         string        `env:"LOG_LEVEL,required=true"`
	CharReplacement  string        `env:"CHARACTER_REPLACEMENT,default=*"`
	LimitMessages    *int          `env:"LIMIT_MESSAGES"`
	SearchLimit      int           `env:"SEARCH_LIMIT,default=25"`
	MaxContentLength int           `env:"MAX_CONTENT_LENGTH,default=2000"`
	SeedFilepath     string        `env:"SEED_FILEPATH"`
	MetricInterval   time.Duration `env:"METRIC_INTERVAL,default=30s"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	DebugPort        int           `env:"DEBUG_PORT,default=8081"`
	GraphiQL         bool          `env:"GRAPHIQL,default=true"`
}

// Addr is the listen address of the GraphQL server.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c Config) CharacterRune() (rune, error) {
	r := []rune(c.CharReplacement)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			c.CharReplacement,
		)
	}
	return r[0], nil
}
