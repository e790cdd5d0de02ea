package internal

import (
	"fmt"
	"time"
)

// Config is decoded from the environment at startup. Every required
// value that is missing aborts the process with a config exit code.
type Config struct {
	Secret            string        `env:"SECRET,required=true"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath     string        `env:"BLUGE_FILEPATH,required=true"`
	Port              int           `env:"PORT,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,required=true"`
	LogLevel          string        `env:"LOG_LEVEL,required=true"`
	CharReplacement   string        `env:"CHARACTER_REPLACEMENT,required=true"`
	MaxContentLength  int           `env:"MAX_CONTENT_LENGTH,required=true"`
	CensoredWords     string        `env:"CENSORED_WORDS"`
	LimitMessages     *int          `env:"LIMIT_MESSAGES"`
	Host              string        `env:"HOST,default=0.0.0.0"`
}

// CharacterRune validates that the configured censoring replacement is
// a single rune.
func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
