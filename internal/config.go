package internal

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config carries every environment-driven knob of the relay. Optional
// integrations (sensor store, censored word lists, static frontend)
// stay disabled when their variable is absent.
type Config struct {
	ListenAddr           string        `env:"LISTEN_ADDR,default=:3000" validate:"required"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true" validate:"required"`
	StaticDir            string        `env:"STATIC_DIR"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=32" validate:"gt=0"`
	HistoryReplay        int           `env:"HISTORY_REPLAY,default=10" validate:"gt=0"`
	SummaryContext       int           `env:"SUMMARY_CONTEXT,default=10" validate:"gt=0"`
	QuestionContext      int           `env:"QUESTION_CONTEXT,default=6" validate:"gt=0"`
	OpenAIBaseURL        string        `env:"OPENAI_BASE_URL" validate:"omitempty,url"`
	OpenAIKey            string        `env:"OPENAI_API_KEY,required=true" validate:"required"`
	OpenAIModel          string        `env:"OPENAI_MODEL,default=gpt-4o-mini"`
	CompletionTimeout    time.Duration `env:"COMPLETION_TIMEOUT,default=45s" validate:"gt=0"`
	SensorBaseURL        string        `env:"SENSOR_BASE_URL" validate:"omitempty,url"`
	SensorPath           string        `env:"SENSOR_PATH"`
	SensorTimeout        time.Duration `env:"SENSOR_TIMEOUT,default=10s" validate:"gt=0"`
	CensoredDir          string        `env:"CENSORED_DIR"`
	CensoredReplacement  string        `env:"CENSORED_REPLACEMENT,default=*"`
	HealthInterval       time.Duration `env:"HEALTH_INTERVAL,default=30s" validate:"gt=0"`
}

// Validate applies the struct-level constraints after go-env has filled
// the fields, so a malformed environment fails fast at startup.
func (c Config) Validate() error {
	return validator.New().Struct(c)
}

// CharacterRune extracts the single replacement rune used for masking.
func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CENSORED_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
