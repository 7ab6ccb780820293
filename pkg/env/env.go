package env

import (
	"fmt"
	"os"
	"time"

	motmedelEnvErrors "github.com/Motmedel/response_adapter_go/pkg/env/errors"
	motmedelErrors "github.com/Motmedel/response_adapter_go/pkg/errors"
)

func GetEnvWithDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func ReadEnv(name string) (string, error) {
	value, found := os.LookupEnv(name)
	if !found {
		return "", motmedelErrors.NewWithTrace(fmt.Errorf("%w: %q", motmedelEnvErrors.ErrNotPresent, name), name)
	}
	if value == "" {
		return "", motmedelErrors.NewWithTrace(fmt.Errorf("%w: %q", motmedelEnvErrors.ErrEmpty, name), name)
	}

	return value, nil
}

// GetDurationEnvWithDefault parses the variable with time.ParseDuration, returning the default
// when the variable is unset or empty.
func GetDurationEnvWithDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue, motmedelErrors.NewWithTrace(
			fmt.Errorf("%w: %q: %w", motmedelEnvErrors.ErrBadDuration, key, err),
			value,
		)
	}

	return duration, nil
}
