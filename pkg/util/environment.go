package util

import (
	"os"
	"strconv"
	"strings"
	"time"
)

func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		pair := strings.SplitN(variable, "=", 2)

		environmentVariables[pair[0]] = pair[1]
	}

	return environmentVariables
}

// EnvDuration reads a Go duration string ("90s", "5m") from the environment map,
// leaving fallback in place when the key is unset.
func EnvDuration(env map[string]string, key string, fallback time.Duration) (time.Duration, error) {
	if env[key] == "" {
		return fallback, nil
	}

	return time.ParseDuration(env[key])
}

func EnvInt(env map[string]string, key string, fallback int) (int, error) {
	if env[key] == "" {
		return fallback, nil
	}

	return strconv.Atoi(env[key])
}
