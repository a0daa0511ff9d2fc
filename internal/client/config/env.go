package config

import "os"

// APIURLEnv names the environment variable holding the API base URL.
const APIURLEnv = "API_URL"

func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv(APIURLEnv); ok && v != "" {
		cfg.APIBaseURL = v
	}
}
