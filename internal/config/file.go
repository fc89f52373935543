package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// fileLookup reads a YAML, TOML or JSON config file. Keys are the environment
// variable names in any case, e.g. run_address or RUN_ADDRESS.
func fileLookup(path string) (envLookup, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return func(key string) (string, bool) {
		key = strings.ToLower(key)
		if !v.IsSet(key) {
			return "", false
		}
		if list, ok := v.Get(key).([]any); ok {
			parts := make([]string, 0, len(list))
			for _, item := range list {
				parts = append(parts, fmt.Sprint(item))
			}
			return strings.Join(parts, ","), true
		}
		return v.GetString(key), true
	}, nil
}

// chainLookup consults each lookup in order and returns the first non-empty value.
func chainLookup(lookups ...envLookup) envLookup {
	return func(key string) (string, bool) {
		for _, lookup := range lookups {
			if v, ok := lookup(key); ok && v != "" {
				return v, true
			}
		}
		return "", false
	}
}
