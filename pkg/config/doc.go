// Package config loads configuration structs from environment variables.
//
// It combines github.com/joho/godotenv (a best-effort read of a local .env
// file, once per process) with github.com/caarlos0/env (struct population
// from `env` field tags). Every package in this module describes its
// configuration as a tagged struct; this package is how those structs get
// filled:
//
//	var cfg mfa.Config
//	if err := config.Load(&cfg); err != nil {
//	    // handle error
//	}
//
// Each configuration type is parsed at most once per process and cached;
// later Load calls for the same type return the cached copy.
package config
