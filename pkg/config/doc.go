// Package config loads typed configuration from environment variables.
//
// Load parses the environment into a struct annotated with caarlos0/env tags.
// The default .env file is read once through godotenv before the first
// parse; LoadEnv reads additional files explicitly. Parsed values are cached
// per type and prefix, so the connectors and the server can all call Load
// for their own section without re-parsing.
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
//	var forms FormsConfig
//	config.MustLoad(&forms, config.WithPrefix("FORMS_"))
package config
