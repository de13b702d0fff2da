// Package config loads settings for programs that build API clients.
//
// It uses Viper to read a YAML/JSON/TOML file and environment variables,
// and godotenv to pull in .env files. Files are searched in the standard
// locations (./cmd/<service>/config.yml, ./config/config.yml, ./config.yml)
// unless given explicitly.
//
// # Usage
//
//	src, err := config.Open("apicall")
//	var settings Settings
//	err = src.Unmarshal(&settings)
//
// Credentials live in their own scope and are read on every lookup, so the
// values seen by a request are the ones current when it is sent:
//
//	creds := src.Credentials("wws") // wws.api_key, wws.api_instance
package config
