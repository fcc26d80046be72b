// Package config handles configuration loading, parsing, and validation
// from various sources (.env file, environment variables, config file). It
// provides type-safe access to the settings needed by the server, the
// session layer and the background sweeper.
package config
