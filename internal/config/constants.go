package config

import "time"

// Timeout constants
const (
	// RequesterTimeout bounds how long a caller waits for a story, network call and timer alike
	RequesterTimeout = 5 * time.Second
	// UpstreamRequestTimeout bounds the call to the generative text service
	UpstreamRequestTimeout = 4 * time.Second
	// ServerShutdownTimeout bounds graceful shutdown of the HTTP server
	ServerShutdownTimeout = 30 * time.Second
	// TelemetryShutdownTimeout bounds flushing of tracer and meter providers
	TelemetryShutdownTimeout = 5 * time.Second

	DefaultCircuitBreakerTimeout = 30 * time.Second
)

// Defaults
const (
	DefaultServerPort        = "8080"
	DefaultMaxBodyBytes      = 16 << 10
	DefaultGenerationBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGenerationModel   = "gemini-1.5-flash"
	DefaultRequesterEndpoint = "http://localhost:8080/api/generate"
)

// Environment variable names
const (
	// CredentialEnvVar gates the upstream call; its absence selects pure-fallback mode
	CredentialEnvVar = "GEMINI_API_KEY"
	// ConfigFileEnvVar names the YAML file to load
	ConfigFileEnvVar = "MATHGAMES_CONFIG_FILE"
)

// Security configuration constants
const (
	// Content Security Policy for JSON responses
	DefaultCSP = "default-src 'none'; frame-ancestors 'none'"
)
