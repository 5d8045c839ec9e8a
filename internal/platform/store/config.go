package store

import "time"

// Config aggregates per backend configuration
type Config struct {
	// AppName shows up as application_name on every connection
	AppName string

	PG PGConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// ConnectRetries bounds the startup ping loop; 0 means 20
	ConnectRetries int
	// PingTimeout bounds each startup ping; 0 means 3s
	PingTimeout time.Duration
}
