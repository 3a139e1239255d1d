package config

import (
	"fmt"
	"time"
)

// a type with Ingest API connection parameters
type ingestConfig struct {
	// base URL of the Ingest API
	URL string `json:"url" yaml:"url"`
	// request timeout (seconds)
	Timeout int `json:"timeout" yaml:"timeout"`
}

// returns the request timeout as a duration
func (c ingestConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (c ingestConfig) validate() error {
	if err := validateURL("ingest", c.URL); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("Invalid ingest timeout: %d (must be positive)", c.Timeout)
	}
	return nil
}
