package config

import (
	"fmt"
	"time"
)

// a type with parameters for the ontology lookup service (OLS)
type ontologyConfig struct {
	// base URL of the OLS instance
	URL string `json:"url" yaml:"url"`
	// request timeout (seconds)
	Timeout int `json:"timeout" yaml:"timeout"`
}

// returns the request timeout as a duration
func (c ontologyConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (c ontologyConfig) validate() error {
	if err := validateURL("ontology", c.URL); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("Invalid ontology timeout: %d (must be positive)", c.Timeout)
	}
	return nil
}
