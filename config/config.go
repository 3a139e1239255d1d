package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// a type with service configuration parameters
type serviceConfig struct {
	// port on which the conversion service listens
	Port int `json:"port" yaml:"port"`
	// maximum number of allowed incoming connections
	MaxConnections int `json:"max_connections" yaml:"max_connections"`
	// directory in which the archive journal is kept
	DataDirectory string `json:"data_dir" yaml:"data_dir"`
	// if true, debug-level messages are logged
	Debug bool `json:"debug" yaml:"debug"`
}

// global config variables
var Service serviceConfig
var Ingest ingestConfig
var Ontology ontologyConfig
var Archive archiveConfig
var Converters map[string]converterConfig

// This struct performs the unmarshalling from the YAML config file and then
// copies its fields to the globals above.
type configFile struct {
	Service    serviceConfig              `yaml:"service"`
	Ingest     ingestConfig               `yaml:"ingest"`
	Ontology   ontologyConfig             `yaml:"ontology"`
	Archive    archiveConfig              `yaml:"archive"`
	Converters map[string]converterConfig `yaml:"converters"`
}

// This helper reads configuration data, returning an error indicating success
// or failure. All environment variables of the form ${ENV_VAR} are expanded.
func readConfig(bytes []byte) error {
	// Before we do anything else, expand any provided environment variables.
	bytes = []byte(os.ExpandEnv(string(bytes)))

	var conf configFile
	conf.Service.Port = 8080
	conf.Service.MaxConnections = 100
	conf.Service.DataDirectory = "."
	conf.Ingest.Timeout = 30
	conf.Ontology.Timeout = 30
	conf.Archive.OutputDirectory = "."
	conf.Archive.Concurrency = 4
	conf.Archive.RelationAttributes = true
	err := yaml.Unmarshal(bytes, &conf)
	if err != nil {
		slog.Error(fmt.Sprintf("Couldn't parse configuration data: %s", err))
		return err
	}

	// copy the config data into place
	Service = conf.Service
	Ingest = conf.Ingest
	Ontology = conf.Ontology
	Archive = conf.Archive
	Converters = conf.Converters
	if Converters == nil {
		Converters = make(map[string]converterConfig)
	}

	return err
}

// This helper validates the given service parameters, returning an
// error indicating success or failure.
func validateServiceParameters(params serviceConfig) error {
	if params.Port < 0 || params.Port > 65535 {
		return fmt.Errorf("Invalid port: %d (must be 0-65535)", params.Port)
	}
	if params.MaxConnections <= 0 {
		return fmt.Errorf("Invalid max_connections: %d (must be positive)",
			params.MaxConnections)
	}
	if params.DataDirectory == "" {
		return fmt.Errorf("No data_dir was provided!")
	}
	return nil
}

// checks that the given URL is an absolute http(s) URL
func validateURL(section, rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("No %s url was provided!", section)
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("Invalid %s url: '%s'", section, rawURL)
	}
	return nil
}

// This helper validates the given configfile, returning an error that indicates
// success or failure.
func validateConfig() error {
	err := validateServiceParameters(Service)
	if err != nil {
		return err
	}
	if err = Ingest.validate(); err != nil {
		return err
	}
	if err = Ontology.validate(); err != nil {
		return err
	}
	if err = Archive.validate(); err != nil {
		return err
	}
	for entityType, converter := range Converters {
		if err = converter.validate(entityType); err != nil {
			return err
		}
	}
	return nil
}

// Initializes the archiver configuration using the given YAML byte data.
func Init(yamlData []byte) error {

	// Read the configuration from our YAML file.
	err := readConfig(yamlData)
	if err != nil {
		return err
	}

	// Validate the configuration.
	err = validateConfig()
	return err
}
