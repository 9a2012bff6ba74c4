package main

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const envPrefix = "L2ENCDEC"

// Config holds driver settings. Values come from an optional YAML file and
// L2ENCDEC_* environment variables; command line flags override both.
type Config struct {
	Protocol  int
	Algorithm string
	Legacy    bool
	KeyFile   string
	Filename  string
	Header    string
	Tail      string
	SkipTail  bool
	OutputDir string
	Format    string
	LogLevel  uint32
}

// NewDefaultConfig creates a new Config with default settings.
func NewDefaultConfig() *Config {
	return &Config{
		Format:   "yaml",
		LogLevel: uint32(log.InfoLevel),
	}
}

// GetLogLevel converts the level string to its corresponding int value. It
// returns an error if the level is invalid.
func GetLogLevel(level string) (uint32, error) {
	var l uint32
	switch strings.ToLower(level) {
	case "debug":
		l = uint32(log.DebugLevel)
	case "info":
		l = uint32(log.InfoLevel)
	case "warn":
		l = uint32(log.WarnLevel)
	case "error":
		l = uint32(log.ErrorLevel)
	default:
		return 0, fmt.Errorf("Invalid log.level setting %q", level)
	}
	return l, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// NewConfig creates a new Config with default settings and applies any
// settings from the environment and the given configuration file.
func NewConfig(configFile string) (*Config, error) {
	v := newViper()
	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	config := NewDefaultConfig()

	if v.IsSet("protocol") {
		config.Protocol = v.GetInt("protocol")
	}
	if v.IsSet("algorithm") {
		config.Algorithm = v.GetString("algorithm")
	}
	if v.IsSet("legacy") {
		config.Legacy = v.GetBool("legacy")
	}
	if v.IsSet("key_file") {
		config.KeyFile = v.GetString("key_file")
	}
	if v.IsSet("filename") {
		config.Filename = v.GetString("filename")
	}
	if v.IsSet("header") {
		config.Header = v.GetString("header")
	}
	if v.IsSet("tail") {
		config.Tail = v.GetString("tail")
	}
	if v.IsSet("skip_tail") {
		config.SkipTail = v.GetBool("skip_tail")
	}
	if v.IsSet("output_dir") {
		config.OutputDir = v.GetString("output_dir")
	}
	if v.IsSet("format") {
		config.Format = v.GetString("format")
	}
	if v.IsSet("log.level") {
		level, err := GetLogLevel(v.GetString("log.level"))
		if err != nil {
			return nil, err
		}
		config.LogLevel = level
	}

	return config, nil
}
