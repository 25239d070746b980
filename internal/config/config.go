// Package config loads service settings from a YAML file with environment
// overrides, via cleanenv.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/promice/aws2bufr/internal/bufr"
)

// Config holds all converter settings.
type Config struct {
	LookupTablePath string  `yaml:"lookup_table" env:"LOOKUP_TABLE" env-required:"true"`
	OutputDir       string  `yaml:"output_dir" env:"OUTPUT_DIR" env-default:"bufr_out"`
	Sentinel        float64 `yaml:"sentinel" env:"SENTINEL" env-default:"-999"`
	TemplateID      int     `yaml:"template_id" env:"TEMPLATE_ID" env-default:"307080"`
	Delimiter       string  `yaml:"delimiter" env:"DELIMITER" env-default:"whitespace"`

	Station StationConfig `yaml:"station"`
	BUFR    BUFRConfig    `yaml:"bufr"`
	Codec   CodecConfig   `yaml:"codec"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Journal JournalConfig `yaml:"journal"`
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
}

// StationConfig identifies the reporting station in message headers.
type StationConfig struct {
	ID            string `yaml:"id" env:"STATION_ID" env-required:"true"`
	BlockNumber   int    `yaml:"block_number" env:"STATION_BLOCK_NUMBER" env-default:"4"`
	StationNumber int    `yaml:"station_number" env:"STATION_NUMBER" env-required:"true"`
	// StationType per BUFR code table 0 02 001; 0 = automatic.
	StationType            int `yaml:"station_type" env-default:"0"`
	AveragingPeriodMinutes int `yaml:"averaging_period_minutes" env-default:"10"`
}

// BUFRConfig carries section 1 header constants.
type BUFRConfig struct {
	OriginatingCentre    int `yaml:"originating_centre" env:"BUFR_ORIGINATING_CENTRE" env-default:"98"`
	OriginatingSubCentre int `yaml:"originating_subcentre" env-default:"0"`
	MasterTablesVersion  int `yaml:"master_tables_version" env-default:"13"`
}

// CodecConfig locates the external ecCodes wrapper binary.
type CodecConfig struct {
	Binary  string        `yaml:"binary" env:"CODEC_BINARY" env-default:"bufr-codec"`
	Timeout time.Duration `yaml:"timeout" env-default:"30s"`
}

// KafkaConfig enables publishing encoded messages to a broker.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"bufr-messages"`
}

// JournalConfig enables the SQLite run journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled" env:"JOURNAL_ENABLED" env-default:"false"`
	Path    string `yaml:"path" env:"JOURNAL_PATH" env-default:"aws2bufr-journal.db"`
}

// HTTPConfig enables the health/metrics endpoint for long-running batches.
type HTTPConfig struct {
	Enabled bool   `yaml:"enabled" env:"HTTP_ENABLED" env-default:"false"`
	Address string `yaml:"address" env:"HTTP_ADDR" env-default:":8080"`
}

// LogConfig selects log level and handler format.
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Load reads configuration from path (or CONFIG_PATH when empty) and
// validates it. All validation failures are fatal: bad configuration must
// surface before any observation row is processed.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config.yaml"
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if _, err := bufr.TemplateByID(c.TemplateID); err != nil {
		return err
	}
	switch c.Delimiter {
	case "whitespace", "comma", "semicolon", "tab":
	default:
		return fmt.Errorf("unsupported delimiter %q", c.Delimiter)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New("kafka enabled but no brokers configured")
	}
	if c.Station.BlockNumber < 0 || c.Station.BlockNumber > 99 {
		return fmt.Errorf("block_number %d outside WMO range", c.Station.BlockNumber)
	}
	if c.Station.StationNumber < 0 || c.Station.StationNumber > 999 {
		return fmt.Errorf("station_number %d outside WMO range", c.Station.StationNumber)
	}
	return nil
}

// Header builds the BUFR section 1 header for this station, without the
// per-row observation time.
func (c *Config) Header() bufr.Header {
	h := bufr.DefaultHeader(c.BUFR.OriginatingCentre, c.BUFR.OriginatingSubCentre, c.BUFR.MasterTablesVersion)
	h.StationID = c.Station.ID
	h.BlockNumber = c.Station.BlockNumber
	h.StationNumber = c.Station.StationNumber
	h.StationType = c.Station.StationType
	return h
}

// DelimiterRune returns the field separator for delimited input, or 0 for
// whitespace-separated files (the PROMICE .txt layout).
func (c *Config) DelimiterRune() rune {
	switch c.Delimiter {
	case "comma":
		return ','
	case "semicolon":
		return ';'
	case "tab":
		return '\t'
	default:
		return 0
	}
}
