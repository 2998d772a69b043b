package log

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/squareup/rowcodec/rowerr"
)

// Config contains the configuration for the package-level logger used by
// RowAssembler's per-block debug/warn lines.
type Config struct {
	Format string
	Level  string
	File   string
}

// Configure the global logger.
func (cfg *Config) Configure() error {
	if cfg.File != "" && cfg.File != "-" {
		f, err := os.Create(cfg.File)
		if err != nil {
			return err
		}
		log.SetOutput(f)
	}
	if cfg.Level != "" {
		level, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return err
		}
		log.SetLevel(level)
	}
	switch cfg.Format {
	case "text":
		// default, do nothing
		break
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return rowerr.NewInvalidConfigurationError("log format must be either text or json")
	}
	return nil
}

// Debugf and Warnf are thin passthroughs to the package logger, kept
// here so callers depend only on this package rather than reaching for
// logrus directly.
func Debugf(format string, args ...interface{}) { log.Debugf(format, args...) }
func Warnf(format string, args ...interface{})  { log.Warnf(format, args...) }
