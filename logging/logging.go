package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Carmen-Shannon/penguin-paradise/config"
)

// New builds the process logger. Format "json" gives the production encoder; anything else a
// console encoder with colored levels and short timestamps. An unparsable level means info.
//
// Parameters:
//   - cfg: the logging section of the configuration
//
// Returns:
//   - *zap.Logger: the logger
//   - error: an error if the logger cannot be built
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	zapCfg := Config(cfg)
	return zapCfg.Build()
}

// Config returns the zap configuration New builds from.
func Config(cfg config.LoggingConfig) zap.Config {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(Level(cfg.Level))
	return zapCfg
}

// Level parses a level name, defaulting to info.
func Level(text string) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(text)); err != nil {
		return zapcore.InfoLevel
	}
	return level
}
