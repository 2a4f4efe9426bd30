package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Mode selects a logger preset
type Mode uint8

const (
	ModeDev Mode = iota
	ModeProd
	ModeSilent
)

// ParseMode maps "dev", "prod" and "silent" to a Mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dev", "development":
		return ModeDev, nil
	case "prod", "production":
		return ModeProd, nil
	case "silent", "off", "none":
		return ModeSilent, nil
	}
	return ModeDev, fmt.Errorf("unknown log mode %q", s)
}

func (m Mode) String() string {
	switch m {
	case ModeDev:
		return "dev"
	case ModeProd:
		return "prod"
	case ModeSilent:
		return "silent"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// New builds a zap logger for the mode. Dev logs debug and above to stderr in
// console format, prod logs info and above as JSON, silent discards everything.
func New(mode Mode) (*zap.Logger, error) {
	switch mode {
	case ModeSilent:
		return zap.NewNop(), nil
	case ModeProd:
		cfg := zap.NewProductionConfig()
		cfg.Sampling = nil
		return cfg.Build()
	default:
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg.Build()
	}
}

// OrNop returns l, or a no-op logger when l is nil
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
