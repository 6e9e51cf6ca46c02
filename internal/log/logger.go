package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is safe to use before InitLogger; it discards everything until then.
var Logger = zap.NewNop()

// InitLogger builds a development logger on stderr. Only warnings and errors
// are shown unless verbose is set, so the report on stdout stays readable.
func InitLogger(verbose bool) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	Logger = l
}

func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}
