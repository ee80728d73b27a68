package logger

import (
	"os"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/huynhanx03/go-indexq/pkg/settings"
)

// New builds a zap logger that writes JSON to stdout and, when FileLogName is
// set, to a rotating file.
func New(cfg settings.Logger) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(defaultLevel(cfg.LogLevel))
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encCfg)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}

	if cfg.FileLogName != "" {
		file := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FileLogName,
			MaxSize:    cfg.MaxSize, // Megabytes
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge, // Days
			Compress:   cfg.Compress,
		})
		cores = append(cores, zapcore.NewCore(encoder, file, level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// NewNop returns a logger that discards everything.
func NewNop() *zap.Logger { return zap.NewNop() }

func defaultLevel(level string) string {
	if level == "" {
		return "info"
	}
	return level
}
