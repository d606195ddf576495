package log

import (
	"io"
	"os"

	"travelmail/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger warn 以下寫 stdout、warn 以上寫 stderr；每筆帶 service / version / env
func NewLogger(conf *config.Configuration) (*zap.Logger, error) {
	return newLogger(conf, os.Stdout, os.Stderr)
}

func newLogger(conf *config.Configuration, stdout, stderr io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(conf.Log.Level)
	if err != nil {
		// 空字串或拼錯都回到 info
		lvl = zapcore.InfoLevel
	}
	threshold := zap.NewAtomicLevelAt(lvl)

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.MessageKey = "message"
	encCfg.TimeKey = "ts"
	encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	encCfg.EncodeCaller = zapcore.ShortCallerEncoder
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if conf.Log.Format == "console" {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.AddSync(stdout), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return threshold.Enabled(l) && l < zapcore.WarnLevel
		})),
		zapcore.NewCore(encoder, zapcore.AddSync(stderr), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return threshold.Enabled(l) && l >= zapcore.WarnLevel
		})),
	)

	logger := zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
		zap.Fields(
			zap.String("service", conf.App.Name),
			zap.String("version", conf.App.Version),
			zap.String("env", conf.App.Env),
		),
	)
	logger.Debug("zap logger ready", zap.Stringer("level", lvl), zap.String("format", conf.Log.Format))
	return logger, nil
}
