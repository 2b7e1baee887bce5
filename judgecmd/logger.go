package judgecmd

import (
	"github.com/lcpu-club/judgeclient/judge/configure"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger(conf *configure.LogConfigure) (*zap.Logger, error) {
	if conf == nil {
		conf = &configure.LogConfigure{}
	}
	if conf.Silent {
		return zap.NewNop(), nil
	}
	if conf.Release {
		return zap.NewProduction()
	}
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if !conf.Debug {
		config.Level.SetLevel(zap.InfoLevel)
	}
	return config.Build()
}
