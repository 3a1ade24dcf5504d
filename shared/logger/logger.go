package logger

import (
	"context"
	"os"
	"time"

	"tourdesk/config"
	"tourdesk/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}

	log.Logger = log.Output(output)
	log.Trace().Msg("Zerolog initialized.")
}

// SetFormat switches to structured JSON output outside development.
func SetFormat(config *config.Config) {
	if config.Server.Env == constant.ServerEnvDevelopment || config.Server.Env == "" {
		return
	}

	log.Logger = zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("app", config.App.Name).
		Str("env", config.Server.Env).
		Logger()

	log.Trace().Msg("JSON log output enabled.")
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

func SetLogLevel(config *config.Config) {
	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil {
		level = zerolog.TraceLevel
		log.Trace().Str("loglevel", level.String()).Msg("Environment has no log level set up, using default.")
	} else {
		log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)
}

// FromContext returns the global logger enriched with request scoped fields.
func FromContext(ctx context.Context) *zerolog.Logger {
	logCtx := log.Logger.With()

	if requestID, ok := ctx.Value(constant.ContextKeyRequestID).(string); ok && requestID != "" {
		logCtx = logCtx.Str("request_id", requestID)
	}

	if operatorID, ok := ctx.Value(constant.ContextKeyOperatorID).(string); ok && operatorID != "" {
		logCtx = logCtx.Str("operator_id", operatorID)
	}

	logger := logCtx.Logger()

	return &logger
}
