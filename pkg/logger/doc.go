// Package logger builds log/slog loggers for formguard binaries and tests.
//
// New applies functional options on top of production defaults (JSON, info
// level, stdout). Environment presets switch to human-readable text at debug
// level for development. Context extractors inject request-scoped attributes,
// such as a form session id, into every record without creating new loggers.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "formguard"),
//	    logger.WithContextValue("session", sessionKey{}),
//	)
//	log.InfoContext(ctx, "submission blocked", logger.Container(id), logger.Field("email"))
//
// Discard returns a logger that drops everything; library packages use it as
// their default.
package logger
