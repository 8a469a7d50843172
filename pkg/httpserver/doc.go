// Package httpserver runs an http.Handler with graceful shutdown.
//
// Run binds the listener before returning control to hooks, so Addr and
// WithStartHook report the real address even for ":0". The server stops when
// the Run context is cancelled or on SIGINT/SIGTERM; Shutdown may also be
// called directly and is idempotent.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
//
// Listen errors are wrapped with ErrStart and shutdown errors with
// ErrShutdown.
package httpserver
