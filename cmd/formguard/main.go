package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrymomot/formguard/pkg/config"
	"github.com/dmitrymomot/formguard/pkg/formdef"
	"github.com/dmitrymomot/formguard/pkg/httpform"
	"github.com/dmitrymomot/formguard/pkg/httpserver"
	"github.com/dmitrymomot/formguard/pkg/i18n"
	"github.com/dmitrymomot/formguard/pkg/logger"
	"github.com/dmitrymomot/formguard/pkg/metrics"
	"github.com/dmitrymomot/formguard/pkg/requestid"
	"github.com/dmitrymomot/formguard/pkg/validation"
	"github.com/dmitrymomot/formguard/pkg/validator"
)

type appConfig struct {
	Env             string        `env:"APP_ENV" envDefault:"development"`
	LogFormat       string        `env:"LOG_FORMAT"`
	FormsPath       string        `env:"FORMS_PATH" envDefault:"forms.yaml"`
	TranslationsDir string        `env:"TRANSLATIONS_DIR"`
	DefaultLanguage string        `env:"DEFAULT_LANGUAGE" envDefault:"en"`
	StateBackend    string        `env:"STATE_BACKEND" envDefault:"memory"` // memory, redis, postgres or mongo
	StatePurgeAge   time.Duration `env:"STATE_PURGE_AGE" envDefault:"0"`
	MaxContainers   int           `env:"MAX_CONTAINERS" envDefault:"1024"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	HTTP httpserver.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "formguard: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	logOpts := []logger.Option{
		logger.WithEnvironment(cfg.Env, "formguard"),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	}
	if cfg.LogFormat != "" {
		logOpts = append(logOpts, logger.WithFormat(logger.Format(cfg.LogFormat)))
	}
	log := logger.New(logOpts...)

	translator, err := newTranslator(ctx, cfg, log)
	if err != nil {
		return err
	}

	catalog := validator.NewCatalog()
	forms, err := formdef.NewHolder(cfg.FormsPath,
		formdef.WithLogger(log),
		formdef.WithCatalog(catalog),
	)
	if err != nil {
		return fmt.Errorf("load forms: %w", err)
	}

	backend, err := openState(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer backend.close()

	collector := metrics.New()
	manager := validation.NewManager(backend.store, cfg.MaxContainers,
		validation.WithLogger(log),
		validation.WithTranslator(translator),
		validation.WithCatalog(catalog),
		validation.WithObserver(collector),
	)

	forms.OnReload(collector.RecordReload)
	forms.OnChange(func(f *formdef.File) {
		// live containers still carry the previous callbacks and bindings
		if err := manager.Close(context.WithoutCancel(ctx)); err != nil {
			log.Error("reset containers after reload", logger.Error(err))
		}
		log.Info("form definitions reloaded", slog.Int("forms", len(f.Names())))
	})

	srvOpts := []httpform.ServerOption{
		httpform.WithLogger(log),
		httpform.WithLanguageMatcher(translator),
		httpform.WithMetrics(collector),
		httpform.WithRequestTimeout(cfg.RequestTimeout),
		httpform.WithMaxBodyBytes(cfg.MaxBodyBytes),
	}
	if backend.check != nil {
		srvOpts = append(srvOpts, httpform.WithHealthcheck(backend.check))
	}
	api := httpform.NewServer(forms, manager, srvOpts...)

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(addr net.Addr) {
			log.Info("formguard ready",
				slog.String("addr", addr.String()),
				slog.String("state_backend", backend.name),
				slog.Any("forms", forms.Get().Names()),
			)
		}),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := forms.Run(ctx); err != nil {
			log.Error("form definitions are not watched", logger.Error(err))
		}
	}()
	if backend.purge != nil && cfg.StatePurgeAge > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			purgeLoop(ctx, backend.purge, cfg.StatePurgeAge, log)
		}()
	}

	runErr := srv.Run(ctx, api)
	cancel()
	wg.Wait()

	closeErr := manager.Close(context.Background())
	return errors.Join(runErr, closeErr)
}

func newTranslator(ctx context.Context, cfg appConfig, log *slog.Logger) (*i18n.Translator, error) {
	opts := []i18n.Option{
		i18n.WithDefaultLanguage(cfg.DefaultLanguage),
		i18n.WithLogger(log),
	}
	if cfg.TranslationsDir == "" {
		return i18n.NewDefault(ctx, opts...)
	}
	adapter := i18n.Chain(i18n.Embedded(), &i18n.FSAdapter{FS: os.DirFS(cfg.TranslationsDir), Pattern: "*.yaml"})
	t, err := i18n.NewTranslator(ctx, adapter, opts...)
	if err != nil {
		return nil, fmt.Errorf("load translations from %s: %w", cfg.TranslationsDir, err)
	}
	return t, nil
}

func purgeLoop(ctx context.Context, purge func(context.Context, time.Duration) (int64, error), age time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(age / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := purge(ctx, age)
			if err != nil {
				log.ErrorContext(ctx, "purge stale option sets", logger.Error(err))
				continue
			}
			if n > 0 {
				log.InfoContext(ctx, "purged stale option sets", slog.Int64("count", n))
			}
		}
	}
}
