package entrypoint

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library-api/internal/audit"
	"github.com/mrlokans/library-api/internal/auth"
	"github.com/mrlokans/library-api/internal/config"
	"github.com/mrlokans/library-api/internal/database"
	auditrepo "github.com/mrlokans/library-api/internal/database/audit"
	http_controllers "github.com/mrlokans/library-api/internal/http"
	"github.com/mrlokans/library-api/internal/library"
	"github.com/mrlokans/library-api/internal/scheduler"
	"github.com/mrlokans/library-api/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill -9 cannot be caught, so only SIGINT and SIGTERM are handled
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop accepting requests before the background workers go away.
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

// App holds everything a running library server owns.
type App struct {
	Config    *config.Config
	DB        *database.Database
	Library   *library.Service
	Audit     *audit.Service
	Tasks     *tasks.Client
	Scheduler *scheduler.AuditCleanupScheduler
	Sessions  *auth.SessionManager

	csrfSecret []byte
	cancel     context.CancelFunc
}

// Build opens the database and wires the optional audit trail, task queue,
// cleanup scheduler and reader sessions according to cfg. Background work is
// not started until Start.
func Build(cfg *config.Config) (*App, error) {
	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := &App{
		Config:  cfg,
		DB:      db,
		Library: library.NewService(db.DB, library.OptionsFromConfig(cfg.Library)),
	}

	if cfg.Audit.Enabled {
		app.Audit = audit.NewService(auditrepo.NewRepository(db.DB))
		app.Library.SetRecorder(app.Audit)
		log.Printf("Audit trail enabled, retention %d days", cfg.Audit.RetentionDays)
	}

	if cfg.Tasks.Enabled && app.Audit != nil {
		app.Tasks, err = tasks.NewClient(cfg.Database.Path, tasks.FromConfig(cfg.Tasks))
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to initialize task queue: %w", err)
		}

		// archiver stays a nil interface when archiving is off
		var archiver tasks.AuditArchiver
		if cfg.Audit.ArchiveDir != "" {
			archiver = audit.NewArchiver(cfg.Audit.ArchiveDir)
		}
		app.Tasks.Register(tasks.NewCleanupAuditEventsQueue(app.Audit, archiver))

		if cfg.Audit.CleanupEnabled {
			if err := scheduler.ValidateSchedule(cfg.Audit.CleanupSchedule); err != nil {
				app.Close()
				return nil, fmt.Errorf("invalid audit cleanup schedule: %w", err)
			}
			app.Scheduler = scheduler.NewAuditCleanupScheduler(app.Tasks, cfg.Audit.CleanupSchedule, cfg.Audit.RetentionDays)
		}
	} else if cfg.Tasks.Enabled {
		log.Printf("Task queue disabled: it only serves audit cleanup and the audit trail is off")
	}

	if cfg.Sessions.Enabled {
		if err := app.initSessions(); err != nil {
			app.Close()
			return nil, err
		}
	}

	return app, nil
}

func (a *App) initSessions() error {
	sqlDB, err := a.DB.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get SQL DB for sessions: %w", err)
	}

	store, err := auth.NewStore(a.Config.Database.Driver, sqlDB)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}
	a.Sessions = auth.NewSessionManager(store, a.Config.Sessions)

	if a.Config.Sessions.CSRFSecret == "" {
		log.Printf("WARNING: CSRF_SECRET is not set. Session requests are not protected against CSRF.")
		return nil
	}
	a.csrfSecret, err = hex.DecodeString(a.Config.Sessions.CSRFSecret)
	if err != nil {
		return fmt.Errorf("CSRF_SECRET must be hex encoded: %w", err)
	}
	if len(a.csrfSecret) != 32 {
		return fmt.Errorf("CSRF_SECRET must be 32 bytes, got %d", len(a.csrfSecret))
	}
	return nil
}

// RouterConfig maps the app onto the HTTP layer's dependencies.
func (a *App) RouterConfig(version string) http_controllers.RouterConfig {
	return http_controllers.RouterConfig{
		Library:            a.Library,
		Database:           a.DB,
		Audit:              a.Audit,
		Tasks:              a.Tasks,
		AuditRetentionDays: a.Config.Audit.RetentionDays,
		Sessions:           a.Sessions,
		CSRFSecret:         a.csrfSecret,
		SecureCookies:      a.Config.Sessions.SecureCookies,
		ReadOnly:           a.Config.ReadOnly,
		APIPrefix:          a.Config.Library.APIPrefix,
		Version:            version,
	}
}

// Start launches the task workers and the cleanup scheduler.
func (a *App) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	// backlite starts its dispatcher in the background and returns
	if a.Tasks != nil {
		a.Tasks.Start(ctx)
	}
	if a.Scheduler != nil {
		if err := a.Scheduler.Start(ctx); err != nil {
			return fmt.Errorf("failed to start audit cleanup scheduler: %w", err)
		}
	}
	return nil
}

// Shutdown stops background work, waiting for in-flight tasks until ctx expires.
func (a *App) Shutdown(ctx context.Context) {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.Tasks != nil {
		a.Tasks.Stop(ctx)
	}
	if a.cancel != nil {
		a.cancel()
	}
	if a.Audit != nil {
		a.Audit.Wait()
	}
}

// Close releases the task queue and the database.
func (a *App) Close() {
	if a.Tasks != nil {
		if err := a.Tasks.Close(); err != nil {
			log.Printf("Error closing task client: %v", err)
		}
	}
	if err := a.DB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}

// Run builds the app, serves HTTP and blocks until shutdown.
func Run(cfg *config.Config, version string) error {
	log.Printf("Starting Library API v%s", version)

	app, err := Build(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Start(); err != nil {
		app.Shutdown(context.Background())
		return err
	}

	if cfg.ReadOnly {
		log.Printf("Read-only mode enabled - write operations will be blocked")
	}

	router := http_controllers.NewRouter(app.RouterConfig(version))
	Serve(router, cfg, app.Shutdown)
	return nil
}
