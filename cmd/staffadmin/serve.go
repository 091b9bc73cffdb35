package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/go-extras/cobraflags"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/staffkit/staff-admin/internal/api/http"
	"github.com/staffkit/staff-admin/internal/api/http/handlers"
	"github.com/staffkit/staff-admin/internal/cache"
	"github.com/staffkit/staff-admin/internal/config"
	"github.com/staffkit/staff-admin/internal/events"
	"github.com/staffkit/staff-admin/internal/observability"
	"github.com/staffkit/staff-admin/internal/persistence"
	"github.com/staffkit/staff-admin/internal/repository"
	"github.com/staffkit/staff-admin/internal/service"
	"github.com/staffkit/staff-admin/internal/worker"
)

const (
	addrFlag  = "addr"
	storeFlag = "store"

	storePostgres = "postgres"
	storeMemory   = "memory"
)

var serveFlags = map[string]cobraflags.Flag{
	addrFlag: &cobraflags.StringFlag{
		Name:  addrFlag,
		Value: "",
		Usage: "Listen address; defaults to APP_HOST:APP_PORT",
	},
	storeFlag: &cobraflags.StringFlag{
		Name:  storeFlag,
		Value: storePostgres,
		Usage: "Record store backend (postgres, memory)",
	},
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
	cobraflags.RegisterMap(cmd, serveFlags)
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := service.Dependencies{
		Logger: logger,
	}
	var checks []handlers.Check

	switch backend := serveFlags[storeFlag].GetString(); backend {
	case storeMemory:
		logger.Warn("using in-memory store; records are lost on exit")
		mem := repository.NewMemoryStore()
		deps.AreaRepo, deps.RoleRepo, deps.EmployeeRepo = mem.Areas(), mem.Roles(), mem.Employees()
	case storePostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
				return err
			}
		}
		deps.AreaRepo = repository.NewAreaRepository(pg.DB)
		deps.RoleRepo = repository.NewRoleRepository(pg.DB)
		deps.EmployeeRepo = repository.NewEmployeeRepository(pg.DB)
		checks = append(checks, handlers.Check{Name: "postgres", Ping: pg.Ping})
	default:
		return fmt.Errorf("unknown --%s %q", storeFlag, backend)
	}

	var store cache.Store = cache.Nop{}
	if redis := persistence.NewRedis(ctx, cfg.Redis, logger); redis != nil {
		defer redis.Close()
		store = cache.NewRedisStore(redis.Client, cfg.App.Name)
		checks = append(checks, handlers.Check{Name: "redis", Ping: redis.Ping})
	}
	deps.Lists = cache.NewLists(store, cfg.Cache.TTL(), logger)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartCacheInvalidationWorker(dispatcher, deps.Lists, logger)
	deps.Dispatcher = dispatcher

	metrics := observability.NewMetrics()
	deps.Metrics = metrics

	app := fiber.New(fiber.Config{AppName: cfg.App.Name, DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, checks...),
		Areas:     handlers.NewAreasHandler(service.NewAreaService(deps)),
		Roles:     handlers.NewRolesHandler(service.NewRoleService(deps)),
		Employees: handlers.NewEmployeesHandler(service.NewEmployeeService(deps)),
		Metrics:   metrics.Handler(),
	})

	addr := serveFlags[addrFlag].GetString()
	if addr == "" {
		addr = cfg.App.Addr()
	}
	return listen(ctx, app, addr, logger)
}

// listen serves until ctx is cancelled or the listener fails.
func listen(ctx context.Context, app *fiber.App, addr string, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("fiber listen: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down")
		return app.Shutdown()
	}
}
