package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	_ "lifetrack/docs"
	"lifetrack/internal/config"
	"lifetrack/internal/handlers"
	"lifetrack/internal/middleware"
	"lifetrack/internal/pdf"
	"lifetrack/internal/repositories"
	"lifetrack/internal/routes"
	"lifetrack/internal/services"
)

// App holds the wired dependencies of the server.
type App struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *sql.DB
	store  repositories.Store
	notify services.NotificationService
	auth   services.AuthService
	router *gin.Engine
}

// New opens the database and wires repositories, services and handlers.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := repositories.Open(ctx, cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return nil, err
	}

	// === Repos ===
	store := repositories.NewStore(db)
	clock := services.NewClock(cfg.Location())

	// === Notifications ===
	var tg services.TelegramSender
	if cfg.Telegram.Enabled() {
		sender, err := services.NewTelegramSender(cfg.Telegram.BotToken)
		if err != nil {
			log.Warn("app.telegram.disabled", zap.Error(err))
		} else {
			tg = sender
		}
	}
	var email services.EmailService
	if cfg.Email.Enabled() {
		email = services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
		)
	}
	notify := services.NewNotificationService(store.Users(), tg, email, log)

	// === Services ===
	authService := services.NewAuthService(store.Users(), notify, services.AuthSettings{
		JWTSecret:       []byte(cfg.Auth.JWTSecret),
		AccessTokenTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
	}, log)
	userService := services.NewUserService(store.Users())
	taskService := services.NewDailyTaskService(store, notify, clock, log)
	xpService := services.NewXPService(store, clock)
	rewardService := services.NewRewardService(store, notify, clock, log)
	reportService := services.NewReportService(store, taskService, pdf.NewReportGenerator(cfg.Reports.FontPath), clock)

	// === Handlers ===
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService, log)
	userHandler := handlers.NewUserHandler(userService, log)
	taskHandler := handlers.NewTaskHandler(taskService, clock, log)
	xpHandler := handlers.NewXPHandler(xpService, log)
	rewardHandler := handlers.NewRewardHandler(rewardService, log)
	reportHandler := handlers.NewReportHandler(reportService, clock, log)

	// === Gin ===
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(corsMiddleware())

	routes.SetupRoutes(
		router,
		[]byte(cfg.Auth.JWTSecret),
		middleware.NewIPRateLimiter(cfg.Auth.LoginRatePerMin, 10*time.Minute),
		healthHandler,
		authHandler,
		userHandler,
		taskHandler,
		xpHandler,
		rewardHandler,
		reportHandler,
	)

	return &App{
		cfg:    cfg,
		log:    log,
		db:     db,
		store:  store,
		notify: notify,
		auth:   authService,
		router: router,
	}, nil
}

// Serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests and notifications.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:      a.router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("app.listen", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("app.shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Migrate creates the schema.
func (a *App) Migrate(ctx context.Context) error {
	return repositories.Migrate(ctx, a.db)
}

// Seed inserts the default reward catalog and, when adminEmail is set, an
// admin account.
func (a *App) Seed(ctx context.Context, adminEmail, adminPassword string) error {
	seeder := services.NewSeeder(a.store, a.auth, a.log)
	if _, err := seeder.SeedRewards(ctx); err != nil {
		return fmt.Errorf("seed rewards: %w", err)
	}
	if adminEmail == "" {
		return nil
	}
	if len(adminPassword) < 8 {
		return errors.New("admin password must be at least 8 characters")
	}
	_, err := seeder.EnsureAdmin(ctx, adminEmail, adminPassword)
	return err
}

func (a *App) Close() {
	a.notify.Close()
	if err := a.db.Close(); err != nil {
		a.log.Warn("app.db.close", zap.Error(err))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
