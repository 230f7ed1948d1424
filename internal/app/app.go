package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aidar/ksc-recruitment/internal/config"
	"github.com/aidar/ksc-recruitment/internal/content"
	"github.com/aidar/ksc-recruitment/internal/handler"
	"github.com/aidar/ksc-recruitment/internal/identity"
	"github.com/aidar/ksc-recruitment/internal/mailer"
	"github.com/aidar/ksc-recruitment/internal/metrics"
	"github.com/aidar/ksc-recruitment/internal/middleware"
	"github.com/aidar/ksc-recruitment/internal/repository"
	"github.com/aidar/ksc-recruitment/internal/repository/memory"
	"github.com/aidar/ksc-recruitment/internal/repository/postgres"
	"github.com/aidar/ksc-recruitment/internal/repository/sqlite"
	"github.com/aidar/ksc-recruitment/internal/service"
)

// mailSender объединяет отправку писем и диагностику подключения
type mailSender interface {
	service.EmailSender
	handler.Pinger
}

// App представляет приложение со всеми зависимостями
type App struct {
	config   *config.Config
	storage  repository.SubmissionRepository
	content  *content.Store
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	server   *http.Server
	logger   *slog.Logger

	sessions    *memory.SessionRepository
	stopJanitor context.CancelFunc
	janitorDone chan struct{}
}

// New создает новый экземпляр приложения
func New(cfg *config.Config) (*App, error) {
	// Инициализируем структурированный логгер (JSON формат)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app := &App{
		config:   cfg,
		registry: registry,
		metrics:  metrics.New(registry),
		logger:   logger,
	}

	return app, nil
}

// Initialize инициализирует все компоненты приложения
func (a *App) Initialize(ctx context.Context) error {
	store, err := content.Load(a.config.Content.Path)
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}
	a.content = store

	if err := a.openStorage(ctx); err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	sender, err := a.newMailSender()
	if err != nil {
		return err
	}

	// Настраиваем HTTP сервер и роутинг
	a.setupServer(sender)

	a.logger.Info("Application initialized successfully",
		"storage", a.config.Storage.Driver,
		"teams", len(store.TeamNames()),
		"smtp_enabled", a.config.SMTP.Enabled(),
	)
	return nil
}

// openStorage подключает хранилище заявок по выбранному драйверу
func (a *App) openStorage(ctx context.Context) error {
	switch a.config.Storage.Driver {
	case config.StorageDriverSQLite:
		repo, err := sqlite.New(a.config.SQLite.Path)
		if err != nil {
			return err
		}
		a.storage = repo
		a.logger.Info("Opened SQLite storage", "path", a.config.SQLite.Path)
		return nil
	default:
		pool, err := a.connectDB(ctx)
		if err != nil {
			return err
		}
		a.storage = postgres.NewSubmissionRepository(pool)
		return nil
	}
}

// connectDB устанавливает подключение к PostgreSQL с connection pool
func (a *App) connectDB(ctx context.Context) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(a.config.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Настраиваем размеры connection pool
	poolConfig.MaxConns = a.config.Database.MaxConns
	poolConfig.MinConns = a.config.Database.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Проверяем подключение к БД
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	a.logger.Info("Connected to database")
	return pool, nil
}

// newMailSender создает SMTP отправителя или заглушку, если SMTP не настроен
func (a *App) newMailSender() (mailSender, error) {
	if !a.config.SMTP.Enabled() {
		a.logger.Warn("SMTP is not configured, confirmation emails are disabled")
		return mailer.NewNopSender(a.logger), nil
	}

	tmpl, err := mailer.LoadTemplate(a.config.SMTP.TemplatePath)
	if err != nil {
		return nil, err
	}
	return mailer.NewSMTPSender(a.config.SMTP, tmpl, a.metrics, a.logger), nil
}

// setupServer инициализирует HTTP роутер и обработчики
func (a *App) setupServer(sender mailSender) {
	// Инициализируем слой сервисов (бизнес-логика)
	a.sessions = memory.NewSessionRepository()
	sessionService := service.NewSessionService(
		a.sessions,
		service.NewDuplicateGuard(a.storage),
		a.content,
		a.metrics,
		a.config.JWT.GetExpiration(),
	)
	submissionService := service.NewSubmissionService(
		sessionService,
		service.NewSubmissionBuilder(),
		a.storage,
		service.NewNotificationDispatcher(sender),
		a.metrics,
		a.logger,
	)
	authService := service.NewAuthService(
		identity.NewUserInfoClient(a.config.Identity.UserInfoURL, a.config.Identity.Timeout),
		sessionService,
		a.config.JWT.Secret,
		a.config.JWT.GetExpiration(),
	)
	statsService := service.NewStatsService(a.storage)

	// Инициализируем HTTP обработчики
	authHandler := handler.NewAuthHandler(authService)
	sessionHandler := handler.NewSessionHandler(sessionService)
	submissionHandler := handler.NewSubmissionHandler(submissionService)
	contentHandler := handler.NewContentHandler(a.content)
	statsHandler := handler.NewStatsHandler(statsService)
	healthHandler := handler.NewHealthHandler(a.storage, sender)

	// Инициализируем middleware для JWT авторизации
	authMiddleware := middleware.AuthMiddleware(authService)

	// Настраиваем роутер
	r := chi.NewRouter()

	// Глобальные middleware (применяются ко всем запросам)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Публичные эндпоинты (без авторизации)
	r.Post("/auth/login", authHandler.Login)

	r.Get("/health", healthHandler.Health)
	r.Get("/health/mail", healthHandler.MailCheck)
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	r.Route("/content", func(r chi.Router) {
		r.Get("/circle", contentHandler.GetCircle)
		r.Get("/teams", contentHandler.ListTeams)
		r.Get("/teams/{name}", contentHandler.GetTeam)
	})

	// Защищенные эндпоинты (требуют JWT токен в заголовке Authorization)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Post("/auth/logout", authHandler.Logout)

		// Состояние формы в рамках сессии
		r.Get("/session", sessionHandler.GetSession)
		r.Post("/session/team", sessionHandler.SelectTeam)
		r.Post("/session/members/add", sessionHandler.AddMember)
		r.Post("/session/members/remove", sessionHandler.RemoveMember)
		r.Post("/session/reset", sessionHandler.Reset)

		// Отправка форм
		r.Post("/submissions/individual", submissionHandler.SubmitIndividual)
		r.Post("/submissions/team", submissionHandler.SubmitTeam)

		r.Get("/stats", statsHandler.GetStats)
	})

	// Создаем HTTP сервер с настройками таймаутов
	addr := fmt.Sprintf("%s:%s", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a.logger.Info("HTTP server configured", "addr", addr)
}

// Handler возвращает корневой HTTP обработчик приложения
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run запускает HTTP сервер и фоновую очистку истекших сессий
func (a *App) Run() error {
	a.startSessionJanitor(sessionPruneInterval)

	a.logger.Info("Starting HTTP server", "addr", a.server.Addr)
	return a.server.ListenAndServe()
}

// sessionPruneInterval период фоновой очистки сессий
const sessionPruneInterval = 10 * time.Minute

func (a *App) startSessionJanitor(interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	a.stopJanitor = cancel
	a.janitorDone = make(chan struct{})

	go func() {
		defer close(a.janitorDone)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := a.sessions.Prune(ctx); removed > 0 {
					a.logger.Info("Expired sessions removed", "count", removed)
				}
			}
		}
	}()
}

// Shutdown корректно останавливает приложение
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application")

	var errs []error

	// Останавливаем HTTP сервер (ждем завершения текущих запросов)
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown server: %w", err))
		}
	}

	// Останавливаем очистку сессий
	if a.stopJanitor != nil {
		a.stopJanitor()
		<-a.janitorDone
	}

	// Закрываем хранилище заявок
	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}
