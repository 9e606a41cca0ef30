package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"

	"github.com/supportdesk/hub/internal/alerting"
	"github.com/supportdesk/hub/internal/api/handlers"
	"github.com/supportdesk/hub/internal/api/middleware"
	"github.com/supportdesk/hub/internal/config"
	"github.com/supportdesk/hub/internal/embeddings"
	"github.com/supportdesk/hub/internal/intent"
	"github.com/supportdesk/hub/internal/observability"
	"github.com/supportdesk/hub/internal/repository"
	"github.com/supportdesk/hub/internal/service"
	"github.com/supportdesk/hub/internal/worker"
	"github.com/supportdesk/hub/internal/workers"
)

const (
	embeddingProviderLocal  = "local"
	embeddingProviderOpenAI = "openai"

	queryCacheSize = 1000
)

var errUnsupportedEmbeddingProvider = errors.New("unsupported embedding provider")

// App holds all server dependencies and coordinates startup and shutdown.
type App struct {
	cfg           *config.Config
	db            *pgxpool.Pool
	server        *http.Server
	river         *river.Client[pgx.Tx]
	scheduler     *worker.GapScheduler
	meterProvider observability.MeterProviderShutdown
}

// newEmbeddingClient picks the embedding provider from config. The local
// provider is deterministic and needs no credentials; it is the default.
func newEmbeddingClient(cfg *config.Config) (service.EmbeddingClient, error) {
	switch cfg.EmbeddingProvider {
	case "", embeddingProviderLocal:
		return embeddings.NewLocalClient(), nil
	case embeddingProviderOpenAI:
		var opts []embeddings.OpenAIOption
		if cfg.EmbeddingModel != "" {
			opts = append(opts, embeddings.WithModel(cfg.EmbeddingModel))
		}

		return embeddings.NewOpenAIClient(cfg.EmbeddingProviderAPIKey, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedEmbeddingProvider, cfg.EmbeddingProvider)
	}
}

// NewApp builds and wires all components. It does not start the HTTP server,
// River, or the scheduler; call Run to start and block until shutdown or failure.
func NewApp(cfg *config.Config, db *pgxpool.Pool) (*App, error) {
	var (
		meterProvider  observability.MeterProviderShutdown
		metricsHandler http.Handler
		metrics        *observability.Metrics
		err            error
	)

	if cfg.MetricsEnabled {
		meterProvider, metricsHandler, metrics, err = observability.NewMeterProvider(
			context.Background(), observability.MeterProviderConfig{})
		if err != nil {
			return nil, fmt.Errorf("create meter provider: %w", err)
		}
	} else {
		slog.Warn("metrics not enabled (METRICS_ENABLED=false)")
	}

	var (
		hubMetrics       observability.HubMetrics
		cacheMetrics     observability.CacheMetrics
		embeddingMetrics observability.EmbeddingMetrics
	)
	if metrics != nil {
		hubMetrics = metrics.Hub
		cacheMetrics = metrics.Cache
		embeddingMetrics = metrics.Embeddings
	}

	embeddingClient, err := newEmbeddingClient(cfg)
	if err != nil {
		return nil, err
	}

	articlesRepo := repository.NewArticlesRepository(db)
	ticketsRepo := repository.NewTicketsRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	impressionsRepo := repository.NewImpressionsRepository(db)
	gapReportsRepo := repository.NewGapReportsRepository(db)
	alertsRepo := repository.NewAlertsRepository(db)

	// Remote providers compute article embeddings through River jobs so a slow
	// or flaky provider never blocks article writes. The local provider is cheap
	// and deterministic; it embeds inline and River stays off.
	var riverClient *river.Client[pgx.Tx]

	remoteEmbeddings := cfg.EmbeddingProvider == embeddingProviderOpenAI
	if remoteEmbeddings {
		embeddingWorker := workers.NewArticleEmbeddingWorker(articlesRepo, embeddingClient, embeddingMetrics)
		riverWorkers := river.NewWorkers()
		river.AddWorker(riverWorkers, embeddingWorker)

		riverClient, err = river.NewClient(riverpgxv5.New(db), &river.Config{
			Queues: map[string]river.QueueConfig{
				service.EmbeddingsQueueName: {MaxWorkers: cfg.EmbeddingMaxConcurrent},
			},
			Workers: riverWorkers,
		})
		if err != nil {
			return nil, fmt.Errorf("create River client: %w", err)
		}

		slog.Info("remote embeddings enabled",
			"provider", cfg.EmbeddingProvider,
			"model", cfg.EmbeddingModel,
			"max_concurrent", cfg.EmbeddingMaxConcurrent,
		)
	}

	queryCache, err := lru.New[string, []float32](queryCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create query embedding cache: %w", err)
	}

	classifier := intent.NewRuleClassifier()

	recommendService := service.NewRecommendService(service.RecommendServiceParams{
		Articles:        articlesRepo,
		Impressions:     impressionsRepo,
		EmbeddingClient: embeddingClient,
		QueryCache:      queryCache,
		CacheMetrics:    cacheMetrics,
		HubMetrics:      hubMetrics,
		Logger:          slog.Default(),
	})

	var inserter service.ArticleEmbeddingInserter
	if riverClient != nil {
		inserter = riverClient
	}

	knowledgeService := service.NewKnowledgeService(service.KnowledgeServiceParams{
		Repo:            articlesRepo,
		Classifier:      classifier,
		EmbeddingClient: embeddingClient,
		Inserter:        inserter,
		QueueName:       service.EmbeddingsQueueName,
		MaxAttempts:     cfg.EmbeddingMaxAttempts,
		Metrics:         embeddingMetrics,
	})

	ticketService := service.NewTicketService(ticketsRepo, classifier, recommendService)

	var sink service.NotificationSink
	if cfg.SlackWebhookURL != "" {
		sink = service.NewSlackSender(cfg.SlackWebhookURL)
	} else {
		slog.Info("alert delivery disabled (SLACK_WEBHOOK_URL not set); alerts stay queued")
	}

	alertsService := service.NewAlertsService(alertsRepo, sink, hubMetrics, slog.Default())

	thresholds := alerting.Thresholds{
		MinCoveragePercent: cfg.MinCoveragePercent,
		LowCTRPercent:      cfg.LowCTRPercent,
		MinAccuracyPercent: cfg.MinAccuracyPercent,
	}

	feedbackService := service.NewFeedbackService(feedbackRepo, alertsService, thresholds)
	evaluationService := service.NewEvaluationService(recommendService, slog.Default())

	analysisService := service.NewAnalysisService(service.AnalysisServiceParams{
		Articles:    articlesRepo,
		Tickets:     ticketsRepo,
		Feedback:    feedbackRepo,
		Impressions: impressionsRepo,
		Reports:     gapReportsRepo,
		Alerts:      alertsService,
		Thresholds:  thresholds,
		Metrics:     hubMetrics,
		Logger:      slog.Default(),
	})

	scheduler := worker.NewGapScheduler(analysisService, alertsService, cfg.GapAnalysisInterval)

	server := newHTTPServer(cfg, serverHandlers{
		health:     handlers.NewHealthHandler(),
		tickets:    handlers.NewTicketsHandler(ticketService),
		knowledge:  handlers.NewKnowledgeHandler(knowledgeService),
		predict:    handlers.NewPredictHandler(recommendService),
		feedback:   handlers.NewFeedbackHandler(feedbackService),
		analytics:  handlers.NewAnalyticsHandler(analysisService),
		alerts:     handlers.NewAlertsHandler(alertsService),
		evaluation: handlers.NewEvaluationHandler(feedbackService, evaluationService),
	}, metricsHandler, hubMetrics)

	return &App{
		cfg:           cfg,
		db:            db,
		server:        server,
		river:         riverClient,
		scheduler:     scheduler,
		meterProvider: meterProvider,
	}, nil
}

// serverHandlers groups the HTTP handlers wired into the mux.
type serverHandlers struct {
	health     *handlers.HealthHandler
	tickets    *handlers.TicketsHandler
	knowledge  *handlers.KnowledgeHandler
	predict    *handlers.PredictHandler
	feedback   *handlers.FeedbackHandler
	analytics  *handlers.AnalyticsHandler
	alerts     *handlers.AlertsHandler
	evaluation *handlers.EvaluationHandler
}

// newHTTPServer builds the HTTP server and muxes (no auth on /health and
// /metrics, API key on /v1/). Handler chain, outermost first:
// RequestID -> Metrics -> Logging -> MaxBody, then Auth on the /v1/ subtree.
func newHTTPServer(
	cfg *config.Config,
	h serverHandlers,
	metricsHandler http.Handler,
	hubMetrics observability.HubMetrics,
) *http.Server {
	public := http.NewServeMux()
	public.HandleFunc("GET /health", h.health.Check)

	if metricsHandler != nil {
		public.Handle("GET /metrics", metricsHandler)
	}

	protected := http.NewServeMux()
	protected.HandleFunc("POST /v1/tickets", h.tickets.Create)
	protected.HandleFunc("GET /v1/tickets", h.tickets.List)
	protected.HandleFunc("PATCH /v1/tickets/{id}", h.tickets.UpdateStatus)

	protected.HandleFunc("POST /v1/articles", h.knowledge.Create)
	protected.HandleFunc("GET /v1/articles", h.knowledge.List)
	protected.HandleFunc("GET /v1/articles/{id}", h.knowledge.Get)
	protected.HandleFunc("PATCH /v1/articles/{id}", h.knowledge.UpdateContent)

	protected.HandleFunc("POST /v1/predict", h.predict.Predict)

	protected.HandleFunc("POST /v1/feedback", h.feedback.Submit)
	protected.HandleFunc("GET /v1/feedback", h.feedback.List)

	protected.HandleFunc("GET /v1/analytics/summary", h.analytics.Summary)
	protected.HandleFunc("POST /v1/analytics/run", h.analytics.Run)

	protected.HandleFunc("GET /v1/alerts", h.alerts.List)
	protected.HandleFunc("POST /v1/alerts", h.alerts.Trigger)
	protected.HandleFunc("POST /v1/alerts/delete", h.alerts.Delete)
	protected.HandleFunc("POST /v1/alerts/flush", h.alerts.Flush)

	protected.HandleFunc("POST /v1/evaluation/feedback", h.evaluation.Feedback)
	protected.HandleFunc("POST /v1/evaluation/dataset", h.evaluation.Dataset)

	protectedWithAuth := middleware.Auth(cfg.APIKey)(protected)
	mux := http.NewServeMux()
	mux.Handle("/v1/", protectedWithAuth)
	mux.Handle("/", public)

	var handler http.Handler = mux
	handler = middleware.MaxBody(cfg.MaxRequestBodyBytes, nil)(handler)
	handler = middleware.Logging(handler)
	handler = middleware.Metrics(hubMetrics)(handler)
	handler = middleware.RequestID(handler)

	const (
		readTimeout  = 15 * time.Second
		writeTimeout = 15 * time.Second
		idleTimeout  = 60 * time.Second
	)

	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
}

// Run starts the HTTP server, River (when remote embeddings are configured),
// and the gap-analysis scheduler, then blocks until ctx is cancelled (e.g.
// signal) or a component fails. Caller should then call Shutdown.
func (a *App) Run(ctx context.Context) error {
	runErr := make(chan error, 1)

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	if a.river != nil {
		go func() {
			if err := a.river.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
				select {
				case runErr <- fmt.Errorf("river: %w", err):
				default:
				}
			}
		}()
	}

	go a.scheduler.Start(workerCtx)

	go func() {
		slog.Info("Starting server", "port", a.cfg.Port)

		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case runErr <- fmt.Errorf("server: %w", err):
			default:
			}
		}
	}()

	select {
	case err := <-runErr:
		cancelWorkers()

		return err
	case <-ctx.Done():
		cancelWorkers()

		return nil
	}
}

// Shutdown stops the server and River in order. Call after Run returns.
// The meter provider is shut down last; its error is returned only when
// everything else shut down cleanly.
func (a *App) Shutdown(ctx context.Context) (err error) {
	defer func() {
		if a.meterProvider == nil {
			return
		}

		obsErr := a.meterProvider.Shutdown(ctx)
		if err == nil {
			err = obsErr
		} else if obsErr != nil {
			slog.Error("shutdown meter provider", "error", obsErr)
		}
	}()

	if err = a.server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		if a.river != nil {
			if stopErr := a.river.Stop(ctx); stopErr != nil {
				slog.Error("river stop during server shutdown", "error", stopErr)
			}
		}

		return fmt.Errorf("server shutdown: %w", err)
	}

	if a.river != nil {
		if err = a.river.Stop(ctx); err != nil {
			return fmt.Errorf("river stop: %w", err)
		}
	}

	return nil
}
