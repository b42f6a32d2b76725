package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billinginadapter "dawn/internal/modules/billing/adapter/in"
	billingoutadapter "dawn/internal/modules/billing/adapter/out"
	billingservice "dawn/internal/modules/billing/service"
	billingusecase "dawn/internal/modules/billing/usecase"
	protocolinadapter "dawn/internal/modules/protocol/adapter/in"
	protocolusecase "dawn/internal/modules/protocol/usecase"
	sessioninadapter "dawn/internal/modules/session/adapter/in"
	sessionoutadapter "dawn/internal/modules/session/adapter/out"
	sessionout "dawn/internal/modules/session/port/out"
	sessionservice "dawn/internal/modules/session/service"
	sessionusecase "dawn/internal/modules/session/usecase"
	"dawn/internal/platform/clock"
	"dawn/internal/platform/config"
	"dawn/internal/platform/httpserver"
	"dawn/internal/platform/id"
	"dawn/internal/platform/metrics"
	"dawn/internal/platform/sqlitedb"
	"dawn/internal/platform/tx"
	uiapp "dawn/internal/ui/app"
)

type App struct {
	Config   config.Config
	Logger   *zap.Logger
	Metrics  *metrics.Recorder
	OwnerID  string
	DeviceID string

	SessionCLI  sessioninadapter.CLIHandler
	ProtocolCLI protocolinadapter.CLIHandler
	BillingCLI  billinginadapter.CLIHandler

	SessionHTTP  sessioninadapter.HTTPHandler
	ProtocolHTTP protocolinadapter.HTTPHandler
	BillingHTTP  billinginadapter.HTTPHandler

	db *sql.DB
}

func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	clk := clock.SystemClock{}
	ids := id.UUID{}
	recorder := metrics.New()

	deviceID, err := sessionoutadapter.NewFileDeviceIdentity(cfg.DataDir).DeviceID(ctx)
	if err != nil {
		return nil, fmt.Errorf("device identity: %w", err)
	}
	ownerID := cfg.OwnerID
	if ownerID == "" {
		ownerID = deviceID
	}

	// Subscriptions always live in SQLite; the storage driver only picks
	// where sessions go.
	db, err := sqlitedb.Open(cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	app := &App{Config: cfg, Logger: logger, Metrics: recorder, OwnerID: ownerID, DeviceID: deviceID, db: db}

	subscriptions, err := billingoutadapter.NewSQLiteSubscriptionStore(ctx, db)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("new subscription store: %w", err)
	}
	billingUC := billingusecase.NewInteractor(
		subscriptions,
		billingservice.NewPlanResolver(cfg.Billing.PlusPriceID, cfg.Billing.ProPriceID),
		clk,
		logger.Named("billing"),
	)

	var (
		repo sessionout.SessionRepository
		txm  tx.Manager
	)
	switch cfg.Storage.Driver {
	case "file":
		repo = sessionoutadapter.NewFileSessionRepository(cfg.Storage.FilePath)
		txm = tx.NoopManager{}
	default:
		repo, err = sessionoutadapter.NewSQLiteSessionRepository(ctx, db)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("new session repository: %w", err)
		}
		txm = sqlitedb.NewTxManager(db)
	}

	var journal sessionout.JournalExporter
	if cfg.Storage.JournalDir != "" {
		journal = sessionoutadapter.NewVaultJournalExporter(cfg.Storage.JournalDir)
	}

	protocolUC := protocolusecase.NewInteractor()
	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(clk, ids),
		repo,
		protocolUC,
		billingUC,
		journal,
		txm,
		sessionusecase.Policy{
			FreeFullSessions: cfg.Trial.FreeFullSessions,
			ProgramDays:      cfg.Trial.ProgramDays,
			HistoryWindow:    cfg.Adaptation.HistoryWindow,
		},
		recorder,
		logger.Named("session"),
	)

	app.SessionCLI = sessioninadapter.NewCLIHandler(sessionUC)
	app.ProtocolCLI = protocolinadapter.NewCLIHandler(protocolUC)
	app.BillingCLI = billinginadapter.NewCLIHandler(billingUC)
	app.SessionHTTP = sessioninadapter.NewHTTPHandler(sessionUC)
	app.ProtocolHTTP = protocolinadapter.NewHTTPHandler(protocolUC)
	app.BillingHTTP = billinginadapter.NewHTTPHandler(billingUC)

	logger.Debug("app wired",
		zap.String("driver", cfg.Storage.Driver),
		zap.String("owner_id", ownerID),
		zap.Bool("journal", journal != nil),
	)
	return app, nil
}

// Router builds the JSON API.
func (a *App) Router() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), httpserver.RequestLogger(a.Logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(a.Metrics.Handler()))

	api := r.Group("/api", httpserver.Identity(a.OwnerID))
	a.SessionHTTP.Register(api)
	a.ProtocolHTTP.Register(api)
	a.BillingHTTP.Register(api)
	return r
}

// Serve runs the API until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	timeout := time.Duration(a.Config.HTTP.ShutdownTimeoutSeconds) * time.Second
	return httpserver.Run(ctx, a.Config.HTTP.Addr, a.Router(), timeout, a.Logger)
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.OwnerID, app.DeviceID, app.SessionCLI, app.ProtocolCLI, app.BillingCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
