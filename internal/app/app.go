package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"timebridge/internal/adapter/credstore"
	"timebridge/internal/adapter/timeservice"
	"timebridge/internal/adapter/workitem"
	"timebridge/internal/config"
	"timebridge/internal/domain"
	"timebridge/internal/migrate"
	"timebridge/internal/ports"
	"timebridge/internal/usecase"
)

// App wires adapters and use cases.
type App struct {
	log    *slog.Logger
	cfg    config.Config
	creds  ports.CredentialStore
	fields ports.FieldBridge

	localStore  *credstore.SQLite
	remoteStore *credstore.MySQL
}

func New(log *slog.Logger, cfg config.Config) (*App, error) {
	localPath := cfg.Credentials.SQLitePath
	if localPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}
		localPath = filepath.Join(home, ".timebridge", "credentials.db")
	}
	local, err := credstore.OpenSQLite(localPath, cfg.Credentials.Key)
	if err != nil {
		return nil, err
	}

	a := &App{
		log:        log,
		cfg:        cfg,
		localStore: local,
		fields: workitem.NewClient(workitem.Config{
			BaseURL:       cfg.WorkItem.BaseURL,
			APIToken:      cfg.WorkItem.APIToken,
			TicketIDField: cfg.WorkItem.TicketIDField,
			DurationField: cfg.WorkItem.DurationField,
		}, log),
	}

	layered := &credstore.Layered{Local: local, Log: log}
	if dsn := cfg.Credentials.MySQLDSN; dsn != "" {
		// Remote store schema is managed here so the store itself stays a
		// plain reader/writer.
		if err := migrate.Run(context.Background(), dsn, log); err != nil {
			local.Close()
			return nil, err
		}
		remote, err := credstore.NewMySQL(context.Background(), dsn, cfg.Credentials.Key, log)
		if err != nil {
			local.Close()
			return nil, err
		}
		a.remoteStore = remote
		layered.Remote = remote
	}
	a.creds = layered

	return a, nil
}

// Credentials exposes the layered store for the creds commands.
func (a *App) Credentials() ports.CredentialStore { return a.creds }

// RunOnce performs one full integration run for a work item: read ticket
// ids, aggregate, write the total back.
func (a *App) RunOnce(ctx context.Context, workItemID string, f domain.Filter, opts usecase.AggregateOptions) (*domain.TimeEntrySummary, error) {
	agg, err := a.aggregator(ctx)
	if err != nil {
		return nil, err
	}
	uc := &usecase.SyncUseCase{Log: a.log, Fields: a.fields, Agg: agg}
	return uc.Run(ctx, workItemID, f, opts)
}

// AggregateForWorkItem computes a summary without writing anything back.
// Used by the report command.
func (a *App) AggregateForWorkItem(ctx context.Context, workItemID string, f domain.Filter, opts usecase.AggregateOptions) (*domain.TimeEntrySummary, error) {
	agg, err := a.aggregator(ctx)
	if err != nil {
		return nil, err
	}
	ids, err := a.fields.ReadTicketIDs(ctx, workItemID)
	if err != nil {
		return nil, err
	}
	return agg.Aggregate(ctx, ids, f, opts)
}

// ValidateFields checks the configured custom fields on a work item.
func (a *App) ValidateFields(ctx context.Context, workItemID string) domain.FieldPresence {
	return a.fields.ValidateFields(ctx, workItemID)
}

// aggregator builds the per-run aggregation engine. Credentials are read
// once here and not re-read mid-run.
func (a *App) aggregator(ctx context.Context) (*usecase.Aggregator, error) {
	creds, err := a.loadCredentials(ctx)
	if err != nil {
		return nil, err
	}
	ts := timeservice.NewClient(creds, a.log)
	return &usecase.Aggregator{Log: a.log, Time: ts}, nil
}

// loadCredentials prefers the store and falls back to the config file's
// time_service section for fresh installs.
func (a *App) loadCredentials(ctx context.Context) (domain.Credentials, error) {
	c, err := a.creds.Load(ctx)
	if err == nil && c.Valid() {
		return c, nil
	}
	seed := domain.Credentials{
		APIKey:   a.cfg.TimeService.APIKey,
		BaseURL:  a.cfg.TimeService.BaseURL,
		UseProxy: a.cfg.TimeService.UseProxy,
		ProxyURL: a.cfg.TimeService.ProxyURL,
	}
	if seed.Valid() {
		return seed, nil
	}
	return domain.Credentials{}, domain.NewError(domain.ErrConfig,
		"no usable credentials: save them with `timebridge creds set` or fill the time_service section of the config")
}

func (a *App) Close() error {
	if a.remoteStore != nil {
		_ = a.remoteStore.Close()
	}
	return a.localStore.Close()
}
