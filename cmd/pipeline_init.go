package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/customer-pipeline/internal/enrich"
	"github.com/sells-group/customer-pipeline/internal/export"
	"github.com/sells-group/customer-pipeline/internal/pipeline"
	"github.com/sells-group/customer-pipeline/internal/store"
	"github.com/sells-group/customer-pipeline/pkg/reqres"
)

// pipelineEnv holds the initialized store, client, and pipeline needed by
// the run/serve commands.
type pipelineEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "customer-pipeline.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initPipeline sets up the store and API client and builds the Pipeline.
// Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	client := reqres.NewClient(cfg.API.Key,
		reqres.WithBaseURL(cfg.API.BaseURL),
		reqres.WithMaxRetries(cfg.API.MaxRetries),
		reqres.WithPageRate(rate.Limit(cfg.API.PageRate)),
		reqres.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.API.TimeoutSecs) * time.Second}),
	)

	p := pipeline.New(cfg, st, client, enrich.New(cfg.Enrich.Seed), export.New())

	return &pipelineEnv{
		Store:    st,
		Pipeline: p,
	}, nil
}
