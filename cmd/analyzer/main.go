package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	appanalysis "github.com/bryanwahyu/stock-analyzer/internal/application/analysis"
	"github.com/bryanwahyu/stock-analyzer/internal/config"
	domai "github.com/bryanwahyu/stock-analyzer/internal/domain/ai"
	aiclient "github.com/bryanwahyu/stock-analyzer/internal/infra/ai/openai"
	"github.com/bryanwahyu/stock-analyzer/internal/infra/ai/prompt"
	mysqlp "github.com/bryanwahyu/stock-analyzer/internal/infra/db/mysql"
	pgp "github.com/bryanwahyu/stock-analyzer/internal/infra/db/postgres"
	minioStore "github.com/bryanwahyu/stock-analyzer/internal/infra/storage"
	"github.com/bryanwahyu/stock-analyzer/internal/logging"
)

// Exit codes per failure category.
const (
	exitUnexpected = 1
	exitConfig     = 2
	exitAuth       = 3
	exitAPI        = 4
	exitNetwork    = 5
	exitEmpty      = 6
)

func main() {
	os.Exit(run())
}

func run() int {
	// .env is optional, same as the environment it mirrors
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fail(err)
	}

	logging.Init(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	var clientOpts []aiclient.Option
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, aiclient.WithBaseURL(cfg.BaseURL))
	}

	svc := &appanalysis.Service{
		Client:     aiclient.NewClient(cfg.OpenAIAPIKey, clientOpts...),
		Clock:      appanalysis.SystemClock{},
		OutputPath: cfg.OutputPath,
	}

	// optional sinks from config.yaml; neither is required for a run
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}
	extras, err := config.LoadExtras(path)
	if err != nil {
		logrus.WithError(err).Warn("ignoring unreadable extras config")
	}

	if extras.HistoryEnabled() {
		switch extras.History.Driver {
		case "mysql":
			db, derr := mysqlp.Connect(ctx, extras.MySQLDSN())
			if derr != nil {
				logrus.WithError(derr).Warn("history disabled: mysql connect failed")
			} else {
				defer db.Close()
				svc.Repo = mysqlp.NewRunRepository(db)
			}
		case "postgres":
			db, derr := pgp.Connect(ctx, extras.PostgresDSN())
			if derr != nil {
				logrus.WithError(derr).Warn("history disabled: postgres connect failed")
			} else {
				defer db.Close()
				svc.Repo = pgp.NewRunRepository(db)
			}
		default:
			logrus.Warnf("history disabled: unknown driver %q", extras.History.Driver)
		}
	}

	if extras.StorageEnabled() {
		store, serr := minioStore.New(ctx,
			extras.Storage.Endpoint,
			extras.Storage.Region,
			extras.Storage.BucketName,
			extras.Storage.AccessKey,
			extras.Storage.SecretKey,
			extras.Storage.UseSSL,
		)
		if serr != nil {
			logrus.WithError(serr).Warn("storage disabled: minio init failed")
		} else {
			svc.Artifacts = store
		}
	}

	logrus.WithFields(logrus.Fields{
		"model":        cfg.Model,
		"symbol":       cfg.Symbol,
		"server_label": cfg.ServerLabel,
		"server_url":   cfg.ServerURL,
	}).Info("starting analysis")

	res, err := svc.Analyze(ctx, appanalysis.AnalyzeCommand{
		Model:         cfg.Model,
		Symbol:        cfg.Symbol,
		Window:        cfg.Window,
		Prompt:        prompt.Analysis(cfg.Symbol, cfg.Window),
		ServerLabel:   cfg.ServerLabel,
		ServerURL:     cfg.ServerURL,
		Authorization: cfg.Authorization,
	})
	if err != nil {
		return fail(err)
	}

	fmt.Println(res.Report)
	for _, p := range res.ArtifactPaths {
		logrus.WithField("path", p).Info("saved visualization")
	}
	if res.ArtifactURL != "" {
		logrus.WithField("url", res.ArtifactURL).Info("uploaded visualization")
	}

	if svc.Repo != nil {
		if latest, lerr := svc.Repo.Latest(ctx, 5); lerr == nil {
			logrus.WithField("recent_runs", len(latest)).Debug("run history")
		}
	}

	return 0
}

// fail prints a category diagnostic with a suggested remedy and picks the
// exit code. Every error surfaces here; nothing is swallowed.
func fail(err error) int {
	var missing *config.MissingKeyError
	var auth *domai.AuthenticationError
	var api *domai.APIError
	var network *domai.NetworkError

	switch {
	case errors.As(err, &missing):
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		fmt.Fprintln(os.Stderr, "set it in the environment or in a .env file next to the binary")
		return exitConfig
	case errors.As(err, &auth):
		fmt.Fprintf(os.Stderr, "authentication error: %v\n", err)
		fmt.Fprintln(os.Stderr, "check that the API key is valid and the account is still active")
		return exitAuth
	case errors.As(err, &api):
		fmt.Fprintf(os.Stderr, "api error: %v\n", err)
		fmt.Fprintln(os.Stderr, "possible causes: quota exhausted, rate limit, or a temporary service issue")
		return exitAPI
	case errors.As(err, &network):
		fmt.Fprintf(os.Stderr, "network error: %v\n", err)
		fmt.Fprintln(os.Stderr, "check the connection and the service status, then run again")
		return exitNetwork
	case errors.Is(err, domai.ErrEmptyResponse):
		fmt.Fprintf(os.Stderr, "empty response: %v\n", err)
		fmt.Fprintln(os.Stderr, "the model returned no usable content; run again or adjust the prompt")
		return exitEmpty
	default:
		fmt.Fprintf(os.Stderr, "unexpected error: %v\n", err)
		return exitUnexpected
	}
}
