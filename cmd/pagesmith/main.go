// Package main is the entry point for the PageSmith server. It loads
// configuration, connects to services, sets up routing, and starts the
// HTTP server (or the MCP server on stdio) with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pagesmith/internal/ai"
	"pagesmith/internal/cache"
	"pagesmith/internal/config"
	"pagesmith/internal/document"
	"pagesmith/internal/generate"
	"pagesmith/internal/handlers"
	"pagesmith/internal/kvstore"
	"pagesmith/internal/mcpserver"
	"pagesmith/internal/middleware"
	"pagesmith/internal/models"
	"pagesmith/internal/publish"
	"pagesmith/internal/router"
	"pagesmith/internal/secret"
	"pagesmith/internal/session"
	"pagesmith/internal/storage"
	"pagesmith/internal/store"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	mcpMode := flag.Bool("mcp", false, "serve the Model Context Protocol on stdin/stdout instead of HTTP")
	flag.Parse()

	// stdout carries the protocol in MCP mode.
	var out io.Writer = os.Stdout
	if *mcpMode {
		out = os.Stderr
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"storage", cfg.StorageBackend,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Valkey backs sessions and the published HTML cache. It is optional
	// unless it is also the storage backend.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
	if err != nil {
		if cfg.NeedsValkey() {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		slog.Warn("valkey unavailable, using in-memory sessions and no page cache", "error", err)
		valkeyClient = nil
	}
	if valkeyClient != nil {
		defer valkeyClient.Close()
	}

	kv, err := kvstore.Open(ctx, kvstore.Options{
		Backend:     cfg.StorageBackend,
		DataDir:     cfg.DataDir,
		PostgresDSN: cfg.DSN(),
		MySQLDSN:    cfg.MySQLDSN,
		Valkey:      valkeyClient,
		MongoURI:    cfg.MongoURI,
		MongoDB:     cfg.MongoDB,
	})
	if err != nil {
		slog.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer kv.Close()

	sealer, err := secret.NewSealer(cfg.SecretKey)
	if err != nil {
		slog.Error("failed to initialize secret sealer", "error", err)
		os.Exit(1)
	}

	pageStore := store.NewPageStore(kv)
	settingStore := store.NewSettingStore(kv)
	apiKeyStore := store.NewAPIKeyStore(kv, sealer)
	publishedStore := store.NewPublishedStore(kv)

	doc := document.New(document.Options{Repository: pageStore})
	if err := doc.Restore(ctx); err != nil {
		slog.Error("failed to restore pages", "error", err)
		os.Exit(1)
	}
	slog.Info("pages restored", "count", len(doc.Pages()))

	appSettings, err := settingStore.App(ctx)
	if err != nil {
		slog.Error("failed to read settings", "error", err)
		os.Exit(1)
	}

	registry := newRegistry(ctx, cfg, apiKeyStore, appSettings)
	generator := generate.New(registry)

	if *mcpMode {
		srv := mcpserver.New(mcpserver.Deps{Document: doc, Generator: generator, Version: version})
		if err := srv.ServeStdio(); err != nil {
			slog.Error("mcp server error", "error", err)
		}
		flushOnExit(doc)
		return
	}

	interval := time.Duration(appSettings.AutosaveSeconds) * time.Second
	if cfg.AutosaveInterval > 0 {
		interval = cfg.AutosaveInterval
	}
	autosaver, err := document.NewAutosaver(doc, interval)
	if err != nil {
		slog.Error("failed to schedule autosave", "error", err)
		os.Exit(1)
	}
	autosaver.Start()
	slog.Info("autosave scheduled", "interval", interval)

	if fs, ok := kv.(*kvstore.FileStore); ok {
		watchPages(ctx, fs, doc)
	}

	pubOpts := publish.Options{Pages: doc, Registry: publishedStore, Sticky: settingStore}
	if cfg.StorageConfigured() {
		objects, err := storage.New(storage.Config{
			Endpoint:      cfg.S3Endpoint,
			Region:        cfg.S3Region,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBucket:  cfg.S3BucketPublic,
			PrivateBucket: cfg.S3BucketPrivate,
			PublicURL:     cfg.S3PublicURL,
		})
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		pubOpts.Objects = objects
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "public_bucket", cfg.S3BucketPublic)
	} else {
		slog.Warn("s3 storage not configured, publishing serves pages locally only")
	}

	var sessions *session.Store
	if valkeyClient != nil {
		pubOpts.Cache = cache.NewHTMLCache(valkeyClient, cache.DefaultHTMLTTL)
		sessions = session.NewStore(valkeyClient)
	} else {
		sessions = session.NewMemoryStore()
	}
	secureCookies := !cfg.IsDev()
	sessions.SetSecure(secureCookies)
	publisher := publish.New(pubOpts)

	auth := handlers.NewAuth(sessions, cfg.EditorPasswordHash, cfg.EditorTOTPSecret)
	if !auth.Enabled() {
		slog.Warn("EDITOR_PASSWORD_HASH not set, the editor API is open")
	}

	var attempts middleware.AttemptCounter = middleware.NewMemoryAttempts()
	if valkeyClient != nil {
		attempts = middleware.NewValkeyAttempts(valkeyClient)
	}
	loginLimiter := middleware.NewLoginLimiter(attempts, 5, time.Minute)

	r := router.New(router.Deps{
		Sessions: sessions,
		Editor: handlers.NewEditor(handlers.EditorDeps{
			Document:  doc,
			Generator: generator,
			Registry:  registry,
			Publisher: publisher,
			Settings:  settingStore,
			APIKeys:   apiKeyStore,
			Published: publishedStore,
		}),
		Auth:         auth,
		Public:       handlers.NewPublic(publisher),
		LoginLimiter: loginLimiter,
		Secure:       secureCookies,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second, // page generation runs one request per section
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	if err := autosaver.Stop(shutdownCtx); err != nil {
		slog.Error("final save failed", "error", err)
	}

	slog.Info("server stopped")
}

// newRegistry builds the AI provider registry from the environment, then
// applies the API key and provider chosen in the editor settings.
func newRegistry(ctx context.Context, cfg *config.Config, keys *store.APIKeyStore, settings models.AppSettings) *ai.Registry {
	provider := func(p config.Provider) ai.ProviderConfig {
		return ai.ProviderConfig{APIKey: p.APIKey, Model: p.Model, ModelImage: p.ImageModel, BaseURL: p.BaseURL}
	}
	active := cfg.AIProvider
	if settings.ActiveAIProvider != "" {
		active = settings.ActiveAIProvider
	}
	registry := ai.NewRegistry(active, map[string]ai.ProviderConfig{
		"openai":  provider(cfg.OpenAI),
		"gemini":  provider(cfg.Gemini),
		"claude":  provider(cfg.Claude),
		"mistral": provider(cfg.Mistral),
	})

	stored, err := keys.Get(ctx)
	switch {
	case err != nil:
		slog.Warn("stored API key unreadable, ignoring it", "error", err)
	case stored != "":
		if err := registry.Configure(active, stored); err != nil {
			slog.Warn("stored API key not applied", "provider", active, "error", err)
		}
	}

	slog.Info("ai providers initialized",
		"active", registry.ActiveName(),
		"available", registry.Available(),
	)
	return registry
}

// watchPages reloads the page collection when another process rewrites the
// pages file, unless this process has unsaved changes or an open page.
func watchPages(ctx context.Context, fs *kvstore.FileStore, doc *document.Store) {
	err := fs.Watch(ctx, func(key string) {
		if key != store.KeyPages {
			return
		}
		reloaded, err := doc.RestoreIfIdle(ctx)
		if err != nil {
			slog.Error("reload pages failed", "error", err)
			return
		}
		if !reloaded {
			slog.Warn("pages changed on disk while a page is being edited, keeping local state")
			return
		}
		slog.Info("pages reloaded from disk", "count", len(doc.Pages()))
	})
	if err != nil {
		slog.Warn("file watch unavailable", "error", err)
	}
}

func flushOnExit(doc *document.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := doc.Flush(ctx); err != nil {
		slog.Error("final save failed", "error", err)
	}
}
