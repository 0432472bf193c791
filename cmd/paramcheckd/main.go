// Command paramcheckd serves a small users and projects API whose endpoints
// are guarded and documented by paramcheck.
//
// Run:
//
//	go run ./cmd/paramcheckd -config paramcheckd.yaml
//
// The document is served under the configured docs path as openapi.json,
// openapi.yaml and swagger.json. Use -export json or -export yaml to print
// it and exit.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"

	"github.com/Gobd/paramcheck"
	"github.com/Gobd/paramcheck/internal/config"
	"github.com/Gobd/paramcheck/openapi"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	export := flag.String("export", "", "print the API document as json or yaml and exit")
	flag.Parse()

	if err := run(*configPath, *export); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, export string) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}

	logger := newLogger(cfg.LogLevel)
	a := newApp(newStore(), paramcheck.NewSlogAdapter(logger), cfg.MaxBodyBytes)
	doc := newDoc(cfg, a)

	switch export {
	case "":
	case "json", "yaml":
		return writeDoc(doc, export)
	default:
		return fmt.Errorf("unknown export format %q", export)
	}

	r := chi.NewRouter()
	a.routes(r)
	r.Handle(cfg.Docs.Path+"/*", http.StripPrefix(cfg.Docs.Path, openapi.SpecHandler(doc)))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "docs", cfg.Docs.Path+"/openapi.json")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func newDoc(cfg *config.Config, a *app) *openapi3.T {
	var opts []openapi.DocOption
	for _, s := range cfg.Docs.Servers {
		opts = append(opts, openapi.WithServer(s, ""))
	}
	for _, s := range cfg.Docs.Security {
		switch strings.ToLower(s) {
		case "basic":
			opts = append(opts, openapi.WithBasicAuth())
		case "apikey":
			opts = append(opts, openapi.WithAPIKey(cfg.Docs.APIKeyHeader))
		}
	}
	doc := openapi.DocBase(cfg.Docs.Title, cfg.Docs.Description, cfg.Docs.Version, opts...)
	a.document(doc)
	return doc
}

func writeDoc(doc *openapi3.T, format string) error {
	var (
		b   []byte
		err error
	)
	if format == "yaml" {
		b, err = openapi.YAML(doc)
	} else {
		b, err = openapi.JSON(doc)
	}
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(b, '\n'))
	return err
}
