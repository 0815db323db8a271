package main

import (
	"context"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/metascope/go-file-inspect/internal/config"
	"github.com/metascope/go-file-inspect/internal/extractor"
	"github.com/metascope/go-file-inspect/internal/logger"
	"github.com/metascope/go-file-inspect/internal/report"
	"github.com/metascope/go-file-inspect/internal/server"
	"github.com/metascope/go-file-inspect/internal/types"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "file-inspect [files...]",
		Short: "Inspect files and produce structured metadata reports",
		Long: `Inspects arbitrary files and produces a structured metadata report:
magic-byte signature, Shannon entropy, cryptographic digests, an encryption
heuristic, and format-specific fields for images, audio/video, PDF
documents, plain text, and ZIP archives.`,
		Args:             cobra.MinimumNArgs(1),
		PersistentPreRun: setupLogging,
		RunE:             runInspect,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose debugging output")
	rootCmd.PersistentFlags().String("log-encoding", "console", "log encoding: console or json")

	rootCmd.Flags().StringP("output", "o", "", "write the JSON report to a file instead of stdout")
	rootCmd.Flags().StringP("mime", "m", "", "override the declared MIME type for every input")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP inspection server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Errorf("error executing command: %v", err)
		os.Exit(1)
	}
}

// setupLogging configures the logger based on command line flags.
func setupLogging(cmd *cobra.Command, args []string) {
	encoding, _ := cmd.Flags().GetString("log-encoding")
	level := "info"
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	if err := logger.Initialize(level, encoding); err != nil {
		logger.Errorf("failed to configure logging: %v", err)
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	mimeOverride, _ := cmd.Flags().GetString("mime")

	engine := extractor.NewEngine()
	rep := report.New()

	for _, path := range args {
		handle, err := loadFile(path, mimeOverride)
		if err != nil {
			logger.Errorf("cannot read %s: %v", path, err)
			rep.AddError()
			continue
		}

		record, err := engine.Extract(cmd.Context(), handle)
		if err != nil {
			logger.Errorf("extraction failed for %s: %v", path, err)
			rep.AddError()
			continue
		}
		rep.Add(record)
	}

	if output != "" {
		return rep.Save(output)
	}
	return rep.WriteTo(os.Stdout)
}

// loadFile reads the file into a FileHandle. MIME type comes from the
// extension first, then content sniffing, unless overridden.
func loadFile(path string, mimeOverride string) (*types.FileHandle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	mimeType := mimeOverride
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(path))
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	handle := &types.FileHandle{
		Name:     filepath.Base(path),
		MIMEType: mimeType,
		Size:     int64(len(data)),
		Data:     data,
	}
	if info, err := os.Stat(path); err == nil {
		handle.LastModified = info.ModTime()
	}
	return handle, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Initialize(cfg.App.LogLevel, cfg.App.LogEncoding); err != nil {
		return err
	}
	defer logger.Sync()

	engine := extractor.NewEngine()
	handler := server.NewHandler(engine, cfg.HTTP)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("inspection server listening on %s", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-signalChan:
		logger.Infof("received signal %v, shutting down gracefully...", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
