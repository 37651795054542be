package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/boutique-lumiere/curator/internal/config"
	"github.com/boutique-lumiere/curator/internal/handlers"
	"github.com/boutique-lumiere/curator/internal/storage"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a read-only preview of the catalog",
		Long: `Starts a read-only JSON API over the catalog files for review before a
push. The files are reloaded whenever an import or clean rewrites them.

  GET /api/products?category=&subcategory=
  GET /api/products/<id>
  GET /api/check
  GET /images/products/<id>.jpg`,
		Example: `  # Start server on default port 8888
  curator serve

  # Start server on custom port
  curator serve --port 3000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := handlers.New(storage.New(a.store()), a.merger(), a.classifier(config.Source{}))

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/products", handler.HandleProducts)
			mux.HandleFunc("/api/products/", handler.HandleProductDetail)
			mux.HandleFunc("/api/check", handler.HandleCheck)
			imagePath := a.cfg.ImagePath + "/"
			mux.Handle(imagePath, http.StripPrefix(imagePath, http.FileServer(http.Dir(a.cfg.ImagesDir))))
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Catalog preview available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")

	return cmd
}
