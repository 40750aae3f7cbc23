package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/kieli-lang/kieli/internal/lsp"
	"github.com/kieli-lang/kieli/internal/lspweb"
)

var (
	serveHTTPAddr string
	serveJWTSecret string
	serveTokenTTL  time.Duration
)

func init() {
	serveCmd.Flags().StringVar(&serveHTTPAddr, "http", "", "Serve the language server over WebSocket at this address instead of stdio (e.g. :4389)")
	serveCmd.Flags().StringVar(&serveJWTSecret, "jwt-secret", "", "Require bearer-token auth on the /lsp upgrade endpoint, signed with this secret")
	serveCmd.Flags().DurationVar(&serveTokenTTL, "token-ttl", time.Hour, "Lifetime of tokens minted for --jwt-secret")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the kieli language server",
	Long: `Run the kieli language server over stdio (the default, for an editor's
LSP client to launch as a subprocess) or, with --http, over WebSocket for
browser-based or remote clients.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		if serveHTTPAddr == "" {
			return lsp.NewServer().Run(ctx)
		}
		return serveHTTP(ctx)
	},
}

func serveHTTP(ctx context.Context) error {
	var auth *lspweb.AuthService
	if serveJWTSecret != "" {
		auth = lspweb.NewAuthService(serveJWTSecret, serveTokenTTL)
	}

	srv := lspweb.New(auth)
	httpServer := &http.Server{Addr: serveHTTPAddr, Handler: srv}

	errc := make(chan error, 1)
	go func() {
		fmt.Printf("kieli language server listening on %s\n", serveHTTPAddr)
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
