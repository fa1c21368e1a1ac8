package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/easelhq/easel/config"
	"github.com/easelhq/easel/server/handler/assets"
	"github.com/easelhq/easel/server/middleware"
	"github.com/easelhq/easel/server/state"
	"github.com/easelhq/easel/storage/catalog"
	catalogfactory "github.com/easelhq/easel/storage/catalog/factory"
	"github.com/easelhq/easel/storage/media"
	mediafactory "github.com/easelhq/easel/storage/media/factory"
)

func initializeCatalogStore(cfg *config.Catalog) (catalog.Store, error) {
	store, err := catalogfactory.Create(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not initialize catalog store: %w", err)
	}

	return store, nil
}

func initializeMediaStore(cfg *config.Media) (media.Store, error) {
	store, err := mediafactory.Create(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not initialize media store: %w", err)
	}

	return store, nil
}

// cleanup releases store resources that outlive individual requests.
func cleanup(st *state.EaselState) {
	if gs, ok := st.Catalog.(*catalog.GitCatalogStore); ok {
		if err := gs.Cleanup(); err != nil {
			log.Printf("catalog cleanup failed: %v", err)
		}
	}
}

// StartServer wires the configured stores into the HTTP mux and serves until
// the process receives SIGINT or SIGTERM, then shuts down gracefully.
func StartServer(cfg *config.Config) error {
	catalogStore, err := initializeCatalogStore(&cfg.Catalog)
	if err != nil {
		return err
	}

	mediaStore, err := initializeMediaStore(&cfg.Media)
	if err != nil {
		return err
	}

	st := &state.EaselState{Cfg: cfg, Catalog: catalogStore, Media: mediaStore}
	defer cleanup(st)

	mux := http.NewServeMux()
	mux.Handle("POST /assets", middleware.ValidateTokenMiddleware(cfg, assets.HandleAssetCreate(st)))
	mux.Handle("POST /assets/html", middleware.ValidateTokenMiddleware(cfg, assets.HandleHTMLIngest(st)))
	mux.Handle("GET /assets", middleware.ValidateTokenMiddleware(cfg, assets.HandleAssetList(st)))
	mux.Handle("GET /assets/{id}", middleware.ValidateTokenMiddleware(cfg, assets.HandleAssetGet(st)))
	mux.Handle("DELETE /assets/{id}", middleware.ValidateTokenMiddleware(cfg, assets.HandleAssetDelete(st)))

	bindAddress := fmt.Sprintf("%v:%v", cfg.Server.Address, cfg.Server.Port)
	srv := &http.Server{Addr: bindAddress, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("serving http requests on %q", bindAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("received %v, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}
