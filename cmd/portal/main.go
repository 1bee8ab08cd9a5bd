package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	cartapp "github.com/dwikikusuma/distributor-portal/internal/cart/app"
	carthttp "github.com/dwikikusuma/distributor-portal/internal/cart/http"
	cartadapter "github.com/dwikikusuma/distributor-portal/internal/cart/infra/adapter"
	cartredis "github.com/dwikikusuma/distributor-portal/internal/cart/infra/redis"

	catalogapp "github.com/dwikikusuma/distributor-portal/internal/catalog/app"
	cataloghttp "github.com/dwikikusuma/distributor-portal/internal/catalog/http"
	catalogbackend "github.com/dwikikusuma/distributor-portal/internal/catalog/infra/backend"

	pricingapp "github.com/dwikikusuma/distributor-portal/internal/pricing/app"
	pricinghttp "github.com/dwikikusuma/distributor-portal/internal/pricing/http"
	pricingadapter "github.com/dwikikusuma/distributor-portal/internal/pricing/infra/adapter"

	orderapp "github.com/dwikikusuma/distributor-portal/internal/order/app"
	orderhttp "github.com/dwikikusuma/distributor-portal/internal/order/http"
	orderadapter "github.com/dwikikusuma/distributor-portal/internal/order/infra/adapter"
	orderbackend "github.com/dwikikusuma/distributor-portal/internal/order/infra/backend"

	"github.com/dwikikusuma/distributor-portal/pkg/backend"
	"github.com/dwikikusuma/distributor-portal/pkg/config"
	"github.com/dwikikusuma/distributor-portal/pkg/logger"
	"github.com/dwikikusuma/distributor-portal/pkg/redisdb"
	"github.com/dwikikusuma/distributor-portal/pkg/shutdown"
	"github.com/dwikikusuma/distributor-portal/pkg/telemetry"
)

const serviceName = "portal"

func main() {
	configPath := flag.String("config", os.Getenv("PORTAL_CONFIG"), "path to a config file (yaml, toml or json)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Service:   serviceName,
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	ctx, cancel := shutdown.WithSignals(context.Background(), log)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("portal stopped", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("bye")
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.Options{
		Service:      serviceName,
		Env:          cfg.AppEnv,
		Enabled:      cfg.Telemetry.Enabled,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			log.Warn("telemetry flush failed", slog.Any("err", err))
		}
	}()

	rdb, err := redisdb.Open(ctx, cfg.Redis.URL)
	if err != nil {
		return err
	}
	defer rdb.Close()

	taxRate, err := decimal.NewFromString(cfg.Pricing.TaxRate)
	if err != nil {
		return fmt.Errorf("pricing.tax_rate %q: %w", cfg.Pricing.TaxRate, err)
	}
	markup, err := decimal.NewFromString(cfg.Catalog.MRPMarkup)
	if err != nil {
		return fmt.Errorf("catalog.mrp_markup %q: %w", cfg.Catalog.MRPMarkup, err)
	}

	httpClient := backend.NewHTTPClient(cfg.Backend.OrderTimeout)
	tokens := backend.NewTokenClient(backend.Credentials{
		TokenURL:     cfg.Backend.TokenURL,
		ClientID:     cfg.Backend.ClientID,
		ClientSecret: cfg.Backend.ClientSecret,
	}, httpClient, cfg.Backend.AuthTimeout)

	// Catalog
	catalogSvc := catalogapp.NewService(
		catalogbackend.NewProductProvider(cfg.Backend.QueryURL, tokens, httpClient),
		catalogapp.Defaults{
			MinOrderQty:      cfg.Catalog.MinOrderQty,
			Unit:             cfg.Catalog.Unit,
			MRPMarkup:        markup,
			PlaceholderImage: cfg.Catalog.PlaceholderImage,
			SectionSize:      cfg.Catalog.SectionSize,
		},
		log,
	)
	if _, err := catalogSvc.Load(ctx); err != nil {
		// retried lazily on the first catalog request
		log.Warn("initial catalog load failed", slog.Any("err", err))
	}

	// Cart
	cartSvc := cartapp.NewService(
		cartredis.NewCartRepo(rdb, cfg.Cart.Key),
		cartredis.NewTemplateRepo(rdb, cfg.Cart.TemplateKey),
		log,
	)
	restored := cartSvc.Load(ctx)
	log.Info("cart restored", slog.Int("lines", restored.Len()))

	// Pricing
	pricingSvc := pricingapp.NewService(pricingadapter.NewCartServiceReader(cartSvc), taxRate)

	// Order
	workflow := orderapp.NewWorkflow(
		tokens,
		orderbackend.NewOrderClient(cfg.Backend.OrderURL, httpClient),
		orderadapter.NewCartServiceStore(cartSvc),
		orderapp.Config{
			AccountID:    cfg.Backend.AccountID,
			AuthTimeout:  cfg.Backend.AuthTimeout,
			OrderTimeout: cfg.Backend.OrderTimeout,
		},
		log,
	)

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(serviceName, log,
		func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		cataloghttp.NewHandler(catalogSvc, log),
		carthttp.NewHandler(cartSvc, cartadapter.NewCatalogServiceReader(catalogSvc), log),
		pricinghttp.NewHandler(pricingSvc, log),
		orderhttp.NewHandler(workflow, log),
	)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.Backend.AuthTimeout + cfg.Backend.OrderTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")

		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()
		if err := server.Shutdown(stopCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
