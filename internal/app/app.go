package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/ashrivastava/shopzone/internal/domain/auth"
	"github.com/ashrivastava/shopzone/internal/domain/chat"
	"github.com/ashrivastava/shopzone/internal/domain/checkout"
	"github.com/ashrivastava/shopzone/internal/domain/coupon"
	"github.com/ashrivastava/shopzone/internal/domain/order"
	"github.com/ashrivastava/shopzone/internal/domain/pricing"
	"github.com/ashrivastava/shopzone/internal/domain/review"
	"github.com/ashrivastava/shopzone/internal/handler"
	"github.com/ashrivastava/shopzone/internal/notify"
	"github.com/ashrivastava/shopzone/internal/repository"
	"github.com/ashrivastava/shopzone/pkg/health"
	"github.com/ashrivastava/shopzone/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Repositories.
	userRepo := repository.NewUserRepository(pool)
	sellerRepo := repository.NewSellerRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	couponRepo := repository.NewCouponRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	chatRepo := repository.NewChatRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)

	// Coupon validation with the negative-lookup filter primed from the
	// catalog. A failed prime only disables the fast path.
	couponValidator := coupon.NewRepoValidator(couponRepo)
	if err := couponValidator.PrimeFilter(ctx); err != nil {
		lg.Warn("Coupon filter not primed", zap.Error(err))
	}

	// Mail is optional; the services treat a nil notifier as "don't send".
	var (
		notifier order.Notifier
		welcome  handler.WelcomeSender
	)
	if cfg.SMTP.Host != "" {
		mailer, err := notify.NewMailer(notify.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		if err != nil {
			return errors.Wrap(err, "create mailer")
		}
		notifier = mailer
		welcome = mailer
	}

	// Domain services.
	calc := pricing.Calculator{
		FreeShippingOver: decimal.NewFromInt(cfg.Pricing.FreeShippingOver),
		ShippingFee:      decimal.NewFromInt(cfg.Pricing.ShippingFee),
	}
	orderService := order.NewService(orderRepo, userRepo, couponValidator, calc, notifier)
	checkoutService := checkout.NewService(cartRepo, couponValidator, calc, orderService, checkout.Config{
		WhatsAppNumber: cfg.Checkout.WhatsAppNumber,
		GatewayKeyID:   cfg.Checkout.GatewayKeyID,
	})
	reviewService := review.NewService(reviewRepo)
	chatService := chat.NewService(chatRepo)

	tokens := auth.NewTokens([]byte(cfg.TokenSecret), cfg.TokenTTL)

	// HTTP handlers.
	h := handler.NewHandler(
		tokens, userRepo, sellerRepo, productRepo, cartRepo, couponRepo,
		couponValidator, orderService, checkoutService, reviewService,
		chatService, welcome,
	)

	apiHandler := otelhttp.NewHandler(h.Routes(), "shopzone-api",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", http.StripPrefix("/api", apiHandler))

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
