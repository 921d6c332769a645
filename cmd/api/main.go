package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/kittipat-l/couture-backend/internal/account"
	"github.com/kittipat-l/couture-backend/internal/cart"
	"github.com/kittipat-l/couture-backend/internal/checkout"
	"github.com/kittipat-l/couture-backend/internal/config"
	"github.com/kittipat-l/couture-backend/internal/currency"
	"github.com/kittipat-l/couture-backend/internal/order"
	"github.com/kittipat-l/couture-backend/internal/pricing"
	"github.com/kittipat-l/couture-backend/internal/storage"
	"github.com/kittipat-l/couture-backend/pkg/logging"
)

func main() {
	cfg := config.Load()
	log := logging.New()

	app := fiber.New()
	setupCORS(app)

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()
	migrate(db)

	store := openStore(cfg, log)

	carts := cart.NewService(cart.NewKVRepository(store), cfg.CartMaxItems, log)
	calc := pricing.NewCalculator(cfg.ShippingFeePerItem, cfg.MinimumOrderTotal)
	accounts := account.NewService(account.NewPostgresRepository(db))
	pending := checkout.NewKVPendingRepository(store)

	checkouts := checkout.NewService(
		carts, calc, pending,
		checkout.NewHTTPProvider(cfg.ProviderURL),
		cfg.HomeCountryCode, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL,
		log,
	)
	orders := order.NewService(
		order.NewPostgresRepository(db),
		pending, carts, calc, accounts,
		cfg.HomeCountryCode, log,
	)
	resolver := currency.NewResolver(
		cfg.BaseCurrency, cfg.RateTTL,
		cfg.GeoEndpoint, cfg.RatePrimaryURL, cfg.RateSecondaryURL,
		store, log,
	)

	cartHandler := cart.NewHandler(carts)
	currencyHandler := currency.NewHandler(resolver)
	checkoutHandler := checkout.NewHandler(checkouts)
	orderHandler := order.NewHandler(orders)
	accountHandler := account.NewHandler(accounts, cfg.JWTSecret)

	cartHandler.RegisterPublicRoutes(app)
	currencyHandler.RegisterPublicRoutes(app)
	checkoutHandler.RegisterPublicRoutes(app)
	orderHandler.RegisterPublicRoutes(app)
	accountHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	accountHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)

	log.Info("starting server", "addr", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, X-Device-ID",
	}))
}

func mustOpenDB(url string) *sql.DB {
	if url == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		panic(err)
	}
	if err := db.Ping(); err != nil {
		panic(err)
	}
	return db
}

func migrate(db *sql.DB) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS accounts (
		"accountId" SERIAL PRIMARY KEY,
		email TEXT NOT NULL,
		"firstName" TEXT,
		"lastName" TEXT,
		phone TEXT,
		"addressBook" TEXT[] NOT NULL DEFAULT '{}',
		"passwordHash" TEXT NOT NULL,
		"createdAt" TEXT,
		"updatedAt" TEXT
	)`); err != nil {
		panic(err)
	}
	if _, err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS accounts_email_uniq ON accounts (LOWER(email))`); err != nil {
		panic(err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS orders (
		"orderId" SERIAL PRIMARY KEY,
		"orderNumber" INT NOT NULL,
		"deviceId" TEXT NOT NULL,
		"providerSessionId" TEXT,
		"ownerEmail" TEXT NOT NULL,
		"customerName" TEXT,
		"shippingAddress" TEXT,
		items jsonb NOT NULL DEFAULT '[]',
		subtotal BIGINT NOT NULL DEFAULT 0,
		"shippingFee" BIGINT NOT NULL DEFAULT 0,
		total BIGINT NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'processing',
		"createdAt" TEXT
	)`); err != nil {
		panic(err)
	}
	// one order per provider session; NULL sessions are exempt
	if _, err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS orders_session_uniq
		ON orders ("providerSessionId") WHERE "providerSessionId" IS NOT NULL`); err != nil {
		panic(err)
	}
	if _, err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS orders_device_number_uniq
		ON orders ("deviceId", "orderNumber")`); err != nil {
		panic(err)
	}
}

// openStore connects to Redis and falls back to an in-process store when
// it is unreachable, so local development needs no Redis at all.
func openStore(cfg config.Config, log *slog.Logger) storage.KV {
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warn("redis unreachable, using in-memory store", "addr", cfg.RedisAddr, "error", err)
		return storage.NewMemoryStore()
	}
	return storage.NewRedisStore(client)
}
