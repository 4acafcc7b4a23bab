// Command seed-db loads demo data into the database: a demo customer, a
// verified demo seller with a small catalog, and the standing coupon set.
// Everything is upserted, so re-running is safe.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ashrivastava/shopzone/internal/domain/auth"
	"github.com/ashrivastava/shopzone/internal/repository"
)

func main() {
	var databaseURL string
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	sellerID, err := seedAccounts(ctx, pool)
	if err != nil {
		return errors.Wrap(err, "seed accounts")
	}

	if err := seedProducts(ctx, pool, sellerID); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if err := seedCoupons(ctx, pool); err != nil {
		return errors.Wrap(err, "seed coupons")
	}

	return nil
}

const (
	upsertUserSQL = `INSERT INTO users (id, name, email, phone, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING`

	upsertSellerSQL = `INSERT INTO sellers
		(id, name, email, password_hash, shop_name, phone, gst_number, is_verified, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, TRUE)
		ON CONFLICT (email) DO UPDATE SET is_verified = TRUE, is_active = TRUE
		RETURNING id`

	upsertProductSQL = `INSERT INTO products
		(id, seller_id, seller_name, name, description, price, original_price,
		 category, image, stock, trending, featured, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, TRUE)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, description = EXCLUDED.description,
			price = EXCLUDED.price, original_price = EXCLUDED.original_price,
			category = EXCLUDED.category, image = EXCLUDED.image,
			stock = EXCLUDED.stock`

	upsertCouponSQL = `INSERT INTO coupons
		(id, code, discount_type, discount_value, min_order_value, max_discount,
		 expires_at, usage_limit, is_active, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, $9)
		ON CONFLICT (code) DO UPDATE SET
			discount_type = EXCLUDED.discount_type,
			discount_value = EXCLUDED.discount_value,
			min_order_value = EXCLUDED.min_order_value,
			max_discount = EXCLUDED.max_discount,
			expires_at = EXCLUDED.expires_at,
			usage_limit = EXCLUDED.usage_limit,
			is_active = TRUE,
			description = EXCLUDED.description`
)

func seedAccounts(ctx context.Context, pool *pgxpool.Pool) (string, error) {
	slog.Info("seeding demo accounts")

	hash, err := auth.HashPassword("demo1234")
	if err != nil {
		return "", errors.Wrap(err, "hash demo password")
	}

	if _, err := pool.Exec(ctx, upsertUserSQL,
		uuid.New().String(), "Demo Customer", "customer@shopzone.example", "9900112233", hash,
	); err != nil {
		return "", errors.Wrap(err, "upsert demo user")
	}
	slog.Info("upserted user", slog.String("email", "customer@shopzone.example"))

	var sellerID string
	err = pool.QueryRow(ctx, upsertSellerSQL,
		uuid.New().String(), "Demo Seller", "seller@shopzone.example", hash,
		"ShopZone Demo Store", "9900445566", "29DEMO1234F1Z5",
	).Scan(&sellerID)
	if err != nil {
		return "", errors.Wrap(err, "upsert demo seller")
	}
	slog.Info("upserted seller", slog.String("email", "seller@shopzone.example"), slog.String("id", sellerID))

	return sellerID, nil
}

type demoProduct struct {
	id       string
	name     string
	desc     string
	price    int64
	original int64
	category string
	image    string
	stock    int
	trending bool
	featured bool
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, sellerID string) error {
	products := []demoProduct{
		{"seed-steel-bottle", "Steel Water Bottle", "Insulated 1L bottle", 449, 599, "kitchen", "/images/bottle.jpg", 120, true, false},
		{"seed-desk-lamp", "LED Desk Lamp", "Warm light, three levels", 899, 1199, "home", "/images/lamp.jpg", 45, false, true},
		{"seed-yoga-mat", "Yoga Mat", "6mm non-slip mat", 649, 649, "fitness", "/images/mat.jpg", 80, false, false},
		{"seed-earbuds", "Wireless Earbuds", "24h battery, USB-C case", 1999, 2999, "electronics", "/images/earbuds.jpg", 60, true, true},
		{"seed-backpack", "Laptop Backpack", "Fits 15.6 inch laptops", 1299, 1799, "bags", "/images/backpack.jpg", 35, false, false},
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, p := range products {
		if _, err := pool.Exec(ctx, upsertProductSQL,
			p.id, sellerID, "ShopZone Demo Store", p.name, p.desc,
			decimal.NewFromInt(p.price), decimal.NewFromInt(p.original),
			p.category, p.image, p.stock, p.trending, p.featured,
		); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.id)
		}
		slog.Info("upserted product", slog.String("id", p.id), slog.String("name", p.name))
	}

	return nil
}

func seedCoupons(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding standing coupons")

	expires := time.Now().AddDate(1, 0, 0)
	maxDiscount := decimal.NewFromInt(500)
	firstLimit := 1000

	type couponRow struct {
		code        string
		kind        string
		value       decimal.Decimal
		minOrder    decimal.Decimal
		maxDiscount *decimal.Decimal
		usageLimit  *int
		description string
	}
	coupons := []couponRow{
		{"SAVE10", "percentage", decimal.NewFromInt(10), decimal.NewFromInt(200), &maxDiscount, nil, "10% off orders above 200, up to 500 off"},
		{"FIRST20", "percentage", decimal.NewFromInt(20), decimal.NewFromInt(500), &maxDiscount, &firstLimit, "20% off your first order above 500"},
		{"FLAT100", "fixed", decimal.NewFromInt(100), decimal.NewFromInt(1000), nil, nil, "Flat 100 off orders above 1000"},
	}

	for _, c := range coupons {
		if _, err := pool.Exec(ctx, upsertCouponSQL,
			uuid.New().String(), c.code, c.kind, c.value, c.minOrder,
			c.maxDiscount, expires, c.usageLimit, c.description,
		); err != nil {
			return errors.Wrapf(err, "upsert coupon %s", c.code)
		}
		slog.Info("upserted coupon", slog.String("code", c.code), slog.String("description", c.description))
	}

	return nil
}
