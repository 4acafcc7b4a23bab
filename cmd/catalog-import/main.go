// Command catalog-import bulk-loads products from gzipped CSV exports into
// the catalog. All files in the data directory are parsed concurrently; rows
// are deduplicated across files by product ID, first occurrence wins.
//
// Expected row format:
//
//	id,name,description,price,original_price,category,image,stock
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ashrivastava/shopzone/internal/repository"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 100_000
)

// row is one parsed catalog line.
type row struct {
	id            string
	name          string
	description   string
	price         decimal.Decimal
	originalPrice decimal.Decimal
	category      string
	image         string
	stock         int
}

func main() {
	var (
		dataDir     string
		databaseURL string
		sellerID    string
		sellerName  string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.csv.gz catalog exports")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&sellerID, "seller-id", "", "seller to attribute imported products to")
	flag.StringVar(&sellerName, "seller-name", "", "denormalized seller display name")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if sellerID == "" {
		slog.Error("seller ID is required: set --seller-id")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, databaseURL, sellerID, sellerName); err != nil {
		slog.Error("catalog import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog import completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL, sellerID, sellerName string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.csv.gz"))
	if err != nil {
		return errors.Wrap(err, "glob data dir")
	}
	if len(files) == 0 {
		return errors.Errorf("no *.csv.gz files in %s", dataDir)
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	slog.Info("importing catalog files", slog.Int("files", len(files)))

	rows := make(chan row, 1024)

	g, ctx := errgroup.WithContext(ctx)

	// Readers: one goroutine per file.
	readers, readerCtx := errgroup.WithContext(ctx)
	for _, f := range files {
		readers.Go(readFile(readerCtx, f, rows))
	}
	g.Go(func() error {
		defer close(rows)
		return readers.Wait()
	})

	// Single writer: dedupes across files and upserts. The filter is
	// approximate; a false positive drops a row, which is acceptable for
	// re-runnable bulk imports.
	g.Go(writeRows(ctx, pool, sellerID, sellerName, rows))

	return g.Wait()
}

func readFile(ctx context.Context, path string, out chan<- row) func() error {
	return func() error {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "open %s", path)
		}
		defer func() { _ = f.Close() }()

		gz, err := pgzip.NewReader(f)
		if err != nil {
			return errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()

		r := csv.NewReader(gz)
		r.FieldsPerRecord = 8
		r.ReuseRecord = true

		var count uint64
		for {
			record, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return errors.Wrapf(err, "read %s", path)
			}

			parsed, err := parseRow(record)
			if err != nil {
				return errors.Wrapf(err, "parse %s line %d", path, count+1)
			}

			select {
			case out <- parsed:
			case <-ctx.Done():
				return ctx.Err()
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("read progress", slog.String("file", filepath.Base(path)), slog.Uint64("rows", count))
			}
		}

		slog.Info("file complete", slog.String("file", filepath.Base(path)), slog.Uint64("rows", count))
		return nil
	}
}

func parseRow(record []string) (row, error) {
	price, err := decimal.NewFromString(record[3])
	if err != nil {
		return row{}, errors.Wrap(err, "parse price")
	}
	original, err := decimal.NewFromString(record[4])
	if err != nil {
		return row{}, errors.Wrap(err, "parse original price")
	}
	stock, err := strconv.Atoi(record[7])
	if err != nil {
		return row{}, errors.Wrap(err, "parse stock")
	}

	return row{
		id:            record[0],
		name:          record[1],
		description:   record[2],
		price:         price,
		originalPrice: original,
		category:      record[5],
		image:         record[6],
		stock:         stock,
	}, nil
}

const upsertProductSQL = `INSERT INTO products
	(id, seller_id, seller_name, name, description, price, original_price,
	 category, image, stock, is_active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name, description = EXCLUDED.description,
		price = EXCLUDED.price, original_price = EXCLUDED.original_price,
		category = EXCLUDED.category, image = EXCLUDED.image,
		stock = EXCLUDED.stock`

func writeRows(ctx context.Context, pool *pgxpool.Pool, sellerID, sellerName string, in <-chan row) func() error {
	return func() error {
		seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		var written, skipped uint64

		for r := range in {
			if seen.TestString(r.id) {
				skipped++
				continue
			}
			seen.AddString(r.id)

			if _, err := pool.Exec(ctx, upsertProductSQL,
				r.id, sellerID, sellerName, r.name, r.description,
				r.price, r.originalPrice, r.category, r.image, r.stock,
			); err != nil {
				return errors.Wrapf(err, "upsert product %s", r.id)
			}

			written++
			if written%progressEvery == 0 {
				slog.Info("write progress", slog.Uint64("written", written), slog.Uint64("skipped", skipped))
			}
		}

		slog.Info("write complete", slog.Uint64("written", written), slog.Uint64("skipped", skipped))
		return nil
	}
}
