// Command seed-db loads product list files into the catalog database.
//
//	seed-db -database-url URL products.json more.json.gz
//
// With no files the embedded sample catalog is loaded.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/xenking/apidoor-catalog/db"
	"github.com/xenking/apidoor-catalog/internal/seed"
	"github.com/xenking/apidoor-catalog/internal/storage/postgres"
)

func main() {
	var databaseURL string
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	files := flag.Args()

	app.Run(func(ctx context.Context, lg *zap.Logger, _ *app.Telemetry) error {
		if databaseURL == "" {
			return errors.New("database URL is required: set -database-url or DATABASE_URL")
		}
		return run(ctx, lg, databaseURL, files)
	})
}

func run(ctx context.Context, lg *zap.Logger, databaseURL string, files []string) error {
	sources := []seed.Source{{Name: "sample", Data: db.SampleProducts}}
	if len(files) > 0 {
		lg.Info("Reading product files", zap.Strings("files", files))

		var err error
		if sources, err = seed.Load(ctx, files); err != nil {
			return errors.Wrap(err, "load files")
		}
	}

	products, err := seed.Merge(sources)
	if err != nil {
		return errors.Wrap(err, "merge product lists")
	}

	lg.Info("Connecting to database")
	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seed.Write(ctx, lg, postgres.NewProductRepository(pool), products); err != nil {
		return errors.Wrap(err, "write products")
	}

	lg.Info("Seed completed", zap.Int("products", len(products)))
	return nil
}
