// Command catalog-fetch requests the product list from a catalog API once and
// prints it as JSON.
package main

import (
	"context"
	"os"

	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	appkg "github.com/xenking/apidoor-catalog/internal/app"
	"github.com/xenking/apidoor-catalog/internal/catalog"
)

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, m *app.Telemetry) error {
		cfg, err := appkg.LoadFetchConfig()
		if err != nil {
			return err
		}
		return appkg.Fetch(ctx, lg, cfg, os.Stdout,
			catalog.WithTracerProvider(m.TracerProvider()),
			catalog.WithMeterProvider(m.MeterProvider()),
		)
	})
}
