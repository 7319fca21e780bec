package app

import (
	"context"
	"io"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/apidoor-catalog/internal/catalog"
)

// Fetch requests the product list once and writes it to w as indented JSON.
// A response that fails validation is written as the empty list; transport
// failures are returned.
func Fetch(ctx context.Context, lg *zap.Logger, cfg *FetchConfig, w io.Writer, opts ...catalog.Option) error {
	client, err := catalog.New(catalog.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	}, opts...)
	if err != nil {
		return errors.Wrap(err, "create catalog client")
	}

	lg.Info("Fetching products", zap.String("base_url", cfg.BaseURL), zap.Duration("timeout", cfg.Timeout))
	list, err := client.FetchProducts(zctx.Base(ctx, lg))
	if err != nil {
		return errors.Wrap(err, "fetch products")
	}

	var e jx.Encoder
	e.SetIdent(2)
	list.Encode(&e)

	if _, err := w.Write(append(e.Bytes(), '\n')); err != nil {
		return errors.Wrap(err, "write products")
	}
	return nil
}
