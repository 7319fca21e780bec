// Package seed loads product list files into a product repository.
package seed

import (
	"bytes"
	"cmp"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/apidoor-catalog/internal/domain/product"
)

// maxFileSize bounds a single decompressed input file.
const maxFileSize = 64 << 20

// Source is a named product list document.
type Source struct {
	Name string
	Data []byte
}

// Load reads and validates every file concurrently. Files ending in .gz are
// gunzipped. Any file that is not a valid product list fails the whole load.
func Load(ctx context.Context, paths []string) ([]Source, error) {
	sources := make([]Source, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			data, err := readFile(ctx, path)
			if err != nil {
				return err
			}
			sources[i] = Source{Name: path, Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = ctxReader{ctx: ctx, r: f}
	if strings.EqualFold(filepath.Ext(path), ".gz") {
		gz, err := pgzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()
		r = ctxReader{ctx: ctx, r: gz}
	}

	var buf bytes.Buffer
	n, err := buf.ReadFrom(io.LimitReader(r, maxFileSize+1))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	if n > maxFileSize {
		return nil, errors.Errorf("%s: exceeds %d bytes", path, maxFileSize)
	}
	return buf.Bytes(), nil
}

// ctxReader fails reads once ctx is done, so a cancelled load stops between
// chunks of a large or slow file.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// Merge validates every source and combines them by product id. A product in
// a later source replaces one with the same id from an earlier source. The
// result is ordered by id.
func Merge(sources []Source) ([]product.Product, error) {
	byID := make(map[int64]product.Product)
	for _, s := range sources {
		list, err := product.DecodeProductList(s.Data)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", s.Name)
		}
		for _, p := range list.Products {
			byID[p.ID] = p
		}
	}

	out := make([]product.Product, 0, len(byID))
	for _, p := range byID {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b product.Product) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Write upserts products one by one, logging progress.
func Write(ctx context.Context, lg *zap.Logger, repo product.Repository, products []product.Product) error {
	lg.Info("Writing products", zap.Int("count", len(products)))

	for i, p := range products {
		if err := repo.Upsert(ctx, p); err != nil {
			return errors.Wrapf(err, "upsert product %d", p.ID)
		}
		if (i+1)%100 == 0 || i+1 == len(products) {
			lg.Info("Write progress", zap.Int("written", i+1), zap.Int("total", len(products)))
		}
	}
	return nil
}
