//go:build integration

package integration

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/xenking/apidoor-catalog/internal/catalog"
	"github.com/xenking/apidoor-catalog/internal/domain/product"
	"github.com/xenking/apidoor-catalog/pkg/jsonvalue"
)

func TestListProducts_Envelope(t *testing.T) {
	resp := doGet(t, "/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}

	body := decodeJSON[map[string][]map[string]any](t, resp)
	if len(body["products"]) != seededProducts {
		t.Fatalf("expected %d products, got %d", seededProducts, len(body["products"]))
	}
}

func TestListProducts_Conforms(t *testing.T) {
	resp := doGet(t, "/products")
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	v, err := jsonvalue.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !product.IsProductList(v) {
		t.Fatalf("response is not a product list: %s", data)
	}
}

func TestFetchProducts(t *testing.T) {
	client, err := catalog.New(catalog.Config{BaseURL: baseURL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	list, err := client.FetchProducts(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(list.Products) != seededProducts {
		t.Fatalf("expected %d products, got %d", seededProducts, len(list.Products))
	}

	first := list.Products[0]
	if first.ID != 1 {
		t.Errorf("id: got %d, want 1", first.ID)
	}
	if first.Name != "Weather API" {
		t.Errorf("name: got %q, want %q", first.Name, "Weather API")
	}
	if first.Thumbnail == "" {
		t.Error("thumbnail is empty")
	}
}

func TestListProducts_MethodNotAllowed(t *testing.T) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, baseURL+"/products", nil)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}
