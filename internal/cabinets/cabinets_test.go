package cabinets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vin-jex/design-platform-client/internal/api"
	"github.com/vin-jex/design-platform-client/internal/config"
	"github.com/vin-jex/design-platform-client/internal/jobs"
	"github.com/vin-jex/design-platform-client/internal/observability"
	"github.com/vin-jex/design-platform-client/internal/transport"
)

const exampleComponent = `{
	"width": 600,
	"depth": 560,
	"height": 720,
	"partitions": [
		{"partition_id": "partition_1", "no_of_drawers": 2, "drawers": [{"drawer_id": 1, "channel_sku_id": "ch-1"}]}
	]
}`

func newTestService(t *testing.T) *Service {
	t.Helper()

	mock := api.NewServer(observability.DiscardLogger())
	httpServer := httptest.NewServer(mock.Handler())
	t.Cleanup(httpServer.Close)

	cfg := config.Default()
	cfg.ServerPath = httpServer.URL

	return NewService(transport.New(cfg), time.Millisecond, 5*time.Second,
		jobs.WithLogger(observability.DiscardLogger()))
}

func TestCreateReturnsSKUIDs(t *testing.T) {
	service := newTestService(t)

	ids, err := service.Create(context.Background(), []SKU{
		{Name: "dummy_sku_1", SKUGroupID: "group-1", DisplayPicID: "pic-1", Height: 10, ComponentInfo: json.RawMessage(exampleComponent)},
		{Name: "dummy_sku_2", SKUGroupID: "group-2", DisplayPicID: "pic-2", Height: 10, ComponentInfo: json.RawMessage(exampleComponent)},
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(ids) != 2 {
		t.Fatalf("expected 2 sku ids, got %v", ids)
	}
	if !strings.HasSuffix(ids[0], "_1") || !strings.HasSuffix(ids[1], "_2") {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestCreateReportsFailure(t *testing.T) {
	service := newTestService(t)

	skus := []SKU{{
		Name:          "broken",
		SKUGroupID:    "group-1",
		ComponentInfo: json.RawMessage(`{"` + api.FailureKey + `":"invalid partition_1_3"}`),
	}}
	_, err := service.Create(context.Background(), skus)

	var failed *CreationFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected CreationFailedError, got %v", err)
	}
	if failed.Context != "invalid partition_1_3" {
		t.Fatalf("unexpected context %q", failed.Context)
	}
}

func TestCreateValidatesInput(t *testing.T) {
	service := newTestService(t)

	if _, err := service.Create(context.Background(), nil); !errors.Is(err, ErrNoSKUs) {
		t.Fatalf("expected ErrNoSKUs, got %v", err)
	}

	if _, err := service.Create(context.Background(), []SKU{{Name: "x", ComponentInfo: json.RawMessage(`{}`)}}); err == nil {
		t.Fatal("expected missing group error")
	}

	if _, err := service.Create(context.Background(), []SKU{{Name: "x", SKUGroupID: "g"}}); err == nil {
		t.Fatal("expected missing component error")
	}
}

func TestLoadComponentInfo(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "example1.json")
	if err := os.WriteFile(jsonPath, []byte(exampleComponent), 0o600); err != nil {
		t.Fatal(err)
	}

	yamlPath := filepath.Join(dir, "example2.yaml")
	yamlContent := "width: 900\npartitions:\n  - partition_id: partition_1\n    no_of_shelves: 3\n"
	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0o600); err != nil {
		t.Fatal(err)
	}

	raw, err := LoadComponentInfo(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != exampleComponent {
		t.Fatal("JSON component must be forwarded unchanged")
	}

	raw, err = LoadComponentInfo(yamlPath)
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Width      float64 `json:"width"`
		Partitions []struct {
			PartitionID string `json:"partition_id"`
			Shelves     int    `json:"no_of_shelves"`
		} `json:"partitions"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Width != 900 || decoded.Partitions[0].PartitionID != "partition_1" || decoded.Partitions[0].Shelves != 3 {
		t.Fatalf("unexpected conversion %+v", decoded)
	}

	badPath := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(badPath, []byte(`{"width":`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadComponentInfo(badPath); err == nil {
		t.Fatal("expected invalid JSON error")
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "example1.json"), []byte(exampleComponent), 0o600); err != nil {
		t.Fatal(err)
	}

	manifest := `skus:
  - name: dummy_sku_1
    sku_group_id: group-1
    display_pic_id: pic-1
    height: 10
    component_file: example1.json
`
	manifestPath := filepath.Join(dir, "skus.yaml")
	if err := os.WriteFile(manifestPath, []byte(manifest), 0o600); err != nil {
		t.Fatal(err)
	}

	skus, err := LoadManifest(manifestPath)
	if err != nil {
		t.Fatal(err)
	}

	if len(skus) != 1 {
		t.Fatalf("expected 1 sku, got %d", len(skus))
	}
	sku := skus[0]
	if sku.Name != "dummy_sku_1" || sku.SKUGroupID != "group-1" || sku.Height != 10 {
		t.Fatalf("unexpected sku %+v", sku)
	}
	if string(sku.ComponentInfo) != exampleComponent {
		t.Fatal("component file not loaded")
	}
}
