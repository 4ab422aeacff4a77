package commands

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vsinha/doorshop/pkg/infrastructure/config"
)

const catalogCSV = `part_type,part_ly
TR-1,5
BR-1,10
HR-1,4
LR-1,4
NULL-DIM,
`

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parts.csv")
	require.NoError(t, os.WriteFile(path, []byte(catalogCSV), 0o644))
	return path
}

func workedConfig(catalog string) CutListConfig {
	return CutListConfig{
		CatalogFile: catalog,
		Format:      "csv",
		Width:       "36",
		Height:      "84",
		HingeGap:    "0.0625",
		StrikeGap:   "0.125",
		TopRail:     "TR-1",
		BottomRail:  "BR-1",
		HingeRail:   "HR-1",
		LockRail:    "LR-1",
	}
}

func TestCutListCommand_WorkedExample(t *testing.T) {
	var buf bytes.Buffer
	cmd := NewCutListCommand(workedConfig(writeCatalog(t)), &buf, nil)

	require.NoError(t, cmd.Execute(context.Background()))
	assert.Equal(t,
		"rail,part_type,length\nhingeRail,HR-1,69\nlockRail,LR-1,69\ntopRail,TR-1,27.8125\nbottomRail,BR-1,27.8125\n",
		buf.String())
}

func TestCutListCommand_DocumentsWithFlagOverrides(t *testing.T) {
	var buf bytes.Buffer
	cfg := CutListConfig{
		CatalogFile: writeCatalog(t),
		Format:      "json",
		OpeningJSON: `{"openingWidth":40,"openingHeight":84,"hingeGap":0.0625,"lockGap":0.125}`,
		DoorJSON:    `{"hingeRail":"NULL-DIM","topRail":"TR-1","color":"red"}`,
		Width:       "36",
	}

	require.NoError(t, NewCutListCommand(cfg, &buf, zap.NewNop()).Execute(context.Background()))
	assert.JSONEq(t, `{"cutList":{"hingeRail":{"length":79},"topRail":{"length":35.8125}}}`, buf.String())
}

func TestCutListCommand_Errors(t *testing.T) {
	catalog := writeCatalog(t)

	testCases := []struct {
		name    string
		mutate  func(c *CutListConfig)
		wantErr string
	}{
		{"rails without catalog", func(c *CutListConfig) { c.CatalogFile = "" }, "--catalog is required"},
		{"missing catalog file", func(c *CutListConfig) { c.CatalogFile = filepath.Join(t.TempDir(), "none.csv") }, "error loading catalog"},
		{"non-object opening", func(c *CutListConfig) { c.OpeningJSON = `"new"` }, "--opening"},
		{"bad door document", func(c *CutListConfig) { c.DoorJSON = `{"topRail":{}}` }, "--door"},
		{"unknown format", func(c *CutListConfig) { c.Format = "xml" }, "unsupported output format: xml"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := workedConfig(catalog)
			tc.mutate(&cfg)
			err := NewCutListCommand(cfg, &bytes.Buffer{}, nil).Execute(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestCutListCommand_NoRailsNeedsNoCatalog(t *testing.T) {
	var buf bytes.Buffer
	cfg := CutListConfig{Width: "36", Height: "84"}

	require.NoError(t, NewCutListCommand(cfg, &buf, nil).Execute(context.Background()))
	assert.Contains(t, buf.String(), "No rails to cut")
}

func TestRootCommand_CutList(t *testing.T) {
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{
		"cutlist", "--catalog", writeCatalog(t),
		"--width", "36", "--height", "84",
		"--hinge-gap", "0.0625", "--strike-gap", "0.125",
		"--hinge-rail", "HR-1", "--lock-rail", "LR-1",
		"-f", "csv",
	})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Equal(t,
		"rail,part_type,length\nhingeRail,HR-1,84\nlockRail,LR-1,84\ntopRail,,27.8125\nbottomRail,,27.8125\n",
		out.String())
}

func TestRootCommand_MigrateRequiresPostgres(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DOORSHOP_STORE", "")
	t.Setenv("PORT", "")

	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"migrate"})

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrate requires the postgres store driver")
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	cfg := config.DefaultConfig()
	cfg.Store.CatalogPath = writeCatalog(t)
	store, err := OpenStore(ctx, cfg, logger)
	require.NoError(t, err)
	defer store.Close()

	parts, err := store.ResolveParts(ctx, []string{"TR-1", "NULL-DIM"})
	require.NoError(t, err)
	assert.Len(t, parts, 2)
	assert.True(t, parts["NULL-DIM"].DimensionMissing)

	cfg.Store.Driver = "sqlite"
	_, err = OpenStore(ctx, cfg, logger)
	assert.EqualError(t, err, "invalid store driver: sqlite")
}

func TestServeCommand_GracefulShutdown(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := config.DefaultConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = 5 * time.Second

	ready := make(chan string, 1)
	cmd := NewServeCommand(cfg, zap.NewNop())
	cmd.ready = ready

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.Execute(ctx) }()

	var addr string
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("Server exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for server")
	}

	resp, err := http.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get("http://" + addr + "/api/doors/1/cut-list")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Timed out waiting for shutdown")
	}
}
