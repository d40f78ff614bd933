package bootstrap

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/config"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/domain/model"
	apperrors "github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/errors"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	cfg := &config.AppConfig{
		Render: config.RenderConfig{TempDir: t.TempDir(), Output: "page.svg"},
	}
	cfg.Sanitize()
	return cfg
}

func TestNewApp_RunsJobEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	app, err := NewApp(AppDeps{Config: cfg})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, app.Close()) })

	assert.Nil(t, app.History)
	assert.Equal(t, "page.svg", app.Document.Name())

	path := filepath.Join(t.TempDir(), "codes.txt")
	require.NoError(t, os.WriteFile(path, []byte("A001\nA002\nA003\n"), 0o600))

	run, err := app.Controller.Submit(context.Background(), model.SubmitRequest{
		FilePath:  path,
		BadgeSize: "120",
		Margin:    "10",
		MaxPerRow: "2",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	out, err := run.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.RunStateCompleted, out.State)
	assert.Equal(t, 3, out.Processed)
	assert.Len(t, app.Document.Groups(), 3)

	var buf bytes.Buffer
	_, err = app.Document.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), ">A002</text>")

	entries, err := os.ReadDir(cfg.Render.TempDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "staged code graphics are removed")
}

func TestNewApp_BlankLinesBecomeBadges(t *testing.T) {
	cfg := testConfig(t)
	app, err := NewApp(AppDeps{Config: cfg})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, app.Close()) })

	path := filepath.Join(t.TempDir(), "codes.txt")
	require.NoError(t, os.WriteFile(path, []byte("A-1\n\nA-2\n\n"), 0o600))

	run, err := app.Controller.Submit(context.Background(), model.SubmitRequest{
		FilePath:  path,
		BadgeSize: "120",
		Margin:    "10",
		MaxPerRow: "2",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	out, err := run.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.RunStateCompleted, out.State)
	assert.Equal(t, 4, out.Processed)
	assert.Len(t, app.Document.Groups(), 4)
}

func TestNewApp_InvalidPayloadQuery(t *testing.T) {
	cfg := testConfig(t)
	cfg.Render.PayloadQuery = "items[?"

	_, err := NewApp(AppDeps{Config: cfg})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestNewApp_RequiresConfig(t *testing.T) {
	_, err := NewApp(AppDeps{})
	require.Error(t, err)
}

func TestNewApp_IgnoresBackendsWhenDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Postgres.Enabled = true // no DB handle supplied

	app, err := NewApp(AppDeps{Config: cfg})
	require.NoError(t, err)
	assert.Nil(t, app.History)
}

func TestBuildMetrics_Disabled(t *testing.T) {
	assert.Nil(t, buildMetrics(slog.Default(), config.ObservabilityMetricsConfig{}))
}

func TestApp_CloseNil(t *testing.T) {
	var app *App
	require.NoError(t, app.Close())
}

func TestInitLogger_Level(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := initLogger(&buf, slog.LevelWarn)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Same(t, logger, slog.Default())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("RENDER_OUTPUT", "out.svg")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())
	assert.Equal(t, "out.svg", cfg.Render.Output)
}

func TestLoadConfig_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RENDER_LABEL_FONT=Noto Sans\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("RENDER_LABEL_FONT") })

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "Noto Sans", cfg.Render.LabelFont)
}
