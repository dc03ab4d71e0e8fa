package main

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jacksmith/pcparts/internal/catalog"
	"github.com/jacksmith/pcparts/internal/cli"
	"github.com/jacksmith/pcparts/internal/devserver"
	"github.com/jacksmith/pcparts/internal/model"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every command flag variable to its default.
func resetFlags() {
	flagBaseURL, flagTimeout, flagLogLevel, flagNoColor = "", "", "", true
	listSearch = ""
	addID, addName, addBrand, addPrice, addStock, addDescription, addInteractive = "", "", "", "0", 0, "", false
	editName, editBrand, editPrice, editStock, editDescription, editInteractive = "", "", "", "", "", false
	serveListen, serveSeed, serveAllowOrigin = "", "", ""
}

// setupTestServer starts an in-memory parts service with sample data and
// points the CLI at it.
func setupTestServer(t *testing.T) *devserver.Store {
	t.Helper()
	resetFlags()
	logger.SetOutput(io.Discard)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	store := devserver.NewStore(
		model.Part{ID: "CPU-001", Name: "Ryzen 7 7700X", Brand: "AMD", Price: decimal.NewFromInt(100), Stock: 5},
		model.Part{ID: "CPU-002", Name: "Core i5-13600K", Brand: "Intel", Price: decimal.RequireFromString("19.99"), Stock: 3},
		model.Part{ID: "GPU-001", Name: "RTX 4070", Brand: "NVIDIA", Price: decimal.RequireFromString("250.50"), Stock: 0},
	)
	ts := httptest.NewServer(devserver.New(store, quiet, "").Router())
	t.Cleanup(ts.Close)

	flagBaseURL = ts.URL
	return store
}

// captureOutput runs fn with stdout redirected and returns what it printed.
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	runErr := fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String(), runErr
}

func TestListCommand(t *testing.T) {
	setupTestServer(t)

	tests := []struct {
		name        string
		search      string
		contains    []string
		notContains []string
	}{
		{
			name:     "all parts with tax columns",
			contains: []string{"ID", "Tax (15%)", "CPU-001", "CPU-002", "GPU-001", "$100.00", "$15.00", "$115.00", "$288.08"},
		},
		{
			name:        "search is case insensitive",
			search:      "cpu",
			contains:    []string{"CPU-001", "CPU-002"},
			notContains: []string{"GPU-001"},
		},
		{
			name:     "search matches the middle of an id",
			search:   "-00",
			contains: []string{"CPU-001", "CPU-002", "GPU-001"},
		},
		{
			name:        "no matches",
			search:      "ssd",
			contains:    []string{"No parts found."},
			notContains: []string{"CPU-001"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listSearch = tt.search
			out, err := captureOutput(t, func() error { return runList(nil, nil) })
			require.NoError(t, err)

			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestListCommandServiceDown(t *testing.T) {
	resetFlags()
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	ts := httptest.NewServer(http.NotFoundHandler())
	flagBaseURL = ts.URL
	ts.Close()

	_, err := captureOutput(t, func() error { return runList(nil, nil) })

	var ce *catalog.Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, catalog.KindLoad, ce.Kind)
	assert.Equal(t, "error: could not load parts", cli.FormatError(err))
}

func TestShowCommand(t *testing.T) {
	setupTestServer(t)

	t.Run("exact id", func(t *testing.T) {
		out, err := captureOutput(t, func() error { return runShow(nil, []string{"GPU-001"}) })
		require.NoError(t, err)
		assert.Contains(t, out, "RTX 4070")
		assert.Contains(t, out, "$37.58")
		assert.Contains(t, out, "$288.08")
	})

	t.Run("unique prefix", func(t *testing.T) {
		out, err := captureOutput(t, func() error { return runShow(nil, []string{"gpu"}) })
		require.NoError(t, err)
		assert.Contains(t, out, "GPU-001")
	})

	t.Run("ambiguous prefix", func(t *testing.T) {
		_, err := captureOutput(t, func() error { return runShow(nil, []string{"cpu"}) })
		var amb *cli.AmbiguousError
		require.True(t, errors.As(err, &amb))
		assert.Equal(t, []string{"CPU-001", "CPU-002"}, amb.Matches)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := captureOutput(t, func() error { return runShow(nil, []string{"SSD-404"}) })
		var nf *cli.NotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, "SSD-404", nf.ID)
	})
}

func TestAddCommand(t *testing.T) {
	t.Run("creates the part", func(t *testing.T) {
		store := setupTestServer(t)
		addID, addName, addBrand, addPrice, addStock = "RAM-001", "Fury 32GB", "Kingston", "89.90", 10

		out, err := captureOutput(t, func() error { return runAdd(nil, nil) })
		require.NoError(t, err)
		assert.Equal(t, "Added RAM-001 Fury 32GB\n", out)

		p, err := store.ByID("RAM-001")
		require.NoError(t, err)
		assert.True(t, p.Price.Equal(decimal.RequireFromString("89.90")))
		assert.Equal(t, 10, p.Stock)
	})

	t.Run("duplicate id shows the service message", func(t *testing.T) {
		store := setupTestServer(t)
		addID, addName, addBrand, addPrice = "CPU-001", "Dup", "AMD", "1"

		_, err := captureOutput(t, func() error { return runAdd(nil, nil) })
		require.Error(t, err)
		assert.Equal(t, "error: A part with this ID already exists", cli.FormatError(err))
		assert.Len(t, store.All(), 3)
	})

	t.Run("missing fields are caught before sending", func(t *testing.T) {
		store := setupTestServer(t)
		addID, addPrice = "RAM-002", "5"

		_, err := captureOutput(t, func() error { return runAdd(nil, nil) })
		require.Error(t, err)
		assert.Equal(t, "error: name is required\nerror: brand is required", cli.FormatError(err))
		assert.Len(t, store.All(), 3)
	})

	t.Run("bad price", func(t *testing.T) {
		setupTestServer(t)
		addID, addName, addBrand, addPrice = "RAM-003", "x", "y", "cheap"

		_, err := captureOutput(t, func() error { return runAdd(nil, nil) })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid price")
	})

	t.Run("interactive form", func(t *testing.T) {
		store := setupTestServer(t)
		script := filepath.Join(t.TempDir(), "editor.sh")
		body := "#!/bin/sh\nprintf 'id: PSU-001\\nname: RM750e\\nbrand: Corsair\\nprice: 99.99\\nstock: 4\\n' > \"$1\"\n"
		require.NoError(t, os.WriteFile(script, []byte(body), 0755))
		t.Setenv("VISUAL", "")
		t.Setenv("EDITOR", script)
		addInteractive = true

		out, err := captureOutput(t, func() error { return runAdd(nil, nil) })
		require.NoError(t, err)
		assert.Contains(t, out, "Added PSU-001 RM750e")

		_, err = store.ByID("PSU-001")
		assert.NoError(t, err)
	})
}

func TestEditCommand(t *testing.T) {
	t.Run("updates flagged fields", func(t *testing.T) {
		store := setupTestServer(t)
		editPrice, editStock = "95.50", "7"

		out, err := captureOutput(t, func() error { return runEdit(nil, []string{"cpu-001"}) })
		require.NoError(t, err)
		assert.Equal(t, "Updated CPU-001 Ryzen 7 7700X\n", out)

		p, err := store.ByID("CPU-001")
		require.NoError(t, err)
		assert.True(t, p.Price.Equal(decimal.RequireFromString("95.50")))
		assert.Equal(t, 7, p.Stock)
		assert.Equal(t, "AMD", p.Brand)
	})

	t.Run("nothing to change", func(t *testing.T) {
		setupTestServer(t)

		_, err := captureOutput(t, func() error { return runEdit(nil, []string{"CPU-001"}) })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nothing to change")
	})

	t.Run("bad stock", func(t *testing.T) {
		setupTestServer(t)
		editStock = "many"

		_, err := captureOutput(t, func() error { return runEdit(nil, []string{"CPU-001"}) })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid stock")
	})

	t.Run("negative stock is rejected locally", func(t *testing.T) {
		store := setupTestServer(t)
		editStock = "-1"

		_, err := captureOutput(t, func() error { return runEdit(nil, []string{"CPU-001"}) })
		require.Error(t, err)
		assert.Equal(t, "error: stock must be zero or positive", cli.FormatError(err))

		p, _ := store.ByID("CPU-001")
		assert.Equal(t, 5, p.Stock)
	})

	t.Run("id cannot change in the editor", func(t *testing.T) {
		setupTestServer(t)
		script := filepath.Join(t.TempDir(), "editor.sh")
		body := "#!/bin/sh\nprintf 'id: CPU-999\\nname: x\\nbrand: y\\nprice: 1\\nstock: 1\\n' > \"$1\"\n"
		require.NoError(t, os.WriteFile(script, []byte(body), 0755))
		t.Setenv("VISUAL", "")
		t.Setenv("EDITOR", script)
		editInteractive = true

		_, err := captureOutput(t, func() error { return runEdit(nil, []string{"CPU-001"}) })
		require.Error(t, err)
		assert.Equal(t, "error: "+catalog.MsgIDLocked, cli.FormatError(err))
	})

	t.Run("untouched editor makes no request", func(t *testing.T) {
		setupTestServer(t)
		t.Setenv("VISUAL", "")
		t.Setenv("EDITOR", "true")
		editInteractive = true

		out, err := captureOutput(t, func() error { return runEdit(nil, []string{"CPU-001"}) })
		require.NoError(t, err)
		assert.Equal(t, "No changes.\n", out)
	})
}

func TestRmCommand(t *testing.T) {
	t.Run("removes parts in order", func(t *testing.T) {
		store := setupTestServer(t)

		out, err := captureOutput(t, func() error { return runRm(nil, []string{"gpu", "CPU-002"}) })
		require.NoError(t, err)
		assert.Equal(t, "Deleted GPU-001 RTX 4070\nDeleted CPU-002 Core i5-13600K\n", out)

		require.Len(t, store.All(), 1)
		assert.Equal(t, "CPU-001", store.All()[0].ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		store := setupTestServer(t)

		_, err := captureOutput(t, func() error { return runRm(nil, []string{"SSD-404"}) })
		require.Error(t, err)
		assert.Equal(t, "error: part SSD-404 not found", cli.FormatError(err))
		assert.Len(t, store.All(), 3)
	})
}

func TestCompletePartIDs(t *testing.T) {
	setupTestServer(t)

	got, directive := completePartIDs(nil, nil, "cp")
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
	assert.Equal(t, []string{"CPU-001\tRyzen 7 7700X", "CPU-002\tCore i5-13600K"}, got)

	got, _ = completePartIDs(nil, []string{"CPU-001"}, "CPU")
	assert.Equal(t, []string{"CPU-002\tCore i5-13600K"}, got)
}

func TestLoadConfigFlags(t *testing.T) {
	resetFlags()

	flagTimeout = "soon"
	_, err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timeout")

	resetFlags()
	flagBaseURL, flagTimeout, flagLogLevel = "http://parts.local:9000", "2s", "debug"
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://parts.local:9000", cfg.BaseURL)
	assert.Equal(t, "2s", cfg.Timeout.String())
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.False(t, cli.ColorEnabled())

	resetFlags()
	flagBaseURL = "not a url"
	_, err = openSession()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid base_url")
}

func TestLoadSeed(t *testing.T) {
	dir := t.TempDir()

	parts, err := loadSeed("")
	require.NoError(t, err)
	assert.Empty(t, parts)

	good := filepath.Join(dir, "parts.json")
	require.NoError(t, os.WriteFile(good, []byte(`[
		{"id":"CPU-001","name":"Ryzen 7","brand":"AMD","price":300,"stock":5},
		{"id":"GPU-001","name":"RTX 4070","brand":"NVIDIA","price":"599.99","stock":0}
	]`), 0644))
	parts, err = loadSeed(good)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.True(t, parts[1].Price.Equal(decimal.RequireFromString("599.99")))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"id":"X","name":"","brand":"b","price":1,"stock":1}]`), 0644))
	_, err = loadSeed(bad)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "seed part 1: name is required"))

	_, err = loadSeed(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
