package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shelfscan/internal/config"
	"shelfscan/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	fake       *testsupport.FakeServices
}

const inceptionBarcode = "4006381333931"

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("BARCODE_LOOKUP_API_KEY", "")
	t.Setenv("SHELFSCAN_API_TOKEN", "")

	fake := &testsupport.FakeServices{
		Products: map[string]string{inceptionBarcode: "Inception [Blu-ray]"},
		Movies: map[string]testsupport.FakeMovie{
			"Inception": {ID: 27205, Title: "Inception", ReleaseDate: "2010-07-15", Director: "Christopher Nolan", Genres: []string{"Action"}},
		},
	}
	base := fake.Start(t)

	all := append([]testsupport.ConfigOption{
		testsupport.WithCatalogs(base, config.CatalogUPCItemDB),
		testsupport.WithTMDB("tmdb-secret", base),
	}, opts...)
	cfg := testsupport.NewConfig(t, all...)

	configPath := filepath.Join(testsupport.BaseDir(cfg), "shelfscan.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, fake: fake}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, args, configPath, nil)
}

func runCLIWithInput(t *testing.T, args []string, configPath string, stdin []byte) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(bytes.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
