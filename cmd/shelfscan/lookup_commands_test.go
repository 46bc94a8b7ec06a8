package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"shelfscan/internal/testsupport"
)

func TestLookupCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"lookup", inceptionBarcode}, env.configPath)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	requireContains(t, out, "Inception")
	requireContains(t, out, "Christopher Nolan")
	requireContains(t, out, "Blu-ray")
	requireContains(t, out, "UPCitemdb")
}

func TestLookupCommandAddJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"lookup", inceptionBarcode, "--add", "--location", "Shelf A", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("lookup --add: %v", err)
	}
	var resp struct {
		Success bool           `json:"success"`
		Movie   map[string]any `json:"movie"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if !resp.Success || resp.Movie["barcode"] != inceptionBarcode || resp.Movie["location"] != "Shelf A" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	out, _, err = runCLI(t, []string{"collection", "list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("collection list: %v", err)
	}
	var items []map[string]any
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(items) != 1 || items[0]["lookup_source"] != "UPCitemdb" {
		t.Fatalf("unexpected collection: %v", items)
	}
}

func TestLookupCommandNotFound(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"lookup", "000000000000", "--json"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown barcode")
	}
	var resp map[string]any
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if resp["success"] != false || resp["barcode"] != "000000000000" {
		t.Fatalf("unexpected payload: %v", resp)
	}
	if env.fake.Calls("/search/movie") != 0 {
		t.Fatal("expected no metadata search after a catalog miss")
	}
}

func TestSearchCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"search", "Inception", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var resp struct {
		Success bool `json:"success"`
		Movie   struct {
			Title string `json:"title"`
			Year  int    `json:"year"`
		} `json:"movie"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if !resp.Success || resp.Movie.Title != "Inception" || resp.Movie.Year != 2010 {
		t.Fatalf("unexpected response: %+v", resp)
	}

	if _, _, err := runCLI(t, []string{"search", "Unknown", "Film"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown title")
	}
}

func TestSearchCommandRequiresTMDBKey(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithTMDB("", ""))

	_, _, err := runCLI(t, []string{"search", "Inception"}, env.configPath)
	if err == nil {
		t.Fatal("expected error without TMDB key")
	}
	requireContains(t, err.Error(), "tmdb api key not configured")
}

func TestScanCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	image := filepath.Join(t.TempDir(), "cover.png")
	testsupport.WriteBarcodePNG(t, image, inceptionBarcode)

	out, _, err := runCLI(t, []string{"scan", image, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	var readings []map[string]string
	if err := json.Unmarshal([]byte(out), &readings); err != nil {
		t.Fatalf("decode readings: %v", err)
	}
	if len(readings) == 0 || readings[0]["data"] != inceptionBarcode || readings[0]["type"] != "EAN13" {
		t.Fatalf("unexpected readings: %v", readings)
	}

	out, _, err = runCLI(t, []string{"scan", image, "--lookup"}, env.configPath)
	if err != nil {
		t.Fatalf("scan --lookup: %v", err)
	}
	requireContains(t, out, "Inception")
}

func TestScanCommandFromStdin(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLIWithInput(t, []string{"scan", "-"}, env.configPath, testsupport.BarcodePNG(t, inceptionBarcode))
	if err != nil {
		t.Fatalf("scan -: %v", err)
	}
	requireContains(t, out, inceptionBarcode)

	if _, _, err := runCLIWithInput(t, []string{"scan", "-"}, env.configPath, []byte("not an image")); err == nil {
		t.Fatal("expected error when no barcode is found")
	}
}
