package testsupport

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
)

// BarcodePNG renders an EAN-13 barcode for code as PNG bytes. code is the
// full 13 digit value including its check digit.
func BarcodePNG(t testing.TB, code string) []byte {
	t.Helper()

	matrix, err := oned.NewEAN13Writer().Encode(code, gozxing.BarcodeFormat_EAN_13, 400, 120, nil)
	if err != nil {
		t.Fatalf("encode ean13 %s: %v", code, err)
	}
	bounds := matrix.Bounds()
	canvas := image.NewGray(image.Rect(0, 0, bounds.Dx()+80, bounds.Dy()+80))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(canvas, bounds.Add(image.Pt(40, 40)), matrix, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// BarcodeBase64 returns BarcodePNG as a data URL, the form browser clients post.
func BarcodeBase64(t testing.TB, code string) string {
	t.Helper()
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(BarcodePNG(t, code))
}

// WriteBarcodePNG writes BarcodePNG to path, creating parent directories.
func WriteBarcodePNG(t testing.TB, path, code string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, BarcodePNG(t, code), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
