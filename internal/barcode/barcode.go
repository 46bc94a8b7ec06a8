package barcode

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/makiuchi-d/gozxing"
	multiqr "github.com/makiuchi-d/gozxing/multi/qrcode"
	"github.com/makiuchi-d/gozxing/oned"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Reading is one barcode found in an image.
type Reading struct {
	Data      string `json:"data"`
	Symbology string `json:"type"`
}

// DecodeString decodes a base64 payload, stripping a leading data URL header
// when present.
func DecodeString(payload string) []Reading {
	raw, ok := decodeBase64(payload)
	if !ok {
		return nil
	}
	return Decode(raw)
}

// Decode scans encoded image bytes. Unsupported or corrupt images yield nil.
func Decode(payload []byte) []Reading {
	if len(payload) == 0 {
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil
	}
	return DecodeImage(img)
}

// DecodeImage scans an already decoded image. Ordering of multiple readings
// is decoder-defined.
func DecodeImage(img image.Image) (readings []Reading) {
	if img == nil || img.Bounds().Empty() {
		return nil
	}
	defer func() {
		if recover() != nil {
			readings = nil
		}
	}()

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil
	}
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}

	var results []*gozxing.Result
	for _, reader := range linearReaders(hints) {
		if result, err := reader.Decode(bmp, hints); err == nil && result != nil {
			results = append(results, result)
		}
	}
	if found, err := multiqr.NewQRCodeMultiReader().DecodeMultiple(bmp, hints); err == nil {
		results = append(results, found...)
	}

	seen := make(map[Reading]struct{})
	for _, result := range results {
		reading := Reading{
			Data:      result.GetText(),
			Symbology: symbologyName(result.GetBarcodeFormat()),
		}
		if reading.Data == "" {
			continue
		}
		if _, dup := seen[reading]; dup {
			continue
		}
		seen[reading] = struct{}{}
		readings = append(readings, reading)
	}
	return readings
}

// linearReaders lists the 1D symbologies in the order they are tried. Retail
// codes come first since disc packaging carries UPC or EAN.
func linearReaders(hints map[gozxing.DecodeHintType]interface{}) []gozxing.Reader {
	return []gozxing.Reader{
		oned.NewMultiFormatUPCEANReader(hints),
		oned.NewCode128Reader(),
		oned.NewCode39Reader(),
		oned.NewCode93Reader(),
		oned.NewITFReader(),
		oned.NewCodaBarReader(),
	}
}

// symbologyName renders gozxing format names without separators (UPC_A -> UPCA).
func symbologyName(format gozxing.BarcodeFormat) string {
	return strings.ReplaceAll(format.String(), "_", "")
}

func decodeBase64(payload string) ([]byte, bool) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		idx := strings.IndexByte(payload, ',')
		if idx < 0 {
			return nil, false
		}
		payload = payload[idx+1:]
	}
	payload = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, payload)
	if payload == "" {
		return nil, false
	}
	if raw, err := base64.StdEncoding.DecodeString(payload); err == nil {
		return raw, true
	}
	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	if err != nil {
		return nil, false
	}
	return raw, true
}
