// Package barcode extracts barcode readings from encoded images.
//
// Payloads arrive either as raw image bytes (CLI, raw HTTP uploads) or as a
// base64 string optionally carrying a "data:image/...;base64," prefix (the
// browser camera capture). Images are decoded with the standard library codecs
// plus golang.org/x/image for BMP, TIFF and WebP, then scanned with gozxing for
// 1D retail symbologies and QR codes. Decoding never fails loudly: any
// malformed payload yields an empty result.
package barcode
