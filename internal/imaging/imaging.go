// Package imaging normalizes uploaded photos into the JPEG payload the model
// API expects: decode whatever arrived, re-encode as JPEG, base64 the bytes.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
)

// ReencodeJPEG decodes a JPEG or PNG image into a bitmap and re-encodes it as
// JPEG at the encoder's default quality. The output is deterministic for
// identical input. Images of any dimensions are accepted.
func ReencodeJPEG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeBase64 returns the standard-alphabet base64 form of imageData for
// embedding in a model request body.
func EncodeBase64(imageData []byte) string {
	return base64.StdEncoding.EncodeToString(imageData)
}
