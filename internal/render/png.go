package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"
)

// DataURLPrefix starts every PNG data URL.
const DataURLPrefix = "data:image/png;base64,"

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

// DataURL encodes img as a base64 PNG data URL.
func DataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return "", err
	}
	return DataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURL reverses DataURL.
func DecodeDataURL(url string) (image.Image, error) {
	if !strings.HasPrefix(url, DataURLPrefix) {
		return nil, errors.New("render: not a png data url")
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, DataURLPrefix))
	if err != nil {
		return nil, fmt.Errorf("render: decode data url: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("render: decode png: %w", err)
	}
	return img, nil
}
