package deck

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	// Registered decoders: the formats Ingest accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

const dataURIPrefix = "data:"

// EncodeDataURI checks that raw fully decodes as a supported image and
// returns it as "data:image/<format>;base64,<payload>". The bytes are kept
// as-is.
func EncodeDataURI(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("%w: empty input", ErrDecodeFailure)
	}
	// A full decode, so a file cut off after its header is rejected here
	// rather than when the card is revealed.
	_, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	return dataURIPrefix + "image/" + format + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeDataURI splits a base64 data URI into its bytes and media type.
func DecodeDataURI(uri string) ([]byte, string, error) {
	if !strings.HasPrefix(uri, dataURIPrefix) {
		return nil, "", fmt.Errorf("deck: not a data URI")
	}
	meta, payload, found := strings.Cut(uri[len(dataURIPrefix):], ",")
	if !found {
		return nil, "", fmt.Errorf("deck: data URI missing payload")
	}
	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return nil, "", fmt.Errorf("deck: data URI is not base64")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("deck: decode data URI: %w", err)
	}
	return raw, mediaType, nil
}

// DecodeImage decodes the image carried by a data URI.
func DecodeImage(uri string) (image.Image, error) {
	raw, _, err := DecodeDataURI(uri)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	return img, nil
}
