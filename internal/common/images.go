package common

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/nfnt/resize"
)

// DecodeDataURL splits a data URL (data:image/png;base64,...) into its mime
// type and raw bytes.
func DecodeDataURL(raw string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(raw, "data:")
	if !ok {
		return "", nil, errors.New("not a data url")
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("malformed data url")
	}

	mime, encoding, ok := strings.Cut(meta, ";")
	if !ok || encoding != "base64" {
		return "", nil, errors.New("only base64 data urls are accepted")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, err
	}

	return mime, data, nil
}

// HashImage fingerprints the image content regardless of file name.
func HashImage(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func DecodeImage(mime string, data []byte) (image.Image, error) {
	reader := bytes.NewReader(data)
	switch mime {
	case "image/jpeg":
		return jpeg.Decode(reader)
	case "image/png", "application/octet-stream":
		return png.Decode(reader)
	case "image/gif":
		return gif.Decode(reader)
	}

	return nil, fmt.Errorf("unsupported image type %s", mime)
}

// Thumbnail scales the image down to the given width keeping the aspect
// ratio. The result uses the same encoding as the input.
func Thumbnail(mime string, data []byte, width uint) ([]byte, error) {
	img, err := DecodeImage(mime, data)
	if err != nil {
		return nil, err
	}

	small := resize.Resize(width, 0, img, resize.Lanczos3)

	buf := new(bytes.Buffer)
	switch mime {
	case "image/jpeg":
		err = jpeg.Encode(buf, small, nil)
	case "image/png", "application/octet-stream":
		err = png.Encode(buf, small)
	case "image/gif":
		err = gif.Encode(buf, small, nil)
	default:
		err = fmt.Errorf("unsupported image type %s", mime)
	}
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func ExtensionByMime(mime string) string {
	switch mime {
	case "image/jpeg":
		return "jpg"
	case "image/gif":
		return "gif"
	default:
		return "png"
	}
}
