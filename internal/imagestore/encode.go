package imagestore

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/h2non/bimg"
)

// Encoder turns raw upload bytes into a data URI. When MaxDimension is set, images
// whose longest side exceeds it are downscaled with bimg (libvips) first.
type Encoder struct {
	MaxDimension int
}

// NewEncoder creates an Encoder. maxDimension <= 0 leaves bytes untouched.
func NewEncoder(maxDimension int) *Encoder {
	return &Encoder{MaxDimension: maxDimension}
}

// EncodeDataURI builds "data:<mime>;base64,<payload>". declaredType is the part's
// Content-Type header as sent by the browser; it wins unless it is missing or generic.
func (e *Encoder) EncodeDataURI(data []byte, declaredType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty image payload")
	}

	if e.MaxDimension > 0 {
		resized, err := downscale(data, e.MaxDimension)
		if err != nil {
			return "", err
		}
		data = resized
	}

	mime := declaredType
	if mime == "" || mime == "application/octet-stream" {
		mime = sniffMIME(data)
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// sniffMIME asks libvips first since it knows webp, heif and svg;
// http.DetectContentType covers anything libvips does not recognise.
func sniffMIME(data []byte) string {
	switch name := bimg.DetermineImageTypeName(data); name {
	case "", "unknown":
	case "svg":
		return "image/svg+xml"
	default:
		return "image/" + name
	}
	return http.DetectContentType(data)
}

// downscale shrinks an image so its longest side is at most maxDim pixels, keeping
// the aspect ratio and the original format. Smaller images are returned as-is.
func downscale(data []byte, maxDim int) ([]byte, error) {
	img := bimg.NewImage(data)

	size, err := img.Size()
	if err != nil {
		// Not something libvips can read; upload it untouched and let the host decide.
		return data, nil
	}
	if size.Width <= maxDim && size.Height <= maxDim {
		return data, nil
	}

	opts := bimg.Options{}
	if size.Width >= size.Height {
		opts.Width = maxDim
	} else {
		opts.Height = maxDim
	}

	resized, err := img.Process(opts)
	if err != nil {
		return nil, fmt.Errorf("resizing to %dpx: %w", maxDim, err)
	}
	return resized, nil
}
