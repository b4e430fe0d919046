package classifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/disintegration/imaging"

	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
)

// Image is a source image as the extension pointed at it.
type Image struct {
	Data        []byte
	ContentType string
	Filename    string
}

// fetchImage downloads an http(s) image, refusing bodies over maxBytes.
func fetchImage(ctx context.Context, client *http.Client, rawURL string, maxBytes int64) (Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Image{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "build image request")
	}
	req.Header.Set("Accept", "image/*")

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Image{}, pkgerrors.Wrap(pkgerrors.CodeCanceled, err, "image download canceled")
		}
		if errors.Is(err, errBlockedAddress) {
			return Image{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image url must point to a public host").
				WithDetails(map[string]any{"imageUrl": rawURL})
		}
		return Image{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "download image").
			WithDetails(map[string]any{"imageUrl": rawURL})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Image{}, pkgerrors.New(pkgerrors.CodeValidation, "image url is not reachable").
			WithDetails(map[string]any{"imageUrl": rawURL, "status": resp.StatusCode})
	}
	if maxBytes > 0 && resp.ContentLength > maxBytes {
		return Image{}, tooLarge(maxBytes)
	}

	reader := io.Reader(resp.Body)
	if maxBytes > 0 {
		reader = io.LimitReader(resp.Body, maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return Image{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read image body")
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return Image{}, tooLarge(maxBytes)
	}
	return Image{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
		Filename:    filenameFromURL(rawURL),
	}, nil
}

// decodeDataURL unpacks data:[<mediatype>][;base64],<payload>.
func decodeDataURL(raw string, maxBytes int64) (Image, error) {
	header, payload, ok := strings.Cut(raw[len("data:"):], ",")
	if !ok {
		return Image{}, pkgerrors.New(pkgerrors.CodeValidation, "malformed data url")
	}
	params := strings.Split(header, ";")
	contentType := strings.TrimSpace(params[0])
	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}

	var data []byte
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
		if err != nil {
			decoded, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(strings.TrimSpace(payload), "="))
		}
		if err != nil {
			return Image{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "data url is not valid base64")
		}
		data = decoded
	} else {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return Image{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "data url is not valid")
		}
		data = []byte(unescaped)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return Image{}, tooLarge(maxBytes)
	}
	return Image{Data: data, ContentType: contentType, Filename: "image" + extensionFor(contentType)}, nil
}

// normalize decodes the image, fits it inside maxDim x maxDim and re-encodes it
// as JPEG. Images already inside the bound keep their size.
func normalize(img Image, maxDim, quality int) (Image, error) {
	decoded, err := imaging.Decode(bytes.NewReader(img.Data), imaging.AutoOrientation(true))
	if err != nil {
		return Image{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported image format")
	}
	if maxDim > 0 {
		decoded = imaging.Fit(decoded, maxDim, maxDim, imaging.Lanczos)
	}
	if quality <= 0 || quality > 100 {
		quality = 85
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, decoded, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return Image{}, fmt.Errorf("encode jpeg: %w", err)
	}
	name := strings.TrimSuffix(img.Filename, extensionOf(img.Filename))
	if name == "" {
		name = "image"
	}
	return Image{Data: buf.Bytes(), ContentType: "image/jpeg", Filename: name + ".jpg"}, nil
}

func tooLarge(maxBytes int64) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "image exceeds size limit").
		WithDetails(map[string]any{"max_bytes": maxBytes})
}

func filenameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "image"
	}
	segments := strings.Split(strings.TrimRight(parsed.Path, "/"), "/")
	last := segments[len(segments)-1]
	if last == "" {
		return "image"
	}
	return last
}

func extensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return ""
	}
	return name[idx:]
}

func extensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}
