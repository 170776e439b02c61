package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrBadDataURI = errors.New("malformed data uri")

var httpClient = &http.Client{Timeout: 30 * time.Second}

// DecodeImageURL turns a generated image reference into an image. Data URIs
// are decoded in place, http(s) URLs are downloaded.
func DecodeImageURL(ctx context.Context, ref string) (image.Image, error) {
	data, err := ReadImageURL(ctx, ref)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// ReadImageURL returns the raw encoded bytes behind ref.
func ReadImageURL(ctx context.Context, ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "data:") {
		return decodeDataURI(ref)
	}

	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("parse image url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported image url scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed (%d)", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response failed: %w", err)
	}
	return data, nil
}

func decodeDataURI(ref string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, ErrBadDataURI
	}
	if !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("%w: only base64 payloads are supported", ErrBadDataURI)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDataURI, err)
	}
	return data, nil
}
