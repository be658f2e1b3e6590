package flexmls

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// ImageMetadata holds the EXIF fields extracted from a listing photo.
type ImageMetadata struct {
	Artist            string
	Copyright         string
	Make              string
	Model             string
	LensModel         string
	BodySerialNumber  string
	DateTimeDigitized string
}

var imageClient = &http.Client{Timeout: 30 * time.Second}

// fetchImage downloads a listing photo and returns its bytes.
func fetchImage(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("image: build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := imageClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image: fetch %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 20<<20))
	if err != nil {
		return nil, fmt.Errorf("image: read %s: %w", url, err)
	}
	return data, nil
}

// extractMetadata pulls the photographer-relevant EXIF tags out of an image.
// Photos with stripped or unreadable metadata yield an empty struct, which
// downstream treats as a presumed-vendor signal.
func extractMetadata(data []byte) ImageMetadata {
	var meta ImageMetadata

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return meta
	}

	get := func(name exif.FieldName) string {
		tag, err := x.Get(name)
		if err != nil {
			return ""
		}
		if s, err := tag.StringVal(); err == nil {
			return s
		}
		return tag.String()
	}

	meta.Artist = get(exif.Artist)
	meta.Copyright = get(exif.Copyright)
	meta.Make = get(exif.Make)
	meta.Model = get(exif.Model)
	meta.LensModel = get(exif.FieldName("LensModel"))
	meta.BodySerialNumber = get(exif.FieldName("BodySerialNumber"))
	meta.DateTimeDigitized = get(exif.DateTimeDigitized)

	return meta
}
