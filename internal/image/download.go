package imagepkg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/youruser/storycards/internal/util"
)

// Photo is an upstream image as fetched, before any re-encoding.
type Photo struct {
	Body        []byte
	ContentType string
}

// PhotoSource fetches photos for the picsum proxy.
type PhotoSource struct {
	BaseURL string // e.g. https://picsum.photos/200/300
	Client  *http.Client
	Now     func() time.Time
}

func NewPhotoSource(baseURL string, timeout time.Duration) *PhotoSource {
	return &PhotoSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
		Now:     time.Now,
	}
}

// URL returns the upstream address for a photo id, cache-busted.
func (s *PhotoSource) URL(id string) string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return fmt.Sprintf("%s?random=%s&t=%d", s.BaseURL, id, now().UnixMilli())
}

// Fetch downloads the photo for id.
func (s *PhotoSource) Fetch(ctx context.Context, id string) (Photo, error) {
	body, header, err := util.GetBytes(ctx, s.Client, s.URL(id))
	if err != nil {
		return Photo{}, err
	}
	ct := header.Get("Content-Type")
	if ct == "" {
		ct = "image/jpeg"
	}
	return Photo{Body: body, ContentType: ct}, nil
}

// Decode parses the photo body into an image.
func (p Photo) Decode() (image.Image, error) {
	return imaging.Decode(bytes.NewReader(p.Body), imaging.AutoOrientation(true))
}

// EncodeJPEG re-encodes img for the proxy's resized responses.
func EncodeJPEG(img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
