package imagepkg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoSourceFetch(t *testing.T) {
	body, err := EncodeJPEG(RenderPlaceholder(30, 40))
	require.NoError(t, err)

	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		if r.URL.Query().Get("random") == "404" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	src := NewPhotoSource(srv.URL+"/200/300/", time.Second)
	src.Now = fixedClock

	photo, err := src.Fetch(context.Background(), "12")
	require.NoError(t, err)
	assert.Equal(t, "random=12&t=1700000000000", gotQuery)
	assert.Equal(t, "image/jpeg", photo.ContentType)

	img, err := photo.Decode()
	require.NoError(t, err)
	assert.Equal(t, 30, img.Bounds().Dx())

	thumb := Thumbnail(img, 10, 10)
	assert.Equal(t, 10, thumb.Bounds().Dx())

	_, err = src.Fetch(context.Background(), "404")
	assert.Error(t, err)
}
