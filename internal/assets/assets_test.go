package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/png"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 0xff, A: 0xff})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newFetcher(t *testing.T, host string) *Fetcher {
	t.Helper()
	f, err := NewFetcher(Config{DataDir: t.TempDir(), Host: host, Workers: 2})
	require.NoError(t, err)
	return f
}

func waitEvent(t *testing.T, f *Fetcher) Ready {
	t.Helper()
	select {
	case r := <-f.Events():
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for image event")
		return Ready{}
	}
}

func assertNoEvent(t *testing.T, f *Fetcher) {
	t.Helper()
	select {
	case r := <-f.Events():
		t.Fatalf("unexpected event for %s", r.Asset)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestAssetNaming(t *testing.T) {
	logo := Logo("0a1b2c3d-4444")
	shot := Screenshot("0a1b2c3d-4444")

	assert.Equal(t, "0a1b2c3d-4444", logo.ID())
	assert.Equal(t, "0a1b2c3d-4444_screenshot", shot.ID())
	assert.Equal(t, "https://infinity.unstable.life/images/Logos/0a/1b/0a1b2c3d-4444.png?type=jpg", logo.URL(DefaultHost))
	assert.Equal(t, "https://infinity.unstable.life/images/Screenshots/0a/1b/0a1b2c3d-4444.png?type=jpg", shot.URL(DefaultHost+"/"))
	assert.Equal(t, filepath.Join("data", "0a1b2c3d-4444.png"), logo.Path("data"))
	assert.Equal(t, filepath.Join("data", "0a1b2c3d-4444_screenshot.png"), shot.Path("data"))

	assert.Equal(t, "http://h/images/Logos/ab/c/abc.png?type=jpg", Logo("abc").URL("http://h"))
}

func TestKindBox(t *testing.T) {
	w, h := KindLogo.Box()
	assert.Equal(t, []int{200, 200}, []int{w, h})
	w, h = KindScreenshot.Box()
	assert.Equal(t, []int{400, 200}, []int{w, h})
}

func TestFit(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		boxW, boxH   int
		wantW, wantH int
	}{
		{"already fits", 100, 50, 200, 200, 100, 50},
		{"wide", 800, 400, 200, 200, 200, 100},
		{"tall", 300, 600, 200, 200, 100, 200},
		{"screenshot", 1600, 1200, 400, 200, 266, 200},
		{"sliver", 10000, 1, 200, 200, 200, 1},
		{"no width", 0, 300, 200, 200, 200, 200},
		{"no height", 300, 0, 200, 200, 200, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := Fit(image.NewRGBA(image.Rect(0, 0, tt.w, tt.h)), tt.boxW, tt.boxH)
			assert.Equal(t, tt.wantW, img.Bounds().Dx())
			assert.Equal(t, tt.wantH, img.Bounds().Dy())
		})
	}
}

func TestRequestServesLocalFileWithoutNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := newFetcher(t, srv.URL)
	a := Logo("local1")
	require.NoError(t, os.WriteFile(a.Path(f.DataDir()), pngBytes(t, 400, 400), 0o600))

	r := f.Request(a)
	require.NotNil(t, r)
	assert.True(t, r.Local)
	assert.NoError(t, r.Err)
	assert.Equal(t, 200, r.Image.Bounds().Dx())

	assertNoEvent(t, f)
	assert.Equal(t, int32(0), hits.Load())
}

func TestRequestDownloadsAndStores(t *testing.T) {
	body := pngBytes(t, 800, 400)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/Screenshots/ab/cd/abcdef.png", r.URL.Path)
		assert.Equal(t, "jpg", r.URL.Query().Get("type"))
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	f := newFetcher(t, srv.URL)
	a := Screenshot("abcdef")

	assert.Nil(t, f.Request(a))
	r := waitEvent(t, f)
	require.NoError(t, r.Err)
	assert.Equal(t, a, r.Asset)
	assert.False(t, r.Local)
	assert.Equal(t, 400, r.Image.Bounds().Dx())
	assert.Equal(t, 200, r.Image.Bounds().Dy())

	onDisk, err := os.ReadFile(a.Path(f.DataDir()))
	require.NoError(t, err, "file must be stored before the event is sent")
	assert.Equal(t, body, onDisk)

	assertNoEvent(t, f)
	assert.Equal(t, 0, f.InFlight())

	again := f.Request(a)
	require.NotNil(t, again, "second request should use the stored file")
	assert.True(t, again.Local)
}

func TestRequestFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			check: func(t *testing.T, err error) {
				var fe *FetchError
				require.True(t, errors.As(err, &fe))
				assert.Equal(t, http.StatusNotFound, fe.Status)
			},
		},
		{
			name:    "empty body",
			handler: func(w http.ResponseWriter, _ *http.Request) {},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrEmptyBody)
			},
		},
		{
			name: "not an image",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("<html>oops</html>"))
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrDecode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			f := newFetcher(t, srv.URL)
			a := Logo("bad123")

			assert.Nil(t, f.Request(a))
			r := waitEvent(t, f)
			require.Error(t, r.Err)
			assert.Equal(t, ErrorImage, r.Image)
			tt.check(t, r.Err)

			_, err := os.Stat(a.Path(f.DataDir()))
			assert.True(t, os.IsNotExist(err), "failed fetch must not leave a file")
			assertNoEvent(t, f)
		})
	}
}

func TestRequestDegenerateImage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, image.NewPaletted(image.Rect(0, 0, 0, 300), palette.Plan9), nil))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	f := newFetcher(t, srv.URL)
	a := Logo("abcdef")

	assert.Nil(t, f.Request(a))
	r := waitEvent(t, f)
	require.Error(t, r.Err)
	assert.Equal(t, ErrorImage, r.Image)
	_, err := os.Stat(a.Path(f.DataDir()))
	assert.True(t, os.IsNotExist(err))
	assertNoEvent(t, f)
}

func noisyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	rng := rand.New(rand.NewPCG(1, 2))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Uint32())
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRequestDuringWriteKeepsFile(t *testing.T) {
	body := noisyPNG(t, 1000, 1000)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	for i := 0; i < 5; i++ {
		f := newFetcher(t, srv.URL)
		a := Logo(fmt.Sprintf("abcdef%d", i))
		hits.Store(0)

		require.Nil(t, f.Request(a))
		var ready Ready
		deadline := time.After(5 * time.Second)
	wait:
		for {
			select {
			case ready = <-f.Events():
				break wait
			case <-deadline:
				t.Fatal("timed out waiting for image event")
			default:
				if r := f.Request(a); r != nil {
					require.NoError(t, r.Err)
					assert.True(t, r.Local)
				}
			}
		}

		require.NoError(t, ready.Err)
		onDisk, err := os.ReadFile(a.Path(f.DataDir()))
		require.NoError(t, err, "stored file must survive requests made while it was written")
		assert.Equal(t, body, onDisk)
		assert.Equal(t, int32(1), hits.Load())

		leftovers, err := filepath.Glob(filepath.Join(f.DataDir(), "*.tmp"))
		require.NoError(t, err)
		assert.Empty(t, leftovers)
		assertNoEvent(t, f)
	}
}

func TestRequestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	host := srv.URL
	srv.Close()

	f := newFetcher(t, host)
	assert.Nil(t, f.Request(Logo("gone")))

	r := waitEvent(t, f)
	require.Error(t, r.Err)
	assert.Equal(t, ErrorImage, r.Image)
	assertNoEvent(t, f)
}

func TestRequestJoinsInFlightDownload(t *testing.T) {
	release := make(chan struct{})
	var hits atomic.Int32
	body := pngBytes(t, 50, 50)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	f := newFetcher(t, srv.URL)
	a := Logo("dup")

	assert.Nil(t, f.Request(a))
	assert.Nil(t, f.Request(a))
	assert.Nil(t, f.Request(a))
	assert.Equal(t, 1, f.InFlight())

	close(release)
	r := waitEvent(t, f)
	require.NoError(t, r.Err)
	assertNoEvent(t, f)
	assert.Equal(t, int32(1), hits.Load())
}

func TestRequestInvalidAsset(t *testing.T) {
	f := newFetcher(t, "http://127.0.0.1:1")
	r := f.Request(Logo(""))
	require.NotNil(t, r)
	assert.ErrorIs(t, r.Err, ErrInvalidAsset)
	assert.Equal(t, ErrorImage, r.Image)
}

func TestLoadRemovesUnreadableFile(t *testing.T) {
	f := newFetcher(t, "http://127.0.0.1:1")
	a := Logo("torn")
	path := a.Path(f.DataDir())
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG garbage"), 0o600))

	r, ok := f.Load(a)
	assert.False(t, ok)
	assert.Nil(t, r)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCloseClosesEvents(t *testing.T) {
	f := newFetcher(t, "http://127.0.0.1:1")
	f.Close()

	_, open := <-f.Events()
	assert.False(t, open)

	r := f.Request(Logo("late"))
	require.NotNil(t, r)
	assert.ErrorIs(t, r.Err, ErrClosed)

	f.Close()
}
