package app

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ppe-inspector/internal/domain/entity"
	"ppe-inspector/internal/infrastructure/storage"
)

type fakeAssessor struct {
	verdict entity.QualityVerdict
}

func (a fakeAssessor) Assess(img image.Image) entity.QualityVerdict {
	return a.verdict
}

var goodQuality = entity.QualityVerdict{IsGood: true, Sharpness: 500, Brightness: 120, Issues: []string{}}

type fakeEnhancer struct {
	calls int
	err   error
	out   image.Image
}

func (e *fakeEnhancer) Enhance(img image.Image) (image.Image, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return e.out, nil
}

type fakeDetector struct {
	mu         sync.Mutex
	detections []entity.Detection
	err        error
	seen       []image.Image
}

func (d *fakeDetector) Detect(ctx context.Context, img image.Image) ([]entity.Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = append(d.seen, img)
	return d.detections, d.err
}

func (d *fakeDetector) Close() error { return nil }

func testImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 4, 4))
}

// fakeDecoder отдаёт заранее заданное изображение, байты "bad" не декодируются.
type fakeDecoder struct{}

func (fakeDecoder) Decode(data []byte) (image.Image, error) {
	if len(data) == 0 || string(data) == "bad" {
		return nil, entity.ErrInvalidImage
	}
	return testImage(), nil
}

// fakeEncoder возвращает векторы по содержимому снимка.
type fakeEncoder struct {
	faces map[string][][]float32
	err   error
	last  string
}

func (e *fakeEncoder) Encode(ctx context.Context, img image.Image) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.faces[e.last], nil
}

// encoderDecoder связывает байты снимка с ответом кодировщика.
type encoderDecoder struct {
	enc *fakeEncoder
}

func (d encoderDecoder) Decode(data []byte) (image.Image, error) {
	if string(data) == "bad" {
		return nil, entity.ErrInvalidImage
	}
	d.enc.last = string(data)
	return testImage(), nil
}

type memPhotoStore struct {
	saved map[string][]byte
	err   error
}

func (s *memPhotoStore) Save(prefix string, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	name := prefix + "_photo.jpg"
	s.saved[name] = data
	return name, nil
}

func (s *memPhotoStore) Path(filename string) (string, error) {
	if _, ok := s.saved[filename]; !ok {
		return "", entity.ErrNotFound
	}
	return "/photos/" + filename, nil
}

func (s *memPhotoStore) Remove(filename string) error {
	delete(s.saved, filename)
	return nil
}

type fakeCamera struct {
	closed   bool
	frame    []byte
	captures int
	err      error
}

func (c *fakeCamera) Capture(ctx context.Context) (image.Image, error) {
	c.captures++
	if c.err != nil {
		return nil, c.err
	}
	return testImage(), nil
}

func (c *fakeCamera) Frame() ([]byte, error) {
	return c.frame, c.err
}

func (c *fakeCamera) Close() error {
	c.closed = true
	return nil
}

var errBoom = errors.New("boom")

func newStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}
