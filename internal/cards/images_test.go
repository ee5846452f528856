package cards_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"io/fs"
	"path/filepath"
	"sync"
	"testing"

	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/cards"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/config"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/storage"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImageDao struct {
	mu      sync.Mutex
	present map[uint64]bool
	added   []*cards.Image
}

func (d *fakeImageDao) IsImagePresent(_ context.Context, imageID uint64) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.present[imageID], nil
}

func (d *fakeImageDao) AddImage(_ context.Context, img *cards.Image) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.added = append(d.added, img)

	return nil
}

type fakeDownloader struct {
	images map[string][]byte
	err    error
}

func (f *fakeDownloader) GetImage(_ context.Context, url string) (*cards.ImageResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	content, ok := f.images[url]
	if !ok {
		return nil, errors.Join(cards.ErrImageNotFound, errors.New("404"))
	}

	return &cards.ImageResult{
		File:     io.NopCloser(bytes.NewReader(content)),
		MimeType: web.NewMimeType(web.MimeTypeJpeg),
	}, nil
}

func gradientJpeg(t *testing.T) []byte {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for x := range 64 {
		for y := range 64 {
			img.SetGray(x, y, color.Gray{Y: uint8((x*x + y*3) % 256)})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	return buf.Bytes()
}

func cardWithImages(id cards.CardID, imageIDs ...uint64) cards.Card {
	var imgs []cards.CardImage
	for _, imgID := range imageIDs {
		imgs = append(imgs, cards.CardImage{ID: imgID, URL: "http://localhost/" + cards.CardID(imgID).String() + ".jpg"})
	}

	return &cards.SpellCard{
		CardInfo: cards.CardInfo{ID: id, Name: "Spell " + id.String(), Images: imgs},
		Race:     cards.SpellNormal,
	}
}

func TestImageImport(t *testing.T) {
	dir := t.TempDir()
	localStorage, err := storage.NewLocalStorage(config.Storage{Location: dir})
	require.NoError(t, err)
	content := gradientJpeg(t)
	downloader := &fakeDownloader{images: map[string][]byte{
		"http://localhost/11.jpg": content,
		"http://localhost/12.jpg": content,
		"http://localhost/21.jpg": content,
	}}
	dao := &fakeImageDao{present: map[uint64]bool{12: true}}
	importer := cards.NewImageImporter(dao, localStorage, downloader, 2)

	report, err := importer.Import(t.Context(), []cards.Card{
		cardWithImages(1, 11, 12),
		cardWithImages(2, 21),
		cardWithImages(3, 31),
	})

	require.NoError(t, err)
	assert.Equal(t, cards.ImageReport{TotalImages: 4, Downloaded: 2, Missing: 1, Skipped: 1}, report)
	assert.Equal(t, 2, fileCount(t, dir))
	assert.FileExists(t, filepath.Join(dir, "images", "1", "11.jpg"))
	assert.FileExists(t, filepath.Join(dir, "images", "2", "21.jpg"))
	require.Len(t, dao.added, 2)
	for _, img := range dao.added {
		assert.Equal(t, web.MimeTypeJpeg, img.MimeType)
		assert.Equal(t, filepath.Join("images", img.CardID.String(), cards.CardID(img.ImageID).String()+".jpg"),
			img.ImagePath)
		assert.NotZero(t, img.PHash1|img.PHash2|img.PHash3|img.PHash4)
	}
}

func TestImageImportResetsReport(t *testing.T) {
	localStorage, err := storage.NewLocalStorage(config.Storage{Location: t.TempDir()})
	require.NoError(t, err)
	dao := &fakeImageDao{present: map[uint64]bool{11: true}}
	importer := cards.NewImageImporter(dao, localStorage, &fakeDownloader{}, 1)

	_, err = importer.Import(t.Context(), []cards.Card{cardWithImages(1, 11)})
	require.NoError(t, err)
	report, err := importer.Import(t.Context(), []cards.Card{cardWithImages(1, 11)})
	require.NoError(t, err)

	assert.Equal(t, cards.ImageReport{TotalImages: 1, Skipped: 1}, report)
}

func TestImageImportFailsOnDownloadError(t *testing.T) {
	localStorage, err := storage.NewLocalStorage(config.Storage{Location: t.TempDir()})
	require.NoError(t, err)
	downloadErr := errors.New("connection reset")
	importer := cards.NewImageImporter(&fakeImageDao{}, localStorage, &fakeDownloader{err: downloadErr}, 4)

	_, err = importer.Import(t.Context(), []cards.Card{cardWithImages(1, 11)})

	require.ErrorIs(t, err, downloadErr)
}

func TestImageImportFailsOnInvalidImage(t *testing.T) {
	localStorage, err := storage.NewLocalStorage(config.Storage{Location: t.TempDir()})
	require.NoError(t, err)
	downloader := &fakeDownloader{images: map[string][]byte{"http://localhost/11.jpg": []byte("no image")}}
	dao := &fakeImageDao{}
	importer := cards.NewImageImporter(dao, localStorage, downloader, 1)

	_, err = importer.Import(t.Context(), []cards.Card{cardWithImages(1, 11)})

	require.ErrorContains(t, err, "failed to decode image")
	assert.Empty(t, dao.added)
}

func TestImageBuildFilename(t *testing.T) {
	img := &cards.Image{ImageID: 78780140, MimeType: "image/png"}

	name, err := img.BuildFilename()

	require.NoError(t, err)
	assert.Equal(t, "78780140.png", name)

	_, err = (&cards.Image{MimeType: "image/png"}).BuildFilename()
	assert.Error(t, err)
}

func fileCount(t *testing.T, path string) int {
	t.Helper()

	sum := 0
	err := filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		sum++

		return nil
	})
	require.NoErrorf(t, err, "failed to read dir %s", path)

	return sum
}
