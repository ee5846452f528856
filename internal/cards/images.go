package cards

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/corona10/goimagehash"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/aio"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/storage"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/web"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Image A stored card image with its perceptual hash split into four 64 bit blocks.
type Image struct {
	ID        int64
	ImageID   uint64
	CardID    CardID
	ImagePath string
	MimeType  string
	PHash1    uint64
	PHash2    uint64
	PHash3    uint64
	PHash4    uint64
}

// BuildFilename Returns file name based on the image mime type.
func (img *Image) BuildFilename() (string, error) {
	if img.ImageID == 0 {
		return "", fmt.Errorf("can't build file name reason: no image id provided")
	}

	return web.NewMimeType(img.MimeType).BuildFilename(strconv.FormatUint(img.ImageID, 10))
}

type ImageResult struct {
	File     io.ReadCloser
	MimeType web.MimeType
}

type ImageDownloader interface {
	GetImage(ctx context.Context, url string) (*ImageResult, error)
}

// ImageDao Keeps track of the stored images.
type ImageDao interface {
	IsImagePresent(ctx context.Context, imageID uint64) (bool, error)
	AddImage(ctx context.Context, img *Image) error
}

type ImageReport struct {
	TotalImages int
	Downloaded  int
	Missing     int
	Skipped     int
}

type Images interface {
	Import(ctx context.Context, cc []Card) (ImageReport, error)
}

type images struct {
	dao        ImageDao
	storer     storage.Storer
	downloader ImageDownloader
	workers    int

	mu     sync.Mutex
	report ImageReport
}

// NewImageImporter downloads the images of up to workers cards at the same time.
func NewImageImporter(dao ImageDao, storer storage.Storer, downloader ImageDownloader, workers int) Images {
	return &images{
		dao:        dao,
		storer:     storer,
		downloader: downloader,
		workers:    max(workers, 1),
	}
}

// Import downloads all images of the cards that are not stored yet. Images that can't be found are
// counted as missing, any other error stops the import.
func (i *images) Import(ctx context.Context, cc []Card) (ImageReport, error) {
	i.mu.Lock()
	i.report = ImageReport{}
	i.mu.Unlock()

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(i.workers)
	for _, c := range cc {
		if c == nil {
			continue
		}
		g.Go(func() error {
			return i.importCard(gCtx, c)
		})
	}

	err := g.Wait()

	i.mu.Lock()
	defer i.mu.Unlock()

	return i.report, err
}

func (i *images) count(f func(r *ImageReport)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	f(&i.report)
}

func (i *images) importCard(ctx context.Context, c Card) error {
	info := c.Info()
	for _, img := range info.Images {
		i.count(func(r *ImageReport) { r.TotalImages++ })

		imgExists, err := i.dao.IsImagePresent(ctx, img.ID)
		if err != nil {
			return fmt.Errorf("failed to check if image %d of card %d already exists, %w", img.ID, info.ID, err)
		}
		if imgExists {
			i.count(func(r *ImageReport) { r.Skipped++ })

			continue
		}

		if err := i.importImage(ctx, info, img); err != nil {
			return err
		}
	}

	return nil
}

func (i *images) importImage(ctx context.Context, info CardInfo, img CardImage) error {
	result, err := i.downloader.GetImage(ctx, img.URL)
	if err != nil {
		if errors.Is(err, ErrImageNotFound) {
			log.Warn().Uint64("cardID", uint64(info.ID)).Uint64("imageID", img.ID).Str("url", img.URL).
				Msg("card image not found")
			i.count(func(r *ImageReport) { r.Missing++ })

			return nil
		}

		return fmt.Errorf("failed to download image %d of card %d, %w", img.ID, info.ID, err)
	}
	defer aio.Close(result.File)

	cardImg := &Image{
		ImageID:  img.ID,
		CardID:   info.ID,
		MimeType: result.MimeType.Raw(),
	}
	fileName, err := cardImg.BuildFilename()
	if err != nil {
		return fmt.Errorf("failed to build filename %w", err)
	}

	storedFile, err := i.storer.Store(result.File, "images", info.ID.String(), fileName)
	if err != nil {
		return fmt.Errorf("failed to store image %d of card %d, %w", img.ID, info.ID, err)
	}
	cardImg.ImagePath = storedFile.Path

	if err := hashImage(storedFile.AbsolutePath, cardImg); err != nil {
		return err
	}

	if err = i.dao.AddImage(ctx, cardImg); err != nil {
		return fmt.Errorf("failed to add image entry for card %d %s %w", info.ID, info.Name, err)
	}
	log.Debug().Msgf("stored card image %s at %s", info.Name, cardImg.ImagePath)

	i.count(func(r *ImageReport) { r.Downloaded++ })

	return nil
}

func hashImage(path string, cardImg *Image) error {
	// #nosec G304 path is created by the storage
	fImg, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file %s, %w", path, err)
	}
	defer aio.Close(fImg)

	img, _, err := image.Decode(fImg)
	if err != nil {
		return fmt.Errorf("failed to decode image %s, %w", path, err)
	}

	imgWidth := 16
	imgHeight := imgWidth
	imgPHash, err := goimagehash.ExtPerceptionHash(img, imgWidth, imgHeight)
	if err != nil {
		return fmt.Errorf("failed to create phash from %s, %w", cardImg.ImagePath, err)
	}
	cardImg.PHash1 = imgPHash.GetHash()[0]
	cardImg.PHash2 = imgPHash.GetHash()[1]
	cardImg.PHash3 = imgPHash.GetHash()[2]
	cardImg.PHash4 = imgPHash.GetHash()[3]

	return nil
}
