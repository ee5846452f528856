package ygoprodeck

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/aio"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/cards"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/config"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/query"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/web"
)

const cardInfoPath = "cardinfo.php"

func NewClient(cfg config.Ygoprodeck, wclient web.Client) *Client {
	return &Client{
		cfg:     cfg,
		wclient: wclient,
	}
}

// Client Reads cards and card images from the YGOPRODeck API.
type Client struct {
	cfg     config.Ygoprodeck
	wclient web.Client
}

// Search returns all cards matching the request. An empty request matches the whole catalog.
// The API answers requests without any match with 400, those errors match cards.ErrCardNotFound.
func (c *Client) Search(ctx context.Context, r query.Request) ([]cards.Card, error) {
	url, err := c.cfg.EnsureBaseURL(cardInfoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create card info url due to %w", err)
	}
	if params := r.Encode(); params != "" {
		url += "?" + params
	}

	opts := web.NewGetOpts().
		WithHeader(web.HeaderAccept, web.MimeTypeJSON).
		WithExpectedCodes(http.StatusOK)
	resp, err := c.wclient.Get(ctx, url, opts)
	if err != nil {
		if web.IsStatusCode(err, http.StatusBadRequest, http.StatusNotFound) {
			err = errors.Join(err, cards.ErrCardNotFound)
		}

		return nil, fmt.Errorf("failed to search cards %s due to %w", url, err)
	}
	defer aio.Close(resp.Body)

	cc, err := cards.DecodeList(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode card info response due to %w", err)
	}

	return cc, nil
}

// FindByName returns the first card with exactly the given name.
func (c *Client) FindByName(ctx context.Context, name string) (cards.Card, error) {
	cc, err := c.Search(ctx, query.NewBuilder().WithName(name).Build())
	if err != nil {
		return nil, err
	}

	if len(cc) == 0 {
		return nil, fmt.Errorf("no card with name %s, %w", name, cards.ErrCardNotFound)
	}

	return cc[0], nil
}

// GetImage downloads the image behind the url. Relative urls are resolved against the base url.
// The caller must close the returned file.
func (c *Client) GetImage(ctx context.Context, rawURL string) (*cards.ImageResult, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("missing image url, %w", cards.ErrImageNotFound)
	}

	imgURL, err := c.cfg.EnsureBaseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid card image url %s, %w", rawURL, errors.Join(err, cards.ErrImageNotFound))
	}

	opts := web.NewGetOpts().
		WithHeader(web.HeaderAccept, "image/*").
		WithExpectedCodes(http.StatusOK)
	resp, err := c.wclient.Get(ctx, imgURL, opts)
	if err != nil {
		if web.IsStatusCode(err, http.StatusNotFound) {
			err = errors.Join(err, cards.ErrImageNotFound)
		}

		return nil, fmt.Errorf("failed to get image from %s due to %w", imgURL, err)
	}

	if !resp.MimeType.IsImage() {
		aio.Close(resp.Body)

		return nil, fmt.Errorf("unexpected content type %s for image %s", resp.MimeType.Raw(), imgURL)
	}

	return &cards.ImageResult{
		MimeType: resp.MimeType,
		File:     resp.Body,
	}, nil
}
