package ygoprodeck

import (
	"context"
	"fmt"

	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/cards"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/query"
	"github.com/rs/zerolog/log"
)

type Searcher interface {
	Search(ctx context.Context, r query.Request) ([]cards.Card, error)
}

type Importer struct {
	searcher    Searcher
	cardService cards.Service[cards.Card]
}

func NewImporter(searcher Searcher, cardService cards.Service[cards.Card]) *Importer {
	return &Importer{
		searcher:    searcher,
		cardService: cardService,
	}
}

var _ cards.Dataset[query.Request] = (*Importer)(nil)

// Import searches the catalog and imports every matching card.
func (imp *Importer) Import(ctx context.Context, r query.Request) (*cards.Report, error) {
	log.Info().Msgf("Searching cards with %s", r)
	cc, err := imp.searcher.Search(ctx, r)
	if err != nil {
		return nil, err
	}

	return imp.ImportCards(ctx, cc)
}

// ImportCards imports the cards ordered by id. Cards with the same id are imported once.
// The import stops with the first failing card.
func (imp *Importer) ImportCards(ctx context.Context, cc []cards.Card) (*cards.Report, error) {
	unique := cards.Dedupe(cc)
	cards.SortByID(unique)

	report := &cards.Report{CardCount: len(unique)}
	for _, c := range unique {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("import cancelled after %d cards, %w", report.Imported, err)
		}

		if err := imp.cardService.Import(ctx, c); err != nil {
			return report, fmt.Errorf("failed to import card %d %s, %w", c.Info().ID, c.Info().Name, err)
		}
		report.Imported++
	}
	log.Info().Msgf("Imported %d of %d cards", report.Imported, report.CardCount)

	return report, nil
}
