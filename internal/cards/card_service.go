package cards

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

type Service[T any] interface {
	Import(ctx context.Context, data T) error
	Count(ctx context.Context) (int, error)
}

type cardService struct {
	dao *PostgresCardDao
}

func NewCardService(dao *PostgresCardDao) Service[Card] {
	return &cardService{
		dao: dao,
	}
}

func (s *cardService) Count(ctx context.Context) (int, error) {
	return s.dao.Count(ctx)
}

// Import Creates the card or updates it if it already exists. Sets and prices are replaced if they changed.
func (s *cardService) Import(ctx context.Context, card Card) error {
	if card == nil {
		// Skip nil card
		return nil
	}

	r := NewRecord(card)
	if err := r.isValid(); err != nil {
		return fmt.Errorf("card is invalid %w", err)
	}

	return s.dao.withTransaction(ctx, func(txDao *PostgresCardDao) error {
		isNewCard, err := mergeCard(ctx, txDao, r)
		if err != nil {
			return err
		}
		if err := mergeSets(ctx, txDao, r, isNewCard); err != nil {
			return err
		}

		return mergePrices(ctx, txDao, r, isNewCard)
	})
}

func mergeCard(ctx context.Context, txDao *PostgresCardDao, r *Record) (bool, error) {
	existing, err := txDao.FindCard(ctx, r.ID)
	if err != nil && !errors.Is(err, ErrEntryNotFound) {
		return false, fmt.Errorf("failed to find card with id %d. %w", r.ID, err)
	}

	if existing == nil {
		if err := txDao.CreateCard(ctx, r); err != nil {
			log.Error().Err(err).Msgf("Failed to create card %d %s", r.ID, r.Name)

			return false, err
		}
		if e := log.Trace(); e.Enabled() {
			e.Msgf("Created card %d %s", r.ID, r.Name)
		}

		return true, nil
	}

	diff := existing.Diff(r)
	if diff.HasChanges() {
		log.Info().Msgf("Update card %d %s with changes %s", r.ID, r.Name, diff.String())
		if err := txDao.UpdateCard(ctx, r); err != nil {
			return false, err
		}
	}

	return false, nil
}

func mergeSets(ctx context.Context, txDao *PostgresCardDao, r *Record, isNewCard bool) error {
	if isNewCard && len(r.Sets) == 0 {
		// skip, nothing to create or delete
		return nil
	}

	if !isNewCard {
		existing, err := txDao.FindSets(ctx, r.ID)
		if err != nil {
			return fmt.Errorf("failed to get assigned sets %w", err)
		}
		if setsEqual(existing, r.Sets) {
			return nil
		}
		log.Info().Msgf("Update sets of card %d %s from %d to %d entries", r.ID, r.Name, len(existing), len(r.Sets))
	}

	return txDao.ReplaceSets(ctx, r.ID, r.Sets)
}

func mergePrices(ctx context.Context, txDao *PostgresCardDao, r *Record, isNewCard bool) error {
	if isNewCard && len(r.Prices) == 0 {
		return nil
	}

	if !isNewCard {
		existing, err := txDao.FindPrices(ctx, r.ID)
		if err != nil {
			return fmt.Errorf("failed to get assigned prices %w", err)
		}
		if pricesEqual(existing, r.Prices) {
			return nil
		}
		if e := log.Debug(); e.Enabled() {
			e.Msgf("Update prices of card %d %s", r.ID, r.Name)
		}
	}

	return txDao.ReplacePrices(ctx, r.ID, r.Prices)
}
