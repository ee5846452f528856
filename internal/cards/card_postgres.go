package cards

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/postgres"
)

type PostgresCardDao struct {
	db *postgres.DBConnection
}

func NewCardDao(db *postgres.DBConnection) *PostgresCardDao {
	return &PostgresCardDao{
		db: db,
	}
}

func (d *PostgresCardDao) withTransaction(ctx context.Context, f func(txDao *PostgresCardDao) error) error {
	// create a new dao instance with a transactional connection
	return d.db.WithTransaction(ctx, func(txConn *postgres.DBConnection) error {
		return f(NewCardDao(txConn))
	})
}

// FindCard Finds the card with the given id without sets, prices and images.
// ErrEntryNotFound is returned if no card exists.
func (d *PostgresCardDao) FindCard(ctx context.Context, id CardID) (*Record, error) {
	query := `
		SELECT
			id, kind, name, description, human_readable_type, url, card_type, race, attribute,
			atk, def, level, link_val, link_markers, scale
		FROM
			card
		WHERE
			id = $1`

	var r Record
	var cardID int64
	var kind string
	err := d.db.Conn.QueryRow(ctx, query, int64(id)).Scan(&cardID, &kind, &r.Name, &r.Desc, &r.HumanReadableType,
		&r.URL, &r.CardType, &r.Race, &r.Attribute, &r.Atk, &r.Def, &r.Level, &r.LinkVal, &r.LinkMarkers, &r.Scale)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}

		return nil, fmt.Errorf("failed to execute card select %w", err)
	}
	r.ID = CardID(cardID)
	r.Kind = Kind(kind)

	return &r, nil
}

// CreateCard Creates a new card without sets, prices and images. Will return an error if the card already exists.
func (d *PostgresCardDao) CreateCard(ctx context.Context, r *Record) error {
	query := `
		INSERT INTO
			card (
				id, kind, name, description, human_readable_type, url, card_type, race, attribute,
				atk, def, level, link_val, link_markers, scale
			)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)`

	_, err := d.db.Conn.Exec(ctx, query, int64(r.ID), r.Kind.String(), r.Name, r.Desc, r.HumanReadableType, r.URL,
		r.CardType, r.Race, r.Attribute, r.Atk, r.Def, r.Level, r.LinkVal, r.LinkMarkers, r.Scale)
	if err != nil {
		return fmt.Errorf("failed to execute card insert %w", err)
	}

	return nil
}

// UpdateCard Updates an exist card with the given data.
func (d *PostgresCardDao) UpdateCard(ctx context.Context, r *Record) error {
	query := `
		UPDATE
			card
		SET
			kind = $1, name = $2, description = $3, human_readable_type = $4, url = $5, card_type = $6,
			race = $7, attribute = $8, atk = $9, def = $10, level = $11, link_val = $12, link_markers = $13,
			scale = $14
		WHERE
			id = $15`

	ct, err := d.db.Conn.Exec(ctx, query, r.Kind.String(), r.Name, r.Desc, r.HumanReadableType, r.URL, r.CardType,
		r.Race, r.Attribute, r.Atk, r.Def, r.Level, r.LinkVal, r.LinkMarkers, r.Scale, int64(r.ID))
	if err != nil {
		return fmt.Errorf("failed to execute card update %w", err)
	}
	ra := ct.RowsAffected()
	if ra != 1 {
		return fmt.Errorf("%d cards updated but expected to update only card with id %d", ra, r.ID)
	}

	return nil
}

// FindSets Returns all set prints of the card in their original order.
func (d *PostgresCardDao) FindSets(ctx context.Context, id CardID) ([]CardSet, error) {
	query := `
		SELECT
			name, code, rarity, rarity_code, price
		FROM
			card_set
		WHERE
			card_id = $1
		ORDER BY
			position`

	rows, err := d.db.Conn.Query(ctx, query, int64(id))
	if err != nil {
		return nil, fmt.Errorf("failed to execute card set select %w", err)
	}
	defer rows.Close()

	var result []CardSet
	for rows.Next() {
		var s CardSet
		if err := rows.Scan(&s.Name, &s.Code, &s.Rarity, &s.RarityCode, &s.Price); err != nil {
			return nil, fmt.Errorf("failed to execute card set scan after select %w", err)
		}
		result = append(result, s)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to read card set result %w", rows.Err())
	}

	return result, nil
}

// ReplaceSets Deletes all set prints of the card and adds the given ones.
func (d *PostgresCardDao) ReplaceSets(ctx context.Context, id CardID, sets []CardSet) error {
	if _, err := d.db.Conn.Exec(ctx, "DELETE FROM card_set WHERE card_id = $1", int64(id)); err != nil {
		return fmt.Errorf("failed to execute delete on card set with card id %d %w", id, err)
	}

	query := `
		INSERT INTO
			card_set (
				card_id, position, name, code, rarity, rarity_code, price
			)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)`
	for i, s := range sets {
		_, err := d.db.Conn.Exec(ctx, query, int64(id), i, s.Name, s.Code, s.Rarity, s.RarityCode, s.Price)
		if err != nil {
			return fmt.Errorf("failed to execute card set insert %w", err)
		}
	}

	return nil
}

// FindPrices Returns all price quotes of the card in their original order.
func (d *PostgresCardDao) FindPrices(ctx context.Context, id CardID) ([]CardPrices, error) {
	query := `
		SELECT
			cardmarket, tcgplayer, ebay, amazon, coolstuffinc
		FROM
			card_price
		WHERE
			card_id = $1
		ORDER BY
			position`

	rows, err := d.db.Conn.Query(ctx, query, int64(id))
	if err != nil {
		return nil, fmt.Errorf("failed to execute card price select %w", err)
	}
	defer rows.Close()

	var result []CardPrices
	for rows.Next() {
		var p CardPrices
		if err := rows.Scan(&p.Cardmarket, &p.TCGPlayer, &p.Ebay, &p.Amazon, &p.CoolStuffInc); err != nil {
			return nil, fmt.Errorf("failed to execute card price scan after select %w", err)
		}
		result = append(result, p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to read card price result %w", rows.Err())
	}

	return result, nil
}

// ReplacePrices Deletes all price quotes of the card and adds the given ones.
func (d *PostgresCardDao) ReplacePrices(ctx context.Context, id CardID, prices []CardPrices) error {
	if _, err := d.db.Conn.Exec(ctx, "DELETE FROM card_price WHERE card_id = $1", int64(id)); err != nil {
		return fmt.Errorf("failed to execute delete on card price with card id %d %w", id, err)
	}

	query := `
		INSERT INTO
			card_price (
				card_id, position, cardmarket, tcgplayer, ebay, amazon, coolstuffinc
			)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)`
	for i, p := range prices {
		_, err := d.db.Conn.Exec(ctx, query, int64(id), i, p.Cardmarket, p.TCGPlayer, p.Ebay, p.Amazon, p.CoolStuffInc)
		if err != nil {
			return fmt.Errorf("failed to execute card price insert %w", err)
		}
	}

	return nil
}

// Count Returns the amount of all cards.
func (d *PostgresCardDao) Count(ctx context.Context) (int, error) {
	row := d.db.Conn.QueryRow(ctx, "SELECT count(id) FROM card")
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to execute card count %w", err)
	}

	return count, nil
}

// IsImagePresent Checks if the image with the given image id exists.
func (d *PostgresCardDao) IsImagePresent(ctx context.Context, imageID uint64) (bool, error) {
	query := `
		SELECT
			count(*) > 0
		FROM
			card_image
		WHERE
			image_id = $1`
	var isPresent bool
	// #nosec G115 image ids are passcodes with at most 10 digits
	err := d.db.Conn.QueryRow(ctx, query, int64(imageID)).Scan(&isPresent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("failed to execute count on card_image %w", err)
	}

	return isPresent, nil
}

// CountImages Returns the amount of all card images.
func (d *PostgresCardDao) CountImages(ctx context.Context) (int, error) {
	row := d.db.Conn.QueryRow(ctx, "SELECT count(id) FROM card_image")
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to execute card_image count %w", err)
	}

	return count, nil
}

// AddImage Creates a new card image.
func (d *PostgresCardDao) AddImage(ctx context.Context, img *Image) error {
	query := `
		INSERT INTO
			card_image (
				image_id, card_id, image_path, mime_type,
				phash1, phash2, phash3, phash4
			)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		RETURNING
			id`
	var id int64
	// #nosec G115 image ids are passcodes with at most 10 digits
	err := d.db.Conn.QueryRow(ctx, query,
		int64(img.ImageID), int64(img.CardID), img.ImagePath, img.MimeType,
		fmt.Sprintf("%064b", img.PHash1),
		fmt.Sprintf("%064b", img.PHash2),
		fmt.Sprintf("%064b", img.PHash3),
		fmt.Sprintf("%064b", img.PHash4),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to execute card image insert %w", err)
	}
	img.ID = id

	return nil
}

// GetImages Returns all card images.
func (d *PostgresCardDao) GetImages(ctx context.Context) ([]*Image, error) {
	query := `
		SELECT
			id, image_id, card_id, image_path, mime_type, phash1, phash2, phash3, phash4
		FROM
			card_image
		ORDER BY
			image_id`
	rows, err := d.db.Conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute select on card_image %w", err)
	}
	defer rows.Close()

	var result []*Image
	for rows.Next() {
		var img Image
		var imageID, cardID int64
		var phash1, phash2, phash3, phash4 pgtype.Varbit
		rErr := rows.Scan(&img.ID, &imageID, &cardID, &img.ImagePath, &img.MimeType,
			&phash1, &phash2, &phash3, &phash4)
		if rErr != nil {
			return nil, fmt.Errorf("failed to execute select on card_image %w", rErr)
		}

		// #nosec G115 ids are never negative
		img.ImageID = uint64(imageID)
		img.CardID = CardID(cardID)
		img.PHash1 = binary.BigEndian.Uint64(phash1.Bytes)
		img.PHash2 = binary.BigEndian.Uint64(phash2.Bytes)
		img.PHash3 = binary.BigEndian.Uint64(phash3.Bytes)
		img.PHash4 = binary.BigEndian.Uint64(phash4.Bytes)

		result = append(result, &img)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to read card image result %w", rows.Err())
	}

	return result, nil
}
