package listings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"rooms-workers/internal/common/logger"
	"rooms-workers/internal/models"
)

const listingColumns = `id, owner_id, title, rent, move_in_date, room_type, city, locality, latitude, longitude, miko_tags`

const (
	queryListingByID   = `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	queryListingsByIDs = `SELECT ` + listingColumns + ` FROM listings WHERE id = ANY($1)`
)

// Repository reads listings from Postgres. It never writes.
type Repository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewRepository(db *sql.DB, log logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"source": "postgres"}),
	}
}

func (r *Repository) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	listing, err := scanListing(r.db.QueryRowContext(ctx, queryListingByID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("query listing %s: %w", id, err)
	}
	return listing, nil
}

func (r *Repository) GetListings(ctx context.Context, ids []string) ([]models.Listing, error) {
	if len(ids) == 0 {
		return []models.Listing{}, nil
	}
	if err := validateIDs(ids); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, queryListingsByIDs, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer rows.Close()

	found := make(map[string]models.Listing, len(ids))
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		found[listing.ID] = *listing
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}

	r.logger.Debug("listings loaded", map[string]interface{}{
		"requested": len(ids),
		"found":     len(found),
	})
	return orderByIDs(ids, found)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanListing(row rowScanner) (*models.Listing, error) {
	var (
		listing   models.Listing
		title     sql.NullString
		moveIn    sql.NullTime
		locality  sql.NullString
		latitude  sql.NullFloat64
		longitude sql.NullFloat64
		mikoTags  []byte
	)

	err := row.Scan(
		&listing.ID,
		&listing.OwnerID,
		&title,
		&listing.Rent,
		&moveIn,
		&listing.RoomType,
		&listing.City,
		&locality,
		&latitude,
		&longitude,
		&mikoTags,
	)
	if err != nil {
		return nil, err
	}

	listing.Title = title.String
	listing.Locality = locality.String
	if moveIn.Valid {
		listing.MoveInDate = moveIn.Time.Format("2006-01-02")
	}
	if latitude.Valid {
		lat := latitude.Float64
		listing.Latitude = &lat
	}
	if longitude.Valid {
		lng := longitude.Float64
		listing.Longitude = &lng
	}
	if len(mikoTags) > 0 {
		if err := json.Unmarshal(mikoTags, &listing.MikoTags); err != nil {
			return nil, fmt.Errorf("decode miko_tags for %s: %w", listing.ID, err)
		}
	}
	return &listing, nil
}
