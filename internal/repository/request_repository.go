package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"celebrisaludos/internal/models"
)

const requestColumns = `
	id, user_id, user_name, package_id, package_name, package_price,
	recipient_name, occasion, message_details, status, requested_at,
	admin_notes, video_url, celebrity_message_to_fan, ai_image_concept_url
`

type RequestRepository struct {
	pool *pgxpool.Pool
}

func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{pool: pool}
}

func (r *RequestRepository) Create(ctx context.Context, req models.ShoutoutRequest) error {
	const query = `
		INSERT INTO shoutout_requests (` + requestColumns + `) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14, $15
		)
	`

	_, err := r.pool.Exec(ctx, query,
		req.ID,
		req.UserID,
		req.UserName,
		req.PackageID,
		req.PackageName,
		req.PackagePrice,
		req.RecipientName,
		req.Occasion,
		req.MessageDetails,
		req.Status,
		req.RequestedAt,
		req.AdminNotes,
		req.VideoURL,
		req.CelebrityMessageToFan,
		req.AIImageConceptURL,
	)
	return err
}

// Update rewrites the mutable columns. RequestedAt and the package snapshot are never touched.
func (r *RequestRepository) Update(ctx context.Context, req models.ShoutoutRequest) error {
	const query = `
		UPDATE shoutout_requests
		SET status = $2,
		    admin_notes = $3,
		    video_url = $4,
		    celebrity_message_to_fan = $5,
		    ai_image_concept_url = $6,
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		req.ID,
		req.Status,
		req.AdminNotes,
		req.VideoURL,
		req.CelebrityMessageToFan,
		req.AIImageConceptURL,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRequestNotFound
	}
	return nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id string) (models.ShoutoutRequest, error) {
	const query = `SELECT ` + requestColumns + ` FROM shoutout_requests WHERE id = $1`

	req, err := scanRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ShoutoutRequest{}, ErrRequestNotFound
		}
		return models.ShoutoutRequest{}, err
	}
	return req, nil
}

func (r *RequestRepository) List(ctx context.Context, filter RequestFilter) ([]models.ShoutoutRequest, error) {
	const query = `
		SELECT ` + requestColumns + `
		FROM shoutout_requests
		WHERE ($1::text = '' OR user_id = $1)
		  AND ($2::text = '' OR status = $2)
		ORDER BY seq
	`

	rows, err := r.pool.Query(ctx, query, filter.UserID, string(filter.Status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.ShoutoutRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func scanRequest(row pgx.Row) (models.ShoutoutRequest, error) {
	var req models.ShoutoutRequest
	if err := row.Scan(
		&req.ID,
		&req.UserID,
		&req.UserName,
		&req.PackageID,
		&req.PackageName,
		&req.PackagePrice,
		&req.RecipientName,
		&req.Occasion,
		&req.MessageDetails,
		&req.Status,
		&req.RequestedAt,
		&req.AdminNotes,
		&req.VideoURL,
		&req.CelebrityMessageToFan,
		&req.AIImageConceptURL,
	); err != nil {
		return models.ShoutoutRequest{}, err
	}
	req.RequestedAt = req.RequestedAt.UTC()
	return req, nil
}

var _ RequestStore = (*RequestRepository)(nil)
