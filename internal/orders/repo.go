package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("order not found")

// Schema creates the lookup table when it does not exist yet.
const Schema = `
CREATE TABLE IF NOT EXISTS order_information (
	order_id   TEXT PRIMARY KEY,
	image      TEXT NOT NULL DEFAULT '',
	sizes      TEXT[] NOT NULL DEFAULT '{}',
	colors     TEXT[] NOT NULL DEFAULT '{}',
	value      TEXT NOT NULL DEFAULT '',
	title      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.Exec(ctx, Schema)
	return err
}

func (r *Repo) GetOrder(ctx context.Context, orderID string) (*OrderInformation, error) {
	var o OrderInformation
	err := r.DB.QueryRow(ctx, `
		SELECT order_id, image, sizes, colors, value, title
		FROM order_information WHERE order_id=$1`, orderID,
	).Scan(&o.OrderID, &o.Image, &o.Size, &o.Color, &o.Value, &o.Title)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
