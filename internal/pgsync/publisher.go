// Package pgsync publishes the curated catalog to the storefront database.
package pgsync

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/boutique-lumiere/curator/internal/catalog"
	"github.com/boutique-lumiere/curator/internal/models"
	"github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	name_fr        TEXT NOT NULL,
	name_en        TEXT NOT NULL,
	slug           TEXT NOT NULL,
	price          BIGINT NOT NULL,
	old_price      BIGINT,
	description    TEXT NOT NULL,
	description_fr TEXT NOT NULL,
	description_en TEXT NOT NULL,
	category       TEXT NOT NULL,
	subcategory    TEXT,
	images         TEXT[] NOT NULL,
	sizes          TEXT[],
	colors         JSONB,
	position       INTEGER NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS placeholder_images (
	id          TEXT PRIMARY KEY,
	description TEXT NOT NULL,
	image_url   TEXT NOT NULL,
	image_hint  TEXT NOT NULL
);`

const upsertProduct = `
INSERT INTO products (id, name, name_fr, name_en, slug, price, old_price, description, description_fr,
	description_en, category, subcategory, images, sizes, colors, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	name_fr = EXCLUDED.name_fr,
	name_en = EXCLUDED.name_en,
	slug = EXCLUDED.slug,
	price = EXCLUDED.price,
	old_price = EXCLUDED.old_price,
	description = EXCLUDED.description,
	description_fr = EXCLUDED.description_fr,
	description_en = EXCLUDED.description_en,
	category = EXCLUDED.category,
	subcategory = EXCLUDED.subcategory,
	images = EXCLUDED.images,
	sizes = EXCLUDED.sizes,
	colors = EXCLUDED.colors,
	position = EXCLUDED.position,
	updated_at = now()`

const upsertImage = `
INSERT INTO placeholder_images (id, description, image_url, image_hint)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET
	description = EXCLUDED.description,
	image_url = EXCLUDED.image_url,
	image_hint = EXCLUDED.image_hint`

// Result counts what a publish wrote
type Result struct {
	Products int
	Images   int
	Pruned   int
}

// Publisher upserts catalog rows into Postgres
type Publisher struct {
	db *sql.DB
}

// Open connects to the database at url
func Open(ctx context.Context, url string) (*Publisher, error) {
	if url == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Publisher{db: db}, nil
}

// Close releases the connection pool
func (p *Publisher) Close() error {
	return p.db.Close()
}

// Publish writes the catalog in one transaction. With prune set, rows whose
// id is no longer in the catalog are deleted.
func (p *Publisher) Publish(ctx context.Context, c *catalog.Catalog, prune bool) (Result, error) {
	var res Result

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return res, fmt.Errorf("failed to ensure schema: %w", err)
	}

	productStmt, err := tx.PrepareContext(ctx, upsertProduct)
	if err != nil {
		return res, fmt.Errorf("failed to prepare product upsert: %w", err)
	}
	defer productStmt.Close()

	for i, product := range c.Products {
		args, err := productArgs(product, i)
		if err != nil {
			return res, err
		}
		if _, err := productStmt.ExecContext(ctx, args...); err != nil {
			return res, fmt.Errorf("failed to upsert product %s: %w", product.ID, err)
		}
		res.Products++
	}

	imageStmt, err := tx.PrepareContext(ctx, upsertImage)
	if err != nil {
		return res, fmt.Errorf("failed to prepare image upsert: %w", err)
	}
	defer imageStmt.Close()

	for _, img := range c.Images {
		if _, err := imageStmt.ExecContext(ctx, img.ID, img.Description, img.ImageURL, img.ImageHint); err != nil {
			return res, fmt.Errorf("failed to upsert image %s: %w", img.ID, err)
		}
		res.Images++
	}

	if prune {
		productIDs, imageIDs := ids(c)
		r, err := tx.ExecContext(ctx, `DELETE FROM products WHERE NOT (id = ANY($1))`, pq.Array(productIDs))
		if err != nil {
			return res, fmt.Errorf("failed to prune products: %w", err)
		}
		n, _ := r.RowsAffected()
		res.Pruned = int(n)
		if _, err := tx.ExecContext(ctx, `DELETE FROM placeholder_images WHERE NOT (id = ANY($1))`, pq.Array(imageIDs)); err != nil {
			return res, fmt.Errorf("failed to prune images: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("failed to commit: %w", err)
	}
	slog.Info("Published catalog", "products", res.Products, "images", res.Images, "pruned", res.Pruned)
	return res, nil
}

// productArgs maps a product onto the upsert parameters. Unset optional
// fields become NULL.
func productArgs(p models.ProductRecord, position int) ([]any, error) {
	var oldPrice sql.NullInt64
	if v, ok := p.OldPrice.Get(); ok {
		oldPrice = sql.NullInt64{Int64: v, Valid: true}
	}
	var subcategory sql.NullString
	if v, ok := p.Subcategory.Get(); ok {
		subcategory = sql.NullString{String: v, Valid: true}
	}
	var sizes any
	if v, ok := p.Sizes.Get(); ok {
		sizes = pq.Array(v)
	}
	var colors any
	if v, ok := p.Colors.Get(); ok {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode colors of %s: %w", p.ID, err)
		}
		colors = string(data)
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}

	return []any{
		p.ID, p.Name, p.NameFR, p.NameEN, p.Slug, p.Price, oldPrice,
		p.Description, p.DescriptionFR, p.DescriptionEN,
		string(p.Category), subcategory, pq.Array(images), sizes, colors, position,
	}, nil
}

func ids(c *catalog.Catalog) (products, images []string) {
	products = make([]string, len(c.Products))
	for i, p := range c.Products {
		products[i] = p.ID
	}
	images = make([]string, len(c.Images))
	for i, img := range c.Images {
		images[i] = img.ID
	}
	return products, images
}
