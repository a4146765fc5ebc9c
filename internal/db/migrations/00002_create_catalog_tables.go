package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(UpCatalogTables, DownCatalogTables)
}

func UpCatalogTables(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `CREATE TABLE categories
(
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL UNIQUE
);

INSERT INTO categories (name) VALUES
    ('Electronics'),
    ('Books'),
    ('Home'),
    ('Clothing'),
    ('Sport');

CREATE TABLE products
(
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    description TEXT NOT NULL,
    unit_price NUMERIC(12, 2) NOT NULL CHECK (unit_price > 0),
    unit_weight NUMERIC(12, 3) NOT NULL CHECK (unit_weight > 0),
    category_id BIGINT NOT NULL REFERENCES categories (id)
);

CREATE INDEX products_category_id_idx ON products (category_id);`)
	return err
}

func DownCatalogTables(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, "DROP TABLE products; DROP TABLE categories;")
	return err
}
