package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(UpOrdersTables, DownOrdersTables)
}

func UpOrdersTables(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `CREATE TABLE order_statuses
(
    id INT PRIMARY KEY,
    name VARCHAR(20) NOT NULL UNIQUE
);

INSERT INTO order_statuses (id, name) VALUES
    (1, 'PENDING'),
    (2, 'CONFIRMED'),
    (3, 'CANCELED'),
    (4, 'FULFILLED');

CREATE TABLE orders
(
    id BIGSERIAL PRIMARY KEY,
    approved_at TIMESTAMPTZ,
    status_id INT NOT NULL REFERENCES order_statuses (id),
    user_name VARCHAR(255) NOT NULL,
    email VARCHAR(255) NOT NULL,
    phone VARCHAR(50) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX orders_user_name_idx ON orders (user_name);
CREATE INDEX orders_status_id_idx ON orders (status_id);

CREATE TABLE order_items
(
    id BIGSERIAL PRIMARY KEY,
    order_id BIGINT NOT NULL REFERENCES orders (id),
    product_id BIGINT NOT NULL REFERENCES products (id),
    quantity INT NOT NULL CHECK (quantity > 0),
    unit_price NUMERIC(12, 2) NOT NULL,
    vat NUMERIC(5, 2) CHECK (vat BETWEEN 0 AND 100),
    discount NUMERIC(5, 2) CHECK (discount BETWEEN 0 AND 100)
);

CREATE INDEX order_items_order_id_idx ON order_items (order_id);`)
	return err
}

func DownOrdersTables(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, "DROP TABLE order_items; DROP TABLE orders; DROP TABLE order_statuses;")
	return err
}
