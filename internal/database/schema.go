package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates the receipt ledger.  Booking sessions are not stored here;
// they live in Redis (or memory) and expire.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS receipts (
		id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		reference      VARCHAR(64)   NOT NULL UNIQUE,
		session_id     VARCHAR(64)   NOT NULL,
		customer_name  VARCHAR(255)  NOT NULL,
		restaurant_id  VARCHAR(64)   NOT NULL,
		restaurant     VARCHAR(255)  NOT NULL,
		cart_total     DECIMAL(12,2) NOT NULL,
		seats_total    DECIMAL(12,2) NOT NULL,
		grand_total    DECIMAL(12,2) NOT NULL,
		created_at     DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS receipt_lines (
		receipt_id BIGINT UNSIGNED NOT NULL,
		position   INT UNSIGNED    NOT NULL,
		name       VARCHAR(255)    NOT NULL,
		price      DECIMAL(12,2)   NOT NULL,
		quantity   INT UNSIGNED    NOT NULL,
		PRIMARY KEY (receipt_id, position),
		CONSTRAINT fk_receipt_lines FOREIGN KEY (receipt_id) REFERENCES receipts(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS receipt_seats (
		receipt_id  BIGINT UNSIGNED NOT NULL,
		seat_number INT UNSIGNED    NOT NULL,
		PRIMARY KEY (receipt_id, seat_number),
		CONSTRAINT fk_receipt_seats FOREIGN KEY (receipt_id) REFERENCES receipts(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate applies the schema.  Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i, err)
		}
	}
	return nil
}
