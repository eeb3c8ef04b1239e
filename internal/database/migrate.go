package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Migrate creates all tables when they do not exist yet. Statements are
// ordered so foreign keys always reference tables created earlier. The
// uq_tickets_showtime_seat key is the anti-double-booking constraint: a
// concurrent insert for the same (showtime, seat) pair fails with a
// duplicate-key error and is reported to the client as a conflict.
func Migrate(db *sql.DB) error {
	stmts := []string{
		createUsers,
		createRefreshTokens,
		createLocations,
		createTheaters,
		createSeats,
		createMovies,
		createShowtimes,
		createOrders,
		createTickets,
		createFoodItems,
		createOrderFoodItems,
		createPayments,
	}
	for i, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	slog.Info("database schema ready", "statements", len(stmts))
	return nil
}

const createUsers = `
CREATE TABLE IF NOT EXISTS users (
    id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    email         VARCHAR(255) NOT NULL UNIQUE,
    password_hash VARCHAR(100) NOT NULL,
    role          VARCHAR(16)  NOT NULL DEFAULT 'USER',
    is_active     TINYINT(1)   NOT NULL DEFAULT 1,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)`

const createRefreshTokens = `
CREATE TABLE IF NOT EXISTS refresh_tokens (
    id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    user_id    BIGINT UNSIGNED NOT NULL,
    token_hash CHAR(64) NOT NULL,
    expires_at DATETIME NOT NULL,
    revoked_at DATETIME NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    KEY idx_refresh_tokens_hash (token_hash),
    CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
)`

const createLocations = `
CREATE TABLE IF NOT EXISTS locations (
    id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    name       VARCHAR(255) NOT NULL,
    city       VARCHAR(120) NOT NULL,
    address    VARCHAR(255) NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)`

const createTheaters = `
CREATE TABLE IF NOT EXISTS theaters (
    id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    location_id BIGINT UNSIGNED NOT NULL,
    name        VARCHAR(255) NOT NULL,
    seat_count  INT UNSIGNED NOT NULL DEFAULT 0,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    CONSTRAINT fk_theaters_location FOREIGN KEY (location_id) REFERENCES locations (id) ON DELETE CASCADE
)`

const createSeats = `
CREATE TABLE IF NOT EXISTS seats (
    id                  BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    theater_id          BIGINT UNSIGNED NOT NULL,
    row_num             INT UNSIGNED NOT NULL,
    col_num             INT UNSIGNED NOT NULL,
    is_reserved         TINYINT(1) NOT NULL DEFAULT 0,
    reserved_by_user_id BIGINT UNSIGNED NULL,
    reserved_by_guest   VARCHAR(64) NULL,
    hold_expires_at     DATETIME NULL,
    created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    UNIQUE KEY uq_seats_position (theater_id, row_num, col_num),
    CONSTRAINT fk_seats_theater FOREIGN KEY (theater_id) REFERENCES theaters (id) ON DELETE CASCADE
)`

const createMovies = `
CREATE TABLE IF NOT EXISTS movies (
    id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    title        VARCHAR(255) NOT NULL,
    description  TEXT NULL,
    duration_min INT UNSIGNED NOT NULL DEFAULT 0,
    rating       VARCHAR(16)  NOT NULL DEFAULT '',
    poster_url   VARCHAR(512) NOT NULL DEFAULT '',
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)`

const createShowtimes = `
CREATE TABLE IF NOT EXISTS showtimes (
    id               BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    movie_id         BIGINT UNSIGNED NOT NULL,
    theater_id       BIGINT UNSIGNED NOT NULL,
    starts_at        DATETIME NOT NULL,
    base_price_cents INT UNSIGNED NOT NULL DEFAULT 0,
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    KEY idx_showtimes_theater_start (theater_id, starts_at),
    CONSTRAINT fk_showtimes_movie   FOREIGN KEY (movie_id)   REFERENCES movies (id)   ON DELETE CASCADE,
    CONSTRAINT fk_showtimes_theater FOREIGN KEY (theater_id) REFERENCES theaters (id) ON DELETE CASCADE
)`

const createOrders = `
CREATE TABLE IF NOT EXISTS orders (
    id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    user_id     BIGINT UNSIGNED NULL,
    guest_id    VARCHAR(64) NULL,
    theater_id  BIGINT UNSIGNED NOT NULL,
    total_cents INT UNSIGNED NOT NULL DEFAULT 0,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    KEY idx_orders_user  (user_id),
    KEY idx_orders_guest (guest_id),
    CONSTRAINT fk_orders_user    FOREIGN KEY (user_id)    REFERENCES users (id)    ON DELETE SET NULL,
    CONSTRAINT fk_orders_theater FOREIGN KEY (theater_id) REFERENCES theaters (id)
)`

const createTickets = `
CREATE TABLE IF NOT EXISTS tickets (
    id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    showtime_id BIGINT UNSIGNED NOT NULL,
    seat_id     BIGINT UNSIGNED NOT NULL,
    order_id    BIGINT UNSIGNED NULL,
    price_cents INT UNSIGNED NOT NULL DEFAULT 0,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE KEY uq_tickets_showtime_seat (showtime_id, seat_id),
    CONSTRAINT fk_tickets_showtime FOREIGN KEY (showtime_id) REFERENCES showtimes (id) ON DELETE CASCADE,
    CONSTRAINT fk_tickets_seat     FOREIGN KEY (seat_id)     REFERENCES seats (id)     ON DELETE CASCADE,
    CONSTRAINT fk_tickets_order    FOREIGN KEY (order_id)    REFERENCES orders (id)    ON DELETE SET NULL
)`

const createFoodItems = `
CREATE TABLE IF NOT EXISTS food_items (
    id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    location_id BIGINT UNSIGNED NOT NULL,
    name        VARCHAR(255) NOT NULL,
    description TEXT NULL,
    price_cents INT UNSIGNED NOT NULL DEFAULT 0,
    is_vegan    TINYINT(1) NOT NULL DEFAULT 0,
    image_url   VARCHAR(512) NOT NULL DEFAULT '',
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    CONSTRAINT fk_food_items_location FOREIGN KEY (location_id) REFERENCES locations (id) ON DELETE CASCADE
)`

const createOrderFoodItems = `
CREATE TABLE IF NOT EXISTS order_food_items (
    id               BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    order_id         BIGINT UNSIGNED NOT NULL,
    food_item_id     BIGINT UNSIGNED NOT NULL,
    quantity         INT UNSIGNED NOT NULL DEFAULT 1,
    unit_price_cents INT UNSIGNED NOT NULL DEFAULT 0,
    UNIQUE KEY uq_order_food (order_id, food_item_id),
    CONSTRAINT fk_order_food_order FOREIGN KEY (order_id)     REFERENCES orders (id)     ON DELETE CASCADE,
    CONSTRAINT fk_order_food_item  FOREIGN KEY (food_item_id) REFERENCES food_items (id)
)`

const createPayments = `
CREATE TABLE IF NOT EXISTS payments (
    id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    order_id     BIGINT UNSIGNED NOT NULL,
    amount_cents INT UNSIGNED NOT NULL DEFAULT 0,
    method       VARCHAR(32) NOT NULL DEFAULT 'CARD',
    reference    CHAR(36) NOT NULL,
    status       VARCHAR(16) NOT NULL DEFAULT 'RECORDED',
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CONSTRAINT fk_payments_order FOREIGN KEY (order_id) REFERENCES orders (id) ON DELETE CASCADE
)`
