package db

import "database/sql"

// EnsureSchema creates the core tables when they do not exist yet. The unique
// key on bookings.booking_number is the backstop for reference collisions
// under concurrent creation.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tours (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	agency_id BIGINT NOT NULL,
	title VARCHAR(255) NOT NULL,
	price DECIMAL(10,2) NOT NULL,
	discount_price DECIMAL(10,2) NULL,
	min_people INT NOT NULL DEFAULT 1,
	max_people INT NOT NULL,
	available_days VARCHAR(100) NOT NULL DEFAULT '',
	available_from DATE NULL,
	available_to DATE NULL,
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	total_bookings BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_agency (agency_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	booking_number VARCHAR(50) NOT NULL,
	user_id BIGINT NOT NULL,
	tour_id BIGINT NOT NULL,
	agency_id BIGINT NOT NULL,
	booking_date DATE NOT NULL,
	booking_time VARCHAR(5) NULL,
	number_of_people INT NOT NULL,
	price_per_person DECIMAL(10,2) NOT NULL,
	subtotal DECIMAL(10,2) NOT NULL,
	discount DECIMAL(10,2) NOT NULL DEFAULT 0,
	tax DECIMAL(10,2) NOT NULL DEFAULT 0,
	total_price DECIMAL(10,2) NOT NULL,
	customer_name VARCHAR(255) NOT NULL,
	customer_email VARCHAR(255) NOT NULL,
	customer_phone VARCHAR(50) NOT NULL,
	special_requirements TEXT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	confirmed_at TIMESTAMP NULL,
	cancelled_at TIMESTAMP NULL,
	cancellation_reason TEXT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_booking_number (booking_number),
	KEY idx_user_status (user_id, status),
	KEY idx_agency_status (agency_id, status),
	KEY idx_booking_date (booking_date)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS payments (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	booking_id BIGINT NOT NULL,
	transaction_id VARCHAR(64) NOT NULL,
	method VARCHAR(20) NOT NULL DEFAULT 'card',
	amount DECIMAL(10,2) NOT NULL,
	currency VARCHAR(3) NOT NULL DEFAULT 'PEN',
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	paid_at TIMESTAMP NULL,
	refunded_at TIMESTAMP NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_booking (booking_id),
	UNIQUE KEY uniq_transaction (transaction_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS reviews (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	booking_id BIGINT NOT NULL,
	user_id BIGINT NOT NULL,
	rating INT NOT NULL,
	comment TEXT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_booking_review (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
	}

	for _, ddl := range stmts {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}
