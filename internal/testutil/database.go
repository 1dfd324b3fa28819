package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration-test database. Expects a local MySQL at
// localhost:3306 with a 'fitstore_test' schema; tests are skipped when it is
// not reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/fitstore_test?parseTime=true&clientFoundRows=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"OrderItems", "Orders", "CartEntries", "TrainingPrograms", "Packages", "Products"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the schema used by the repository tests. Mirrors
// migrations/000001_init.up.sql.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createProducts := `
	CREATE TABLE IF NOT EXISTS Products (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		price DECIMAL(10,2) NOT NULL,
		stock INT,
		image VARCHAR(512) NOT NULL DEFAULT '',
		category VARCHAR(100) NOT NULL DEFAULT '',
		isActive TINYINT(1) NOT NULL DEFAULT 1,
		isDeleted TINYINT(1) NOT NULL DEFAULT 0,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createPackages := `
	CREATE TABLE IF NOT EXISTS Packages (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		price DECIMAL(10,2) NOT NULL,
		image VARCHAR(512) NOT NULL DEFAULT '',
		isActive TINYINT(1) NOT NULL DEFAULT 1,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createTrainings := `
	CREATE TABLE IF NOT EXISTS TrainingPrograms (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		image VARCHAR(512) NOT NULL DEFAULT '',
		durationWeeks INT NOT NULL DEFAULT 0,
		isActive TINYINT(1) NOT NULL DEFAULT 1,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createCartEntries := `
	CREATE TABLE IF NOT EXISTS CartEntries (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		userId VARCHAR(64) NOT NULL,
		refKind VARCHAR(20) NOT NULL,
		refId INT NOT NULL,
		quantity INT NOT NULL DEFAULT 1,
		isSelected TINYINT(1) NOT NULL DEFAULT 1,
		isActive TINYINT(1) NOT NULL DEFAULT 1,
		isRemoved TINYINT(1) NOT NULL DEFAULT 0,
		activeKey TINYINT NULL DEFAULT 1,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE INDEX uq_user_item (userId, refKind, refId, activeKey)
	)`

	createOrders := `
	CREATE TABLE IF NOT EXISTS Orders (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderNumber VARCHAR(20) NOT NULL,
		userId VARCHAR(64),
		shipName VARCHAR(100) NOT NULL,
		shipPhone VARCHAR(30) NOT NULL,
		shipAddressLine VARCHAR(255) NOT NULL,
		shipCity VARCHAR(100) NOT NULL,
		shipRegion VARCHAR(100) NOT NULL,
		shipPostalCode VARCHAR(20) NOT NULL DEFAULT '',
		subtotal DECIMAL(10,2) NOT NULL,
		shippingFee DECIMAL(10,2) NOT NULL,
		tax DECIMAL(10,2) NOT NULL,
		total DECIMAL(10,2) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		paymentStatus VARCHAR(20) NOT NULL DEFAULT 'pending',
		paymentMethod VARCHAR(20) NOT NULL,
		notes TEXT,
		deliveredAt DATETIME NULL,
		cancelledAt DATETIME NULL,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE INDEX uq_order_number (orderNumber)
	)`

	createOrderItems := `
	CREATE TABLE IF NOT EXISTS OrderItems (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderId BIGINT NOT NULL,
		refKind VARCHAR(20) NOT NULL,
		refId INT NOT NULL,
		title VARCHAR(255) NOT NULL,
		image VARCHAR(512) NOT NULL DEFAULT '',
		unitPrice DECIMAL(10,2) NOT NULL,
		quantity INT NOT NULL DEFAULT 1,
		FOREIGN KEY (orderId) REFERENCES Orders(id) ON DELETE CASCADE
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"Products", createProducts},
		{"Packages", createPackages},
		{"TrainingPrograms", createTrainings},
		{"CartEntries", createCartEntries},
		{"Orders", createOrders},
		{"OrderItems", createOrderItems},
	}

	for _, tbl := range tables {
		if _, err := db.Exec(tbl.query); err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
