package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		business_name TEXT,
		first_name TEXT,
		last_name TEXT,
		phone TEXT,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createReferralCodeTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE referral_codes (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL,
		is_active BOOLEAN NOT NULL,
		discount_percent INTEGER NOT NULL,
		user_name TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createProfileTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE merchant_profiles (
		user_id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		subdomain TEXT UNIQUE NOT NULL,
		business_name TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		category TEXT NOT NULL,
		channels TEXT NOT NULL,
		phone TEXT NOT NULL,
		referral_code TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createCheckoutAttemptTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE checkout_attempts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		tx_ref TEXT UNIQUE NOT NULL,
		plan TEXT NOT NULL,
		cycle TEXT NOT NULL,
		currency TEXT NOT NULL,
		amount TEXT NOT NULL,
		discount_percent INTEGER,
		referral_code TEXT,
		status TEXT NOT NULL,
		transaction_id TEXT,
		failure_reason TEXT,
		verified_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createSubscriptionTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE subscriptions (
		id TEXT PRIMARY KEY,
		user_id TEXT UNIQUE NOT NULL,
		plan TEXT NOT NULL,
		cycle TEXT NOT NULL,
		status TEXT NOT NULL,
		current_period_end DATETIME,
		last_attempt_id TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}
