package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// APIKey represents the api_keys table
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"key"`
	Name       string     `gorm:"not null" json:"name"`
	KeyPreview string     `json:"key_preview"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table, one row per key per day
type APIUsage struct {
	ID                 uint    `gorm:"primaryKey" json:"id"`
	KeyID              uint    `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date               string  `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount       int     `gorm:"default:0" json:"request_count"`
	TotalRequiredHours float64 `gorm:"default:0" json:"total_required_hours"`
	TotalMixes         int     `gorm:"default:0" json:"total_mixes"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Lead represents the leads table. CalcInput and CalcResult hold the raw JSON
// of the calculation the lead requested a report for.
type Lead struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"not null;index" json:"email"`
	FullName    string    `json:"full_name"`
	Role        string    `json:"role"`
	Industry    string    `json:"industry"`
	Employees   *int      `json:"employees"`
	CompanySize string    `json:"company_size"`
	City        string    `json:"city"`
	Source      string    `json:"source"`
	CalcInput   string    `gorm:"type:text" json:"calc_input"`
	CalcResult  string    `gorm:"type:text" json:"calc_result"`
	CreatedAt   time.Time `json:"created_at"`
}

// ContactMessage represents the contact_messages table
type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Page      string    `json:"page"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// InitDB opens the database connection and migrates the schema. Postgres is
// used when a DSN is given, sqlite otherwise.
func InitDB(databaseURL, dataPath string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	if databaseURL != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  databaseURL,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		if dataPath == "" {
			dataPath = "staffing.db"
		}
		db, err = gorm.Open(sqlite.Open(dataPath), &gorm.Config{})
	}

	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := db.AutoMigrate(
		&APIKey{},
		&APIUsage{},
		&MasterUser{},
		&Lead{},
		&ContactMessage{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return db, nil
}
