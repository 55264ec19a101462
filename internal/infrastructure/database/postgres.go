package database

import (
	"fmt"
	"log"

	"github.com/mercadito-pe/mercadito-api/internal/config"
	"github.com/mercadito-pe/mercadito-api/internal/domain/entity"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true, // surface duplicate-key violations as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Account entities
		&entity.User{},

		// Catalog entities
		&entity.Category{},
		&entity.Product{},
		&entity.Presentation{},

		// Order workflow entities
		&entity.Order{},
		&entity.OrderItem{},
		&entity.OrderStatusHistory{},
		&entity.Payment{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with default data (admin user, categories)
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	defaultCategories := []entity.Category{
		{Name: "Frutas", Slug: "frutas", SortOrder: 1},
		{Name: "Verduras", Slug: "verduras", SortOrder: 2},
		{Name: "Abarrotes", Slug: "abarrotes", SortOrder: 3},
		{Name: "Lácteos", Slug: "lacteos", SortOrder: 4},
	}

	for i := range defaultCategories {
		var existing entity.Category
		if err := db.Where("slug = ?", defaultCategories[i].Slug).First(&existing).Error; err != nil {
			if err := db.Create(&defaultCategories[i]).Error; err != nil {
				log.Printf("Warning: failed to create category %s: %v", defaultCategories[i].Name, err)
			}
		}
	}

	// Create admin user if configured via environment variables
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail != "" && adminPassword != "" {
		var existingAdmin entity.User
		if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				if adminName == "" {
					adminName = "Admin"
				}
				firstName := adminName
				lastName := ""
				for i, c := range adminName {
					if c == ' ' {
						firstName = adminName[:i]
						lastName = adminName[i+1:]
						break
					}
				}
				adminUser := entity.User{
					FirstName: firstName,
					LastName:  lastName,
					Email:     adminEmail,
					Password:  string(hashedPassword),
					Role:      "admin",
					Active:    true,
				}
				if err := db.Create(&adminUser).Error; err != nil {
					log.Printf("Warning: failed to create admin user: %v", err)
				} else {
					log.Printf("Admin user created: %s", adminEmail)
				}
			}
		} else {
			log.Printf("Admin user already exists: %s", adminEmail)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
