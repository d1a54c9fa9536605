package db

import (
	"collaborative-annotation-server/internal/domain"
	"log"
)

// Migrate runs database migrations
func Migrate() {
	err := AppDb.AutoMigrate(
		&domain.User{},
		&domain.Project{},
		&domain.RoleMapping{},
		&domain.Label{},
		&domain.Document{},
		&domain.DocumentAnnotation{},
		&domain.SequenceAnnotation{},
		&domain.Seq2seqAnnotation{},
	)

	if err != nil {
		log.Fatal(err)
	}

	log.Println("Database schema migrated successfully")
}

// SeedData seeds the database with initial data (for development only)
func SeedData() {
	var count int64
	AppDb.Model(&domain.User{}).Where("email = ?", "admin@example.com").Count(&count)
	if count > 0 {
		log.Println("Admin user already exists: admin@example.com")
		return
	}

	admin := &domain.User{
		Name:        "admin",
		Email:       "admin@example.com",
		IsSuperuser: true,
		IsActive:    true,
		// bcrypt hash of "password123", dev only
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
	}
	if err := AppDb.Create(admin).Error; err != nil {
		log.Printf("Error creating admin user: %v", err)
		return
	}
	log.Printf("Created admin user: %s", admin.Email)
}
