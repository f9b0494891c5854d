package main

import (
	"fmt"
	"log"
	"os"

	"github.com/crmforge/orderbench/internal/config"
	"github.com/crmforge/orderbench/internal/database"
	"github.com/crmforge/orderbench/internal/models"
	"github.com/crmforge/orderbench/internal/utils"
)

// Seeds the initial admin account. Credentials come from
// ADMIN_USERNAME / ADMIN_PASSWORD / ADMIN_EMAIL, with sane defaults
// for local development.
func main() {
	fmt.Println("🌱 Workbench Admin Seeder")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")

	if err := db.AutoMigrate(&models.UserAuth{}); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	username := getEnv("ADMIN_USERNAME", "admin")
	password := getEnv("ADMIN_PASSWORD", "admin")
	email := getEnv("ADMIN_EMAIL", "admin@localhost")

	var existing int64
	db.Model(&models.UserAuth{}).Where("username = ?", username).Count(&existing)
	if existing > 0 {
		fmt.Printf("⚠️  User %q already exists. Nothing to do.\n", username)
		return
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	admin := models.UserAuth{
		Username: username,
		Password: hashed,
		Email:    email,
		Name:     "Administrator",
		Role:     "admin",
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("❌ Failed to create admin: %v", err)
	}

	fmt.Printf("✅ Admin user %q created\n", username)
	if password == "admin" {
		fmt.Println("⚠️  Default password in use. Change it before exposing the server.")
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
