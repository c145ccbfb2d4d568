package main

import (
	"context"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"frenchnotes/internal/config"
	"frenchnotes/internal/db"
	"frenchnotes/internal/model"
	"frenchnotes/internal/repository"
)

// Seeds the bootstrap admin account so a fresh deployment has someone who can
// approve student devices. Idempotent: an existing username is left alone.
func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	username := getEnv("SEED_ADMIN_USERNAME", "admin")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("SEED_ADMIN_PASSWORD must be set")
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)

	if _, err := userRepo.FindByUsername(ctx, username); err == nil {
		log.Printf("Admin %q already exists, nothing to do", username)
		return
	} else if err != gorm.ErrRecordNotFound {
		log.Fatalf("Failed to check existing admin: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := &model.User{
		Username:     username,
		PasswordHash: string(hashed),
		Role:         model.RoleAdmin,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("Seed completed: admin %q created with id %d", username, admin.ID)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
