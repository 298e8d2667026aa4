package main

import (
	"flag"
	"log"
	"strings"

	"compta-pme-api/internal/config"
	"compta-pme-api/internal/repository"
	"compta-pme-api/pkg/database"
	"compta-pme-api/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	email := flag.String("email", "", "email of the account to reset")
	password := flag.String("password", "", "new password (at least 6 characters)")
	flag.Parse()

	if *email == "" || len(*password) < 6 {
		log.Fatal("usage: reset-password -email user@example.com -password <new password>")
	}

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.DatabaseURL, false, logger.Default())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	userRepo := repository.NewUserRepo(db)

	// 3. Find user
	user, err := userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(*email)))
	if err != nil {
		log.Fatalf("User %s not found in database: %v", *email, err)
	}

	// 4. Hash new password
	if err := user.SetPassword(*password); err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	// 5. Update
	if err := userRepo.UpdatePassword(user.ID, user.Password); err != nil {
		log.Fatalf("Failed to update password in DB: %v", err)
	}

	log.Printf("Password for %s has been reset", user.Email)
}
