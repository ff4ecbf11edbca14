package main

import (
	"flag"
	"log"

	"pulse/internal/config"
	"pulse/internal/database"
	"pulse/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "number of users to create")
	numFeedback := flag.Int("feedback", 40, "number of feedback items to create")
	clean := flag.Bool("clean", false, "delete existing data before seeding")
	fast := flag.Bool("fast", false, "skip bcrypt hashing for faster seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := seed.Options{
		NumUsers:    *numUsers,
		NumFeedback: *numFeedback,
		ShouldClean: *clean,
		SkipBcrypt:  *fast,
	}

	if err := seed.Seed(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete. All seeded users share the password 'password123'.")
}
