// Command main runs the database seeder for Bandmate.
package main

import (
	"flag"
	"log"

	"bandmate/internal/config"
	"bandmate/internal/database"
	"bandmate/internal/middleware"
	"bandmate/internal/seed"
)

func main() {
	numProfiles := flag.Int("profiles", 50, "Number of profiles to create")
	numOpportunities := flag.Int("opportunities", 60, "Number of opportunities to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d profiles, %d opportunities, clean=%v\n",
		*numProfiles, *numOpportunities, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.InitMiddleware(cfg)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumProfiles:      *numProfiles,
		NumOpportunities: *numOpportunities,
		ShouldClean:      *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 The demo account is demo@bandmate.dev")
}
