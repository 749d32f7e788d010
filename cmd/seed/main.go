// Command main runs the database seeder for StageDoor.
package main

import (
	"flag"
	"log"

	"stagedoor/internal/config"
	"stagedoor/internal/database"
	"stagedoor/internal/seed"
)

func main() {
	// Parse command line flags
	numDancers := flag.Int("dancers", 20, "Number of roster profiles to create")
	entriesPer := flag.Int("entries", 5, "Career entries per roster profile")
	numClients := flag.Int("clients", 5, "Number of client accounts to create")
	proposalsPer := flag.Int("proposals", 3, "Proposals per client")
	teamSize := flag.Int("team-size", 4, "Dancers per seeded team")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	preset := flag.String("preset", "", "Apply a specific seeder preset (e.g., DemoAgency, MegaRoster)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	if *preset != "" {
		log.Printf("Applying preset: %s (ignoring other flags)\n", *preset)
	} else {
		log.Printf("Target: %d dancers, %d clients, clean=%v\n", *numDancers, *numClients, *shouldClean)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	_, err = database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run seeder
	s := seed.NewSeeder(database.DB)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	if err := seed.Roster(database.DB); err != nil {
		log.Fatalf("❌ Built-in roster seeding failed: %v", err)
	}

	if *preset != "" {
		if err := s.ApplyPreset(*preset); err != nil {
			log.Fatalf("❌ Preset seeding failed: %v", err)
		}
	} else {
		dancers, err := s.SeedRoster(*numDancers, *entriesPer)
		if err != nil {
			log.Fatalf("❌ Roster seeding failed: %v", err)
		}
		if _, err := s.SeedBookings(*numClients, *proposalsPer); err != nil {
			log.Fatalf("❌ Booking seeding failed: %v", err)
		}
		if _, err := s.SeedTeams(dancers, *teamSize); err != nil {
			log.Fatalf("❌ Team seeding failed: %v", err)
		}
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All seeded client accounts have the password: password123")
}
