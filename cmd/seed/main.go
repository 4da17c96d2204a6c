// Command seed populates the database with demo data.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"devconnector/internal/config"
	"devconnector/internal/database"
	"devconnector/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	postsPerUser := flag.Int("posts", 3, "Posts per generated user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	preset := flag.String("preset", "", "Apply a preset file or built-in preset (e.g. demo) instead of random data")
	randSeed := flag.Int64("seed", time.Now().UnixNano(), "Random seed for generated data")
	flag.Parse()

	log.Println("Database Seeder")
	if *preset != "" {
		log.Printf("Applying preset: %s (ignoring -users and -posts)", *preset)
	} else {
		log.Printf("Target: %d users, %d posts each, clean=%v, seed=%d", *numUsers, *postsPerUser, *shouldClean, *randSeed)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(db, *randSeed, seed.Options{})

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	var sum seed.Summary
	if *preset != "" {
		p, err := seed.LoadPresetFile(*preset)
		if err != nil {
			log.Fatalf("Loading preset failed: %v", err)
		}
		if sum, err = s.ApplyPreset(ctx, p); err != nil {
			log.Fatalf("Preset seeding failed: %v", err)
		}
	} else if sum, err = s.Random(ctx, *numUsers, *postsPerUser); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Done: %d users, %d profiles, %d posts", sum.Users, sum.Profiles, sum.Posts)
	log.Printf("Accounts without an explicit password use: %s", seed.DefaultPassword)
}
