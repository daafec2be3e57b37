// Command seed loads the built-in catalog and, with -demo, fake engagement data.
package main

import (
	"flag"
	"log"

	"toolkit/internal/config"
	"toolkit/internal/database"
	"toolkit/internal/seed"
)

func main() {
	defaults := seed.DefaultDemoOptions()

	demo := flag.Bool("demo", false, "Add demo users with likes, comments and pending submissions")
	users := flag.Int("users", defaults.Users, "Number of demo users to create")
	comments := flag.Int("comments", defaults.MaxCommentsPerUser, "Maximum comments per demo user")
	likeProbability := flag.Float64("like-probability", defaults.LikeProbability, "Chance a demo user likes each published resource")
	submissions := flag.Int("submissions", defaults.PendingSubmissions, "Number of pending submissions to create")
	demoSeed := flag.Int64("demo-seed", defaults.Seed, "Random seed for reproducible demo data")
	flag.Parse()

	log.Println("🌱 Catalog Seeder")
	log.Println("=================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.BuiltIns(db); err != nil {
		log.Fatalf("❌ Built-in catalog seeding failed: %v", err)
	}

	if *demo {
		opts := defaults
		opts.Users = *users
		opts.MaxCommentsPerUser = *comments
		opts.LikeProbability = *likeProbability
		opts.PendingSubmissions = *submissions
		opts.Seed = *demoSeed

		log.Printf("Demo: %d users, seed=%d\n", opts.Users, opts.Seed)
		if _, err := seed.NewFactory(db, opts).Demo(); err != nil {
			log.Fatalf("❌ Demo seeding failed: %v", err)
		}
	}

	log.Println("✨ All done!")
}
