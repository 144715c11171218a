// Command seed fills the blog database with fake users and posts.
package main

import (
	"context"
	"flag"
	"log"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/featureflags"
	"inkwell/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of users to create")
	numPosts := flag.Int("posts", 50, "Number of posts to create")
	shouldClean := flag.Bool("clean", false, "Delete existing users and posts before seeding")
	maxDays := flag.Int("days", 90, "Spread post dates over this many past days")
	flag.Parse()

	log.Printf("Target: %d users, %d posts, clean=%v", *numUsers, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	flags := featureflags.NewManager(cfg.FeatureFlags)

	s := seed.NewSeeder(db)
	users, posts, err := s.Run(seed.Options{
		NumUsers:     *numUsers,
		NumPosts:     *numPosts,
		ShouldClean:  *shouldClean,
		RecordAuthor: flags.Enabled(featureflags.RecordPostAuthor, 0),
		MaxDays:      *maxDays,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	cache.InitRedis(cfg.RedisURL)
	cache.InvalidatePostsList(context.Background())

	log.Printf("Created %d users and %d posts", len(users), len(posts))
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
