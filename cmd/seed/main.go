// Command seed fills a board namespace with demo users and posts.
package main

import (
	"context"
	"flag"
	"log"

	"jokerboard/internal/bootstrap"
	"jokerboard/internal/config"
	"jokerboard/internal/repository"
	"jokerboard/internal/seed"
	"jokerboard/internal/store"
)

func main() {
	profile := flag.String("profile", "", "Browser profile id to seed (ignored when STORE_SCOPE=shared)")
	fixture := flag.String("fixture", "", "YAML fixture to apply instead of random data")
	numUsers := flag.Int("users", 10, "Number of users to create")
	numPosts := flag.Int("posts", 30, "Number of posts to create")
	seedValue := flag.Int64("seed", 1, "Random seed for generated data")
	shouldClean := flag.Bool("clean", true, "Clear the namespace before seeding")
	flag.Parse()

	log.Println("Board Seeder")
	log.Println("============")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.StoreDriver == config.DriverMemory {
		log.Fatal("STORE_DRIVER=memory does not outlive this process; choose redis, sqlite or postgres")
	}
	if cfg.StoreScope != config.ScopeShared && *profile == "" {
		log.Fatal("-profile is required unless STORE_SCOPE=shared")
	}

	ctx := context.Background()
	rt, err := bootstrap.InitRuntime(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() {
		if err := rt.Close(); err != nil {
			log.Printf("Failed to close store: %v", err)
		}
	}()

	ns := cfg.Namespace(*profile)
	log.Printf("Target namespace: %s (%s)", ns, rt.Backend)

	s := seed.NewSeeder(store.Namespace(rt.Store, ns), repository.NewIDGenerator())

	if *shouldClean {
		if err := s.Clear(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	var res seed.Result
	if *fixture != "" {
		log.Printf("Applying fixture: %s (ignoring -users/-posts)", *fixture)
		f, err := seed.LoadFixtureFile(*fixture)
		if err != nil {
			log.Fatalf("Failed to load fixture: %v", err)
		}
		res, err = s.ApplyFixture(ctx, f)
		if err != nil {
			log.Fatalf("Fixture seeding failed: %v", err)
		}
	} else {
		log.Printf("Target: %d users, %d posts, clean=%v", *numUsers, *numPosts, *shouldClean)
		res, err = s.SeedRandom(ctx, seed.Options{NumUsers: *numUsers, NumPosts: *numPosts, Seed: *seedValue})
		if err != nil {
			log.Fatalf("Random seeding failed: %v", err)
		}
	}

	log.Printf("Done: %d users, %d posts.", res.Users, res.Posts)
	if *fixture == "" {
		log.Printf("All generated users have the password: %s", seed.DefaultPassword)
	}
}
