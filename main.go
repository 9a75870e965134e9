package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"pincrime/config"
	"pincrime/cronjobs"
	"pincrime/dataset"
	"pincrime/db"
	"pincrime/routes"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load the crime dataset once. This is the only dataset state the
	// service ever holds; it is read-only for the life of the process, so
	// a failure here is fatal.
	ds, err := dataset.Load(cfg.Dataset.Path, cfg.Analysis.ClusterCount)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	fmt.Printf("Dataset ready: %d records, %d clusters, dates %s to %s\n",
		len(ds.Records), len(ds.Clusters),
		ds.EarliestDate.Format("2006-01-02"), ds.LatestDate.Format("2006-01-02"))

	// Init upload audit store
	store, err := db.InitStore(cfg.Uploads.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize upload store: %v", err)
	}
	defer store.Close() // store is closed on exit

	// Initialize cron jobs
	cronjobs.InitCronJobs(store, cfg.Uploads.RetentionDays)

	port := cfg.Server.Port
	if env := os.Getenv("PORT"); env != "" {
		p, err := strconv.Atoi(env)
		if err != nil {
			log.Fatalf("Invalid PORT value %q: %v", env, err)
		}
		port = p
	}

	r := routes.SetupRouter(ds, store, cfg)
	if err := r.Run(fmt.Sprintf(":%d", port)); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
