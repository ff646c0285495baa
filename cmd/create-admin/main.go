// Command create-admin seeds an admin account. Admins cannot self-register.
package main

import (
	"context"
	"flag"
	"os"

	"campus-events/config"
	"campus-events/database"
	"campus-events/rules"

	log "github.com/sirupsen/logrus"
)

func main() {
	envFile := flag.String("env", ".env", "path to an optional .env file")
	name := flag.String("name", "Administrator", "display name")
	email := flag.String("email", "", "admin email (required)")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password, defaults to $ADMIN_PASSWORD")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.SetupLogging(); err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	store, err := database.Open(cfg.DBPath, cfg.StoreTimeout)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	engine := rules.New(store, config.DefaultRules(), nil)
	admin, err := engine.CreateAdmin(context.Background(), *name, *email, *password)
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}
	log.WithFields(log.Fields{"id": admin.ID, "email": admin.Email}).Info("Admin created")
}
