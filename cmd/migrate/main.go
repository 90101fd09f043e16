package main

import (
	"employee_system/internal/config" // Custom import path (Config)
	"employee_system/internal/db"     // Custom import path (Database)
	"employee_system/internal/utils"  // Logger setup

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main entry point for migration
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	utils.ConfigureLogger(cfg.IsProd, cfg.LogLevel)

	conn, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
}
