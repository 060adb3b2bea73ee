package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"rental/internal/config"
	"rental/internal/repository/postgres"
)

// Schema changes are applied here as a deployment step, never by the server
// at request time.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Println("usage: migrate <up|down|status|version> [args...]")
		os.Exit(1)
	}
	command := args[0]

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Password, cfg.Database.DBName, cfg.Database.SSLMode,
	)

	conn, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Fatalf("failed to close database connection: %v", err)
		}
	}()

	if command == "up" {
		if err := postgres.MigrateUp(context.Background(), conn); err != nil {
			log.Fatalf("migrate up: %v", err)
		}
		return
	}

	goose.SetBaseFS(postgres.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set dialect: %v", err)
	}

	if err := goose.Run(command, conn, "migrations", args[1:]...); err != nil {
		log.Fatalf("migrate %v: %v", command, err)
	}
}
