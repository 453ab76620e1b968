package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/mcdev12/auction/go/internal/dbconfig"
	"github.com/mcdev12/auction/go/internal/models"
	"github.com/mcdev12/auction/go/internal/player"
	"gopkg.in/yaml.v3"
)

func main() {
	ctx := context.Background()

	path := flag.String("config", os.Getenv("AUCTION_CONFIG"), "auction YAML config with seed_players (built-in set when empty)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load .env file: %v\n", err)
	}

	// 1) Load seed players
	players, err := loadPlayers(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load players: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect to DB
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect error: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Seed players
	total, inserted, skipped, errs := len(players), 0, 0, 0
	for _, p := range players {
		tag, err := pool.Exec(ctx, `
            INSERT INTO players (name, role, base_price, image)
            VALUES ($1,$2,$3,$4)
            ON CONFLICT (name) DO NOTHING
        `, p.Name, p.Role, p.BasePrice, p.Image)
		if err != nil {
			fmt.Fprintf(os.Stderr, "insert %s: %v\n", p.Name, err)
			errs++
			continue
		}
		if tag.RowsAffected() == 1 {
			inserted++
		} else {
			skipped++
		}
	}
	fmt.Printf(
		"Players seed: total=%d inserted=%d skipped=%d errors=%d\n",
		total, inserted, skipped, errs,
	)
	if errs > 0 {
		os.Exit(1)
	}
}

func loadPlayers(path string) ([]models.Player, error) {
	if path == "" {
		return player.DefaultSeedPlayers(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var file player.SeedConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return file.Players(), nil
}
