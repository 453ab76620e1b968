// Command auctionctl drives a running auction server from the terminal.
//
//	auctionctl [-server URL] players|add|budgets|results|clear|start|bid|end|state|watch [args]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	client "github.com/mcdev12/auction/go/clients/auction"
	"github.com/mcdev12/auction/go/internal/auction/gateway"
	"github.com/mcdev12/auction/go/internal/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("could not load .env file")
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	server := flag.String("server", getEnv("AUCTION_SERVER", "http://localhost:8000"), "auction server base URL")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: auctionctl [-server URL] <command> [args]\n\n")
		fmt.Fprintf(os.Stderr, "commands:\n")
		fmt.Fprintf(os.Stderr, "  players                          list players\n")
		fmt.Fprintf(os.Stderr, "  add <name> <role> <price> [img]  add a player\n")
		fmt.Fprintf(os.Stderr, "  budgets                          list team budgets\n")
		fmt.Fprintf(os.Stderr, "  results                          list results\n")
		fmt.Fprintf(os.Stderr, "  clear                            clear all data\n")
		fmt.Fprintf(os.Stderr, "  start <player>                   start bidding for a player\n")
		fmt.Fprintf(os.Stderr, "  bid <team> <amount>              place a bid\n")
		fmt.Fprintf(os.Stderr, "  end                              end bidding\n")
		fmt.Fprintf(os.Stderr, "  state                            show the current round\n")
		fmt.Fprintf(os.Stderr, "  watch                            stream live events\n")
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, client.NewClient(nil, *server), *server, flag.Arg(0), flag.Args()[1:]); err != nil {
		if kind := client.ErrorKind(err); kind != "" {
			log.Error().Str("kind", kind).Msg(err.Error())
		} else {
			log.Error().Err(err).Msg("command failed")
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Client, server, cmd string, args []string) error {
	switch cmd {
	case "players":
		players, err := c.ListPlayers(ctx)
		if err != nil {
			return err
		}
		return printJSON(players)

	case "add":
		if len(args) < 3 {
			return fmt.Errorf("add needs <name> <role> <price> [image]")
		}
		price, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid price %q: %w", args[2], err)
		}
		p := models.Player{Name: args[0], Role: args[1], BasePrice: price}
		if len(args) > 3 {
			p.Image = args[3]
		}
		msg, err := c.AddPlayer(ctx, p)
		if err != nil {
			return err
		}
		fmt.Println(msg)

	case "budgets":
		budgets, err := c.ListBudgets(ctx)
		if err != nil {
			return err
		}
		return printJSON(budgets)

	case "results":
		entries, err := c.ListResults(ctx)
		if err != nil {
			return err
		}
		return printJSON(entries)

	case "clear":
		msg, err := c.ClearData(ctx)
		if err != nil {
			return err
		}
		fmt.Println(msg)

	case "start":
		if len(args) != 1 {
			return fmt.Errorf("start needs <player>")
		}
		msg, err := c.StartBidding(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Println(msg)

	case "bid":
		if len(args) != 2 {
			return fmt.Errorf("bid needs <team> <amount>")
		}
		amount, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", args[1], err)
		}
		msg, err := c.PlaceBid(ctx, args[0], amount)
		if err != nil {
			return err
		}
		fmt.Println(msg)

	case "end":
		settlement, err := c.EndBidding(ctx)
		if err != nil {
			return err
		}
		fmt.Println(settlement.Message)

	case "state":
		state, err := c.GetState(ctx)
		if err != nil {
			return err
		}
		return printJSON(state)

	case "watch":
		return client.Watch(ctx, server, func(e *gateway.AuctionEvent) error {
			fmt.Printf("%s %-15s %s\n", e.Timestamp.Format("15:04:05"), e.Type, e.Data)
			return nil
		})

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
