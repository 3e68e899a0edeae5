// Package main runs one day of the hunter loop against a running API: it
// awakens (or finds) a hunter, seeds the daily quests, clears them and prints
// the resulting progression and activity feed.
package main

import (
	"context"
	"flag"
	"fmt"
	"hunter-tracker/internal/api"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"
)

func main() {
	var addr, name, email string
	var logLimit int
	var diagnostics bool

	flag.StringVar(&addr, "addr", "http://localhost:8000", "API base URL")
	flag.StringVar(&name, "name", "Sung Jinwoo", "hunter display name")
	flag.StringVar(&email, "email", "", "hunter email (lookup key when set)")
	flag.IntVar(&logLimit, "logs", 10, "number of log entries to print")
	flag.BoolVar(&diagnostics, "test", false, "only print the diagnostics report")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	client := api.NewClient(addr)

	if diagnostics {
		if err := printDiagnostics(ctx, client); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var emailPtr *string
	if email != "" {
		emailPtr = &email
	}
	if err := runDay(ctx, client, name, emailPtr, logLimit); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printDiagnostics(ctx context.Context, client *api.Client) error {
	report, err := client.Diagnostics(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("backend:     %s\n", report.Backend)
	fmt.Printf("database:    %s (%s)\n", report.Database, report.Driver)
	fmt.Printf("name:        %s\n", report.DatabaseName)
	fmt.Printf("connection:  %s\n", report.ConnectionStatus)
	fmt.Printf("collections: %v\n", report.Collections)
	return nil
}

func runDay(ctx context.Context, client *api.Client, name string, email *string, logLimit int) error {
	hunter, err := client.CreateHunter(ctx, name, email)
	if err != nil {
		return fmt.Errorf("failed to create hunter: %w", err)
	}
	fmt.Printf("Hunter %s (%s): Level %d, Rank %s, EXP %d (total %d)\n",
		hunter.DisplayName, hunter.ID, hunter.Level, hunter.Rank, hunter.Exp, hunter.TotalExp)

	quests, err := client.SeedDailies(ctx, hunter.ID)
	if err != nil {
		return fmt.Errorf("failed to seed dailies: %w", err)
	}

	for _, q := range quests {
		if _, err := client.CompleteQuest(ctx, q.ID); err != nil {
			return fmt.Errorf("failed to complete %q: %w", q.Title, err)
		}
		claim, err := client.ClaimQuest(ctx, q.ID)
		if err != nil {
			return fmt.Errorf("failed to claim %q: %w", q.Title, err)
		}
		if !claim.Awarded() {
			fmt.Printf("  %-18s already claimed\n", q.Title)
			continue
		}
		fmt.Printf("  %-18s +%d EXP -> Level %d, Rank %s\n", q.Title, q.ExpReward, claim.Level, claim.Rank)
	}

	stats, err := client.GetStats(ctx, hunter.ID)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}
	names := make([]string, 0, len(stats))
	for n := range stats {
		names = append(names, n)
	}
	sort.Strings(names)
	fmt.Print("Stats:")
	for _, n := range names {
		fmt.Printf(" %s=%d", n, stats[n])
	}
	fmt.Println()

	logs, err := client.Logs(ctx, hunter.ID, logLimit)
	if err != nil {
		return fmt.Errorf("failed to get logs: %w", err)
	}
	fmt.Println("Recent activity:")
	for _, l := range logs {
		fmt.Printf("  [%s] %-7s %s\n", l.CreatedAt.Format(time.RFC3339), l.Level, l.Message)
	}
	return nil
}
