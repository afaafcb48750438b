// Command bidwatch follows an organization's bidding round from a terminal
// and places bids on its requests.
//
//	bidwatch -server http://localhost:8080 -org club-42 -name Sam
//
// Commands: "bid <requestId> <dollars>", "preset <requestId> <n>", "refresh", "quit".
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"crowd-bidding/internal/coordinator"
	"crowd-bidding/internal/payments"
	"crowd-bidding/utils"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "bidding server base URL")
	org := flag.String("org", "", "organization to follow")
	name := flag.String("name", "", "bidder name")
	email := flag.String("email", "", "bidder email")
	active := flag.Duration("poll", coordinator.DefaultActivePollInterval, "poll interval while a round is active")
	idle := flag.Duration("idle-poll", coordinator.DefaultIdlePollInterval, "poll interval while no round is active")
	flag.Parse()

	if *org == "" {
		fmt.Fprintln(os.Stderr, "bidwatch: -org is required")
		os.Exit(2)
	}
	utils.SetLevel("warn")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	coord := coordinator.New(coordinator.NewHTTPClient(*server, 10*time.Second), coordinator.Config{
		OrganizationID:     *org,
		ActivePollInterval: *active,
		IdlePollInterval:   *idle,
	})
	bidder := coordinator.Bidder{Name: *name, Email: *email}

	go readCommands(ctx, stop, coord, bidder)
	go func() {
		last := ""
		for snap := range coord.Updates() {
			// countdown ticks only reprint every 10 seconds
			key := fmt.Sprintf("%s|%s|%d|%d|%s|%d", snap.State, snap.Round.RoundID, snap.Round.WinningAmount,
				len(snap.Round.Requests), snap.Notice, snap.Remaining/(10*time.Second))
			if key != last {
				last = key
				render(snap)
			}
		}
	}()

	if err := coord.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "bidwatch: %v\n", err)
		os.Exit(1)
	}
}

func readCommands(ctx context.Context, stop func(), coord *coordinator.Coordinator, bidder coordinator.Bidder) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "quit", "q":
			stop()
			return
		case "refresh", "r":
			coord.Refresh()
		case "bid", "b":
			if len(fields) != 3 {
				fmt.Println("usage: bid <requestId> <dollars>")
				continue
			}
			amount, err := payments.ParseDollars(fields[2])
			if err != nil {
				fmt.Println(err)
				continue
			}
			submit(coord, fields[1], amount, bidder)
		case "preset", "p":
			if len(fields) != 3 {
				fmt.Println("usage: preset <requestId> <n>")
				continue
			}
			n, err := strconv.Atoi(fields[2])
			presets := coord.Snapshot().Presets
			if err != nil || n < 1 || n > len(presets) {
				fmt.Printf("choose a preset between 1 and %d\n", len(presets))
				continue
			}
			submit(coord, fields[1], presets[n-1], bidder)
		default:
			fmt.Println("commands: bid <requestId> <dollars> | preset <requestId> <n> | refresh | quit")
		}
	}
}

func submit(coord *coordinator.Coordinator, requestID string, amount int64, bidder coordinator.Bidder) {
	if err := coord.Submit(requestID, amount, bidder); err != nil {
		fmt.Printf("bid not sent: %v\n", err)
	}
}

func render(s coordinator.Snapshot) {
	var b strings.Builder
	if !s.Round.Active {
		b.WriteString("no active round\n")
	} else {
		fmt.Fprintf(&b, "round %d  %s left  leading $%s  minimum to win $%s  [%s]\n",
			s.Round.RoundNumber, s.Remaining.Round(time.Second), payments.FormatCents(s.Round.WinningAmount),
			payments.FormatCents(s.MinimumToWin), s.State)
		for _, r := range s.Round.Requests {
			fmt.Fprintf(&b, "  %s  %s - %s  $%s\n", r.RequestID, r.SongTitle, r.SongArtist, payments.FormatCents(r.CurrentBid))
		}
		for i, p := range s.Presets {
			fmt.Fprintf(&b, "  preset %d: $%s\n", i+1, payments.FormatCents(p))
		}
	}
	if s.Notice != "" {
		fmt.Fprintf(&b, "> %s\n", s.Notice)
	}
	fmt.Print(b.String())
}
