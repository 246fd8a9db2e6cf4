package main

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"messenger/client"
	"messenger/domain"
	"messenger/errors"
	"messenger/runtime/workers"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run handles the polling client lifecycle: join the room, start the
// SyncClient under supervision, render each snapshot, and post stdin
// lines as messages.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	log := logs.GetLoggerFromString(config.LogLevel)
	room := domain.RoomID(config.DefaultRoomID)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Join the room before polling: membership gates posting.
	fetcher := client.NewHTTPFetcher(config.ServerURL, config.FetchTimeout)
	if err := fetcher.Attend(ctx, room, config.Nickname); err != nil {
		return exitRuntime, fmt.Errorf("could not join room %d at %s: %w", room, config.ServerURL, err)
	}

	color.Green.Printf(">>> Connected to %s! Room %d as %q (Ctrl+C to quit)\n",
		config.ServerURL, room, config.Nickname)

	// 4. Poll under supervision; every snapshot redraws the full view.
	sc := client.NewSyncClient(fetcher, room, config.PollInterval, log, renderSnapshot)
	sup := workers.NewSupervisor(log)
	done := make(chan struct{})
	go func() {
		sup.Add(sc).Run(ctx)
		close(done)
	}()

	// 5. Composer: each stdin line becomes a post, followed by an
	// out-of-band refresh so the sender sees it without waiting a tick.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}
			if err := fetcher.Post(ctx, room, config.Nickname, text); err != nil {
				if stderrors.Is(err, errors.ErrNotMember) {
					color.Red.Println("Rejected: you are not in this room")
					continue
				}
				log.Warn("Post failed", "error", err)
				continue
			}
			sc.Refresh()
		}
	}()

	select {
	case <-ctx.Done():
		color.Yellow.Println("Stopping client...")
	case <-done:
	}
	sup.Stop()
	<-done
	return exitOK, nil
}

// renderSnapshot redraws the roster and the message log from the
// latest snapshot. The view is replaced wholesale, never diffed.
func renderSnapshot(s client.Snapshot) {
	fmt.Printf("\n=== %s ===\n", s.FetchedAt.Format(time.TimeOnly))

	roster := tablewriter.NewWriter(os.Stdout)
	roster.SetHeader([]string{"Users"})
	roster.SetBorder(false)
	for _, name := range s.People {
		roster.Append([]string{name})
	}
	roster.Render()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Time", "Author", "Message"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.AppendBulk(lo.Map(s.Messages, func(m domain.Message, _ int) []string {
		return []string{
			time.UnixMilli(m.Timecode).Format(time.TimeOnly),
			m.Author,
			m.Content,
		}
	}))
	table.Render()
}
