package main

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/osse101/ToolForge_Go/internal/bootstrap"
	"github.com/osse101/ToolForge_Go/internal/config"
	"github.com/osse101/ToolForge_Go/internal/event"
)

func newDeadLettersCmd() *cobra.Command {
	var tail int

	cmd := &cobra.Command{
		Use:   "dead-letters [path]",
		Short: "Summarise events that exhausted their retries (default: EVENT_DEADLETTER_PATH)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if tail < 0 {
				return fmt.Errorf("--tail must not be negative, got %d", tail)
			}
			path, err := deadLetterPath(args)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			p.Header(fmt.Sprintf("Dead letters in %s", path))

			f, err := os.Open(path)
			if os.IsNotExist(err) {
				p.Success("no dead-letter file, nothing was given up on")
				return nil
			}
			if err != nil {
				return err
			}
			defer f.Close()

			entries, err := event.ReadDeadLetters(f)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				p.Success("0 dead-lettered events")
				return nil
			}

			byType := map[event.Type]int{}
			for _, e := range entries {
				byType[e.Event.Type]++
			}
			types := make([]event.Type, 0, len(byType))
			for t := range byType {
				types = append(types, t)
			}
			slices.Sort(types)

			p.Warning("%d dead-lettered events", len(entries))
			for _, t := range types {
				p.Info("%-14s %d", t, byType[t])
			}

			for _, e := range entries[max(0, len(entries)-tail):] {
				p.Info("%s %s attempts=%d %s", e.Timestamp.Format(time.RFC3339), e.Event.Type, e.Attempts, e.LastError)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&tail, "tail", 0, "also print the last N entries")
	return cmd
}

func deadLetterPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	if cfg.EventDeadLetterPath != "" {
		return cfg.EventDeadLetterPath, nil
	}
	return bootstrap.EventDefaultDeadLetterPath, nil
}
