package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andreimonforte/malocozz/app/jobs"
	"github.com/andreimonforte/malocozz/config"
	"github.com/andreimonforte/malocozz/pkg/cache"
	"github.com/andreimonforte/malocozz/pkg/queue"
)

var queueWorkersFlag int

// malocozz queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start standalone queue workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		if err := cache.Connect(); err != nil {
			return fmt.Errorf("queue workers need redis: %w", err)
		}
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
		jobs.Register()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 4
		}

		fmt.Printf("Queue workers started (%d). Press Ctrl+C to stop.\n", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		fmt.Println("\nQueue workers stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 4, "number of concurrent workers")
}
