package main

import (
	"context"
	"os"
	"os/signal"
	"passreset/internal/app/deps"
	"passreset/internal/app/services"
	"passreset/internal/core/domain/logging"
	sweepverifications "passreset/internal/core/services/sweep_verifications"
	"syscall"
	"time"
)

func main() {
	deps, shutdownDeps := deps.InitDeps()
	log := deps.Logger
	defer shutdownDeps()

	services := services.InitServices(deps)

	ticker := time.NewTicker(deps.Config.VerificationSweepPeriod)
	defer ticker.Stop()

	stopCh, closeCh := createChannel()
	defer closeCh()

	log.Info(
		context.Background(),
		"Starting periodic verification sweeper.",
		logging.Entry("periodMinutes", deps.Config.VerificationSweepPeriod.Minutes()),
	)

loop:
	for {
		select {
		case <-stopCh:
			log.Info(context.Background(), "Stopping periodic verification sweeper.")
			break loop
		case <-ticker.C:
			_, err := services.SweepVerifications.Run(context.Background(), sweepverifications.Input{})
			if err != nil {
				log.Error(context.Background(), "Sweeping service returned an error.", logging.Entry("err", err))
			}
		}
	}
}

func createChannel() (chan os.Signal, func()) {
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	return stopCh, func() {
		close(stopCh)
	}
}
