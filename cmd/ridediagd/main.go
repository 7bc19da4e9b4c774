package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/veloroad/ridediag/internal/config"
	"github.com/veloroad/ridediag/internal/diag"
	"github.com/veloroad/ridediag/internal/errors"
	"github.com/veloroad/ridediag/internal/feed"
	"github.com/veloroad/ridediag/internal/journal"
	"github.com/veloroad/ridediag/internal/logger"
	"github.com/veloroad/ridediag/internal/pid"
)

var (
	cfg *config.Config
	mgr *diag.Manager
	rec journal.Recorder

	sessionID  string
	journaled  map[string]bool
	lastActive bool

	lastSummary diag.Summary
	lastStatus  map[diag.SensorKind]diag.SensorStatus
)

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	logger.Debug().Msg("Config loaded")

	mgr, err = diag.NewManager(cfg.DiagConfig())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize diagnostics")
	}

	journaled = make(map[string]bool)
}

func main() {
	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write pid file")
	}
	defer pid.Remove()

	var err error
	rec, err = journal.NewService(journal.Config{
		DBPath:  cfg.JournalDB,
		Enabled: cfg.Journal,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize findings journal")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if cfg.AutoStartSession {
		handleSnapshot(ctx, mgr.StartSession(time.Now()))
	}

	msgs := make(chan *feed.Message)
	go readFeed(msgs)

	if err := loop(ctx, msgs); err != nil {
		logger.Error().Err(err).Msg("error in main loop")
	}
	shutdown()
}

func loop(ctx context.Context, msgs <-chan *feed.Message) error {
	if cfg.IntervalMs <= 0 {
		return errors.New().New(errors.ErrInvalidInterval)
	}

	ticker := time.NewTicker(cfg.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				msgs = nil
				continue
			}
			if snap, evaluated := feed.Apply(mgr, msg, time.Now()); evaluated {
				handleSnapshot(ctx, snap)
			}
		case <-ticker.C:
			handleSnapshot(ctx, mgr.Tick(time.Now()))
		}
	}
}

func readFeed(msgs chan<- *feed.Message) {
	defer close(msgs)

	reader := feed.NewReader(os.Stdin)
	for {
		msg, err := reader.Next()
		if err != nil {
			if err == io.EOF {
				logger.Debug().Msg("Feed stream closed")
				return
			}
			logger.Warn().Err(err).Msg("Skipping undecodable feed message")
			continue
		}
		msgs <- msg
	}
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func shutdown() {
	snap := mgr.StopSession(time.Now())
	journalClosed(context.Background(), snap)

	if err := rec.Close(); err != nil {
		logger.Error().Err(err).Msg("failed to close findings journal")
	}
	logger.Info().Msg("Exiting...")
}

// handleSnapshot journals newly closed findings and logs transitions.
func handleSnapshot(ctx context.Context, snap diag.Snapshot) {
	if snap.SessionActive && !lastActive {
		sessionID = time.Now().UTC().Format("20060102T150405Z")
		journaled = make(map[string]bool)
		logger.Info().Str("session", sessionID).Msg("Session started")
	}
	lastActive = snap.SessionActive

	journalClosed(ctx, snap)
	logTransitions(snap)
}

func journalClosed(ctx context.Context, snap diag.Snapshot) {
	for _, ev := range snap.Findings {
		if !ev.Closed {
			continue
		}
		key := fmt.Sprintf("%s@%.2f-%.2f", ev.Kind, ev.StartSec, ev.EndSec)
		if journaled[key] {
			continue
		}
		if err := rec.Record(ctx, sessionID, ev); err != nil {
			logger.Error().Err(err).Str("kind", string(ev.Kind)).Msg("failed to journal finding")
			continue
		}
		journaled[key] = true
	}
}

func logTransitions(snap diag.Snapshot) {
	for sensor, status := range snap.SensorStatus {
		if lastStatus[sensor] != status {
			logger.Info().
				Str("sensor", string(sensor)).
				Str("status", string(status)).
				Msg("Sensor status changed")
		}
	}
	lastStatus = snap.SensorStatus

	if snap.Summary != lastSummary {
		logger.Info().
			Str("summary", snap.Summary.Status).
			Int("issues", snap.Summary.IssueCount).
			Msg("Diagnostics summary changed")
		for _, issue := range snap.ActiveIssues {
			logger.Debug().
				Str("kind", string(issue.Kind)).
				Str("severity", string(issue.Severity)).
				Msg(issue.Title)
		}
	}
	lastSummary = snap.Summary
}
