package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah-times/internal/alarm"
	"github.com/smokyabdulrahman/salah-times/internal/engine"
	"github.com/smokyabdulrahman/salah-times/internal/logger"
	"github.com/smokyabdulrahman/salah-times/internal/notify"
	"github.com/smokyabdulrahman/salah-times/internal/prayer"
)

// retentionDays is how long fetched schedules are kept in the database.
const retentionDays = 30

var flagTick time.Duration

func newDaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Keep the schedule current and sound the adhan alarms",
		Long: "Run in the foreground: refresh the schedule every day, register the adhan alarms\n" +
			"and announce each prayer on stdout, in the log and, when mqtt_broker is set, over MQTT.\n" +
			"Send SIGHUP to re-register alarms after changing settings.",
		Args: cobra.NoArgs,
		RunE: runDaemon,
	}
	cmd.Flags().DurationVar(&flagTick, "tick", time.Minute, "How often to check for a new day and publish state")
	return cmd
}

func runDaemon(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir, err := logDir(loadedConfig)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Config{Debug: loadedConfig.Debug, Dir: dir, Stderr: true}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return withApp(ctx, func(a *app) error {
		sinks := notify.Multi{notify.LogSink{Out: cmd.OutOrStdout(), Lang: a.lang(ctx)}}

		var mq *notify.MQTTSink
		if a.cfg.MQTTBroker != "" {
			sink, client, err := notify.DialMQTT(notify.MQTTOptions{
				Broker:   a.cfg.MQTTBroker,
				ClientID: "salah-times-" + uuid.NewString()[:8],
				Username: a.cfg.MQTTUsername,
				Password: a.cfg.MQTTPassword,
				Prefix:   a.cfg.MQTTTopic,
			})
			if err != nil {
				return err
			}
			defer client.Disconnect(250)
			sinks = append(sinks, sink)
			mq = sink
		}

		local := alarm.NewLocal(ctx, sinks)
		defer local.Stop()

		pruneHistory(ctx, a)

		sched := alarm.NewScheduler(local, a.settings)
		defer func() {
			if err := sched.CancelAll(context.Background()); err != nil {
				logger.Warn("cancelling alarms failed", "err", err)
			}
		}()

		d := a.deps(sched)
		d.Tick = flagTick
		if mq != nil {
			d.OnTick = func(snap engine.Snapshot, st prayer.State) {
				if err := mq.PublishState(snap.City.Name, st); err != nil {
					logger.Warn("publishing state failed", "err", err)
				}
			}
		}
		eng := engine.New(d)

		go reregisterOnHangup(ctx, eng, local)

		logger.Info("daemon started", "city", eng.City(ctx).Name, "providers", a.chain.Name(), "mqtt", a.cfg.MQTTBroker != "")
		err := eng.Run(ctx)
		if errors.Is(err, context.Canceled) {
			logger.Info("daemon stopped")
			return nil
		}
		return err
	})
}

// reregisterOnHangup re-reads the settings and registers every alarm again
// on each SIGHUP.
func reregisterOnHangup(ctx context.Context, eng *engine.Engine, local *alarm.Local) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
		}
		eng.ReloadOptions(ctx)
		rep, _, err := eng.EnsureAlarms(ctx, eng.Now(), true)
		if err != nil {
			logger.Error("re-registering alarms failed", "err", err)
			continue
		}
		logger.Info("alarms re-registered", "scheduled", rep.Scheduled(), "failed", len(rep.Failed()), "pending", len(local.Pending()))
	}
}

func pruneHistory(ctx context.Context, a *app) {
	cutoff := nowFunc().In(a.zone).AddDate(0, 0, -retentionDays).Format(prayer.DateLayout)
	n, err := a.db.PruneBefore(ctx, cutoff)
	if err != nil {
		logger.Warn("pruning old prayer times failed", "err", err)
		return
	}
	if n > 0 {
		logger.Info("pruned old prayer times", "rows", n, "before", cutoff)
	}
}
