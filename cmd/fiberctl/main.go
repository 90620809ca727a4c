// Command fiberctl is a small demo/debug harness for the update queue
// core: it scripts an enqueue/process/commit cycle against synthetic
// nodes (run) and can expose a live WebSocket/metrics view of that
// activity (serve). Nothing in this command is part of the core
// algorithm — it only drives it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"

	"github.com/fiberqueue/updatequeue/cmd/fiberctl/internal/server"
	"github.com/fiberqueue/updatequeue/common"
	"github.com/fiberqueue/updatequeue/config"
	"github.com/fiberqueue/updatequeue/core"
	"github.com/fiberqueue/updatequeue/diag"
	"github.com/fiberqueue/updatequeue/event"
	"github.com/fiberqueue/updatequeue/logging"
	"github.com/fiberqueue/updatequeue/metrics"
	"github.com/fiberqueue/updatequeue/schedule"
)

var configFlag = &cli.StringFlag{
	Name:  "config",
	Usage: "path to a fiberctl TOML config file",
}

func main() {
	if _, err := maxprocs.Set(maxprocs.Logger(logging.Default().Debug)); err != nil {
		logging.Warn("automaxprocs: failed to set GOMAXPROCS", "err", err)
	}

	app := &cli.App{
		Name:  "fiberctl",
		Usage: "drive and observe the priority-aware update queue",
		Commands: []*cli.Command{
			runCommand,
			serveCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var runCommand = &cli.Command{
	Name:  "run",
	Usage: "run a scripted enqueue/process/commit pass and print the result",
	Flags: []cli.Flag{configFlag},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		applyLogConfig(cfg.Log)

		reg := prometheus.NewRegistry()
		metricSet := metrics.New(reg, "fiberctl_run")

		immediate, _ := cfg.Priorities.Lookup("immediate")
		userBlocking, _ := cfg.Priorities.Lookup("user-blocking")
		idle, _ := cfg.Priorities.Lookup("idle")

		node := core.NewNode(core.FunctionNode, core.State{"count": 0})
		node.Queue = core.CreateQueue(core.State{"count": 0})

		increment := func(delta int) core.ReducerFunc {
			return func(_ core.Instance, prev core.State, _ core.Props) core.State {
				count, _ := prev["count"].(int)
				return core.State{"count": count + delta}
			}
		}

		enqueue := func(priority common.Priority, delta int) {
			u := core.CreateUpdate(priority)
			u.Payload = increment(delta)
			core.EnqueueUpdate(nil, node, u)
			metricSet.ObserveEnqueue(priority)
		}

		enqueue(idle, 1)
		enqueue(userBlocking, 10)
		enqueue(immediate, 100)

		runPass := func(priority common.Priority) {
			defer metrics.Timer(metricSet)()
			stats := core.ProcessQueue(nil, node, nil, nil, priority)
			for i := 0; i < stats.Applied; i++ {
				metricSet.ObserveApplied(priority)
			}
			for i := 0; i < stats.Skipped; i++ {
				metricSet.ObserveSkipped(priority)
			}
			fmt.Printf("processed at %v: count=%v residualPriority=%v\n",
				priority, node.MemoizedState["count"], node.ResidualPriority)
		}

		runPass(userBlocking)
		runPass(idle)

		var bus event.Feed[event.CommitEvent]
		forceUpdate := core.ConsumeHasForceUpdate()
		if err := event.PublishCommit(&bus, node, nil, forceUpdate); err != nil {
			metricSet.ObserveCommit(err)
			return fmt.Errorf("commit: %w", err)
		}
		metricSet.ObserveCommit(nil)
		return nil
	},
}

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "serve a live WebSocket/metrics view of commit activity",
	Flags: []cli.Flag{configFlag},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		applyLogConfig(cfg.Log)

		reg := prometheus.NewRegistry()
		metricSet := metrics.New(reg, "fiberctl")

		var bus event.Feed[event.CommitEvent]
		nodes := server.NewNodeRegistry()
		srv := server.New(cfg.Server.Addr, &bus, reg, logging.Default(), nodes)

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return srv.Run(gctx) })
		g.Go(func() error { return observeCommits(gctx, &bus, metricSet) })
		g.Go(func() error { return driveDemoNodes(gctx, cfg, &bus, metricSet, nodes) })

		return g.Wait()
	},
}

func loadConfig(c *cli.Context) (config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.Default(), nil
}

// applyLogConfig rebuilds the package-level default logger from cfg: always
// a colorized console handler, fanned out to a rotating file handler too
// when cfg.File is set.
func applyLogConfig(cfg config.LogConfig) {
	level := logging.ParseLevel(cfg.Level)
	console := logging.NewConsoleHandler(logging.DefaultConsoleWriter(), level, true)
	if cfg.File == "" {
		logging.SetDefault(logging.New(console))
		return
	}
	file := logging.NewFileHandler(cfg.File, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays, level)
	logging.SetDefault(logging.New(logging.NewFanoutHandler(console, file)))
}

// observeCommits translates the bus's CommitEvents into metric
// observations until ctx is canceled, so /metrics reflects live commit
// activity without CommitQueue's callers needing to know metrics exists.
func observeCommits(ctx context.Context, bus *event.Feed[event.CommitEvent], set *metrics.Set) error {
	sub := bus.Subscribe(64)
	defer sub.Unsubscribe()

	for {
		select {
		case evt := <-sub.Chan():
			set.ObserveCommit(evt.Err)
		case <-ctx.Done():
			return nil
		}
	}
}

// driveDemoNodes cycles a small fixed set of synthetic nodes through
// enqueue/process/commit on a timer, so fiberctl serve has something to
// show: a populated /metrics, /queues/{node} snapshots, and a live /events
// feed. Nothing here is part of the core algorithm — see the package doc.
func driveDemoNodes(ctx context.Context, cfg config.Config, bus *event.Feed[event.CommitEvent], set *metrics.Set, nodes *server.NodeRegistry) error {
	immediate, _ := cfg.Priorities.Lookup("immediate")
	userBlocking, _ := cfg.Priorities.Lookup("user-blocking")
	idle, _ := cfg.Priorities.Lookup("idle")
	priorities := []common.Priority{idle, userBlocking, immediate}

	procCtx := core.NewProcessContext()
	procCtx.Hook = diag.NewLogger(logging.Default())
	recorder := diag.NewRecorder(64, 8)
	board := schedule.NewBoard()
	effects := schedule.NewEffectPendingSet()

	const nodeCount = 3
	demoNodes := make([]*core.Node, nodeCount)
	demoIDs := make([]string, nodeCount)
	for i := range demoNodes {
		n := core.NewNode(core.FunctionNode, core.State{"count": 0})
		n.Queue = core.CreateQueue(core.State{"count": 0})
		demoNodes[i] = n
		demoIDs[i] = fmt.Sprintf("demo-%d", i)
	}

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	var tick int
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			idx := tick % nodeCount
			priority := priorities[tick%len(priorities)]
			tick++

			node := demoNodes[idx]
			id := demoIDs[idx]

			u := core.CreateUpdate(priority)
			u.Payload = core.ReducerFunc(func(_ core.Instance, prev core.State, _ core.Props) core.State {
				count, _ := prev["count"].(int)
				return core.State{"count": count + 1}
			})
			core.EnqueueUpdate(procCtx, node, u)
			set.ObserveEnqueue(priority)

			start := time.Now()
			stats := core.ProcessQueue(procCtx, node, nil, nil, priority)
			set.PassDuration.Observe(time.Since(start).Seconds())
			for i := 0; i < stats.Applied; i++ {
				set.ObserveApplied(priority)
			}
			for i := 0; i < stats.Skipped; i++ {
				set.ObserveSkipped(priority)
			}

			board.Note(id, node.ResidualPriority)
			depth := 0
			for _, n := range demoNodes {
				for u := n.Queue.FirstUpdate; u != nil; u = u.Next {
					depth++
				}
			}
			set.SetQueueDepth(depth)
			recorder.Record(node.TraceID, diag.PassRecord{
				At:               start,
				Duration:         time.Since(start),
				Applied:          stats.Applied,
				Skipped:          stats.Skipped,
				ResidualPriority: node.ResidualPriority,
			})

			if node.EffectFlags.Has(core.FlagEffectPending) {
				effects.Mark(id)
			}

			forceUpdate := procCtx.ConsumeHasForceUpdate()
			if err := event.PublishCommit(bus, node, nil, forceUpdate); err != nil {
				logging.Error("demo commit failed", "node", id, "err", err)
			}
			effects.Clear(id)
			nodes.Update(id, node)
		}
	}
}
