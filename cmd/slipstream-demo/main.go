package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/odvcencio/slipstream/pkg/config"
	"github.com/odvcencio/slipstream/pkg/logging"
	"github.com/odvcencio/slipstream/pkg/telemetry"
	"github.com/odvcencio/slipstream/pkg/timeline"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a config file (overrides the default search)")
		snapshot   = flag.Bool("snapshot", false, "render one styled frame to stdout and exit")
		count      = flag.Int("count", 40, "minimum item count for snapshot mode")
		interval   = flag.Duration("interval", 2*time.Second, "delay between synthetic turns")
	)
	flag.Parse()

	if err := run(*configPath, *snapshot, *count, *interval); err != nil {
		fmt.Fprintf(os.Stderr, "slipstream-demo: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, snapshot bool, count int, interval time.Duration) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if snapshot {
		return runSnapshot(os.Stdout, cfg, count)
	}

	logger, err := logging.NewLogger(cfg.Logging.Dir, timeline.NewItemID())
	if err != nil {
		return fmt.Errorf("opening log files: %w", err)
	}
	defer logger.Close()
	logger.SetMinLevel(logging.Level(cfg.Logging.Level))

	state := timeline.NewState(cfg.Virtual.Engine())
	frames := telemetry.NewFrameTracker()

	var metrics *telemetry.EngineMetrics
	if cfg.Telemetry.Enabled {
		metrics = telemetry.NewEngineMetrics()
		state.List().SetMetrics(metrics)
		go serveMetrics(cfg.Telemetry.Listen, metrics, logger)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	v := newView(screen, state, frames, cfg.UI.Theme, cfg.Virtual.Overscan, cfg.UI.WrapColumns, cfg.UI.ShowScrollbar)
	state.SetEstimator(rowEstimator(cfg.UI.WrapColumns))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go newGenerator(screen, interval).run(ctx)

	if configPath != "" {
		watcher := config.NewWatcher(configPath,
			func(reloaded *config.Config) {
				_ = screen.PostEvent(&reloadEvent{when: time.Now(), cfg: reloaded})
			},
			func(err error) {
				logger.Warn(logging.CategoryConfig, "reload_failed", err.Error(), nil)
			})
		go func() {
			if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error(logging.CategoryConfig, "watcher_stopped", err.Error(), nil)
			}
		}()
	}

	logger.Info(logging.CategoryUI, "demo_started", "interactive session running", map[string]any{
		"overscan": cfg.Virtual.Overscan,
		"theme":    cfg.UI.Theme,
	})

	return eventLoop(screen, v, state, frames, logger)
}

// rowEstimator derives initial heights from the renderer's own wrapping
// so estimates and measured heights share one code path.
func rowEstimator(cols int) func(*timeline.Item) float32 {
	return func(it *timeline.Item) float32 {
		return float32(len(renderItem(it, cols)))
	}
}

func serveMetrics(listen string, metrics *telemetry.EngineMetrics, logger *logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	logger.Info(logging.CategoryTelemetry, "metrics_listening", listen, nil)
	if err := http.ListenAndServe(listen, mux); err != nil {
		logger.Error(logging.CategoryTelemetry, "metrics_server_failed", err.Error(), nil)
	}
}

// eventLoop owns all timeline and engine state. Producer goroutines
// never touch it directly; their work arrives here as posted events.
func eventLoop(screen tcell.Screen, v *view, state *timeline.State, frames *telemetry.FrameTracker, logger *logging.Logger) error {
	list := state.List()
	v.draw()

	for {
		ev := screen.PollEvent()
		if ev == nil {
			return nil
		}
		start := time.Now()

		switch ev := ev.(type) {
		case *tcell.EventKey:
			if !handleKey(ev, state, logger) {
				return nil
			}
		case *tcell.EventMouse:
			switch {
			case ev.Buttons()&tcell.WheelUp != 0:
				list.ScrollBy(-1)
			case ev.Buttons()&tcell.WheelDown != 0:
				list.ScrollBy(1)
			}
		case *tcell.EventResize:
			screen.Sync()
		case *itemEvent:
			state.Push(ev.item)
		case *toolEvent:
			if ev.status.IsTerminal() {
				state.UpdateToolResult(ev.callID, ev.result, ev.errMsg)
			} else {
				state.UpdateToolStatus(ev.callID, ev.status, ev.progress, ev.errMsg)
			}
		case *reloadEvent:
			applyReload(ev.cfg, v, state, logger)
		}

		frames.RecordEventTime(time.Since(start))
		v.draw()
	}
}

// handleKey returns false when the app should exit.
func handleKey(ev *tcell.EventKey, state *timeline.State, logger *logging.Logger) bool {
	list := state.List()
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		list.ScrollBy(-1)
	case tcell.KeyDown:
		list.ScrollBy(1)
	case tcell.KeyPgUp:
		list.SetScrollOffset(list.ScrollOffset() - list.ViewportHeight())
	case tcell.KeyPgDn:
		list.SetScrollOffset(list.ScrollOffset() + list.ViewportHeight())
	case tcell.KeyHome:
		list.SetScrollOffset(0)
	case tcell.KeyEnd:
		list.ScrollToBottom()
	case tcell.KeyEnter:
		if id := state.Selected(); id != "" {
			state.ToggleExpanded(id)
		}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'j':
			state.SelectNext()
			state.ScrollToSelected()
		case 'k':
			state.SelectPrevious()
			state.ScrollToSelected()
		case ' ':
			if id := state.Selected(); id != "" {
				state.ToggleExpanded(id)
			}
		case 'x':
			if id := state.Selected(); id != "" {
				state.Remove(id)
				logger.Debug(logging.CategoryTimeline, "item_removed", id, nil)
			}
		case 'g':
			list.SetScrollOffset(0)
		case 'G':
			list.ScrollToBottom()
		case 'C':
			state.Clear()
		}
	}
	return true
}

// applyReload picks up the settings that can change at runtime without
// rebuilding the screen: theme, scrollbar, wrap width, and overscan.
func applyReload(cfg *config.Config, v *view, state *timeline.State, logger *logging.Logger) {
	v.pal = newPalette(cfg.UI.Theme)
	v.showBar = cfg.UI.ShowScrollbar
	v.overscan = cfg.Virtual.Overscan
	if cfg.UI.WrapColumns != v.wrapCols {
		v.wrapCols = cfg.UI.WrapColumns
		state.SetEstimator(rowEstimator(v.wrapCols))
	}
	logger.Info(logging.CategoryConfig, "config_reloaded", "applied runtime settings", map[string]any{
		"theme":    cfg.UI.Theme,
		"overscan": cfg.Virtual.Overscan,
	})
}
