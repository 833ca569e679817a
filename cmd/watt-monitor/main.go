package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cptspacemanspiff/watt-monitor/internal/config"
	"github.com/cptspacemanspiff/watt-monitor/internal/daemon"
	"github.com/cptspacemanspiff/watt-monitor/internal/records"
)

// topicHandler wraps an slog.Handler and filters records by a "topic" attribute.
// Records without a topic attribute always pass through (startup messages, errors).
// Records with a topic only pass if that topic is enabled.
type topicHandler struct {
	inner  slog.Handler
	topics map[string]bool
	topic  string // set when WithAttrs includes a "topic" key
}

func (h *topicHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.inner.Enabled(context.Background(), level)
}

func (h *topicHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.topics["all"] {
		return h.inner.Handle(ctx, r)
	}
	topic := h.topic
	if topic == "" {
		// Check record-level attrs as fallback.
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == "topic" {
				topic = a.Value.String()
				return false
			}
			return true
		})
	}
	if topic != "" && !h.topics[topic] {
		return nil
	}
	return h.inner.Handle(ctx, r)
}

func (h *topicHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	topic := h.topic
	for _, a := range attrs {
		if a.Key == "topic" {
			topic = a.Value.String()
		}
	}
	return &topicHandler{inner: h.inner.WithAttrs(attrs), topics: h.topics, topic: topic}
}

func (h *topicHandler) WithGroup(name string) slog.Handler {
	return &topicHandler{inner: h.inner.WithGroup(name), topics: h.topics, topic: h.topic}
}

func newLogger(verbose bool, logFlag string) *slog.Logger {
	topics := make(map[string]bool)
	if verbose {
		topics["all"] = true
	}
	if logFlag != "" {
		for _, t := range strings.Split(logFlag, ",") {
			topics[strings.TrimSpace(t)] = true
		}
	}

	handler := &topicHandler{
		inner:  slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}),
		topics: topics,
	}
	return slog.New(handler)
}

// loadConfig reads the config at path, or falls back to defaults when the
// default-location file does not exist. An explicitly given path must exist.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if os.IsNotExist(err) && !explicit {
		return config.NormalizeAndValidate(config.DefaultConfig())
	}
	return nil, fmt.Errorf("load config %s: %w", path, err)
}

func runDaemon(args []string) {
	fs := flag.NewFlagSet("daemon", flag.ExitOnError)
	configPath := fs.String("config", config.DefaultPath(), "path to config file")
	verbose := fs.Bool("verbose", false, "enable all verbose logging (equivalent to -log=all)")
	logFlag := fs.String("log", "", "comma-separated log topics: battery,rotate,sleep (or 'all')")
	fs.Parse(args)

	logger := newLogger(*verbose, *logFlag)

	cfg, err := loadConfig(*configPath, *configPath != config.DefaultPath())
	if err != nil {
		logger.Error("config", "err", err)
		os.Exit(1)
	}

	if err := daemon.Run(cfg, logger); err != nil {
		if errors.Is(err, daemon.ErrAlreadyRunning) {
			logger.Error("another collector instance is running", "err", err)
		} else {
			logger.Error("collector failed", "err", err)
		}
		os.Exit(1)
	}
}

func runList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath := fs.String("config", config.DefaultPath(), "path to config file")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath, *configPath != config.DefaultPath())
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	dates := cfg.Paths().ListAvailableDates(time.Now())
	if len(dates) == 0 {
		fmt.Println("no battery logs found")
		fmt.Println("start the collector with: watt-monitor daemon")
		return
	}

	fmt.Println("available dates:")
	for _, d := range dates {
		suffix := ""
		if records.SameDate(d, time.Now()) {
			suffix = " (today)"
		}
		fmt.Printf("  %s%s\n", d.Format(records.DateLayout), suffix)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("watt-monitor", flag.ExitOnError)
	configPath := fs.String("config", config.DefaultPath(), "path to config file")
	dateArg := fs.String("date", "today", "date to display: today, yesterday, or YYYY-MM-DD")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath, *configPath != config.DefaultPath())
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	date, ok := records.ParseDateArg(*dateArg, time.Now())
	if !ok {
		fmt.Fprintf(os.Stderr, "invalid date %q: use today, yesterday, or YYYY-MM-DD\n", *dateArg)
		os.Exit(1)
	}

	p := tea.NewProgram(newModel(cfg, date), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "viewer:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: watt-monitor [command] [flags]

commands:
  (none)   interactive battery chart viewer
  daemon   run the background collector
  list     list dates with recorded data

run 'watt-monitor <command> -h' for command flags`)
	os.Exit(2)
}

func main() {
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		switch args[0] {
		case "daemon":
			runDaemon(args[1:])
		case "list":
			runList(args[1:])
		case "help":
			usage()
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
			usage()
		}
		return
	}
	runView(args)
}
