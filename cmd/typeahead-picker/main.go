// Package main is a terminal picker built on the typeahead controller. It
// demonstrates the full selector loop (focus, debounced search, infinite
// scroll, selection) against any JSON backend, or against the bundled demo
// backend with -demo.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/veldt/typeahead"
	"github.com/veldt/typeahead/internal/demoapi"
	"github.com/veldt/typeahead/internal/fetch"
	"github.com/veldt/typeahead/internal/logging"
	"github.com/veldt/typeahead/model"
)

// Build-time variables set via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=abc1234"
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes, for shell script use:
//
//	0 = selection made
//	1 = cancelled by user
//	2 = error
const (
	exitSuccess   = 0
	exitCancelled = 1
	exitError     = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to configuration file")
	demo := flag.Bool("demo", false, "serve the bundled demo backend in-process")
	paged := flag.Bool("paged", false, "use the paginated demo endpoint (with -demo)")
	showVersion := flag.Bool("version", false, "print version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("typeahead-picker %s (%s)\n", version, commit)
		return exitSuccess
	}

	cfg, err := loadConfig(*configPath, *demo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "typeahead-picker: %v\n", err)
		return exitError
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "typeahead-picker: logger: %v\n", err)
		return exitError
	}
	defer logger.Sync()

	if *demo {
		stop, url, err := startDemoBackend()
		if err != nil {
			fmt.Fprintf(os.Stderr, "typeahead-picker: demo backend: %v\n", err)
			return exitError
		}
		defer stop()
		cfg.Backend.URL = url + "/companies"
		cfg.Backend.Paged = *paged
		if *paged {
			cfg.Backend.URL += "/paged"
			cfg.Fields.OptionsPath = "data.results"
		}
		logger.Info("demo backend started", zap.String("url", cfg.Backend.URL))
	}

	ctrlCfg := buildControllerConfig(cfg)

	client := &http.Client{
		Timeout:   cfg.Backend.Timeout,
		Transport: &fetch.RetryTransport{Base: http.DefaultTransport},
	}

	relay := &stateRelay{}
	ctrl, err := typeahead.New(ctrlCfg,
		typeahead.WithLogger(logger),
		typeahead.WithHTTPClient(client),
		typeahead.WithRenderer(relay),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "typeahead-picker: %v\n", err)
		return exitError
	}
	defer ctrl.Close()

	p := tea.NewProgram(NewUI(ctrl), tea.WithAltScreen())
	relay.attach(p)

	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "typeahead-picker: TUI error: %v\n", err)
		return exitError
	}

	m, ok := finalModel.(UI)
	if !ok {
		fmt.Fprintln(os.Stderr, "typeahead-picker: unexpected model type")
		return exitError
	}
	if m.Cancelled() {
		return exitCancelled
	}
	if picked := m.Picked(); picked != nil {
		out, _ := json.Marshal(picked)
		fmt.Fprintln(os.Stdout, string(out))
	}
	return exitSuccess
}

// loadConfig loads the config file when given; in demo mode the defaults
// are enough since the backend URL is filled in after the server starts.
func loadConfig(path string, demo bool) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if !demo {
		return nil, fmt.Errorf("either -config or -demo is required")
	}
	return Defaults(), nil
}

// startDemoBackend serves the bundled demo dataset on a loopback port.
func startDemoBackend() (stop func(), url string, err error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, "", err
	}
	srv := &http.Server{Handler: demoapi.NewRouter()}
	go srv.Serve(ln)
	return func() { srv.Close() }, "http://" + ln.Addr().String(), nil
}

// buildControllerConfig translates the file config into a controller config.
func buildControllerConfig(cfg *Config) typeahead.Config {
	opts := typeahead.Options{
		ValueField:  model.Field(cfg.Fields.ValuePath),
		LabelField:  model.Field(cfg.Fields.LabelPath),
		Searchable:  cfg.Backend.Searchable,
		QueryParams: cfg.Backend.QueryParams,
	}
	if cfg.Fields.OptionsPath != "" {
		opts.OptionsPath = model.Field(cfg.Fields.OptionsPath)
	}

	if !cfg.Backend.Paged {
		return typeahead.SinglePageConfig{Options: opts, URL: cfg.Backend.URL}
	}

	base := cfg.Backend.URL
	cursorParam := cfg.Pagination.CursorParam
	nextCursor := model.Field(cfg.Pagination.NextCursorPath)
	return typeahead.PaginatedConfig{
		Options: opts,
		URLForParam: func(param model.PageParam) string {
			if param == nil {
				return base
			}
			sep := "?"
			if strings.Contains(base, "?") {
				sep = "&"
			}
			return fmt.Sprintf("%s%s%s=%v", base, sep, cursorParam, param["cursor"])
		},
		GetNextPageParam: func(last any, _ []any) model.PageParam {
			next := nextCursor.Resolve(last)
			if next == nil {
				return nil
			}
			return model.PageParam{"cursor": next}
		},
	}
}
