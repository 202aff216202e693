// Command logdexd runs the record-store engine behind an HTTP surface, or
// dumps its index to stdout for inspection, in the same two-mode shape
// gazctl's subcommand tree exposes for its own broker/consumer tooling.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/dustin/go-humanize"
	flags "github.com/jessevdk/go-flags"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"

	"github.com/andreyvit/logdex"
	"github.com/andreyvit/logdex/internal/httpapi"
	"github.com/andreyvit/logdex/internal/metrics"
)

type options struct {
	LogPath      string `long:"log" default:"users.jsonl" description:"path to the append-only record log"`
	SnapshotPath string `long:"snapshot" default:"users.idx" description:"path to the index snapshot"`
	SeedCount    int    `long:"seed" default:"0" description:"synthetic records to seed on first boot"`
	CacheSize    int    `long:"cache-size" default:"1024" description:"decoded-frame LRU cache entries, 0 disables"`
	Verbose      bool   `long:"verbose" short:"v" description:"passed to the engine as Options.Verbose; operations do not log either way"`

	Serve struct {
		Addr string `long:"addr" default:":8080" description:"HTTP listen address"`
	} `command:"serve" description:"run the HTTP server"`

	Dump struct{} `command:"dump" description:"print the index to stdout"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.LongDescription = "logdexd serves or inspects a logdex record store."

	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	logger := slog.Default()
	engine, err := logdex.Open(logdex.Options{
		FS:           afero.NewOsFs(),
		LogPath:      opts.LogPath,
		SnapshotPath: opts.SnapshotPath,
		SeedCount:    opts.SeedCount,
		CacheSize:    opts.CacheSize,
		Verbose:      opts.Verbose,
		Logger:       logger,
		Observer:     metrics.NewPrometheusObserver(prometheus.DefaultRegisterer),
	})
	if err != nil {
		logger.Error("logdex: failed to open store", "err", err)
		os.Exit(1)
	}
	defer engine.Close()

	name := ""
	if parser.Active != nil {
		name = parser.Active.Name
	}

	switch name {
	case "dump":
		runDump(engine, opts)
	default:
		runServe(engine, logger, opts)
	}
}

func runServe(engine *logdex.Engine, logger *slog.Logger, opts options) {
	handler := httpapi.New(engine, logger)
	logger.Info("logdex: listening", "addr", opts.Serve.Addr)
	if err := http.ListenAndServe(opts.Serve.Addr, handler.Mux()); err != nil {
		logger.Error("logdex: server exited", "err", err)
		os.Exit(1)
	}
}

func runDump(engine *logdex.Engine, opts options) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "key", "offset"})

	for i := 0; ; i++ {
		entry, err := engine.At(i)
		if err != nil {
			break
		}
		table.Append([]string{fmt.Sprintf("%d", i), entry.Key, fmt.Sprintf("%d", entry.Offset)})
	}
	table.Render()

	if info, err := os.Stat(opts.LogPath); err == nil {
		fmt.Printf("log size: %s\n", humanize.Bytes(uint64(info.Size())))
	}
}
