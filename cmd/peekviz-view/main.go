// peekviz-view is a standalone viewer: it connects to an application
// started with Serve and shows its scene in a window, with an optional
// HTTP mirror for browsers.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ausocean/utils/logging"
	"golang.org/x/sync/errgroup"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/peekviz/peekviz"
	"github.com/peekviz/peekviz/internal/config"
)

const version = "v0.1.0"

func main() {
	showVersion := flag.Bool("version", false, "show version")
	urlFlag := flag.String("url", "", "server address, overrides config")
	webFlag := flag.String("web", "", "also mirror the scene over HTTP on this address")
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "bad config:", err)
		os.Exit(1)
	}
	if *urlFlag != "" {
		cfg.Server.URL = *urlFlag
	}
	if *webFlag != "" {
		cfg.Web.Addr = *webFlag
	}

	// Log to stderr, plus a rotated file when configured.
	var sink io.Writer = os.Stderr
	if cfg.Log.Path != "" {
		fileLog := &lumberjack.Logger{
			Filename:   cfg.Log.Path,
			MaxSize:    cfg.Log.MaxSize,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAge,
		}
		sink = io.MultiWriter(os.Stderr, fileLog)
	}
	log := logging.New(logging.Info, sink, true)

	log.Info("starting peekviz-view", "version", version, "server", cfg.Server.URL)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	viewer := connect(ctx, cfg, log)
	if viewer == nil {
		return
	}
	defer viewer.Close()

	window := peekviz.NewWindowTarget(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
	pump := peekviz.NewViewer(viewer)
	pump.AddTarget(window)
	if cfg.Web.Addr != "" {
		web, err := peekviz.NewWebTarget(cfg.Web.Addr, peekviz.WithControlSink(viewer))
		if err != nil {
			log.Fatal("could not create web target", "error", err.Error())
		}
		pump.AddTarget(web)
		log.Info("mirroring scene over http", "addr", cfg.Web.Addr)
	}

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stop() // a dead connection closes the window
		return viewer.Run(gctx)
	})

	if err := pump.Start(ctx); err != nil {
		log.Fatal("could not start viewer", "error", err.Error())
	}
	defer pump.Close()

	if err := window.Run(ctx); err != nil {
		log.Error("window error", "error", err.Error())
	}
	stop()
	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Error("connection error", "error", err.Error())
	}
	log.Info("peekviz-view stopped")
}

// connect dials the server, retrying until it is reachable or ctx ends.
func connect(ctx context.Context, cfg config.Config, log logging.Logger) *peekviz.RemoteViewer {
	retry := time.Duration(cfg.Server.RetrySeconds) * time.Second
	for {
		viewer, err := peekviz.ConnectRemote(ctx, cfg.Server.URL, peekviz.WithViewerLogger(log))
		if err == nil {
			log.Info("connected", "server", cfg.Server.URL)
			return viewer
		}
		log.Warning("could not connect, retrying", "server", cfg.Server.URL, "error", err.Error())
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(retry):
		}
	}
}
