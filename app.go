package peekviz

import (
	"context"
	"os"
	"time"

	"github.com/ausocean/utils/logging"
	"golang.org/x/sync/errgroup"
)

// App is the application loop: register widgets and controls on the
// manager, then call [Manager.Sync] once per iteration until done.
type App func(ctx context.Context, m *Manager) error

// Options configures [Run] and [Serve].
type Options struct {
	// Title is the window title. Defaults to "peekviz".
	Title string

	// Width and Height size the window. Defaults to 1280x800.
	Width  int
	Height int

	// Cadence paces the sync cycle. Defaults to [DefaultCadence].
	Cadence time.Duration

	// WebAddr, if set, additionally serves the scene over HTTP, e.g.
	// ":8080".
	WebAddr string

	// RemoteAddr is where [Serve] listens for viewers. Defaults to
	// [DefaultRemoteAddr].
	RemoteAddr string

	// Logger overrides the default stderr logger.
	Logger logging.Logger
}

func (o *Options) fill() {
	if o.Title == "" {
		o.Title = "peekviz"
	}
	if o.Width <= 0 {
		o.Width = 1280
	}
	if o.Height <= 0 {
		o.Height = 800
	}
	if o.Cadence == 0 {
		o.Cadence = DefaultCadence
	}
	if o.Logger == nil {
		o.Logger = logging.New(logging.Info, os.Stderr, true)
	}
}

// Run opens a window and runs the app against it. It blocks until the app
// returns, the window is closed, or ctx is cancelled. Run must be called
// from the main goroutine; the app runs on its own goroutine.
func Run(ctx context.Context, opts Options, app App) error {
	opts.fill()

	view := NewView(opts.Logger)
	m := NewManager(&localSession{view: view}, WithLogger(opts.Logger), WithCadence(opts.Cadence))

	window := NewWindowTarget(opts.Title, opts.Width, opts.Height)
	viewer := NewViewer(view)
	viewer.AddTarget(window)
	if opts.WebAddr != "" {
		web, err := NewWebTarget(opts.WebAddr, WithControlSink(view))
		if err != nil {
			return err
		}
		viewer.AddTarget(web)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := viewer.Start(ctx); err != nil {
		return err
	}
	defer viewer.Close()

	g, appCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel() // closing the app closes the window
		return app(appCtx, m)
	})

	// The windowing backend owns the calling goroutine until shutdown.
	windowErr := window.Run(ctx)
	cancel()
	appErr := g.Wait()

	if appErr != nil && appErr != context.Canceled {
		return appErr
	}
	return windowErr
}

// Serve runs the app headless, streaming the scene to remote viewers over a
// websocket. It blocks until the app returns or ctx is cancelled.
func Serve(ctx context.Context, opts Options, app App) error {
	opts.fill()
	if opts.RemoteAddr == "" {
		opts.RemoteAddr = DefaultRemoteAddr
	}

	session, err := ListenRemote(opts.RemoteAddr, WithRemoteLogger(opts.Logger))
	if err != nil {
		return err
	}
	defer session.Close()

	m := NewManager(session, WithLogger(opts.Logger), WithCadence(opts.Cadence))
	return app(ctx, m)
}
