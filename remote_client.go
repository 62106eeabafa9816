package peekviz

import (
	"context"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// RemoteViewer is a client connected to a [RemoteSession]. It maintains a
// local replica of the scene for targets to render and sends control events
// back to the application. It implements [SnapshotSource] and
// [ControlSink].
type RemoteViewer struct {
	view *View
	ws   *websocket.Conn
	log  logging.Logger
}

// ViewerClientOption configures a [RemoteViewer].
type ViewerClientOption func(*RemoteViewer)

// WithViewerLogger sets the viewer's logger.
func WithViewerLogger(l logging.Logger) ViewerClientOption {
	return func(v *RemoteViewer) {
		v.log = l
	}
}

// ConnectRemote dials a [RemoteSession]. The address may be a bare
// host:port or a full ws:// URL.
func ConnectRemote(ctx context.Context, addr string, opts ...ViewerClientOption) (*RemoteViewer, error) {
	u, err := viewerURL(addr)
	if err != nil {
		return nil, err
	}

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", u)
	}

	v := &RemoteViewer{ws: ws}
	for _, opt := range opts {
		opt(v)
	}
	if v.log == nil {
		v.log = logging.New(logging.Info, os.Stderr, true)
	}
	v.view = NewView(v.log)
	return v, nil
}

// viewerURL normalizes an address into the websocket endpoint URL.
func viewerURL(addr string) (string, error) {
	if !strings.Contains(addr, "://") {
		addr = "ws://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return "", errors.Wrapf(err, "parse address %s", addr)
	}
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", errors.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}

// Run pumps the connection until ctx is cancelled or the connection fails:
// incoming batches update the replica, collected control events flush to
// the application at the sync cadence.
func (v *RemoteViewer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return v.readLoop(ctx)
	})
	g.Go(func() error {
		return v.writeLoop(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		v.ws.Close()
		return nil
	})

	err := g.Wait()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (v *RemoteViewer) readLoop(ctx context.Context) error {
	for {
		_, data, err := v.ws.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "read batch")
		}
		batch, err := DecodeBatch(data)
		if err != nil {
			v.log.Warning("dropping undecodable batch", "error", err.Error())
			continue
		}
		v.view.ApplyBatch(batch)
	}
}

func (v *RemoteViewer) writeLoop(ctx context.Context) error {
	ticker := time.NewTicker(DefaultCadence)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			events := v.view.DrainEvents()
			if len(events) == 0 {
				continue
			}
			data, err := EncodeBatch(events)
			if err != nil {
				return errors.Wrap(err, "encode events")
			}
			v.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := v.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return errors.Wrap(err, "send events")
			}
		}
	}
}

// Snapshot implements [SnapshotSource].
func (v *RemoteViewer) Snapshot() (*Snapshot, error) {
	return v.view.Snapshot()
}

// SetBool implements [ControlSink].
func (v *RemoteViewer) SetBool(label string, value bool) error {
	return v.view.SetBool(label, value)
}

// SetRanged implements [ControlSink].
func (v *RemoteViewer) SetRanged(label string, value float64) error {
	return v.view.SetRanged(label, value)
}

// SetEnum implements [ControlSink].
func (v *RemoteViewer) SetEnum(label, value string) error {
	return v.view.SetEnum(label, value)
}

// PressButton implements [ControlSink].
func (v *RemoteViewer) PressButton(label string) error {
	return v.view.PressButton(label)
}

// Close closes the connection.
func (v *RemoteViewer) Close() error {
	return v.ws.Close()
}
