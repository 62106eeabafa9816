package peekviz

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// WebTarget serves the scene to web browsers. It provides a JSON API at
// /api/scene, accepts control interactions at /api/control, and renders a
// small built-in page when no asset directory is configured.
type WebTarget struct {
	addr    string
	server  *http.Server
	snap    *Snapshot
	sink    ControlSink
	mu      sync.RWMutex
	webDir  string // Optional directory with static web assets
	started bool
}

// WebOption configures a WebTarget.
type WebOption func(*WebTarget)

// WithWebDir sets the directory containing static web assets.
func WithWebDir(dir string) WebOption {
	return func(t *WebTarget) {
		t.webDir = dir
	}
}

// WithControlSink routes control interactions from the page back to the
// application. Without a sink, /api/control rejects all requests.
func WithControlSink(sink ControlSink) WebOption {
	return func(t *WebTarget) {
		t.sink = sink
	}
}

// NewWebTarget creates a target that serves the scene via HTTP.
func NewWebTarget(addr string, opts ...WebOption) (*WebTarget, error) {
	target := &WebTarget{
		addr: addr,
	}

	for _, opt := range opts {
		opt(target)
	}

	return target, nil
}

// Name implements Target.
func (t *WebTarget) Name() string {
	return fmt.Sprintf("WebTarget(%s)", t.addr)
}

// Update implements Target.
func (t *WebTarget) Update(ctx context.Context, snap *Snapshot) error {
	t.mu.Lock()
	t.snap = snap
	wasStarted := t.started
	t.mu.Unlock()

	// Auto-start server on first update
	if !wasStarted {
		return t.start()
	}
	return nil
}

// Handler returns the HTTP handler for embedding in existing servers.
func (t *WebTarget) Handler() http.Handler {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/scene", t.handleScene)
	mux.HandleFunc("/api/control", t.handleControl)

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Static files
	if t.webDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(t.webDir)))
	} else {
		// Serve a simple status page if no web assets
		mux.HandleFunc("/", t.handleIndex)
	}

	return mux
}

func (t *WebTarget) handleScene(w http.ResponseWriter, r *http.Request) {
	t.mu.RLock()
	snap := t.snap
	t.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if snap == nil {
		json.NewEncoder(w).Encode(Snapshot{})
		return
	}
	json.NewEncoder(w).Encode(snap)
}

// controlRequest is the POST body accepted by /api/control.
type controlRequest struct {
	Action string  `json:"action"` // set_bool, set_ranged, set_enum, press_button
	Label  string  `json:"label"`
	Bool   bool    `json:"bool,omitempty"`
	Number float64 `json:"number,omitempty"`
	Value  string  `json:"value,omitempty"`
}

func (t *WebTarget) handleControl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	t.mu.RLock()
	sink := t.sink
	t.mu.RUnlock()
	if sink == nil {
		http.Error(w, "controls not wired", http.StatusServiceUnavailable)
		return
	}

	var req controlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}

	var err error
	switch req.Action {
	case "set_bool":
		err = sink.SetBool(req.Label, req.Bool)
	case "set_ranged":
		err = sink.SetRanged(req.Label, req.Number)
	case "set_enum":
		err = sink.SetEnum(req.Label, req.Value)
	case "press_button":
		err = sink.PressButton(req.Label)
	default:
		http.Error(w, fmt.Sprintf("unknown action %q", req.Action), http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (t *WebTarget) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	t.mu.RLock()
	snap := t.snap
	t.mu.RUnlock()

	w.Header().Set("Content-Type", "text/html")

	widgets, controls := 0, 0
	if snap != nil {
		widgets = len(snap.Widgets)
		controls = len(snap.Components)
	}

	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>peekviz</title>
    <style>
        body { font-family: system-ui; background: #1a1a2e; color: #eee; padding: 2rem; }
        h1 { color: #4ade80; }
        .info { background: #16213e; padding: 1rem; border-radius: 8px; margin: 1rem 0; }
        a { color: #60a5fa; }
    </style>
</head>
<body>
    <h1>peekviz</h1>
    <div class="info">
        <p><strong>Status:</strong> Running</p>
        <p><strong>Widgets:</strong> %d</p>
        <p><strong>Controls:</strong> %d</p>
        <p><strong>API:</strong> <a href="/api/scene">/api/scene</a></p>
    </div>
    <p>For the full interactive visualization, configure WebTarget with a web assets directory.</p>
</body>
</html>`, widgets, controls)

	w.Write([]byte(html))
}

func (t *WebTarget) start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return nil
	}

	t.server = &http.Server{
		Addr:    t.addr,
		Handler: t.Handler(),
	}

	go func() {
		t.server.ListenAndServe()
	}()

	t.started = true
	return nil
}

// Close implements Target.
func (t *WebTarget) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.server != nil {
		return t.server.Shutdown(context.Background())
	}
	return nil
}

// URL returns the URL where the web target is serving.
func (t *WebTarget) URL() string {
	return "http://localhost" + t.addr
}
