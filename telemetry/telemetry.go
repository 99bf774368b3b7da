// Package telemetry serves a live view of a running search over a
// websocket: instead of pushing reinforcement-learning value-function
// cell updates, as the original live-view dashboard did, it pushes
// per-worker HDA* progress snapshots (frontier size, closed count,
// cumulative expansions).
//
// Telemetry is strictly observational: Hub.Report never blocks a
// caller, and a Hub with no Serve goroutine running (or no browser
// ever connected) has zero effect on search correctness or liveness.
package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Snapshot is one worker's progress at the time it was reported.
type Snapshot struct {
	Rank         int     `json:"rank"`
	FrontierSize int     `json:"frontier_size"`
	ClosedCount  int     `json:"closed_count"`
	Expansions   float64 `json:"expansions"`
}

// Reporter receives progress snapshots. distributed.Config.Reporter is
// this interface, not *Hub directly, so package distributed never needs
// to import gorilla/websocket.
type Reporter interface {
	Report(Snapshot)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	writeWait      = 1 * time.Second
	publishPeriod  = 100 * time.Millisecond
	updatesBacklog = 256
)

// Hub collects Snapshot reports from every worker and streams them to
// connected websocket clients. All clients read the same updates
// channel, so with several clients connected each snapshot reaches only
// one of them.
type Hub struct {
	addr    string
	updates chan Snapshot
}

// NewHub builds a Hub that will listen on addr once Serve is called.
func NewHub(addr string) *Hub {
	return &Hub{
		addr:    addr,
		updates: make(chan Snapshot, updatesBacklog),
	}
}

// Report implements Reporter. It never blocks: a snapshot is dropped if
// the backlog is full rather than stalling the reporting worker.
func (h *Hub) Report(s Snapshot) {
	select {
	case h.updates <- s:
	default:
	}
}

// Serve runs the telemetry HTTP server until ctx is canceled.
func (h *Hub) Serve(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.serveIndex)
	mux.HandleFunc("/ws", h.serveWebsocket)

	srv := &http.Server{Addr: h.addr, Handler: mux}
	errs := make(chan error, 1)
	go func() { errs <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return srv.Close()
	case err := <-errs:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("telemetry: %w", err)
		}
		return nil
	}
}

func (h *Hub) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(indexPage))
}

// serveWebsocket upgrades the connection and streams Snapshot batches to
// it, rate-limited so a slow client never backs up the updates channel.
func (h *Hub) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer closeWebsocket(ws)

	ticker := time.NewTicker(publishPeriod)
	defer ticker.Stop()

	batch := make(map[int]Snapshot)
	for {
		select {
		case s, ok := <-h.updates:
			if !ok {
				return
			}
			batch[s.Rank] = s
		case <-ticker.C:
			if len(batch) == 0 {
				continue
			}
			if err := publish(ws, batch); err != nil {
				return
			}
			batch = make(map[int]Snapshot)
		}
	}
}

func publish(ws *websocket.Conn, batch map[int]Snapshot) error {
	snapshots := make([]Snapshot, 0, len(batch))
	for _, s := range batch {
		snapshots = append(snapshots, s)
	}
	if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return ws.WriteJSON(snapshots)
}

func closeWebsocket(ws *websocket.Conn) {
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	ws.Close()
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>hdastar telemetry</title></head>
<body>
<h1>hdastar worker progress</h1>
<table id="workers"><thead><tr><th>rank</th><th>frontier</th><th>closed</th><th>expansions</th></tr></thead><tbody></tbody></table>
<script>
const sock = new WebSocket("ws://" + location.host + "/ws");
sock.onmessage = (ev) => {
	const rows = JSON.parse(ev.data).sort((a, b) => a.rank - b.rank);
	const body = document.querySelector("#workers tbody");
	body.innerHTML = rows.map(r =>
		"<tr><td>" + r.rank + "</td><td>" + r.frontier_size + "</td><td>" + r.closed_count + "</td><td>" + r.expansions + "</td></tr>"
	).join("");
};
</script>
</body>
</html>`
