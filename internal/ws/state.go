package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/cosmo/internal/control"
	diag "github.com/coreman2200/cosmo/internal/diagnostics"
	"github.com/coreman2200/cosmo/internal/render"
)

const writeWait = 200 * time.Millisecond

// Hub serves rendered frames and diagnostics to browser clients and feeds
// their steering messages into Control.
type Hub struct {
	Control  *control.Shared
	Interval time.Duration
	Width    int
	Height   int

	mu          sync.RWMutex
	writeMu     sync.Mutex
	frameID     int
	simT        float64
	load        float64
	overruns    int
	startTime   time.Time
	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool
}

func NewHub(ctl *control.Shared, interval time.Duration, w, h int) *Hub {
	return &Hub{
		Control:     ctl,
		Interval:    interval,
		Width:       w,
		Height:      h,
		startTime:   time.Now(),
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
	}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Write broadcasts one frame. A frame whose compute time exceeds the
// interval also goes out as a diagnostic.
func (s *Hub) Write(f render.Frame) error {
	s.mu.Lock()
	s.frameID = f.Index
	s.simT = f.T
	s.load = f.Stats.Load()
	over := s.Interval > 0 && f.Stats.Compute > s.Interval
	if over {
		s.overruns++
	}
	s.mu.Unlock()

	s.broadcastFrame(f)
	if over {
		s.Push(diag.Overrun(f.Index, f.Stats.Compute, s.Interval))
	}
	return nil
}

func (s *Hub) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	b, _ := json.Marshal(map[string]any{"width": s.Width, "height": s.Height})
	s.mu.Lock()
	s.writeMu.Lock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	err = conn.WriteMessage(websocket.TextMessage, b)
	if err == nil {
		s.clients[conn] = true
	}
	s.writeMu.Unlock()
	s.mu.Unlock()
	if err != nil {
		conn.Close()
		return
	}
	go s.drain(conn, s.clients)
}

func (s *Hub) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.diagClients[conn] = true
	s.mu.Unlock()
	go s.drain(conn, s.diagClients)
}

// drain reads until the peer goes away, then forgets it.
func (s *Hub) drain(conn *websocket.Conn, set map[*websocket.Conn]bool) {
	defer func() {
		s.mu.Lock()
		delete(set, conn)
		s.mu.Unlock()
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// HandleControlWS accepts either {"key":"left"} presses or a full
// {"up":..,"down":..,"left":..,"right":..} state.
func (s *Hub) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if err := s.applyControl(data); err != nil {
			s.Push(diag.Diagnostic{
				Severity: diag.Warn, Code: diag.CodeControl, Summary: "Ignored control message",
				Detail: err.Error(),
			})
		}
	}
}

type controlError string

func (e controlError) Error() string { return string(e) }

func (s *Hub) applyControl(data []byte) error {
	if s.Control == nil {
		return controlError("steering disabled")
	}
	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	if v, ok := msg["key"]; ok {
		name, _ := v.(string)
		k, ok := control.ParseKey(name)
		if !ok {
			return controlError("unknown key " + name)
		}
		s.Control.Press(k)
		return nil
	}
	flag := func(name string) bool {
		b, _ := msg[name].(bool)
		return b
	}
	s.Control.Set(control.State{Up: flag("up"), Down: flag("down"), Left: flag("left"), Right: flag("right")})
	return nil
}

func (s *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp := map[string]any{
		"frame_id": s.frameID,
		"t":        s.simT,
		"uptime_s": time.Since(s.startTime).Seconds(),
		"load":     s.load,
		"overruns": s.overruns,
		"clients":  len(s.clients),
		"width":    s.Width,
		"height":   s.Height,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

type frameMsg struct {
	T       float64  `json:"t"`
	FrameID int      `json:"frame_id"`
	Load    float64  `json:"load"`
	Lines   []string `json:"lines"`
}

func (s *Hub) broadcastFrame(f render.Frame) {
	b, _ := json.Marshal(frameMsg{T: f.T, FrameID: f.Index, Load: f.Stats.Load(), Lines: f.Lines()})
	s.send(s.clients, b, "write frame")
}

// Watch wraps k so that a failed write is also pushed to diagnostics
// clients under name. The error is passed through unchanged.
func (s *Hub) Watch(name string, k render.Sink) render.Sink {
	return render.SinkFunc(func(f render.Frame) error {
		err := k.Write(f)
		if err != nil {
			s.Push(diag.SinkFailed(name, err))
		}
		return err
	})
}

// Push sends d to every diagnostics client.
func (s *Hub) Push(d diag.Diagnostic) {
	b, _ := json.Marshal(d)
	s.send(s.diagClients, b, "write diag")
}

func (s *Hub) send(set map[*websocket.Conn]bool, b []byte, what string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	for c := range set {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg(what)
		}
	}
}
