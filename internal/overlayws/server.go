// Package overlayws serves tactical overlays over a websocket. A client sends
// a scene snapshot and receives the computed overlay for it.
package overlayws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/Garsondee/Block-Sense/internal/engine"

	"github.com/coder/websocket"
)

// maxMessageBytes bounds one inbound frame. A scene with a full rotation of
// blockers is well under 2 KB.
const maxMessageBytes = 16 << 10

// Stats holds live server metrics.
type Stats struct {
	ActiveConnections int64  `json:"activeConnections"`
	TotalConnections  uint64 `json:"totalConnections"`
	OverlaysComputed  uint64 `json:"overlaysComputed"`
}

// Server answers scene requests with overlays computed under one tuning.
type Server struct {
	tuning         engine.Tuning
	limiter        *IPRateLimiter
	originPatterns []string
	trusted        TrustedProxies
	nextID         atomic.Uint64

	active   atomic.Int64
	total    atomic.Uint64
	computed atomic.Uint64
}

// NewServer builds a server. A nil limiter disables rate limiting. Client
// addresses are taken from X-Forwarded-For only behind a trusted proxy.
func NewServer(tun engine.Tuning, limiter *IPRateLimiter, originPatterns []string, trusted TrustedProxies) *Server {
	return &Server{
		tuning:         tun,
		limiter:        limiter,
		originPatterns: originPatterns,
		trusted:        trusted,
	}
}

// Stats returns a snapshot of current server metrics.
func (s *Server) Stats() Stats {
	return Stats{
		ActiveConnections: s.active.Load(),
		TotalConnections:  s.total.Load(),
		OverlaysComputed:  s.computed.Load(),
	}
}

// HandleHealth writes Stats as JSON.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Stats()); err != nil {
		log.Printf("health encode error: %v", err)
	}
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	ip := RealIP(r, s.trusted)
	if s.limiter != nil && !s.limiter.ConnectAllowed(ip) {
		http.Error(w, "too many connections", http.StatusTooManyRequests)
		return
	}

	acceptOpts := &websocket.AcceptOptions{}
	if len(s.originPatterns) > 0 {
		acceptOpts.OriginPatterns = s.originPatterns
	}
	ws, err := websocket.Accept(w, r, acceptOpts)
	if err != nil {
		if s.limiter != nil {
			s.limiter.Disconnect(ip)
		}
		log.Printf("ws accept error: %v", err)
		return
	}
	ws.SetReadLimit(maxMessageBytes)

	s.total.Add(1)
	s.active.Add(1)
	id := fmt.Sprintf("client-%d", s.nextID.Add(1))
	conn := NewConn(ws, id, ip, s.limiter)
	log.Printf("new connection: %s from %s (total: %d)", id, ip, s.total.Load())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go conn.WriteLoop(ctx)

	for msg := range conn.ReadLoop(ctx) {
		if reply, ok := s.handle(conn.ID, msg); ok {
			conn.Send(reply)
		}
	}

	conn.Close()
	if s.limiter != nil {
		s.limiter.Disconnect(ip)
	}
	s.active.Add(-1)
	log.Printf("connection closed: %s", id)
}

// handle turns one inbound message into its reply. Messages without a reply
// report ok=false.
func (s *Server) handle(id string, msg Message) (Message, bool) {
	switch msg.Type {
	case MsgComputeScene:
		var scene ScenePayload
		if err := json.Unmarshal(msg.Payload, &scene); err != nil {
			return s.errorReply(id, msg.Tick, fmt.Errorf("decode scene: %w", err))
		}
		if err := scene.Validate(); err != nil {
			return s.errorReply(id, msg.Tick, err)
		}
		overlay := engine.Compute(scene, s.tuning)
		s.computed.Add(1)
		return s.reply(id, MsgOverlay, msg.Tick, overlay)

	case MsgPing:
		var ping PingPayload
		if err := json.Unmarshal(msg.Payload, &ping); err != nil {
			return s.errorReply(id, msg.Tick, fmt.Errorf("decode ping: %w", err))
		}
		return s.reply(id, MsgPong, msg.Tick, PongPayload{
			ClientTime: ping.ClientTime,
			ServerTime: uint64(time.Now().UnixMilli()),
		})

	default:
		return s.errorReply(id, msg.Tick, fmt.Errorf("unknown message type 0x%02x", msg.Type))
	}
}

func (s *Server) reply(id string, typ uint8, tick uint32, payload any) (Message, bool) {
	m, err := NewMessage(typ, tick, payload)
	if err != nil {
		log.Printf("conn %s: encode reply 0x%02x: %v", id, typ, err)
		return Message{}, false
	}
	return m, true
}

func (s *Server) errorReply(id string, tick uint32, err error) (Message, bool) {
	log.Printf("conn %s: %v", id, err)
	return s.reply(id, MsgError, tick, ErrorPayload{Message: err.Error()})
}
