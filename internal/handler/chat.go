package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"homewise/internal/conversation"
	"homewise/internal/domain"
	"homewise/internal/llm"
	"homewise/internal/llmclient"
	"homewise/internal/middleware"
)

const (
	chatWSWriteWait = 10 * time.Second
	chatWSPongWait  = 60 * time.Second
	chatWSPingEvery = (chatWSPongWait * 9) / 10
)

var chatWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type chatInbound struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	PhotoRef string `json:"photoRef,omitempty"`
}

type chatOutbound struct {
	Type      string            `json:"type"`
	SessionID string            `json:"sessionId,omitempty"`
	Text      string            `json:"text,omitempty"`
	Phase     string            `json:"phase,omitempty"`
	Attempt   int               `json:"attempt,omitempty"`
	Model     string            `json:"model,omitempty"`
	Diagnosis *domain.Diagnosis `json:"diagnosis,omitempty"`
	Kind      string            `json:"kind,omitempty"`
	Message   string            `json:"message,omitempty"`
}

// HandleChatWS runs one diagnosis conversation per connection. Turns are
// processed strictly one at a time; closing the socket cancels the in-flight
// call and discards the transcript.
func (h *Handler) HandleChatWS(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFrom(r.Context())
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := chatWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	session := h.sessions.Ensure(strings.TrimSpace(r.URL.Query().Get("session_id")))
	defer h.sessions.Release(session.ID)

	var writeMu sync.Mutex
	send := func(msg chatOutbound) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(chatWSWriteWait))
		return conn.WriteJSON(msg)
	}

	if err := send(chatOutbound{Type: "session", SessionID: session.ID}); err != nil {
		return
	}

	if err := conn.SetReadDeadline(time.Now().Add(chatWSPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(chatWSPongWait))
	})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(chatWSPingEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				writeMu.Lock()
				err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(chatWSWriteWait))
				writeMu.Unlock()
				if err != nil {
					return err
				}
			}
		}
	})

	g.Go(func() error {
		defer cancel()
		for {
			var msg chatInbound
			if err := conn.ReadJSON(&msg); err != nil {
				return err
			}
			if msg.Type != "send" {
				continue
			}
			h.processTurn(ctx, userID, session, msg, send)
		}
	})

	// Teardown is routine; surface nothing to the peer.
	_ = g.Wait()
}

// processTurn runs one round trip: append the user message, stream the
// assistant reply back chunk by chunk, then finalize and report any extracted
// diagnosis. A canceled context means the UI went away; the turn is abandoned
// silently.
func (h *Handler) processTurn(ctx context.Context, userID string, session *conversation.Session, msg chatInbound, send func(chatOutbound) error) {
	text := strings.TrimSpace(msg.Text)
	if text == "" && msg.PhotoRef == "" {
		_ = send(chatOutbound{Type: "error", Kind: "invalid", Message: "message text is required"})
		return
	}

	var image *llmclient.Image
	if ref := strings.TrimSpace(msg.PhotoRef); ref != "" {
		data, contentType, err := h.photos.Get(ctx, userID, ref)
		if err != nil {
			_ = send(chatOutbound{Type: "error", Kind: "invalid", Message: "unknown photo reference"})
			return
		}
		image = &llmclient.Image{MIME: contentType, Data: data}
	}

	// Replayed context excludes the turn being sent.
	history := session.History()

	if err := session.AppendUserTurn(text, msg.PhotoRef); err != nil {
		_ = send(chatOutbound{Type: "error", Kind: "busy", Message: err.Error()})
		return
	}

	turnCtx := llm.WithStatusFunc(ctx, func(st llm.Status) {
		_ = send(chatOutbound{
			Type:    "status",
			Phase:   string(st.Phase),
			Attempt: st.Attempt,
			Model:   st.Model,
		})
	})

	_, err := h.gateway.SendTurn(turnCtx, text, image, history, func(chunk string) {
		session.AppendAssistantChunk(chunk)
		_ = send(chatOutbound{Type: "chunk", Text: chunk})
	})
	if err != nil {
		session.AbortAssistantTurn()
		if ctx.Err() != nil {
			return
		}
		kind := "error"
		message := "the assistant could not answer, please try again"
		if errors.Is(err, llm.ErrCapacity) {
			kind = "capacity"
			message = "the assistant is over capacity, try again in a few minutes"
		}
		h.log.Error("chat turn failed", "session", session.ID, "error", err)
		_ = send(chatOutbound{Type: "error", Kind: kind, Message: message})
		return
	}

	res := session.FinalizeAssistantTurn()
	_ = send(chatOutbound{
		Type:      "complete",
		Text:      res.CleanedText,
		Diagnosis: res.Diagnosis,
	})
}
