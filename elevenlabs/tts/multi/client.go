package multi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// IncomingMessage is a parsed server message (either audio chunk or final).
type IncomingMessage struct {
	Kind      string          `json:"kind"` // "audio" | "final" | "unknown"
	ContextID string          `json:"context_id,omitempty"`
	AudioB64  string          `json:"audio_base_64,omitempty"`
	Raw       json.RawMessage `json:"raw,omitempty"`
}

// Client is one multi-context websocket connection. Events is closed by the
// reader once the connection ends; Err reports why.
type Client struct {
	conn   *websocket.Conn
	events chan IncomingMessage
	sendCh chan any
	done   chan struct{}

	once sync.Once
	mu   sync.Mutex
	err  error
}

func Dial(ctx context.Context, cfg ConnectConfig, headers http.Header) (*Client, error) {
	if cfg.VoiceID == "" {
		return nil, fmt.Errorf("missing voice_id")
	}
	if headers == nil {
		headers = http.Header{}
	}
	if cfg.APIKey != "" {
		headers.Set("xi-api-key", cfg.APIKey)
	}

	u, err := BuildURL(cfg)
	if err != nil {
		return nil, err
	}

	d := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, resp, err := d.DialContext(ctx, u, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("tts: dial failed with status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("tts: dial failed: %w", err)
	}

	c := &Client{
		conn:   conn,
		events: make(chan IncomingMessage, 256),
		sendCh: make(chan any, 64),
		done:   make(chan struct{}),
	}
	go c.writeLoop()
	go c.readLoop()
	return c, nil
}

func (c *Client) Events() <-chan IncomingMessage { return c.events }

// Err returns the first read or write failure, if any.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "closing"), time.Now().Add(250*time.Millisecond))
		err = c.conn.Close()
	})
	return err
}

func (c *Client) setErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		c.err = err
	}
}

func (c *Client) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.sendCh:
			if err := c.conn.WriteJSON(msg); err != nil {
				c.setErr(fmt.Errorf("tts: write failed: %w", err))
				c.conn.Close()
				return
			}
		}
	}
}

func (c *Client) readLoop() {
	defer close(c.events)
	for {
		_, b, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					c.setErr(fmt.Errorf("tts: read failed: %w", err))
				}
			}
			return
		}

		msg, err := parseIncoming(b)
		if err != nil {
			c.setErr(err)
			continue
		}
		select {
		case c.events <- msg:
		case <-c.done:
			return
		}
	}
}

// parseIncoming classifies a server frame. ElevenLabs sends either
// {"audio": "...", "contextId": "..."} or {"isFinal": true, "contextId": "..."}.
func parseIncoming(b []byte) (IncomingMessage, error) {
	var raw struct {
		Audio      string `json:"audio"`
		IsFinal    bool   `json:"isFinal"`
		ContextID  string `json:"contextId"`
		ContextID2 string `json:"context_id"`
		Error      string `json:"error"`
		Message    string `json:"message"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return IncomingMessage{}, fmt.Errorf("tts: invalid json: %w", err)
	}
	if raw.Error != "" {
		return IncomingMessage{}, fmt.Errorf("tts: server error: %s %s", raw.Error, raw.Message)
	}

	msg := IncomingMessage{Kind: "unknown", ContextID: raw.ContextID, Raw: json.RawMessage(b)}
	if msg.ContextID == "" {
		msg.ContextID = raw.ContextID2
	}
	switch {
	case raw.Audio != "":
		msg.Kind = "audio"
		msg.AudioB64 = raw.Audio
	case raw.IsFinal:
		msg.Kind = "final"
	}
	return msg, nil
}

// --- Outgoing messages (client -> ElevenLabs) ---

type initializeConnectionMulti struct {
	Text      string `json:"text"`
	ContextID string `json:"context_id,omitempty"`
}

type sendTextMulti struct {
	Text      string `json:"text"`
	ContextID string `json:"context_id,omitempty"`
	Flush     bool   `json:"flush,omitempty"`
}

type closeContextClient struct {
	ContextID    string `json:"context_id"`
	CloseContext bool   `json:"close_context"`
}

type closeSocketClient struct {
	CloseSocket bool `json:"close_socket"`
}

func (c *Client) InitializeContext(ctx context.Context, contextID string) error {
	return c.send(ctx, initializeConnectionMulti{Text: " ", ContextID: contextID})
}

func (c *Client) SendText(ctx context.Context, contextID string, text string, flush bool) error {
	t := strings.ReplaceAll(text, "\r\n", "\n")
	if !strings.HasSuffix(t, " ") {
		t += " "
	}
	return c.send(ctx, sendTextMulti{Text: t, ContextID: contextID, Flush: flush})
}

func (c *Client) CloseContext(ctx context.Context, contextID string) error {
	return c.send(ctx, closeContextClient{ContextID: contextID, CloseContext: true})
}

func (c *Client) CloseSocket(ctx context.Context) error {
	return c.send(ctx, closeSocketClient{CloseSocket: true})
}

func (c *Client) send(ctx context.Context, v any) error {
	select {
	case <-c.done:
		return fmt.Errorf("tts: client closed")
	default:
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return fmt.Errorf("tts: client closed")
	case c.sendCh <- v:
		return nil
	}
}
