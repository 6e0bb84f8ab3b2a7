package stream

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebsocketDialer is the production transport adapter. Dial returns a handle
// immediately; the handshake and read loop run on an internal goroutine and
// report through the callbacks.
type WebsocketDialer struct {
	// HandshakeTimeout bounds the dial; zero means 10s. The engine contract
	// itself imposes no connect timeout, the transport may.
	HandshakeTimeout time.Duration
}

// NewWebsocketDialer returns a dialer with the default handshake timeout.
func NewWebsocketDialer() *WebsocketDialer {
	return &WebsocketDialer{}
}

func (d *WebsocketDialer) Dial(url string, cb ConnCallbacks) (Conn, error) {
	timeout := d.HandshakeTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	w := &wsConn{cb: cb}
	go w.run(url, timeout)
	return w, nil
}

type wsConn struct {
	cb ConnCallbacks

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

func (w *wsConn) run(url string, timeout time.Duration) {
	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	conn, resp, err := dialer.Dial(url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		w.cb.OnClose(websocket.CloseAbnormalClosure, err)
		return
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		_ = conn.Close()
		return
	}
	w.conn = conn
	w.mu.Unlock()

	w.cb.OnOpen()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			w.cb.OnClose(closeCodeFor(err, w.wasClosed()), err)
			return
		}
		w.cb.OnMessage(data)
	}
}

func (w *wsConn) WriteJSON(v any) error {
	w.mu.Lock()
	conn := w.conn
	w.mu.Unlock()
	if conn == nil {
		return errors.New("connection not established")
	}
	return conn.WriteJSON(v)
}

func (w *wsConn) Close(code int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.conn == nil {
		return nil
	}
	deadline := time.Now().Add(time.Second)
	msg := websocket.FormatCloseMessage(code, "")
	_ = w.conn.WriteControl(websocket.CloseMessage, msg, deadline)
	return w.conn.Close()
}

func (w *wsConn) wasClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func closeCodeFor(err error, manual bool) int {
	if manual {
		return CloseCodeManual
	}
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return websocket.CloseAbnormalClosure
}
