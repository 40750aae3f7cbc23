package lspweb

import (
	"bytes"
	"io"

	"github.com/gorilla/websocket"
)

// wsReadWriteCloser adapts a *websocket.Conn to io.ReadWriteCloser so a
// jsonrpc2.Stream (internal/lsp.Server.RunOverStream) can read/write JSON-RPC
// frames over it exactly as it would over stdio, grounded on the teacher's
// internal/watch/reload_server.go WebSocket usage, generalized from
// one-way broadcast to a bidirectional byte stream.
type wsReadWriteCloser struct {
	conn *websocket.Conn
	buf  bytes.Buffer
}

func (w *wsReadWriteCloser) Read(p []byte) (int, error) {
	for w.buf.Len() == 0 {
		_, data, err := w.conn.ReadMessage()
		if err != nil {
			return 0, err
		}
		w.buf.Write(data)
	}
	return w.buf.Read(p)
}

func (w *wsReadWriteCloser) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *wsReadWriteCloser) Close() error {
	return w.conn.Close()
}

var _ io.ReadWriteCloser = (*wsReadWriteCloser)(nil)
