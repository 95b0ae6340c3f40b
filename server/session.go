package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/achilleasa/sdfmarch/renderer"
	"github.com/gorilla/websocket"
)

type outMessage struct {
	msgType int
	data    []byte
}

type errorResponse struct {
	Error string `json:"error"`
}

// A websocket client session. A reader goroutine applies control messages,
// a render goroutine produces frames and a writer goroutine owns all writes
// to the connection.
type session struct {
	srv   *Server
	conn  *websocket.Conn
	codec Codec
	id    string

	// Buffered; holds at most one pending render request.
	renderReq chan struct{}
	send      chan outMessage

	ctx    context.Context
	cancel context.CancelFunc

	// Cancels the frame currently being rendered.
	frameMutex  sync.Mutex
	cancelFrame context.CancelFunc

	seq uint32
}

func newSession(srv *Server, conn *websocket.Conn, codec Codec, id string) *session {
	ctx, cancel := context.WithCancel(context.Background())
	return &session{
		srv:       srv,
		conn:      conn,
		codec:     codec,
		id:        id,
		renderReq: make(chan struct{}, 1),
		send:      make(chan outMessage, 4),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (ss *session) run() {
	ss.srv.logger.Infof("[%s] session started (codec: %s)", ss.id, ss.codec.Name())
	defer ss.srv.logger.Infof("[%s] session closed", ss.id)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		ss.writePump()
	}()
	go func() {
		defer wg.Done()
		ss.renderLoop()
	}()

	// Initial frame
	ss.requestFrame()
	ss.readPump()

	ss.cancel()
	ss.cancelInFlight()
	wg.Wait()
	ss.conn.Close()
}

// Queue a render request, cancelling any frame that is still in flight.
func (ss *session) requestFrame() {
	ss.cancelInFlight()
	select {
	case ss.renderReq <- struct{}{}:
	default:
		// A request is already pending.
	}
}

func (ss *session) cancelInFlight() {
	ss.frameMutex.Lock()
	if ss.cancelFrame != nil {
		ss.cancelFrame()
	}
	ss.frameMutex.Unlock()
}

func (ss *session) readPump() {
	ss.conn.SetReadLimit(maxMessageSize)
	_ = ss.conn.SetReadDeadline(time.Now().Add(pongWait))
	ss.conn.SetPongHandler(func(string) error {
		return ss.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, data, err := ss.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ss.srv.logger.Warningf("[%s] read error: %v", ss.id, err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		msg, err := ParseControlMessage(data)
		if err == nil {
			err = msg.Apply(ss.srv.renderer)
		}
		if err != nil {
			ss.srv.logger.Debugf("[%s] rejected control message: %v", ss.id, err)
			ss.sendError(err)
			continue
		}

		ss.requestFrame()
	}
}

func (ss *session) sendError(err error) {
	data, _ := json.Marshal(errorResponse{Error: err.Error()})
	select {
	case ss.send <- outMessage{msgType: websocket.TextMessage, data: data}:
	case <-ss.ctx.Done():
	}
}

func (ss *session) renderLoop() {
	for {
		select {
		case <-ss.renderReq:
		case <-ss.ctx.Done():
			return
		}

		frameCtx, cancel := context.WithCancel(ss.ctx)
		ss.frameMutex.Lock()
		ss.cancelFrame = cancel
		ss.frameMutex.Unlock()

		fb, err := ss.srv.renderer.Render(frameCtx)
		cancel()
		if err != nil {
			if errors.Is(err, renderer.ErrInterrupted) {
				continue
			}
			ss.srv.logger.Errorf("[%s] render failed: %v", ss.id, err)
			ss.sendError(err)
			continue
		}

		ss.seq++
		var data []byte
		data, err = EncodeFrame(ss.seq, fb, ss.codec)
		if err != nil {
			ss.srv.logger.Errorf("[%s] could not encode frame: %v", ss.id, err)
			continue
		}

		select {
		case ss.send <- outMessage{msgType: websocket.BinaryMessage, data: data}:
		case <-ss.ctx.Done():
			return
		}
	}
}

func (ss *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-ss.send:
			_ = ss.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ss.conn.WriteMessage(msg.msgType, msg.data); err != nil {
				ss.srv.logger.Warningf("[%s] write error: %v", ss.id, err)
				ss.cancel()
				ss.conn.Close()
				return
			}
		case <-ticker.C:
			_ = ss.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ss.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				ss.cancel()
				ss.conn.Close()
				return
			}
		case <-ss.ctx.Done():
			_ = ss.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		}
	}
}
