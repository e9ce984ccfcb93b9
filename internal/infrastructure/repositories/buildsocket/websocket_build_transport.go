package buildsocket

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/domain/repositories"
)

const eventBuffer = 16

// WebsocketBuildTransport dials the build service over a websocket. Session
// parameters travel in the handshake query string.
type WebsocketBuildTransport struct {
	dialer *websocket.Dialer
}

// NewWebsocketBuildTransport creates a transport with the default dialer.
func NewWebsocketBuildTransport() repositories.BuildTransport {
	return &WebsocketBuildTransport{dialer: websocket.DefaultDialer}
}

func (it *WebsocketBuildTransport) Dial(
	ctx context.Context,
	endpoint string,
	params entities.BuildParams,
) (repositories.BuildConnection, error) {
	target, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid build endpoint %q: %w", endpoint, err)
	}
	query := target.Query()
	for key, values := range params.Query() {
		query[key] = values
	}
	target.RawQuery = query.Encode()

	conn, resp, err := it.dialer.DialContext(ctx, target.String(), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dial build service: %w", err)
	}

	connection := &WebsocketBuildConnection{
		conn:   conn,
		events: make(chan entities.BuildEvent, eventBuffer),
		done:   make(chan struct{}),
	}
	go connection.readLoop()
	return connection, nil
}

// WebsocketBuildConnection is one live websocket session.
type WebsocketBuildConnection struct {
	conn      *websocket.Conn
	events    chan entities.BuildEvent
	done      chan struct{}
	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func (it *WebsocketBuildConnection) Events() <-chan entities.BuildEvent { return it.events }

func (it *WebsocketBuildConnection) Emit(ctx context.Context, event string) error {
	payload, err := entities.EncodeBuildEvent(entities.BuildEvent{Name: event})
	if err != nil {
		return err
	}

	it.writeMu.Lock()
	defer it.writeMu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = it.conn.SetWriteDeadline(deadline)
	}
	if err = it.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("failed to emit %q: %w", event, err)
	}
	return nil
}

func (it *WebsocketBuildConnection) Close() error {
	it.closeOnce.Do(func() {
		close(it.done)
		it.writeMu.Lock()
		_ = it.conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		)
		it.writeMu.Unlock()
		it.closeErr = it.conn.Close()
	})
	return it.closeErr
}

// readLoop decodes frames into events until the socket ends, then closes the
// events channel.
func (it *WebsocketBuildConnection) readLoop() {
	defer close(it.events)

	for {
		_, raw, err := it.conn.ReadMessage()
		if err != nil {
			select {
			case <-it.done:
			default:
				logger.Debugf("[build] connection ended: %v", err)
			}
			return
		}

		event, decodeErr := entities.DecodeBuildEvent(raw)
		if decodeErr != nil {
			logger.Warnf("[build] dropping undecodable frame: %v", decodeErr)
			continue
		}

		select {
		case it.events <- event:
		case <-it.done:
			return
		}
	}
}
