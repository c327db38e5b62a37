package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"cardano-wallet-sync/internal/domain"
)

// FollowerConfig configures websocket follower behavior.
type FollowerConfig struct {
	// ReconnectDelay is the initial delay before a reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay caps the reconnect backoff.
	MaxReconnectDelay time.Duration
	// PingInterval is the keepalive ping period.
	PingInterval time.Duration
	// ReadTimeout bounds a single message read.
	ReadTimeout time.Duration
	// WriteTimeout bounds a single message write.
	WriteTimeout time.Duration
	// Buffer is the delivery channel capacity.
	Buffer int
}

// DefaultFollowerConfig returns the default follower configuration.
func DefaultFollowerConfig() FollowerConfig {
	return FollowerConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		Buffer:            1024,
	}
}

// Follower streams newly confirmed transactions for a wallet from a
// websocket tip feed. It reconnects with exponential backoff and
// resubscribes; transactions that fail to decode are logged and
// dropped, never fatal.
type Follower struct {
	endpoint string
	address  string
	config   FollowerConfig

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	out  chan *domain.RawTransaction
	done chan struct{}
	wg   sync.WaitGroup
}

// NewFollower connects to the tip feed and subscribes to one wallet
// address. The returned channel closes when the follower is closed.
func NewFollower(ctx context.Context, endpoint, walletAddress string, config *FollowerConfig) (*Follower, error) {
	cfg := DefaultFollowerConfig()
	if config != nil {
		cfg = *config
	}

	f := &Follower{
		endpoint: endpoint,
		address:  walletAddress,
		config:   cfg,
		out:      make(chan *domain.RawTransaction, cfg.Buffer),
		done:     make(chan struct{}),
	}

	if err := f.connect(ctx); err != nil {
		return nil, err
	}
	if err := f.subscribe(); err != nil {
		f.closeConn()
		return nil, err
	}

	f.wg.Add(2)
	go f.readLoop()
	go f.pingLoop()

	return f, nil
}

// Transactions is the delivery channel for confirmed tip transactions.
func (f *Follower) Transactions() <-chan *domain.RawTransaction {
	return f.out
}

// Close shuts the follower down and closes the delivery channel.
func (f *Follower) Close() error {
	if f.closed.Swap(true) {
		return nil
	}
	close(f.done)

	f.connMu.Lock()
	if f.conn != nil {
		f.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		f.conn.Close()
	}
	f.connMu.Unlock()

	f.wg.Wait()
	close(f.out)
	return nil
}

func (f *Follower) connect(ctx context.Context) error {
	f.connMu.Lock()
	defer f.connMu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, f.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}
	f.conn = conn
	return nil
}

func (f *Follower) closeConn() {
	f.connMu.Lock()
	if f.conn != nil {
		f.conn.Close()
		f.conn = nil
	}
	f.connMu.Unlock()
}

// subscribe sends the address subscription request.
func (f *Follower) subscribe() error {
	req := wsSubscribeRequest{
		Method:  "subscribe_address",
		Address: f.address,
	}

	f.connMu.Lock()
	defer f.connMu.Unlock()
	if f.conn == nil {
		return fmt.Errorf("not connected")
	}
	f.conn.SetWriteDeadline(time.Now().Add(f.config.WriteTimeout))
	if err := f.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("write subscribe: %w", err)
	}
	return nil
}

// readLoop reads tip messages and reconnects on failure.
func (f *Follower) readLoop() {
	defer f.wg.Done()

	delay := f.config.ReconnectDelay

	for !f.closed.Load() {
		f.connMu.Lock()
		conn := f.conn
		f.connMu.Unlock()

		if conn == nil {
			if !f.reconnect(delay) {
				return
			}
			delay = time.Duration(float64(delay) * 2)
			if delay > f.config.MaxReconnectDelay {
				delay = f.config.MaxReconnectDelay
			}
			continue
		}

		conn.SetReadDeadline(time.Now().Add(f.config.ReadTimeout))
		_, message, err := conn.ReadMessage()
		if err != nil {
			if f.closed.Load() {
				return
			}
			f.closeConn()
			continue
		}

		delay = f.config.ReconnectDelay
		f.handleMessage(message)
	}
}

// reconnect waits out the backoff, redials, and resubscribes. Returns
// false when the follower was closed while waiting.
func (f *Follower) reconnect(delay time.Duration) bool {
	select {
	case <-f.done:
		return false
	case <-time.After(delay):
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := f.connect(ctx); err != nil {
		log.Printf("chain follower: reconnect failed: %v", err)
		return true
	}
	if err := f.subscribe(); err != nil {
		log.Printf("chain follower: resubscribe failed: %v", err)
		f.closeConn()
	}
	return true
}

// handleMessage decodes one tip message and delivers the transaction.
func (f *Follower) handleMessage(message []byte) {
	var notif wsTxNotification
	if err := json.Unmarshal(message, &notif); err != nil || notif.Method != "tx_confirmed" || notif.Transaction == nil {
		return
	}

	tx, err := decodeTransaction(notif.Transaction)
	if err != nil {
		log.Printf("chain follower: dropping malformed transaction: %v", err)
		return
	}

	select {
	case f.out <- tx:
	case <-f.done:
	}
}

// pingLoop keeps the connection alive.
func (f *Follower) pingLoop() {
	defer f.wg.Done()

	ticker := time.NewTicker(f.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-f.done:
			return
		case <-ticker.C:
			f.connMu.Lock()
			if f.conn != nil {
				f.conn.SetWriteDeadline(time.Now().Add(f.config.WriteTimeout))
				if err := f.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					// Reader notices the dead connection and reconnects.
				}
			}
			f.connMu.Unlock()
		}
	}
}

// Websocket message shapes.

type wsSubscribeRequest struct {
	Method  string `json:"method"`
	Address string `json:"address"`
}

type wsTxNotification struct {
	Method      string      `json:"method"`
	Transaction *txEnvelope `json:"transaction"`
}
