package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	DefaultTokenURL    = "https://rest.alpha.fal.ai/tokens/"
	DefaultRealtimeURL = "wss://fal.run"
	DefaultThrottle    = 64 * time.Millisecond

	tokenExpiration = 120
)

// Options configures a Client. OnResult and OnError are called from the
// client's own goroutines.
type Options struct {
	Credentials string
	TokenURL    string
	RealtimeURL string
	Throttle    time.Duration
	HTTPClient  *http.Client
	Dialer      *websocket.Dialer

	OnResult func(Output)
	OnError  func(error)
}

// Client keeps a realtime connection to one app. Send hands the newest input
// to a single writer goroutine; an input that has not been written yet is
// replaced by the next one.
type Client struct {
	opts    Options
	owner   string
	alias   string
	limiter *rate.Limiter

	mu      sync.Mutex
	pending *Input
	conn    *websocket.Conn

	wake   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// Connect prepares a client for appID. The socket itself is opened lazily
// by the first Send.
func Connect(appID string, opts Options) (*Client, error) {
	owner, alias, err := ParseAppID(appID)
	if err != nil {
		return nil, err
	}
	if opts.TokenURL == "" {
		opts.TokenURL = DefaultTokenURL
	}
	if opts.RealtimeURL == "" {
		opts.RealtimeURL = DefaultRealtimeURL
	}
	if opts.Throttle <= 0 {
		opts.Throttle = DefaultThrottle
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		opts:    opts,
		owner:   owner,
		alias:   alias,
		limiter: rate.NewLimiter(rate.Every(opts.Throttle), 1),
		wake:    make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go c.writeLoop()
	return c, nil
}

// Send queues in for delivery and returns immediately.
func (c *Client) Send(in Input) {
	c.mu.Lock()
	c.pending = &in
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Close stops the writer and closes the socket if one is open.
func (c *Client) Close() error {
	c.cancel()
	<-c.done

	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return conn.Close()
}

func (c *Client) writeLoop() {
	defer close(c.done)
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.wake:
		}
		if err := c.limiter.Wait(c.ctx); err != nil {
			return
		}

		c.mu.Lock()
		in := c.pending
		c.pending = nil
		c.mu.Unlock()
		if in == nil {
			continue
		}

		conn, err := c.ensureConn()
		if err != nil {
			c.reportError(err)
			continue
		}
		data, err := json.Marshal(in)
		if err != nil {
			c.reportError(fmt.Errorf("encode input: %w", err))
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			c.reportError(fmt.Errorf("send input: %w", err))
			c.dropConn(conn)
		}
	}
}

func (c *Client) ensureConn() (*websocket.Conn, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		return conn, nil
	}

	token, err := c.fetchToken(c.ctx)
	if err != nil {
		return nil, err
	}
	q := url.Values{"fal_jwt_token": {token}}
	endpoint := fmt.Sprintf("%s/%s/%s/realtime?%s", c.opts.RealtimeURL, c.owner, c.alias, q.Encode())

	conn, _, err = c.opts.Dialer.DialContext(c.ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("dial realtime: %w", err)
	}
	log.Printf("[REALTIME] Connected to %s/%s", c.owner, c.alias)

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	go c.readLoop(conn)
	return conn, nil
}

// fetchToken exchanges the long-lived credentials for a short-lived token
// scoped to this app.
func (c *Client) fetchToken(ctx context.Context) (string, error) {
	body, _ := json.Marshal(map[string]any{
		"allowed_apps":     []string{c.alias},
		"token_expiration": tokenExpiration,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.TokenURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create token request failed: %w", err)
	}
	req.Header.Set("Authorization", "Key "+c.opts.Credentials)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read token response failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("token request failed (%d): %s", resp.StatusCode, string(data))
	}

	var token string
	if err := json.Unmarshal(data, &token); err != nil {
		return "", fmt.Errorf("unmarshal token failed: %w", err)
	}
	return token, nil
}

func (c *Client) readLoop(conn *websocket.Conn) {
	defer c.dropConn(conn)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if c.ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				log.Printf("[REALTIME] Connection closed: %v", err)
			}
			return
		}
		c.dispatch(msg)
	}
}

func (c *Client) dispatch(msg []byte) {
	var f frame
	if err := json.Unmarshal(msg, &f); err != nil {
		c.reportError(fmt.Errorf("decode frame: %w", err))
		return
	}

	switch {
	case f.Type == frameMessage:
		log.Printf("[REALTIME] Service message: %s", string(msg))
	case f.Type == frameError || f.Status == "error":
		message := f.Error
		if message == "" {
			message = "unknown error"
		}
		c.reportError(&ServerError{Message: message, Reason: f.Reason})
	default:
		var out Output
		if err := json.Unmarshal(msg, &out); err != nil {
			c.reportError(fmt.Errorf("decode result: %w", err))
			return
		}
		if c.opts.OnResult != nil {
			c.opts.OnResult(out)
		}
	}
}

func (c *Client) dropConn(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
	_ = conn.Close()
}

func (c *Client) reportError(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	if c.opts.OnError != nil {
		c.opts.OnError(err)
	}
}
