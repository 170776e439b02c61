package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppID(t *testing.T) {
	owner, alias, err := ParseAppID("110602490-sdxl-turbo-realtime")
	require.NoError(t, err)
	assert.Equal(t, "110602490", owner)
	assert.Equal(t, "sdxl-turbo-realtime", alias)

	owner, alias, err = ParseAppID("fal-ai/lcm-sd15-i2i")
	require.NoError(t, err)
	assert.Equal(t, "fal-ai", owner)
	assert.Equal(t, "lcm-sd15-i2i", alias)

	_, _, err = ParseAppID("no-owner-here")
	assert.ErrorIs(t, err, ErrInvalidAppID)
	_, _, err = ParseAppID("/alias")
	assert.ErrorIs(t, err, ErrInvalidAppID)
}

func TestInputOmitsUnsetTuning(t *testing.T) {
	data, err := json.Marshal(Input{Prompt: "p", ImageURL: "data:x", Seed: 7, SyncMode: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"prompt":"p","image_url":"data:x","seed":7,"sync_mode":true}`, string(data))

	steps := 2
	data, err = json.Marshal(Input{Prompt: "p", NumInferenceSteps: &steps})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"num_inference_steps":2`)
}

// fakeService stands in for the token endpoint and the realtime socket.
type fakeService struct {
	t        *testing.T
	received chan Input
	reply    func(in Input) []any
}

func (f *fakeService) handler() http.Handler {
	upgrader := websocket.Upgrader{}
	mux := http.NewServeMux()
	mux.HandleFunc("/tokens/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Key secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var body struct {
			AllowedApps []string `json:"allowed_apps"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(f.t, []string{"sdxl-turbo-realtime"}, body.AllowedApps)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`"jwt-123"`))
	})
	mux.HandleFunc("/110602490/sdxl-turbo-realtime/realtime", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fal_jwt_token") != "jwt-123" {
			http.Error(w, "bad token", http.StatusForbidden)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var in Input
			if err := conn.ReadJSON(&in); err != nil {
				return
			}
			f.received <- in
			for _, msg := range f.reply(in) {
				if err := conn.WriteJSON(msg); err != nil {
					return
				}
			}
		}
	})
	return mux
}

func startService(t *testing.T, reply func(in Input) []any) (*fakeService, *httptest.Server) {
	f := &fakeService{t: t, received: make(chan Input, 16), reply: reply}
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return f, srv
}

func newTestClient(t *testing.T, srv *httptest.Server, creds string, results chan Output, errs chan error) *Client {
	c, err := Connect("110602490-sdxl-turbo-realtime", Options{
		Credentials: creds,
		TokenURL:    srv.URL + "/tokens/",
		RealtimeURL: "ws" + strings.TrimPrefix(srv.URL, "http"),
		Throttle:    time.Millisecond,
		OnResult:    func(o Output) { results <- o },
		OnError:     func(err error) { errs <- err },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClientDeliversResults(t *testing.T) {
	f, srv := startService(t, func(in Input) []any {
		return []any{
			map[string]any{"type": "x-fal-message", "message": "warming up"},
			Output{Images: []Image{{URL: "https://cdn/" + in.Prompt + ".png", Width: 512, Height: 512}}, Seed: in.Seed},
		}
	})
	results := make(chan Output, 4)
	errs := make(chan error, 4)
	c := newTestClient(t, srv, "secret", results, errs)

	c.Send(Input{Prompt: "bird", ImageURL: "data:image/png;base64,AAAA", Seed: 42, SyncMode: true})

	select {
	case in := <-f.received:
		assert.Equal(t, "bird", in.Prompt)
		assert.Equal(t, 42, in.Seed)
		assert.True(t, in.SyncMode)
	case <-time.After(5 * time.Second):
		t.Fatal("service never received input")
	}

	select {
	case out := <-results:
		require.Len(t, out.Images, 1)
		assert.Equal(t, "https://cdn/bird.png", out.Images[0].URL)
		assert.Equal(t, 42, out.Seed)
	case err := <-errs:
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no result")
	}
}

func TestClientReportsServerErrors(t *testing.T) {
	_, srv := startService(t, func(in Input) []any {
		return []any{map[string]any{"type": "x-fal-error", "error": "invalid_input", "reason": "missing image"}}
	})
	results := make(chan Output, 1)
	errs := make(chan error, 1)
	c := newTestClient(t, srv, "secret", results, errs)

	c.Send(Input{Prompt: "x"})

	select {
	case err := <-errs:
		var se *ServerError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "invalid_input", se.Message)
		assert.Equal(t, "missing image", se.Reason)
	case <-time.After(5 * time.Second):
		t.Fatal("no error reported")
	}
}

func TestClientReportsTokenFailure(t *testing.T) {
	_, srv := startService(t, func(in Input) []any { return nil })
	results := make(chan Output, 1)
	errs := make(chan error, 1)
	c := newTestClient(t, srv, "wrong", results, errs)

	c.Send(Input{Prompt: "x"})

	select {
	case err := <-errs:
		assert.ErrorContains(t, err, "401")
	case <-time.After(5 * time.Second):
		t.Fatal("no error reported")
	}
}

func TestSendDoesNotBlockWithoutConnection(t *testing.T) {
	c, err := Connect("110602490-sdxl-turbo-realtime", Options{
		TokenURL: "http://127.0.0.1:1/tokens/",
		Throttle: time.Hour,
		OnError:  func(error) {},
	})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			c.Send(Input{Prompt: "p"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Send blocked")
	}
	require.NoError(t, c.Close())
}

func TestConnectRejectsBadAppID(t *testing.T) {
	_, err := Connect("nope", Options{})
	assert.ErrorIs(t, err, ErrInvalidAppID)
}

func (c *Client) connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func expectPrompt(t *testing.T, received chan Input, want string) {
	t.Helper()
	select {
	case in := <-received:
		assert.Equal(t, want, in.Prompt)
	case <-time.After(5 * time.Second):
		t.Fatalf("service never received %q", want)
	}
}

func TestClientReconnectsAfterClose(t *testing.T) {
	var dials atomic.Int32
	received := make(chan Input, 4)
	upgrader := websocket.Upgrader{}
	mux := http.NewServeMux()
	mux.HandleFunc("/tokens/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`"jwt-123"`))
	})
	mux.HandleFunc("/110602490/sdxl-turbo-realtime/realtime", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		dials.Add(1)

		var in Input
		if err := conn.ReadJSON(&in); err != nil {
			return
		}
		received <- in
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv, "secret", make(chan Output, 4), make(chan error, 4))

	c.Send(Input{Prompt: "a"})
	expectPrompt(t, received, "a")
	assert.Eventually(t, func() bool { return !c.connected() }, 5*time.Second, 5*time.Millisecond)

	c.Send(Input{Prompt: "b"})
	expectPrompt(t, received, "b")
	assert.Equal(t, int32(2), dials.Load())
}

func TestClientSendsOnlyNewestPendingInput(t *testing.T) {
	f, srv := startService(t, func(in Input) []any { return nil })

	c, err := Connect("110602490-sdxl-turbo-realtime", Options{
		Credentials: "secret",
		TokenURL:    srv.URL + "/tokens/",
		RealtimeURL: "ws" + strings.TrimPrefix(srv.URL, "http"),
		Throttle:    300 * time.Millisecond,
		OnError:     func(err error) { t.Errorf("unexpected error: %v", err) },
	})
	require.NoError(t, err)
	defer c.Close()

	c.Send(Input{Prompt: "first"})
	expectPrompt(t, f.received, "first")

	// The limiter holds the next write back, so these pile up unsent.
	c.Send(Input{Prompt: "a"})
	c.Send(Input{Prompt: "b"})
	c.Send(Input{Prompt: "c"})
	expectPrompt(t, f.received, "c")

	select {
	case in := <-f.received:
		t.Fatalf("unexpected extra input %q", in.Prompt)
	case <-time.After(700 * time.Millisecond):
	}
}
