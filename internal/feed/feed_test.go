// ABOUTME: Tests for the event feed server and listener
// ABOUTME: Runs the handshake and event delivery over httptest
package feed

import (
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Resonate-Protocol/clipscope/internal/protocol"
	"github.com/Resonate-Protocol/clipscope/pkg/audio"
	"github.com/Resonate-Protocol/clipscope/pkg/inspector"
	"github.com/Resonate-Protocol/clipscope/pkg/marker"
)

func startFeed(t *testing.T, config Config) (*Server, string) {
	t.Helper()
	s := New(config)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, strings.TrimPrefix(ts.URL, "http://")
}

func connect(t *testing.T, addr, clientID string) *Listener {
	t.Helper()
	l := NewListener(ListenerConfig{ServerAddr: addr, ClientID: clientID, Name: "test listener"})
	if err := l.Connect(); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	t.Cleanup(l.Close)
	return l
}

func nextEvent(t *testing.T, l *Listener) protocol.Envelope {
	t.Helper()
	select {
	case env, ok := <-l.Events:
		if !ok {
			t.Fatal("event channel closed")
		}
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return protocol.Envelope{}
}

func testClip() (inspector.ClipRef, *audio.Buffer) {
	ref := inspector.ClipRef{ID: uuid.New(), Name: "kick.wav", Source: "/clips/kick.wav"}
	buf := audio.NewBuffer(make([]float64, 2000), 2, 1000)
	return ref, buf
}

func TestNewDefaults(t *testing.T) {
	s := New(Config{})
	if s.config.Path != "/events" {
		t.Errorf("expected path /events, got %s", s.config.Path)
	}
	if s.config.Name == "" {
		t.Error("expected default name")
	}
	if s.config.PlayheadInterval != 50*time.Millisecond {
		t.Errorf("expected 50ms playhead interval, got %v", s.config.PlayheadInterval)
	}
}

func TestHandshake(t *testing.T) {
	s, addr := startFeed(t, Config{Name: "Studio Mac"})
	l := connect(t, addr, "listener-1")

	hello := l.Hello()
	if hello.Name != "Studio Mac" {
		t.Errorf("expected name Studio Mac, got %s", hello.Name)
	}
	if hello.Version != protocol.Version {
		t.Errorf("expected version %d, got %d", protocol.Version, hello.Version)
	}
	if hello.DeviceInfo == nil || hello.DeviceInfo.ProductName == "" {
		t.Error("expected device info in server/hello")
	}
	if s.ClientCount() != 1 {
		t.Errorf("expected 1 client, got %d", s.ClientCount())
	}
}

func TestDuplicateClientRejected(t *testing.T) {
	_, addr := startFeed(t, Config{})
	connect(t, addr, "same-id")

	dup := NewListener(ListenerConfig{ServerAddr: addr, ClientID: "same-id"})
	if err := dup.Connect(); err == nil {
		dup.Close()
		t.Fatal("expected duplicate client id to be rejected")
	}
}

func TestRetainedStateReplayed(t *testing.T) {
	s, addr := startFeed(t, Config{})
	ref, buf := testClip()

	s.PublishClip(&ref, buf)
	s.PublishState(inspector.Playing, 0)

	l := connect(t, addr, "late")

	env := nextEvent(t, l)
	if env.Type != protocol.TypeClipSelected {
		t.Fatalf("expected %s, got %s", protocol.TypeClipSelected, env.Type)
	}
	var selected protocol.ClipSelected
	if err := env.Decode(&selected); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if selected.Clip == nil {
		t.Fatal("expected clip info")
	}
	if selected.Clip.Samples != 1000 {
		t.Errorf("expected 1000 samples, got %d", selected.Clip.Samples)
	}
	if selected.Clip.DurationMs != 1000 {
		t.Errorf("expected 1000ms, got %d", selected.Clip.DurationMs)
	}

	env = nextEvent(t, l)
	if env.Type != protocol.TypePlaybackState {
		t.Fatalf("expected %s, got %s", protocol.TypePlaybackState, env.Type)
	}
	var state protocol.PlaybackState
	env.Decode(&state)
	if state.State != "playing" {
		t.Errorf("expected playing, got %s", state.State)
	}
}

func TestClearedSelection(t *testing.T) {
	s, addr := startFeed(t, Config{})
	l := connect(t, addr, "l")

	s.PublishClip(nil, nil)

	env := nextEvent(t, l)
	var selected protocol.ClipSelected
	env.Decode(&selected)
	if selected.Clip != nil {
		t.Errorf("expected null clip, got %+v", selected.Clip)
	}
}

func TestMarkerAndPlayheadEvents(t *testing.T) {
	s, addr := startFeed(t, Config{PlayheadInterval: time.Hour})
	ref, buf := testClip()
	l := connect(t, addr, "l")

	s.PublishClip(&ref, buf)
	nextEvent(t, l)

	s.PublishPlayhead(250)
	s.PublishPlayhead(300) // inside the interval, dropped
	s.PublishMarker(ref, marker.Marker{ID: 3, Sample: 500})

	env := nextEvent(t, l)
	if env.Type != protocol.TypePlayheadUpdate {
		t.Fatalf("expected %s, got %s", protocol.TypePlayheadUpdate, env.Type)
	}
	var update protocol.PlayheadUpdate
	env.Decode(&update)
	if update.Sample != 250 || update.TimeMs != 250 {
		t.Errorf("expected sample 250 at 250ms, got %d at %dms", update.Sample, update.TimeMs)
	}
	if update.ClipID != ref.ID.String() {
		t.Errorf("expected clip id %s, got %s", ref.ID, update.ClipID)
	}

	env = nextEvent(t, l)
	if env.Type != protocol.TypeMarkerReached {
		t.Fatalf("expected %s, got %s", protocol.TypeMarkerReached, env.Type)
	}
	var reached protocol.MarkerReached
	env.Decode(&reached)
	if reached.MarkerID != 3 || reached.Sample != 500 || reached.TimeMs != 500 {
		t.Errorf("expected marker 3 at 500 (500ms), got %+v", reached)
	}
}

func TestPublishWithoutListeners(t *testing.T) {
	s := New(Config{})
	ref, buf := testClip()

	s.PublishClip(&ref, buf)
	s.PublishPlayhead(10)
	s.PublishMarker(ref, marker.Marker{ID: 1, Sample: 10})

	if s.ClientCount() != 0 {
		t.Errorf("expected 0 clients, got %d", s.ClientCount())
	}
}

func TestClipInfoWithoutSamples(t *testing.T) {
	ref := inspector.ClipRef{ID: uuid.New(), Name: "broken.flac"}
	info := ClipInfo(ref, nil)
	if info.Name != "broken.flac" {
		t.Errorf("expected name broken.flac, got %s", info.Name)
	}
	if info.Samples != 0 || info.DurationMs != 0 {
		t.Errorf("expected no samples, got %d (%dms)", info.Samples, info.DurationMs)
	}
}

func TestStartStop(t *testing.T) {
	s := New(Config{Port: 0})
	port, err := s.Listen()
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	if port == 0 {
		t.Error("expected a bound port")
	}

	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	l := connect(t, "127.0.0.1:"+strconv.Itoa(port), "l")
	if !l.IsConnected() {
		t.Fatal("expected listener to be connected")
	}

	s.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean stop, got %v", err)
		}
	case <-time.After(7 * time.Second):
		t.Fatal("server did not stop")
	}
}
