// ABOUTME: Tests for the clip catalog
// ABOUTME: Uses WAV fixtures written with go-audio/wav
package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/Resonate-Protocol/clipscope/pkg/audio"
	"github.com/Resonate-Protocol/clipscope/pkg/audio/decode"
	"github.com/Resonate-Protocol/clipscope/pkg/inspector"
)

var _ inspector.Loader = (*Catalog)(nil)

func writeFixture(t *testing.T, dir, name string, frames int) string {
	t.Helper()

	data := make([]float64, frames*2)
	for i := range data {
		data[i] = 0.25
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create fixture: %v", err)
	}
	defer f.Close()

	if err := decode.WriteWAV(f, audio.NewBuffer(data, 2, 22050), 16); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestAddAndList(t *testing.T) {
	dir := t.TempDir()
	kick := writeFixture(t, dir, "kick.wav", 100)
	snare := writeFixture(t, dir, "snare.wav", 200)

	c := New(nil)
	a, err := c.Add(kick)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	b, err := c.Add(snare)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if a.Name != "kick" || b.Name != "snare" {
		t.Errorf("expected names kick/snare, got %q/%q", a.Name, b.Name)
	}
	if a.ID == uuid.Nil || a.ID == b.ID {
		t.Errorf("expected distinct non-nil ids, got %v and %v", a.ID, b.ID)
	}

	list := c.List()
	if len(list) != 2 || list[0].ID != a.ID || list[1].ID != b.ID {
		t.Errorf("expected [kick snare], got %v", list)
	}

	again, err := c.Add(kick)
	if err != nil || again.ID != a.ID {
		t.Errorf("expected same handle for same path, got %v err=%v", again.ID, err)
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 clips, got %d", c.Len())
	}

	if got, ok := c.Get(b.ID); !ok || got.Source != b.Source {
		t.Errorf("Get(%v) = %v ok=%v", b.ID, got, ok)
	}
}

func TestAddRejects(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(nil)
	if _, err := c.Add(txt); !errors.Is(err, decode.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := c.Add(filepath.Join(dir, "missing.wav")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadSamplesCaches(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "pad.wav", 300)

	c := New(nil)
	ref, err := c.Add(path)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	first, err := c.LoadSamples(ref)
	if err != nil {
		t.Fatalf("LoadSamples failed: %v", err)
	}
	if first.SampleCount() != 300 || first.Channels != 2 || first.SampleRate != 22050 {
		t.Errorf("unexpected buffer: %d samples, %d ch, %d Hz", first.SampleCount(), first.Channels, first.SampleRate)
	}

	// cached copy survives the file going away
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	second, err := c.LoadSamples(ref)
	if err != nil {
		t.Fatalf("cached LoadSamples failed: %v", err)
	}
	if second != first {
		t.Error("expected cached buffer")
	}

	c.Evict(ref.ID)
	if _, err := c.LoadSamples(ref); err == nil {
		t.Error("expected error after eviction of deleted file")
	}
}

func TestLoadSamplesUnknown(t *testing.T) {
	c := New(nil)
	_, err := c.LoadSamples(inspector.ClipRef{ID: uuid.New(), Source: "x.wav"})
	if !errors.Is(err, ErrUnknownClip) {
		t.Errorf("expected ErrUnknownClip, got %v", err)
	}
}

func TestAddPathsWalksDirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "drums")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFixture(t, sub, "b.wav", 10)
	writeFixture(t, sub, "a.wav", 10)
	if err := os.WriteFile(filepath.Join(sub, "readme.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	single := writeFixture(t, dir, "solo.wav", 10)

	c := New(nil)
	refs, err := c.AddPaths([]string{sub, single})
	if err != nil {
		t.Fatalf("AddPaths failed: %v", err)
	}

	var names []string
	for _, r := range refs {
		names = append(names, r.Name)
	}
	want := []string{"a", "b", "solo"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("expected %v, got %v", want, names)
		}
	}
}

func TestControllerWithCatalog(t *testing.T) {
	dir := t.TempDir()
	c := New(nil)
	ref, err := c.Add(writeFixture(t, dir, "hat.wav", 500))
	if err != nil {
		t.Fatal(err)
	}

	ctrl := inspector.NewController(inspector.Config{}, c, nopTransport{}, nil)
	if err := ctrl.Select(&ref); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if snap := ctrl.Snapshot(); snap.SampleCount != 500 || snap.Image == nil {
		t.Errorf("expected rendered 500-sample clip, got %+v", snap)
	}
}

type nopTransport struct{}

func (nopTransport) StopAll() error                        { return nil }
func (nopTransport) PlayAt(*audio.Buffer, int, bool) error { return nil }
func (nopTransport) CurrentPosition() int                  { return 0 }
func (nopTransport) IsPlaying() bool                       { return false }
