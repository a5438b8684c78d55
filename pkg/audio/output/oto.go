// ABOUTME: Oto-based clip preview transport
// ABOUTME: Converts clips to the device format and tracks the playing sample
package output

import (
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"

	"github.com/Resonate-Protocol/clipscope/pkg/audio"
	"github.com/Resonate-Protocol/clipscope/pkg/audio/encode"
	"github.com/Resonate-Protocol/clipscope/pkg/audio/resample"
)

// OtoConfig holds device settings. oto allows one context per process, so
// every clip is converted to this format before playback.
type OtoConfig struct {
	SampleRate int // default 48000
	Channels   int // default 2
	Volume     int // 0-100, default 100
}

// Oto transport implementation using oto library
type Oto struct {
	mu      sync.Mutex
	config  OtoConfig
	otoCtx  *oto.Context
	player  *oto.Player
	reader  *clipReader
	encoder encode.Encoder

	// device-format copy of the last clip played
	source *audio.Buffer
	pcm    []byte

	startFrame   int64
	loop         bool
	lastPosition int
}

// NewOto creates a new Oto transport
func NewOto(config OtoConfig) *Oto {
	if config.SampleRate <= 0 {
		config.SampleRate = 48000
	}
	if config.Channels <= 0 {
		config.Channels = 2
	}
	if config.Volume < 0 || config.Volume > 100 {
		config.Volume = 100
	}

	// 16-bit is always supported
	encoder, _ := encode.NewPCM(16)

	return &Oto{config: config, encoder: encoder}
}

// Open initializes the output device. PlayAt calls it on first use.
func (o *Oto) Open() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.openLocked()
}

func (o *Oto) openLocked() error {
	if o.otoCtx != nil {
		return nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   o.config.SampleRate,
		ChannelCount: o.config.Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	o.otoCtx = ctx
	log.Printf("Audio output initialized: %dHz, %d channels", o.config.SampleRate, o.config.Channels)

	return nil
}

// PlayAt starts buf from startSample, replacing any current preview
func (o *Oto) PlayAt(buf *audio.Buffer, startSample int, loop bool) error {
	if buf.Empty() {
		return ErrEmptyClip
	}
	if buf.SampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrNoSampleRate, buf.SampleRate)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.openLocked(); err != nil {
		return err
	}
	if err := o.stopLocked(); err != nil {
		return err
	}

	if o.source != buf {
		pcm, err := o.encoder.Encode(o.toDeviceFormat(buf).Data)
		if err != nil {
			return fmt.Errorf("failed to encode clip: %w", err)
		}
		o.pcm = pcm
		o.source = buf
	}

	if startSample < 0 {
		startSample = 0
	}
	if startSample >= buf.SampleCount() {
		startSample = buf.SampleCount() - 1
	}

	frameBytes := o.frameBytes()
	o.startFrame = int64(startSample) * int64(o.config.SampleRate) / int64(buf.SampleRate)
	if total := int64(len(o.pcm) / frameBytes); o.startFrame >= total {
		o.startFrame = total - 1
	}
	o.loop = loop

	o.reader = &clipReader{data: o.pcm, off: int(o.startFrame) * frameBytes, loop: loop}
	o.player = o.otoCtx.NewPlayer(o.reader)
	o.player.SetVolume(float64(o.config.Volume) / 100.0)
	o.player.Play()

	log.Printf("Preview started at sample %d (loop=%v)", startSample, loop)

	return nil
}

// StopAll stops the current preview, keeping its last position
func (o *Oto) StopAll() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.stopLocked()
}

func (o *Oto) stopLocked() error {
	if o.player == nil {
		return nil
	}

	o.lastPosition = o.positionLocked()
	o.player.Pause()
	err := o.player.Close()
	o.player = nil
	o.reader = nil
	if err != nil {
		return fmt.Errorf("failed to close player: %w", err)
	}
	return nil
}

// CurrentPosition returns the clip sample being heard
func (o *Oto) CurrentPosition() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return o.lastPosition
	}
	return o.positionLocked()
}

func (o *Oto) positionLocked() int {
	if o.player == nil || o.source == nil {
		return o.lastPosition
	}

	frameBytes := int64(o.frameBytes())
	played := o.reader.consumed.Load() - int64(o.player.BufferedSize())
	if played < 0 {
		played = 0
	}

	return clipPosition(positionParams{
		startFrame:   o.startFrame,
		playedFrames: played / frameBytes,
		deviceFrames: int64(len(o.pcm)) / frameBytes,
		deviceRate:   o.config.SampleRate,
		clipRate:     o.source.SampleRate,
		clipFrames:   o.source.SampleCount(),
		loop:         o.loop,
	})
}

// IsPlaying reports whether audio is still being produced
func (o *Oto) IsPlaying() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.player != nil && o.player.IsPlaying()
}

// Close releases output resources
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	err := o.stopLocked()
	if o.otoCtx != nil {
		if suspendErr := o.otoCtx.Suspend(); suspendErr != nil && err == nil {
			err = fmt.Errorf("failed to suspend oto context: %w", suspendErr)
		}
	}
	o.source = nil
	o.pcm = nil
	return err
}

func (o *Oto) frameBytes() int {
	return o.config.Channels * 2
}

func (o *Oto) toDeviceFormat(buf *audio.Buffer) *audio.Buffer {
	if buf.SampleRate != o.config.SampleRate || buf.Channels != o.config.Channels {
		log.Printf("Converting clip %dHz %dch -> %dHz %dch for playback",
			buf.SampleRate, buf.Channels, o.config.SampleRate, o.config.Channels)
	}
	return resample.Remix(resample.Buffer(buf, o.config.SampleRate), o.config.Channels)
}

type positionParams struct {
	startFrame   int64
	playedFrames int64
	deviceFrames int64
	deviceRate   int
	clipRate     int
	clipFrames   int
	loop         bool
}

// clipPosition maps device frames played since start back to a clip sample index
func clipPosition(p positionParams) int {
	if p.deviceFrames <= 0 || p.clipFrames <= 0 || p.deviceRate <= 0 {
		return 0
	}

	frame := p.startFrame + p.playedFrames
	if p.loop {
		frame %= p.deviceFrames
	} else if frame >= p.deviceFrames {
		frame = p.deviceFrames - 1
	}

	sample := int(frame * int64(p.clipRate) / int64(p.deviceRate))
	if sample >= p.clipFrames {
		sample = p.clipFrames - 1
	}
	return sample
}

// clipReader feeds a clip's bytes to the oto player, wrapping when looping.
// Read runs on oto's goroutine; consumed is read from the host.
type clipReader struct {
	data     []byte
	off      int
	loop     bool
	consumed atomic.Int64
}

func (r *clipReader) Read(p []byte) (int, error) {
	if r.off >= len(r.data) {
		if !r.loop || len(r.data) == 0 {
			return 0, io.EOF
		}
		r.off = 0
	}

	n := copy(p, r.data[r.off:])
	r.off += n
	r.consumed.Add(int64(n))
	return n, nil
}
