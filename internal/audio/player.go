package audio

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// ErrUnavailable is returned when the audio output was never initialised.
var ErrUnavailable = errors.New("audio output unavailable")

// ErrStalled is returned when the speaker does not finish a stream within
// its length plus drainSlack.
var ErrStalled = errors.New("audio playback stalled")

// drainSlack is how long past a stream's length playback may run.
const drainSlack = time.Second

// Output is an audio device. PlayFile and Tone block until playback ends.
type Output interface {
	Init() error
	PlayFile(path string) error
	Tone(freq float64, d time.Duration) error
	Close()
}

// SampleRate is the rate the speaker is opened at.
const SampleRate = beep.SampleRate(44100)

// speakerLatency is the speaker buffer length.
const speakerLatency = 100 * time.Millisecond

type decodeFunc func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

// decoders maps lower-case file extensions to beep decoders.
var decoders = map[string]decodeFunc{
	".wav": func(r io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(r) },
	".oga": vorbis.Decode,
	".ogg": vorbis.Decode,
	".mp3": mp3.Decode,
}

// Player is the speaker-backed Output. Decoded files are kept in memory
// until invalidated.
type Player struct {
	logger *slog.Logger

	mu     sync.Mutex
	open   bool
	ready  map[string]*beep.Buffer
	decode sync.Mutex
}

// NewPlayer creates a player. The speaker is opened by Init.
func NewPlayer(logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		logger: logger,
		ready:  map[string]*beep.Buffer{},
	}
}

// Init opens the speaker.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.open {
		return nil
	}

	if err := speaker.Init(SampleRate, SampleRate.N(speakerLatency)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}
	p.open = true
	p.logger.Debug("speaker initialized", "sample_rate", int(SampleRate))
	return nil
}

// PlayFile plays a WAV, Ogg Vorbis or MP3 file and waits for it to finish.
func (p *Player) PlayFile(path string) error {
	if !p.isOpen() {
		return ErrUnavailable
	}

	buf, err := p.buffer(path)
	if err != nil {
		return err
	}

	rate := buf.Format().SampleRate
	var s beep.Streamer = buf.Streamer(0, buf.Len())
	if rate != SampleRate {
		s = beep.Resample(4, rate, SampleRate, s)
	}
	return p.drain(s, rate.D(buf.Len()))
}

// Tone plays a sine tone and waits for it to finish.
func (p *Player) Tone(freq float64, d time.Duration) error {
	if !p.isOpen() {
		return ErrUnavailable
	}

	sine, err := generators.SineTone(SampleRate, freq)
	if err != nil {
		return fmt.Errorf("failed to generate tone: %w", err)
	}
	return p.drain(beep.Take(max(1, SampleRate.N(d)), sine), d)
}

// InvalidateCache forgets the decoded copy of path.
func (p *Player) InvalidateCache(path string) {
	p.mu.Lock()
	delete(p.ready, path)
	p.mu.Unlock()
}

// Close stops the speaker and drops all decoded files.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.open {
		speaker.Close()
		p.open = false
	}
	clear(p.ready)
	p.logger.Debug("audio player closed")
}

func (p *Player) isOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

// buffer returns the decoded file, decoding at most one file at a time.
func (p *Player) buffer(path string) (*beep.Buffer, error) {
	p.mu.Lock()
	buf, ok := p.ready[path]
	p.mu.Unlock()
	if ok {
		return buf, nil
	}

	p.decode.Lock()
	defer p.decode.Unlock()

	buf, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.ready[path] = buf
	p.mu.Unlock()
	return buf, nil
}

// drain plays s on the shared speaker mixer and blocks until it ends or
// runs past length. A stalled mixer is cleared.
func (p *Player) drain(s beep.Streamer, length time.Duration) error {
	done := make(chan struct{})
	speaker.Play(beep.Seq(s, beep.Callback(func() { close(done) })))
	if err := awaitPlayback(done, length+drainSlack); err != nil {
		speaker.Clear()
		p.logger.Warn("audio output stalled, playback cleared", "length", length)
		return err
	}
	return nil
}

// awaitPlayback waits for done for at most limit.
func awaitPlayback(done <-chan struct{}, limit time.Duration) error {
	t := time.NewTimer(limit)
	defer t.Stop()
	select {
	case <-done:
		return nil
	case <-t.C:
		return ErrStalled
	}
}

func decodeFile(path string) (*beep.Buffer, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported audio format: %q", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound file: %w", err)
	}
	defer func() { _ = f.Close() }()

	stream, format, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = stream.Close() }()

	buf := beep.NewBuffer(format)
	buf.Append(stream)
	return buf, nil
}
