package audio

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// Player plays one activation sound. The file is decoded once and kept in
// memory; a missing or broken file disables the player instead of failing
// the activation.
type Player struct {
	mu     sync.Mutex
	logger *slog.Logger

	path   string
	volume float64 // 0.0 to 1.0

	buffer      *beep.Buffer
	loadErr     error
	initialized bool
	sampleRate  beep.SampleRate
}

// NewPlayer creates a player for path with volume in percent. An empty
// path yields a player that does nothing.
func NewPlayer(path string, volume int, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		logger: logger,
		path:   path,
		volume: clampVolume(float64(volume) / 100),
	}
}

// Path returns the sound file path.
func (p *Player) Path() string {
	return p.path
}

// Volume returns the current volume.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Preload decodes the sound so the first Play does not wait on disk.
func (p *Player) Preload() error {
	_, err := p.load()
	return err
}

// Play starts the sound and returns without waiting for it to finish.
func (p *Player) Play() error {
	if p.path == "" {
		return nil
	}
	buffer, err := p.load()
	if err != nil {
		return err
	}
	if err := p.ensureInitialized(buffer.Format().SampleRate); err != nil {
		return err
	}

	p.mu.Lock()
	volume := p.volume
	sampleRate := p.sampleRate
	p.mu.Unlock()

	var streamer beep.Streamer = buffer.Streamer(0, buffer.Len())
	if buffer.Format().SampleRate != sampleRate {
		streamer = beep.Resample(4, buffer.Format().SampleRate, sampleRate, streamer)
	}
	if volume < 1.0 {
		streamer = &effects.Volume{
			Streamer: streamer,
			Base:     2,
			Volume:   volumeToExponent(volume),
			Silent:   volume == 0,
		}
	}
	speaker.Play(streamer)
	return nil
}

// Close stops playback and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		speaker.Close()
		p.initialized = false
	}
	p.buffer = nil
	p.loadErr = nil
}

func (p *Player) load() (*beep.Buffer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.buffer != nil || p.loadErr != nil {
		return p.buffer, p.loadErr
	}
	p.buffer, p.loadErr = decodeFile(p.path)
	if p.loadErr != nil {
		p.logger.Warn("failed to load sound", "path", p.path, "error", p.loadErr)
	} else {
		p.logger.Debug("loaded sound", "path", p.path, "samples", p.buffer.Len())
	}
	return p.buffer, p.loadErr
}

func (p *Player) ensureInitialized(sampleRate beep.SampleRate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}
	p.sampleRate = sampleRate
	p.initialized = true
	p.logger.Debug("speaker initialized", "sample_rate", sampleRate)
	return nil
}

// decodeFile reads a whole sound file into memory.
func decodeFile(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return decode(f, filepath.Ext(path))
}

func decode(r io.ReadCloser, ext string) (*beep.Buffer, error) {
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)
	switch strings.ToLower(ext) {
	case ".wav":
		streamer, format, err = wav.Decode(r)
	case ".ogg", ".oga":
		streamer, format, err = vorbis.Decode(r)
	case ".mp3":
		streamer, format, err = mp3.Decode(r)
	default:
		return nil, fmt.Errorf("unsupported audio format: %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode sound: %w", err)
	}
	defer func() { _ = streamer.Close() }()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	return buffer, nil
}

func clampVolume(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// volumeToExponent maps a linear volume to the base-2 exponent used by
// effects.Volume.
func volumeToExponent(volume float64) float64 {
	if volume <= 0 {
		return -10
	}
	return math.Log2(volume)
}
