package audio

import (
	"fmt"
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

// latency is the speaker buffer length. Short cues favour low latency.
const latency = 50 * time.Millisecond

// resampleQuality is passed to beep.Resample when a cue's rate differs
// from the speaker's.
const resampleQuality = 3

type decodeFunc func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)

var decoders = map[string]decodeFunc{
	".wav": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) },
	".ogg": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return vorbis.Decode(f) },
	".mp3": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) },
}

// SupportedFormat reports whether the file extension can be decoded.
func SupportedFormat(path string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Player plays severity cues. Decoded cues are kept in memory; the speaker
// is opened on the first Play at that cue's sample rate.
type Player struct {
	logger *slog.Logger

	mu     sync.Mutex
	volume float64
	rate   beep.SampleRate // zero until the speaker is open

	cuesMu sync.RWMutex
	cues   map[string]*beep.Buffer
}

// NewPlayer creates a player at full volume.
func NewPlayer(logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		logger: logger,
		volume: 1,
		cues:   make(map[string]*beep.Buffer),
	}
}

// SetVolume sets the playback volume, clamped to [0, 1].
func (p *Player) SetVolume(volume float64) {
	p.mu.Lock()
	p.volume = max(0, min(1, volume))
	p.mu.Unlock()
}

// Volume returns the current volume.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Play queues the cue at path on the speaker. An empty path is a no-op.
func (p *Player) Play(path string) error {
	if path == "" {
		return nil
	}
	cue, err := p.cue(path)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rate == 0 {
		rate := cue.Format().SampleRate
		if err := speaker.Init(rate, rate.N(latency)); err != nil {
			return fmt.Errorf("failed to open speaker: %w", err)
		}
		p.rate = rate
		p.logger.Debug("speaker opened", "sample_rate", rate)
	}
	speaker.Play(stream(cue, p.volume, p.rate))
	return nil
}

// Preload decodes path into memory without touching the speaker.
func (p *Player) Preload(path string) error {
	if path == "" {
		return nil
	}
	_, err := p.cue(path)
	return err
}

func (p *Player) cue(path string) (*beep.Buffer, error) {
	p.cuesMu.RLock()
	cue, ok := p.cues[path]
	p.cuesMu.RUnlock()
	if ok {
		return cue, nil
	}

	cue, err := decodeFile(path)
	if err != nil {
		return nil, err
	}

	p.cuesMu.Lock()
	p.cues[path] = cue
	p.cuesMu.Unlock()
	p.logger.Debug("cue decoded", "path", path, "frames", cue.Len())
	return cue, nil
}

// ClearCache forgets every decoded cue.
func (p *Player) ClearCache() {
	p.cuesMu.Lock()
	clear(p.cues)
	p.cuesMu.Unlock()
}

// Cached reports whether path is held in memory.
func (p *Player) Cached(path string) bool {
	p.cuesMu.RLock()
	defer p.cuesMu.RUnlock()
	_, ok := p.cues[path]
	return ok
}

// Close drops queued cues and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	if p.rate != 0 {
		speaker.Clear()
		speaker.Close()
		p.rate = 0
	}
	p.mu.Unlock()
	p.ClearCache()
}

// decodeFile reads a whole sound file into memory.
func decodeFile(path string) (*beep.Buffer, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported audio format %q", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound file: %w", err)
	}
	defer func() { _ = f.Close() }()

	src, format, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = src.Close() }()

	buf := beep.NewBuffer(format)
	buf.Append(src)
	return buf, nil
}

// stream builds the streamer for one playback of cue at the given volume
// and speaker rate.
func stream(cue *beep.Buffer, volume float64, rate beep.SampleRate) beep.Streamer {
	var s beep.Streamer = cue.Streamer(0, cue.Len())
	if from := cue.Format().SampleRate; from != rate {
		s = beep.Resample(resampleQuality, from, rate, s)
	}
	if volume >= 1 {
		return s
	}
	return &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   volumeExponent(volume),
		Silent:   volume <= 0,
	}
}

// volumeExponent converts a linear volume into the base-2 exponent
// effects.Volume expects. 0.5 halves the amplitude.
func volumeExponent(volume float64) float64 {
	if volume <= 0 {
		return -10
	}
	return math.Log2(volume)
}
