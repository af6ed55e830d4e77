// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package capability

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/ManuGH/mkvcaps/internal/metrics"
	"github.com/ManuGH/mkvcaps/internal/procgroup"
	"github.com/ManuGH/mkvcaps/internal/track"
)

const (
	defaultProbeTimeout  = 5 * time.Second
	defaultRetryInterval = 10 * time.Second
)

// codecMIME maps ffmpeg codec ids to the decoder MIME types tracks carry.
var codecMIME = map[string]string{
	"opus":     track.MIMEOpus,
	"vorbis":   track.MIMEVorbis,
	"aac":      track.MIMEAAC,
	"aac_latm": track.MIMEAAC,
	"vp8":      track.MIMEVP8,
	"vp9":      track.MIMEVP9,
	"h264":     track.MIMEAVC,
	"hevc":     track.MIMEHEVC,
	"av1":      track.MIMEAV1,
}

// Decoder is one row of `ffmpeg -decoders`.
type Decoder struct {
	Name         string
	Codec        string
	Kind         byte // 'V', 'A' or 'S'
	Experimental bool
	Description  string
}

// MIMEType returns the decoder MIME type this decoder serves, or "".
func (d Decoder) MIMEType() string {
	return codecMIME[d.Codec]
}

// Runner executes a binary and returns its stdout.
type Runner func(ctx context.Context, bin string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, bin string, args ...string) ([]byte, error) {
	return procgroup.CommandContext(ctx, bin, args...).Output()
}

// FFmpegOption configures an FFmpeg oracle.
type FFmpegOption func(*FFmpeg)

// WithRunner replaces process execution, mainly for tests.
func WithRunner(r Runner) FFmpegOption {
	return func(f *FFmpeg) { f.run = r }
}

// WithRetryInterval sets the minimum spacing between probe attempts after
// a failure. Zero retries on every query.
func WithRetryInterval(d time.Duration) FFmpegOption {
	return func(f *FFmpeg) { f.retry = rate.NewLimiter(rate.Every(d), 1) }
}

// WithLogger sets the oracle logger.
func WithLogger(l zerolog.Logger) FFmpegOption {
	return func(f *FFmpeg) { f.logger = l }
}

// FFmpeg answers from the decoders compiled into a local ffmpeg binary.
// The binary is probed once. A failed probe is retried at most once per
// retry interval; queries in between get the last failure.
type FFmpeg struct {
	bin     string
	timeout time.Duration
	run     Runner
	logger  zerolog.Logger
	retry   *rate.Limiter

	sf       singleflight.Group
	mu       sync.RWMutex
	probed   bool
	lastErr  error
	decoders []Decoder
	byMIME   map[string][]string
}

// NewFFmpeg creates an oracle for the given binary. An empty bin means
// "ffmpeg" from PATH; a non-positive timeout uses the default.
func NewFFmpeg(bin string, timeout time.Duration, opts ...FFmpegOption) *FFmpeg {
	bin = strings.TrimSpace(bin)
	if bin == "" {
		bin = "ffmpeg"
	}
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	f := &FFmpeg{
		bin:     bin,
		timeout: timeout,
		run:     execRunner,
		logger:  zerolog.Nop(),
		retry:   rate.NewLimiter(rate.Every(defaultRetryInterval), 1),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Supports reports whether any non-experimental ffmpeg decoder handles
// the track's MIME type. Profile and bit depth are not checked; ffmpeg
// software decoders cover every profile the classifier accepts.
func (f *FFmpeg) Supports(ctx context.Context, info track.Info) (bool, error) {
	if _, err := f.Decoders(ctx); err != nil {
		return false, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.byMIME[info.MIMEType]) > 0, nil
}

// DecodersFor returns the decoder names serving a MIME type.
func (f *FFmpeg) DecodersFor(ctx context.Context, mimeType string) ([]string, error) {
	if _, err := f.Decoders(ctx); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string(nil), f.byMIME[mimeType]...), nil
}

// Decoders returns every decoder ffmpeg reported, probing on first use.
func (f *FFmpeg) Decoders(ctx context.Context) ([]Decoder, error) {
	f.mu.RLock()
	if f.probed {
		out := f.decoders
		f.mu.RUnlock()
		return out, nil
	}
	f.mu.RUnlock()

	// Joined callers share the result, so one caller's cancellation must
	// not fail the others; f.timeout still bounds the probe.
	v, err, _ := f.sf.Do("probe", func() (any, error) {
		return f.probe(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return v.([]Decoder), nil
}

func (f *FFmpeg) probe(ctx context.Context) ([]Decoder, error) {
	f.mu.RLock()
	probed, cached, lastErr := f.probed, f.decoders, f.lastErr
	f.mu.RUnlock()
	if probed {
		return cached, nil
	}
	if !f.retry.Allow() && lastErr != nil {
		return nil, lastErr
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	out, err := f.run(ctx, f.bin, "-hide_banner", "-decoders")
	if err != nil {
		metrics.RecordDecoderProbe(false, 0)
		f.logger.Warn().Err(err).
			Str("event", "capability.ffmpeg_probe_failed").
			Str("bin", f.bin).
			Msg("ffmpeg decoder probe failed")
		err = fmt.Errorf("%w: %s -decoders: %w", ErrUnavailable, f.bin, err)
		f.mu.Lock()
		f.lastErr = err
		f.mu.Unlock()
		return nil, err
	}

	decoders := ParseDecoders(out)
	byMIME := make(map[string][]string)
	for _, d := range decoders {
		if d.Experimental {
			continue
		}
		if m := d.MIMEType(); m != "" {
			byMIME[m] = append(byMIME[m], d.Name)
		}
	}

	f.mu.Lock()
	f.probed = true
	f.lastErr = nil
	f.decoders = decoders
	f.byMIME = byMIME
	f.mu.Unlock()

	metrics.RecordDecoderProbe(true, len(byMIME))
	families := make([]string, 0, len(byMIME))
	for m := range byMIME {
		families = append(families, m)
	}
	sort.Strings(families)
	f.logger.Info().
		Str("event", "capability.ffmpeg_probed").
		Str("bin", f.bin).
		Int("decoders", len(decoders)).
		Strs("mime_types", families).
		Msg("ffmpeg decoders probed")
	return decoders, nil
}

// ParseDecoders parses `ffmpeg -decoders` output. Rows before the
// " ------" separator are the legend and are skipped. Wrapper decoders
// name their codec as "(codec x)" at the end of the description.
func ParseDecoders(out []byte) []Decoder {
	var decoders []Decoder
	inTable := false
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !inTable {
			if strings.HasPrefix(line, "------") {
				inTable = true
			}
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || len(fields[0]) != 6 {
			continue
		}
		flags, name := fields[0], fields[1]
		desc := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(line, flags), " "))
		desc = strings.TrimSpace(strings.TrimPrefix(desc, name))
		d := Decoder{
			Name:         name,
			Codec:        name,
			Kind:         flags[0],
			Experimental: flags[3] == 'X',
			Description:  desc,
		}
		if c := wrappedCodec(desc); c != "" {
			d.Codec = c
		}
		decoders = append(decoders, d)
	}
	return decoders
}

func wrappedCodec(desc string) string {
	if !strings.HasSuffix(desc, ")") {
		return ""
	}
	i := strings.LastIndex(desc, "(codec ")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(desc[i+len("(codec ") : len(desc)-1])
}
