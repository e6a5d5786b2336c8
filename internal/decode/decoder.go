/* SPDX-License-Identifier: GPL-3.0-or-later
 *
 * QAnotherRTSP
 * Copyright (C) 2025 e1z0 <e1z0@icloud.com>
 *
 * This file is part of QAnotherRTSP.
 *
 * QAnotherRTSP is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * QAnotherRTSP is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with QAnotherRTSP.  If not, see <https://www.gnu.org/licenses/>.
 */

// Package decode opens a media URL through FFmpeg's demuxer and drives its
// video and/or audio decoders one packet at a time, handing back normalized
// frames from internal/media. A Decoder is built as one of three explicit
// variants — video-only, audio-only, or both — so a caller can never ask a
// Decoder for a stream type it wasn't configured to carry.
package decode

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	astiav "github.com/asticode/go-astiav"

	"github.com/e1z0/mediagw/internal/gwlog"
)

// Variant says which of a source's streams a Decoder was built to carry.
type Variant int

const (
	VideoOnly Variant = iota
	AudioOnly
	Both
)

func (v Variant) String() string {
	switch v {
	case VideoOnly:
		return "video_only"
	case AudioOnly:
		return "audio_only"
	case Both:
		return "both"
	default:
		return "unknown"
	}
}

type videoDecoder struct {
	streamIndex int
	ctx         *astiav.CodecContext
}

type audioDecoder struct {
	streamIndex int
	ctx         *astiav.CodecContext
}

// Decoder owns an open FFmpeg demuxer and the codec contexts for the
// stream(s) its Variant selects. The zero value is not usable; build one
// with Open.
type Decoder struct {
	variant Variant
	fc      *astiav.FormatContext
	video   *videoDecoder
	audio   *audioDecoder
}

// Variant reports which streams this Decoder was opened to carry.
func (d *Decoder) Variant() Variant { return d.variant }

// HasVideo reports whether this Decoder carries a video stream.
func (d *Decoder) HasVideo() bool { return d.video != nil }

// HasAudio reports whether this Decoder carries an audio stream.
func (d *Decoder) HasAudio() bool { return d.audio != nil }

// Open demuxes url and opens decoders for the streams variant asks for.
// Requesting Both on a source with only one of the two media types is not
// an error: the Decoder silently degrades to whichever single stream the
// source actually has. Requesting VideoOnly or AudioOnly against a source
// lacking that stream returns a NoSuchStream error.
func Open(url string, variant Variant, streamOptions map[string]string) (*Decoder, error) {
	fc := astiav.AllocFormatContext()
	if fc == nil {
		return nil, newError(Demux, errors.New("AllocFormatContext"))
	}

	rd := astiav.NewDictionary()
	defer rd.Free()
	for k, v := range streamOptions {
		_ = rd.Set(k, v, 0)
	}
	gwlog.Debugf("opening %s with options: %s", url, joinOptions(streamOptions))

	if err := fc.OpenInput(url, nil, rd); err != nil {
		fc.Free()
		return nil, newError(Demux, fmt.Errorf("OpenInput: %w", err))
	}
	if err := fc.FindStreamInfo(nil); err != nil {
		fc.Free()
		return nil, newError(Demux, fmt.Errorf("FindStreamInfo: %w", err))
	}

	vIdx, aIdx := -1, -1
	for i, s := range fc.Streams() {
		switch s.CodecParameters().MediaType() {
		case astiav.MediaTypeVideo:
			if vIdx < 0 {
				vIdx = i
			}
		case astiav.MediaTypeAudio:
			if aIdx < 0 {
				aIdx = i
			}
		}
	}

	wantVideo := variant == VideoOnly || variant == Both
	wantAudio := variant == AudioOnly || variant == Both

	if variant == VideoOnly && vIdx < 0 {
		fc.Free()
		return nil, newError(NoSuchStream, errors.New("source has no video stream"))
	}
	if variant == AudioOnly && aIdx < 0 {
		fc.Free()
		return nil, newError(NoSuchStream, errors.New("source has no audio stream"))
	}

	d := &Decoder{variant: variant, fc: fc}

	if wantVideo && vIdx >= 0 {
		vd, err := openCodec(fc, vIdx)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.video = &videoDecoder{streamIndex: vIdx, ctx: vd}
	}
	if wantAudio && aIdx >= 0 {
		ad, err := openCodec(fc, aIdx)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.audio = &audioDecoder{streamIndex: aIdx, ctx: ad}
	}

	if d.video == nil && d.audio == nil {
		d.Close()
		return nil, newError(NoSuchStream, errors.New("source has neither a video nor an audio stream"))
	}

	return d, nil
}

func openCodec(fc *astiav.FormatContext, streamIndex int) (*astiav.CodecContext, error) {
	st := fc.Streams()[streamIndex]
	par := st.CodecParameters()

	codec := astiav.FindDecoder(par.CodecID())
	if codec == nil {
		return nil, newError(Demux, fmt.Errorf("FindDecoder: no decoder for stream %d", streamIndex))
	}
	ctx := astiav.AllocCodecContext(codec)
	if ctx == nil {
		return nil, newError(Demux, fmt.Errorf("AllocCodecContext: nil for stream %d", streamIndex))
	}
	if err := par.ToCodecContext(ctx); err != nil {
		ctx.Free()
		return nil, newError(Demux, fmt.Errorf("ToCodecContext: %w", err))
	}

	opts := astiav.NewDictionary()
	defer opts.Free()
	_ = opts.Set("hwaccel", "none", 0)

	if err := ctx.Open(codec, opts); err != nil {
		ctx.Free()
		return nil, newError(Demux, fmt.Errorf("open codec for stream %d: %w", streamIndex, err))
	}
	return ctx, nil
}

// joinOptions renders a stream-open option set as sorted "key=value" pairs
// on one line for logging.
func joinOptions(opts map[string]string) string {
	pairs := make([]string, 0, len(opts))
	for k, v := range opts {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, " ")
}

// Close releases the demuxer and every codec context this Decoder opened.
func (d *Decoder) Close() {
	if d.video != nil {
		d.video.ctx.Free()
		d.video = nil
	}
	if d.audio != nil {
		d.audio.ctx.Free()
		d.audio = nil
	}
	if d.fc != nil {
		d.fc.Free()
		d.fc = nil
	}
}
