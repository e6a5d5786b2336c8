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

package decode

import (
	"errors"
	"io"

	astiav "github.com/asticode/go-astiav"

	"github.com/e1z0/mediagw/internal/media"
	"github.com/e1z0/mediagw/internal/resolution"
)

// item is one decoded-and-converted frame, in arrival order; exactly one
// of its two fields is non-nil.
type item struct {
	video *media.VideoFrame
	audio *media.AudioFrame
}

// Iter steps a Decoder one packet at a time, converting each decoded frame
// through the shared scaler/resampler and yielding them in arrival order.
// It is a pull-based producer a caller drives explicitly, one step per
// decoded frame.
type Iter struct {
	dec       *Decoder
	hint      resolution.Hint
	scaler    *media.Scaler
	resampler *media.Resampler

	pkt *astiav.Packet
	vf  *astiav.Frame
	af  *astiav.Frame

	queue    []item
	draining bool
	drainedV bool
	drainedA bool
	eof      bool
}

// NewIter builds a stepping iterator over dec. hint controls the target
// resolution every video frame is scaled to.
func NewIter(dec *Decoder, hint resolution.Hint) *Iter {
	return &Iter{
		dec:       dec,
		hint:      hint,
		scaler:    media.NewScaler(),
		resampler: media.NewResampler(),
		pkt:       astiav.AllocPacket(),
		vf:        astiav.AllocFrame(),
		af:        astiav.AllocFrame(),
		drainedV:  dec.video == nil,
		drainedA:  dec.audio == nil,
	}
}

// Close releases the frames, packet, scaler, and resampler this Iter
// holds. It does not close the underlying Decoder.
func (it *Iter) Close() {
	it.scaler.Close()
	it.resampler.Close()
	it.pkt.Free()
	it.vf.Free()
	it.af.Free()
}

// Next returns the next decoded frame. Exactly one of the two returned
// frame pointers is non-nil on a nil error. It returns io.EOF once the
// source is exhausted and every pending decoder frame has drained, or a
// *Error for any fatal condition; NoFramesYet is never returned from Next
// itself — it is consumed internally as "keep reading packets".
func (it *Iter) Next() (*media.VideoFrame, *media.AudioFrame, error) {
	for {
		if len(it.queue) > 0 {
			next := it.queue[0]
			it.queue = it.queue[1:]
			return next.video, next.audio, nil
		}
		if it.eof {
			return nil, nil, io.EOF
		}

		if !it.draining {
			if err := it.readPacket(); err != nil {
				if errors.Is(err, io.EOF) {
					it.draining = true
					if it.dec.video != nil {
						_ = it.dec.video.ctx.SendPacket(nil)
					}
					if it.dec.audio != nil {
						_ = it.dec.audio.ctx.SendPacket(nil)
					}
					continue
				}
				return nil, nil, err
			}
			continue
		}

		if !it.drainedV {
			if err := it.drainVideo(); err != nil {
				return nil, nil, err
			}
			it.drainedV = true
			continue
		}
		if !it.drainedA {
			if err := it.drainAudio(); err != nil {
				return nil, nil, err
			}
			it.drainedA = true
			continue
		}
		it.eof = true
	}
}

// readPacket reads one packet and, if it belongs to a configured stream,
// decodes every frame it yields into it.queue.
func (it *Iter) readPacket() error {
	if err := it.dec.fc.ReadFrame(it.pkt); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return newError(Demux, err)
	}
	defer it.pkt.Unref()

	si := it.pkt.StreamIndex()
	switch {
	case it.dec.video != nil && si == it.dec.video.streamIndex:
		if err := it.dec.video.ctx.SendPacket(it.pkt); err != nil && !errors.Is(err, astiav.ErrEagain) {
			return newError(Demux, err)
		}
		return it.drainVideoFrames()
	case it.dec.audio != nil && si == it.dec.audio.streamIndex:
		if err := it.dec.audio.ctx.SendPacket(it.pkt); err != nil && !errors.Is(err, astiav.ErrEagain) {
			return newError(Demux, err)
		}
		return it.drainAudioFrames()
	default:
		return nil
	}
}

func (it *Iter) drainVideoFrames() error {
	for {
		err := it.dec.video.ctx.ReceiveFrame(it.vf)
		if errors.Is(err, astiav.ErrEagain) || errors.Is(err, astiav.ErrEof) {
			return nil
		}
		if err != nil {
			return newError(Demux, err)
		}
		ts := ptsSeconds(it.vf.Pts(), it.dec.fc.Streams()[it.dec.video.streamIndex].TimeBase())
		vFrame, cerr := it.scaler.Convert(it.vf, it.hint, ts)
		it.vf.Unref()
		if cerr != nil {
			return newError(ImageConvert, cerr)
		}
		it.queue = append(it.queue, item{video: &vFrame})
	}
}

func (it *Iter) drainAudioFrames() error {
	for {
		err := it.dec.audio.ctx.ReceiveFrame(it.af)
		if errors.Is(err, astiav.ErrEagain) || errors.Is(err, astiav.ErrEof) {
			return nil
		}
		if err != nil {
			return newError(Demux, err)
		}
		ts := ptsSeconds(it.af.Pts(), it.dec.fc.Streams()[it.dec.audio.streamIndex].TimeBase())
		aFrame, cerr := it.resampler.Convert(it.af, ts)
		it.af.Unref()
		if cerr != nil {
			return newError(FrameFormat, cerr)
		}
		it.queue = append(it.queue, item{audio: &aFrame})
	}
}

func (it *Iter) drainVideo() error {
	if it.dec.video == nil {
		return nil
	}
	return it.drainVideoFrames()
}

func (it *Iter) drainAudio() error {
	if it.dec.audio == nil {
		return nil
	}
	return it.drainAudioFrames()
}

func ptsSeconds(pts int64, tb astiav.Rational) float64 {
	if tb.Den() == 0 {
		return 0
	}
	return float64(pts) * float64(tb.Num()) / float64(tb.Den())
}
