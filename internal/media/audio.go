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

package media

import (
	"fmt"
	"math"

	astiav "github.com/asticode/go-astiav"
)

// TargetSampleRate is the fixed mono PCM rate every audio frame is
// resampled to before it reaches the DFPWM encoder.
const TargetSampleRate = 24000

// Resampler wraps a single reusable libswresample context that converts a
// decoded audio frame, in whatever format/layout/rate the source stream
// uses, to mono 32-bit float PCM at TargetSampleRate. Unlike the recorder's
// resampler in the AAC re-encode path (which pins the destination frame's
// nb_samples to the encoder's fixed frame size before converting), this one
// leaves the destination frame's sample count unset: libswresample sizes
// and allocates the output buffer itself from the conversion ratio.
type Resampler struct {
	swr *astiav.SoftwareResampleContext
	dst *astiav.Frame
}

// NewResampler returns an unconfigured Resampler; it is lazily initialized
// on the first call to Convert.
func NewResampler() *Resampler {
	return &Resampler{}
}

// Close releases the underlying FFmpeg resources. Safe to call on a
// Resampler that was never used.
func (r *Resampler) Close() {
	if r.dst != nil {
		r.dst.Free()
		r.dst = nil
	}
	if r.swr != nil {
		r.swr.Free()
		r.swr = nil
	}
}

func (r *Resampler) ensure() error {
	if r.swr != nil {
		return nil
	}
	swr := astiav.AllocSoftwareResampleContext()
	if swr == nil {
		return fmt.Errorf("%w: AllocSoftwareResampleContext", ErrAudioFrameLength)
	}
	r.swr = swr
	r.dst = astiav.AllocFrame()
	return nil
}

// Convert resamples a decoded audio frame to mono float32 PCM at
// TargetSampleRate. ts is the frame's presentation timestamp in seconds.
func (r *Resampler) Convert(src *astiav.Frame, ts float64) (AudioFrame, error) {
	if err := r.ensure(); err != nil {
		return AudioFrame{}, err
	}

	r.dst.Unref()
	r.dst.SetSampleFormat(astiav.SampleFormatFlt)
	r.dst.SetChannelLayout(astiav.ChannelLayoutMono)
	r.dst.SetSampleRate(TargetSampleRate)

	if err := r.swr.ConvertFrame(src, r.dst); err != nil {
		return AudioFrame{}, fmt.Errorf("%w: swr ConvertFrame: %v", ErrAudioFrameLength, err)
	}

	raw, err := r.dst.Data().Bytes(0)
	if err != nil {
		return AudioFrame{}, fmt.Errorf("%w: Data().Bytes(0): %v", ErrAudioFrameLength, err)
	}

	n := r.dst.NbSamples()
	need := n * 4
	if need > len(raw) {
		return AudioFrame{}, fmt.Errorf("%w: frame reports %d samples but buffer has only %d bytes", ErrAudioFrameLength, n, len(raw))
	}
	if len(raw)%4 != 0 {
		return AudioFrame{}, ErrAudioFrameLength
	}

	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		bits := uint32(raw[4*i]) | uint32(raw[4*i+1])<<8 | uint32(raw[4*i+2])<<16 | uint32(raw[4*i+3])<<24
		samples[i] = math.Float32frombits(bits)
	}

	return AudioFrame{Samples: samples, Timestamp: ts}, nil
}
