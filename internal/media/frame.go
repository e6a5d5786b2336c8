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

// Package media holds the two normalized frame types the decode pipeline
// produces — an 8-bit sRGB video frame and a float mono PCM audio frame —
// and the FFmpeg-backed converters that build them from decoded packets.
package media

import "errors"

// ErrImageConvert is returned when a decoded video frame could not be
// converted/scaled to the target resolution, or the converter produced a
// buffer of unexpected size.
var ErrImageConvert = errors.New("media: image conversion failed")

// ErrAudioFrameLength is returned when a resampled audio buffer's byte
// length is not a multiple of 4 (not a whole number of float32 samples) or
// is shorter than the frame's sample count needs. The Resampler also wraps
// it around its other failures (context allocation, conversion, reading
// the output buffer).
var ErrAudioFrameLength = errors.New("media: audio frame length not a multiple of 4 bytes")

// VideoFrame is an 8-bit sRGB image of width W and height H, tightly packed
// as W*H RGB triples, plus its presentation timestamp in seconds.
//
// Invariants: len(Pixels) == 3*Width*Height; Width*Height > 0; Timestamp is
// monotonically non-decreasing within a session's stream of video frames.
type VideoFrame struct {
	Width, Height int
	Pixels        []byte // packed RGB24, row-major
	Timestamp     float64
}

// AudioFrame is a sequence of 32-bit float mono PCM samples at a fixed
// session rate, plus its presentation timestamp in seconds. Samples are
// nominally in [-1.0, 1.0]; out-of-range values are permitted and are
// clamped by downstream encoding.
type AudioFrame struct {
	Samples   []float32
	Timestamp float64
}
