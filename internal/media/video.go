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

	astiav "github.com/asticode/go-astiav"

	"github.com/e1z0/mediagw/internal/resolution"
)

// Scaler wraps a single reusable libswscale context that both converts a
// decoded frame's native pixel format to packed RGB24 and resizes it to the
// session's negotiated target resolution in one pass. This generalizes the
// fixed-size BGRA scaler pattern to an arbitrary, policy-chosen destination
// size, recreating the underlying context whenever the source geometry,
// source format, or target size changes.
type Scaler struct {
	ssc        *astiav.SoftwareScaleContext
	dst        *astiav.Frame
	srcW, srcH int
	srcPix     astiav.PixelFormat
	dstW, dstH int
}

// NewScaler returns an unconfigured Scaler; it is lazily initialized on the
// first call to Convert.
func NewScaler() *Scaler {
	return &Scaler{}
}

// Close releases the underlying FFmpeg resources. Safe to call on a Scaler
// that was never used.
func (s *Scaler) Close() {
	if s.dst != nil {
		s.dst.Free()
		s.dst = nil
	}
	if s.ssc != nil {
		s.ssc.Free()
		s.ssc = nil
	}
}

func (s *Scaler) ensure(src *astiav.Frame, dstW, dstH int) error {
	sw, sh := src.Width(), src.Height()
	sp := src.PixelFormat()

	if s.ssc != nil && sw == s.srcW && sh == s.srcH && sp == s.srcPix &&
		dstW == s.dstW && dstH == s.dstH {
		return nil
	}

	s.Close()

	flags := astiav.NewSoftwareScaleContextFlags() // default (bilinear)
	ssc, err := astiav.CreateSoftwareScaleContext(
		sw, sh, sp,
		dstW, dstH, astiav.PixelFormatRgb24,
		flags,
	)
	if err != nil {
		return fmt.Errorf("%w: CreateSoftwareScaleContext(%dx%d %v -> %dx%d RGB24): %v", ErrImageConvert, sw, sh, sp, dstW, dstH, err)
	}

	dst := astiav.AllocFrame()
	dst.SetWidth(dstW)
	dst.SetHeight(dstH)
	dst.SetPixelFormat(astiav.PixelFormatRgb24)

	if err := dst.AllocBuffer(1); err != nil {
		dst.Free()
		ssc.Free()
		return fmt.Errorf("%w: dst.AllocBuffer: %v", ErrImageConvert, err)
	}

	s.ssc = ssc
	s.dst = dst
	s.srcW, s.srcH, s.srcPix = sw, sh, sp
	s.dstW, s.dstH = dstW, dstH
	return nil
}

// Convert scales and format-converts a decoded video frame to the
// resolution hint's target dimensions, returning a normalized VideoFrame.
// ts is the frame's presentation timestamp in seconds.
func (s *Scaler) Convert(src *astiav.Frame, hint resolution.Hint, ts float64) (VideoFrame, error) {
	dstW, dstH := hint.Target(uint32(src.Width()), uint32(src.Height()))

	if err := s.ensure(src, int(dstW), int(dstH)); err != nil {
		return VideoFrame{}, err
	}

	if err := s.ssc.ScaleFrame(src, s.dst); err != nil {
		return VideoFrame{}, fmt.Errorf("%w: ScaleFrame: %v", ErrImageConvert, err)
	}

	n, err := s.dst.ImageBufferSize(1)
	if err != nil {
		return VideoFrame{}, fmt.Errorf("%w: ImageBufferSize: %v", ErrImageConvert, err)
	}
	out := make([]byte, n)
	if _, err := s.dst.ImageCopyToBuffer(out, 1); err != nil {
		return VideoFrame{}, fmt.Errorf("%w: ImageCopyToBuffer: %v", ErrImageConvert, err)
	}

	want := int(dstW) * int(dstH) * 3
	if len(out) < want {
		return VideoFrame{}, fmt.Errorf("%w: scaled buffer is %d bytes, want at least %d", ErrImageConvert, len(out), want)
	}

	return VideoFrame{
		Width:     int(dstW),
		Height:    int(dstH),
		Pixels:    out[:want],
		Timestamp: ts,
	}, nil
}
