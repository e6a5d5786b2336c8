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

// Package resolution maps a source frame's dimensions to the dimensions a
// client display should receive, under one of three policies.
package resolution

import "math"

// Axis selects which dimension a FixedAspect hint pins.
type Axis int

const (
	AxisWidth Axis = iota
	AxisHeight
)

// Hint is a tagged union of the three resolution policies this package
// implements. Exactly one of the constructor functions below should be
// used to build one; the zero value is FixedAspect{AxisWidth, 0}, which is
// not a useful hint on its own.
type Hint struct {
	kind        hintKind
	axis        Axis
	size        uint32
	width       uint32
	height      uint32
	pixelAspect float64
}

type hintKind int

const (
	kindFixedAspect hintKind = iota
	kindFixedResolution
	kindFit
)

// FixedAspect preserves the source aspect ratio while pinning one axis to size.
func FixedAspect(axis Axis, size uint32) Hint {
	return Hint{kind: kindFixedAspect, axis: axis, size: size}
}

// FixedResolution forces the target dimensions regardless of source aspect.
func FixedResolution(width, height uint32) Hint {
	return Hint{kind: kindFixedResolution, width: width, height: height}
}

// Fit fits the source inside width×height while correcting for a non-square
// pixel aspect ratio.
func Fit(width, height uint32, pixelAspect float64) Hint {
	return Hint{kind: kindFit, width: width, height: height, pixelAspect: pixelAspect}
}

// Target applies the hint to a source resolution and returns (width, height).
//
// The Fit case computes the largest (w, h) with w ≤ width, h ≤ height, and
// w/h = aspect·pixelAspect, derived from the *target* box dimensions
// rather than the source ones.
func (h Hint) Target(originalWidth, originalHeight uint32) (uint32, uint32) {
	aspect := float64(originalWidth) / float64(originalHeight)

	switch h.kind {
	case kindFixedAspect:
		switch h.axis {
		case AxisWidth:
			return h.size, uint32(math.Round(float64(h.size) / aspect))
		default: // AxisHeight
			return uint32(math.Round(float64(h.size) * aspect)), h.size
		}

	case kindFixedResolution:
		return h.width, h.height

	case kindFit:
		targetAspect := float64(h.width) / float64(h.height)
		wantedAspect := aspect * h.pixelAspect

		if wantedAspect > targetAspect {
			// width-constrained: full width, derive height
			w := h.width
			hh := uint32(math.Round(float64(h.width) / wantedAspect))
			return w, hh
		}
		// height-constrained: full height, derive width
		hh := h.height
		w := uint32(math.Round(float64(h.height) * wantedAspect))
		return w, hh
	}

	panic("resolution: unknown hint kind")
}
