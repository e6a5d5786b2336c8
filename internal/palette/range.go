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

package palette

// channel identifies which of R/G/B a bucket should split on.
type channel int

const (
	channelR channel = iota
	channelG
	channelB
)

// greatestRange is the per-bucket extent record used to pick the next
// bucket to split during median-cut.
type greatestRange struct {
	span    uint8
	channel channel
}

// extentsFromSlice scans pixels and returns the channel with the widest
// min/max extent. An empty slice returns the zero value (span 0, channelR).
func extentsFromSlice(pixels []rgb) greatestRange {
	if len(pixels) == 0 {
		return greatestRange{}
	}

	first := pixels[0]
	rMin, rMax := first.r, first.r
	gMin, gMax := first.g, first.g
	bMin, bMax := first.b, first.b

	for _, p := range pixels[1:] {
		if p.r < rMin {
			rMin = p.r
		}
		if p.r > rMax {
			rMax = p.r
		}
		if p.g < gMin {
			gMin = p.g
		}
		if p.g > gMax {
			gMax = p.g
		}
		if p.b < bMin {
			bMin = p.b
		}
		if p.b > bMax {
			bMax = p.b
		}
	}

	rRange := rMax - rMin
	gRange := gMax - gMin
	bRange := bMax - bMin

	switch {
	case rRange >= gRange && rRange >= bRange:
		return greatestRange{span: rRange, channel: channelR}
	case gRange >= bRange:
		return greatestRange{span: gRange, channel: channelG}
	default:
		return greatestRange{span: bRange, channel: channelB}
	}
}
