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

import "sort"

// rgb is a plain byte triple; kept distinct from image/color so the
// median-cut machinery has no dependency on the standard image package.
type rgb struct {
	r, g, b uint8
}

// pixelBucket is a half-open index range [start, end) into a shared,
// reorderable pixel slice, plus a lazily computed greatest-range record.
type pixelBucket struct {
	start, end int
	hasRange   bool
	rangeVal   greatestRange
}

func newBucket(start, end int, pixels []rgb) pixelBucket {
	return pixelBucket{
		start:    start,
		end:      end,
		hasRange: true,
		rangeVal: extentsFromSlice(pixels[start:end]),
	}
}

// maxRange returns (and caches) the bucket's greatest-range record.
func (b *pixelBucket) maxRange(pixels []rgb) greatestRange {
	if !b.hasRange {
		b.rangeVal = extentsFromSlice(pixels[b.start:b.end])
		b.hasRange = true
	}
	return b.rangeVal
}

// sortByGreatestRange sorts this bucket's slice of pixels ascending by its
// widest channel. The sort need not be stable.
func (b *pixelBucket) sortByGreatestRange(pixels []rgb) {
	slice := pixels[b.start:b.end]
	switch b.maxRange(pixels).channel {
	case channelR:
		sort.Slice(slice, func(i, j int) bool { return slice[i].r < slice[j].r })
	case channelG:
		sort.Slice(slice, func(i, j int) bool { return slice[i].g < slice[j].g })
	default:
		sort.Slice(slice, func(i, j int) bool { return slice[i].b < slice[j].b })
	}
}

// splitAtMedian splits the bucket at its floor-midpoint into two children
// with invalidated (uncached) ranges.
func (b pixelBucket) splitAtMedian() (left, right pixelBucket) {
	mid := b.start + (b.end-b.start)/2
	left = pixelBucket{start: b.start, end: mid}
	right = pixelBucket{start: mid, end: b.end}
	return left, right
}

// averageColor reduces this bucket's pixels to one representative color by
// folding blend across the slice, seeded on the first pixel. Each fold step
// just replaces the running value with the next pixel, so the result is the
// bucket's last pixel — not an arithmetic mean.
func (b pixelBucket) averageColor(pixels []rgb) rgb {
	slice := pixels[b.start:b.end]
	if len(slice) == 0 {
		return rgb{}
	}
	avg := slice[0]
	for _, p := range slice[1:] {
		avg = blend(avg, p)
	}
	return avg
}

// blend is an alpha-less RGB blend: with no alpha channel to weight by,
// blending one opaque color over another simply replaces it, the way
// compositing a fully opaque source over a fully opaque destination always
// yields the source untouched.
func blend(_, b rgb) rgb {
	return b
}
