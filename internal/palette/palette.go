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

// Package palette builds a 16-color (or arbitrary K) palette from an RGB
// image via median-cut, then maps every pixel to its nearest palette entry
// in Oklab space with 4×4 Bayer ordered dithering.
package palette

// Entry is one palette color, in the wire order emitted to the client.
type Entry struct {
	R, G, B uint8
}

// Palette is an ordered list of up to K representative colors. Index order
// is significant: it is the index each pixel maps to on the wire.
type Palette struct {
	entries []Entry
	oklab   []oklab
	index   *nearestIndex
}

// New builds a palette of at most size colors from a packed RGB24 image
// (len(pixels) == 3*width*height) using median-cut.
//
// If the image has fewer than size pixels, New returns one entry per pixel
// — median-cut stops once no bucket has more than one pixel left to split.
// Colors are not deduplicated: an image with at least size pixels but fewer
// distinct colors still yields size entries, some of them repeated.
func New(size int, width, height int, pixels []byte) *Palette {
	n := width * height
	buf := make([]rgb, n)
	for i := 0; i < n; i++ {
		buf[i] = rgb{r: pixels[3*i], g: pixels[3*i+1], b: pixels[3*i+2]}
	}

	buckets := []pixelBucket{newBucket(0, len(buf), buf)}

	for len(buckets) < size {
		// A bucket with 0 or 1 pixels can't be split further, so only
		// buckets with at least 2 pixels compete; once none is left, stop.
		biggest := -1
		for i := range buckets {
			if buckets[i].end-buckets[i].start <= 1 {
				continue
			}
			if biggest < 0 || buckets[i].maxRange(buf).span > buckets[biggest].maxRange(buf).span {
				biggest = i
			}
		}
		if biggest < 0 {
			break
		}

		b := buckets[biggest]
		b.sortByGreatestRange(buf)
		left, right := b.splitAtMedian()

		buckets = append(buckets[:biggest], buckets[biggest+1:]...)
		buckets = append(buckets, left, right)
	}

	entries := make([]Entry, len(buckets))
	oks := make([]oklab, len(buckets))
	for i, b := range buckets {
		c := b.averageColor(buf)
		entries[i] = Entry{R: c.r, G: c.g, B: c.b}
		oks[i] = toOklab(c)
	}

	return &Palette{entries: entries, oklab: oks, index: newNearestIndex(oks)}
}

// Entries returns the palette colors in wire order.
func (p *Palette) Entries() []Entry {
	return p.entries
}

// Len reports the number of palette entries (≤ the requested size).
func (p *Palette) Len() int {
	return len(p.entries)
}

// IndexImage maps every pixel of a packed RGB24 image to its nearest
// palette index in Oklab space, applying 4×4 Bayer ordered dithering.
// The result has one byte per pixel, row-major.
func (p *Palette) IndexImage(width, height int, pixels []byte) []byte {
	out := make([]byte, width*height)
	k := float32(len(p.oklab))

	for y := 0; y < height; y++ {
		row := bayer4x4[y%4]
		for x := 0; x < width; x++ {
			i := y*width + x
			px := rgb{r: pixels[3*i], g: pixels[3*i+1], b: pixels[3*i+2]}
			ok := toOklab(px)

			delta := row[x%4] / k
			target := oklab{l: ok.l + delta, a: ok.a + delta, b: ok.b + delta}

			out[i] = byte(p.index.nearest(target))
		}
	}

	return out
}

// hexDigits are the lowercase wire characters an index 0..15 maps to.
const hexDigits = "0123456789abcdef"

// IndexRowsHex maps every pixel to its palette index and formats each row
// as a string of lowercase hex digits, one per pixel, for the video wire
// message's rows field. Indices must be < 16.
func (p *Palette) IndexRowsHex(width, height int, pixels []byte) []string {
	indices := p.IndexImage(width, height, pixels)
	rows := make([]string, height)
	buf := make([]byte, width)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			buf[x] = hexDigits[indices[y*width+x]]
		}
		rows[y] = string(buf)
	}
	return rows
}
