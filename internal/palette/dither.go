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

// bayer4x4 is the canonical 4×4 ordered-dither threshold map, pre-divided
// into the [-0.5, 0.5) offset form: entry (i/16) - 0.5.
var bayer4x4 = [4][4]float32{
	{0.0/16 - 0.5, 12.0/16 - 0.5, 3.0/16 - 0.5, 15.0/16 - 0.5},
	{8.0/16 - 0.5, 4.0/16 - 0.5, 11.0/16 - 0.5, 7.0/16 - 0.5},
	{2.0/16 - 0.5, 14.0/16 - 0.5, 1.0/16 - 0.5, 13.0/16 - 0.5},
	{10.0/16 - 0.5, 6.0/16 - 0.5, 9.0/16 - 0.5, 5.0/16 - 0.5},
}

// nearestIndex is a brute-force nearest-neighbor search over Oklab palette
// points. With at most 16 candidates per pixel query, a linear scan costs
// less than building and querying a tree.
type nearestIndex struct {
	points []oklab
}

func newNearestIndex(points []oklab) *nearestIndex {
	return &nearestIndex{points: points}
}

func (n *nearestIndex) nearest(target oklab) int {
	best := 0
	bestDist := distanceSquared(target, n.points[0])
	for i := 1; i < len(n.points); i++ {
		d := distanceSquared(target, n.points[i])
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
