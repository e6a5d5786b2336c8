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

// Package wire defines the two outgoing WebSocket message shapes (video and
// audio) and the JSON encoding used to serialize them.
package wire

import (
	"bytes"
	"encoding/json"

	"github.com/e1z0/mediagw/internal/palette"
)

// Message is implemented by VideoMessage and AudioMessage; it exists only
// so the egress serializer can accept either without a type switch at
// every call site.
type Message interface {
	isMessage()
}

// VideoMessage is one decoded, quantized, dithered video frame: its
// palette (as [r,g,b] triples) and one hex-digit row per pixel row.
type VideoMessage struct {
	Palette [][3]uint8 `json:"palette"`
	Rows    []string   `json:"rows"`
}

func (VideoMessage) isMessage() {}

// NewVideoMessage builds a VideoMessage from a quantized palette and its
// hex-encoded index rows.
func NewVideoMessage(p *palette.Palette, rows []string) VideoMessage {
	entries := p.Entries()
	pal := make([][3]uint8, len(entries))
	for i, e := range entries {
		pal[i] = [3]uint8{e.R, e.G, e.B}
	}
	return VideoMessage{Palette: pal, Rows: rows}
}

// AudioMessage is one DFPWM1a-encoded audio chunk: the packed bit stream,
// one JSON number per byte.
type AudioMessage struct {
	Samples []byte `json:"samples"`
}

func (AudioMessage) isMessage() {}

// NewAudioMessage wraps already-encoded DFPWM bytes for serialization.
func NewAudioMessage(encoded []byte) AudioMessage {
	return AudioMessage{Samples: encoded}
}

// Encode serializes a Message to JSON text. pretty enables indentation,
// meant for debug builds only. AudioMessage.Samples is a []byte, which
// encoding/json would otherwise base64-encode; the wire format instead
// wants one JSON number per byte, so Encode marshals through an explicit
// []int view for audio messages rather than relying on json.Marshal's
// default []byte handling.
func Encode(msg Message, pretty bool) ([]byte, error) {
	var v any = msg
	if am, ok := msg.(AudioMessage); ok {
		samples := make([]int, len(am.Samples))
		for i, b := range am.Samples {
			samples[i] = int(b)
		}
		v = struct {
			Samples []int `json:"samples"`
		}{Samples: samples}
	}

	if !pretty {
		return json.Marshal(v)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	out := buf.Bytes()
	return bytes.TrimRight(out, "\n"), nil
}
