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

// Package pipeline is the per-session orchestrator: it resolves a URL,
// opens the decoder, and runs a blocking decode/encode worker thread
// feeding a bounded queue that an asynchronous egress task drains toward
// the client, rather than decoding straight into a buffer for a UI to
// poll.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/e1z0/mediagw/internal/buildinfo"
	"github.com/e1z0/mediagw/internal/decode"
	"github.com/e1z0/mediagw/internal/dfpwm"
	"github.com/e1z0/mediagw/internal/gwlog"
	"github.com/e1z0/mediagw/internal/palette"
	"github.com/e1z0/mediagw/internal/resolution"
	"github.com/e1z0/mediagw/internal/wire"
)

// queueCapacity is the bounded queue's size: at most this many in-flight
// wire messages may exist between the worker and the egress task before
// the worker blocks.
const queueCapacity = 5

// paletteSize is the number of colors a video frame's palette is
// quantized to.
const paletteSize = 16

// clientPixelAspect is the display's pixel aspect ratio used when fitting
// a source frame to the client's requested box.
const clientPixelAspect = 2.0 / 3.0

// Resolver turns a user-supplied URL into one or more directly playable
// media URLs; internal/ytdl implements it for production use.
type Resolver interface {
	Resolve(ctx context.Context, url string) ([]string, error)
}

// Sink is the egress task's client channel: one WebSocket connection (or
// a test double). Send delivers one already-serialized text frame; Close
// ends the connection with a human-readable reason.
type Sink interface {
	Send(data []byte) error
	Close(reason string)
}

// Start resolves url, opens its decoder, and runs the session to
// completion: a locked-OS-thread decode/encode worker feeding a bounded
// queue, and an egress goroutine draining it into sink. It blocks until
// the session ends (end-of-stream, a fatal decode error, or the sink
// failing) and returns the reason, if any, that ended it abnormally.
func Start(ctx context.Context, resolver Resolver, rawURL string, width, height int, sink Sink) error {
	candidates, err := resolver.Resolve(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", rawURL, err)
	}
	if len(candidates) == 0 {
		return fmt.Errorf("resolve %q: no candidates", rawURL)
	}

	dec, err := decode.Open(candidates[0], decode.Both, map[string]string{
		"fflags":             "+nobuffer+discardcorrupt+genpts",
		"flags":              "+low_delay",
		"reorder_queue_size": "0",
		"use_wallclock_as_timestamps": "1",
	})
	if err != nil {
		return fmt.Errorf("open %q: %w", candidates[0], err)
	}
	defer dec.Close()

	hint := resolution.Fit(uint32(width), uint32(height), clientPixelAspect)
	iter := decode.NewIter(dec, hint)
	defer iter.Close()

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan wire.Message, queueCapacity)
	workerDone := make(chan error, 1)

	go runWorker(sessionCtx, iter, queue, workerDone)

	closeReason := runEgress(sessionCtx, cancel, queue, sink)

	workerErr := <-workerDone
	if workerErr != nil && !errors.Is(workerErr, context.Canceled) {
		gwlog.Errorf("session worker: %v", workerErr)
		return workerErr
	}
	_ = closeReason
	return nil
}

// runWorker is the dedicated-OS-thread decode/encode worker. It owns the
// decode iterator and the session's DFPWM encoder exclusively and
// blocking-sends each produced message to queue.
func runWorker(ctx context.Context, iter *decode.Iter, queue chan<- wire.Message, done chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(queue)

	enc := dfpwm.NewEncoder()
	var encodeBuf []byte

	for {
		select {
		case <-ctx.Done():
			done <- nil
			return
		default:
		}

		vf, af, err := iter.Next()
		if err != nil {
			if isEndOfStream(err) {
				done <- nil
				return
			}
			done <- fmt.Errorf("decode: %w", err)
			return
		}

		var msg wire.Message
		switch {
		case vf != nil:
			p := palette.New(paletteSize, vf.Width, vf.Height, vf.Pixels)
			rows := p.IndexRowsHex(vf.Width, vf.Height, vf.Pixels)
			msg = wire.NewVideoMessage(p, rows)
		case af != nil:
			encodeBuf = enc.Encode(encodeBuf[:0], af.Samples)
			encoded := make([]byte, len(encodeBuf))
			copy(encoded, encodeBuf)
			msg = wire.NewAudioMessage(encoded)
		default:
			continue
		}

		select {
		case queue <- msg:
		case <-ctx.Done():
			done <- nil
			return
		}
	}
}

// runEgress is the asynchronous egress task: it drains the queue,
// serializes each message, and writes it to the client channel. On any
// send failure it treats this as end-of-session, cancels it, and closes
// the sink.
func runEgress(ctx context.Context, cancel context.CancelFunc, queue <-chan wire.Message, sink Sink) string {
	reason := "normal"
	for {
		select {
		case msg, ok := <-queue:
			if !ok {
				sink.Close(reason)
				return reason
			}
			out, err := wire.Encode(msg, buildinfo.Debug)
			if err != nil {
				// Serialization failure is a programmer error.
				panic(fmt.Sprintf("pipeline: wire.Encode: %v", err))
			}
			if err := sink.Send(out); err != nil {
				reason = "client channel closed"
				cancel()
				sink.Close(reason)
				return reason
			}
		case <-ctx.Done():
			sink.Close(reason)
			return reason
		}
	}
}

func isEndOfStream(err error) bool {
	return errors.Is(err, io.EOF)
}
