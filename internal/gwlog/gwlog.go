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

// Package gwlog is a thin level filter in front of the standard library's
// log package, matching the bare log.Printf style the rest of this repo
// was built from rather than introducing a structured logging dependency
// none of the retrieved examples for this spec carry (see DESIGN.md).
package gwlog

import (
	"log"
	"os"
	"strings"

	astiav "github.com/asticode/go-astiav"

	"github.com/e1z0/mediagw/internal/buildinfo"
)

// Level is a log verbosity threshold.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func parseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, true
	case "INFO":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	default:
		return 0, false
	}
}

var current = defaultLevel()

// defaultLevel reads MEDIAGW_LOG, falling back to DEBUG when built with
// -tags debug and INFO otherwise.
func defaultLevel() Level {
	if v, ok := parseLevel(os.Getenv("MEDIAGW_LOG")); ok {
		return v
	}
	if buildinfo.Debug {
		return LevelDebug
	}
	return LevelInfo
}

// SetLevel overrides the active log level; mainly useful for tests.
func SetLevel(l Level) { current = l }

func logf(l Level, prefix, format string, args ...any) {
	if l < current {
		return
	}
	log.Printf(prefix+" "+format, args...)
}

func Debugf(format string, args ...any) { logf(LevelDebug, "[debug]", format, args...) }
func Infof(format string, args ...any)  { logf(LevelInfo, "[info]", format, args...) }
func Warnf(format string, args ...any)  { logf(LevelWarn, "[warn]", format, args...) }
func Errorf(format string, args ...any) { logf(LevelError, "[error]", format, args...) }

// InstallFFmpegBridge routes libav's internal diagnostic log lines through
// this package instead of FFmpeg's own stderr writer, so a session's
// FFmpeg chatter shows up on the same log stream and under the same
// MEDIAGW_LOG gate as everything else.
func InstallFFmpegBridge() {
	astiav.SetLogLevel(astiav.LogLevelInfo)
	astiav.SetLogCallback(func(c astiav.Classer, level astiav.LogLevel, msg, parent string) {
		line := strings.TrimRight(msg, "\n")
		if line == "" {
			return
		}
		switch {
		case level <= astiav.LogLevelError:
			Errorf("ffmpeg: %s", line)
		case level <= astiav.LogLevelWarning:
			Warnf("ffmpeg: %s", line)
		default:
			Debugf("ffmpeg: %s", line)
		}
	})
}
