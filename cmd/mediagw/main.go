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
package main

/*
This is the main unit of the gateway: a single flag, --port, binding the
WebSocket ingress endpoint on [::]:<port>.
*/

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/e1z0/mediagw/internal/gwlog"
	"github.com/e1z0/mediagw/internal/wsgateway"
)

var app = "mediagw"

func main() {
	port := flag.Uint("port", 8080, "port to bind the WebSocket ingress endpoint on")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	gwlog.InstallFFmpegBridge()

	gwlog.Infof("starting %s on [::]:%d", app, *port)

	mux := http.NewServeMux()
	mux.Handle("/", wsgateway.NewYtDlpHandler())

	addr := fmt.Sprintf("[::]:%d", *port)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("%s: %v", app, err)
	}
}
