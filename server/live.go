// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package server

import (
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

const (
	liveWriteWait   = 10 * time.Second
	liveIdleTimeout = 5 * time.Minute
)

// handleLive upgrades to a websocket on which every CheckRequest message is
// answered with a CheckResult message. Editors use it to check on every
// keystroke without paying for a request per check.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.allowedOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug("Websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxRequestSize)

	log.Debug("Live session opened", "remote", r.RemoteAddr)
	for {
		conn.SetReadDeadline(time.Now().Add(liveIdleTimeout))
		var req CheckRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("Live session failed", "remote", r.RemoteAddr, "err", err)
			}
			return
		}
		conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
		if err := conn.WriteJSON(s.check(&req)); err != nil {
			log.Debug("Live session write failed", "remote", r.RemoteAddr, "err", err)
			return
		}
	}
}

// allowedOrigin applies the CORS origin list to websocket handshakes. A
// request without Origin header does not come from a browser.
func (s *Server) allowedOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.cfg.CORSOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
