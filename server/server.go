// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package server exposes the check engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/probechain/go-pico/config"
	"github.com/probechain/go-pico/frontend"
	"github.com/probechain/go-pico/lang/ast"
)

// Version is reported by GET /version.
const Version = "0.1.0"

const maxRequestSize = 1 << 20

// CheckRequest is the body of POST /check and POST /format, and the message
// type of the /live websocket.
type CheckRequest struct {
	File   string `json:"file"`
	Source string `json:"source"`
}

// Diagnostic is the wire form of a parser diagnostic.
type Diagnostic struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Offset  int    `json:"offset"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CheckResult is the response of POST /check.
type CheckResult struct {
	Run         string       `json:"run"`
	Digest      string       `json:"digest"`
	Success     bool         `json:"success"`
	Cached      bool         `json:"cached"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Error       string       `json:"error,omitempty"`
}

// FormatResult is the response of POST /format.
type FormatResult struct {
	Source string `json:"source"`
	Error  string `json:"error,omitempty"`
}

type errorResult struct {
	Error string `json:"error"`
}

// Server serves check requests from a shared engine.
type Server struct {
	engine  *frontend.Engine
	cfg     config.HTTPConfig
	handler http.Handler
}

// New wires the routes and the CORS policy.
func New(engine *frontend.Engine, cfg config.HTTPConfig) *Server {
	s := &Server{engine: engine, cfg: cfg}

	router := httprouter.New()
	router.POST("/check", s.handleCheck)
	router.POST("/format", s.handleFormat)
	router.GET("/version", s.handleVersion)
	router.GET("/live", s.handleLive)

	var handler http.Handler = router
	if cfg.RateLimit > 0 {
		handler = limit(handler, rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst))
	}
	s.handler = cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(handler)
	return s
}

// limit rejects requests beyond the limiter's rate.
func limit(next http.Handler, limiter *rate.Limiter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, errorResult{Error: "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on the configured address until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is cancelled or serving fails.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{
		Handler:      s,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("HTTP server started", "endpoint", listener.Addr(), "cors", s.cfg.CORSOrigins, "run", s.engine.RunID())
	err := srv.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		log.Info("HTTP server stopped", "endpoint", listener.Addr())
		return nil
	}
	return err
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	out := s.check(req)
	log.Debug("Served check", "file", req.File, "diags", len(out.Diagnostics), "cached", out.Cached)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) check(req *CheckRequest) *CheckResult {
	res := s.engine.Diagnose(req.File, []byte(req.Source))

	out := &CheckResult{
		Run:         s.engine.RunID(),
		Digest:      res.Digest.String(),
		Success:     res.OK(),
		Cached:      res.Cached,
		Diagnostics: make([]Diagnostic, 0, len(res.Diagnostics)),
	}
	for _, d := range res.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, Diagnostic{
			Line:    d.Pos.Line,
			Column:  d.Pos.Column,
			Offset:  d.Pos.Offset,
			Code:    d.Code.String(),
			Message: d.Message,
		})
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	return out
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	res := s.engine.Check(req.File, []byte(req.Source))
	if res.Err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, FormatResult{Error: res.Err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, FormatResult{Source: ast.Format(res.Program)})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"version": Version, "run": s.engine.RunID()})
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (*CheckRequest, bool) {
	var req CheckRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestSize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResult{Error: "invalid request: " + err.Error()})
		return nil, false
	}
	return &req, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("Failed to write response", "err", err)
	}
}
