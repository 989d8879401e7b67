// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package config holds the settings shared by the picoc tools.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"time"
	"unicode"

	"github.com/ethereum/go-ethereum/log"
	"github.com/naoina/toml"
)

// CacheConfig configures the check result caches.
type CacheConfig struct {
	Entries int    // in-memory LRU size, 0 disables the cache
	Dir     string // leveldb directory for persisted diagnostics, empty disables it
}

// HTTPConfig configures the check endpoint.
type HTTPConfig struct {
	Addr        string
	CORSOrigins []string
	RateLimit   int // requests per second, 0 means unlimited
	RateBurst   int
}

// WatchConfig configures the file watcher.
type WatchConfig struct {
	Debounce time.Duration
}

// Config is the top-level picoc configuration.
type Config struct {
	Verbosity int // log level, 0 (silent) to 5 (trace)
	Color     bool
	Cache     CacheConfig
	HTTP      HTTPConfig
	Watch     WatchConfig
}

// Defaults contains the settings used when no file is given.
var Defaults = Config{
	Verbosity: 3,
	Color:     true,
	Cache: CacheConfig{
		Entries: 256,
	},
	HTTP: HTTPConfig{
		Addr:        "127.0.0.1:8645",
		CORSOrigins: []string{"*"},
		RateLimit:   50,
		RateBurst:   100,
	},
	Watch: WatchConfig{
		Debounce: 200 * time.Millisecond,
	},
}

// ErrVerbosity is returned for a verbosity outside 0..5.
var ErrVerbosity = errors.New("verbosity out of range")

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// Load reads a TOML file on top of the defaults.
func Load(file string) (Config, error) {
	cfg := Defaults
	f, err := os.Open(file)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	if err := Decode(bufio.NewReader(f), &cfg); err != nil {
		// Add file name to errors that have a line number.
		if _, ok := err.(*toml.LineError); ok {
			err = errors.New(file + ", " + err.Error())
		}
		return cfg, err
	}
	log.Debug("Loaded configuration", "file", file)
	return cfg, nil
}

// Decode reads TOML from r into cfg. Fields absent from the input keep
// their current value.
func Decode(r io.Reader, cfg *Config) error {
	if err := tomlSettings.NewDecoder(r).Decode(cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Verbosity < 0 || c.Verbosity > 5 {
		return fmt.Errorf("%w: %d", ErrVerbosity, c.Verbosity)
	}
	if c.HTTP.RateLimit < 0 || c.HTTP.RateBurst < 0 {
		return fmt.Errorf("negative rate limit %d/%d", c.HTTP.RateLimit, c.HTTP.RateBurst)
	}
	if c.Cache.Entries < 0 {
		return fmt.Errorf("negative cache size %d", c.Cache.Entries)
	}
	return nil
}

// Dump renders cfg as TOML.
func Dump(cfg *Config) ([]byte, error) {
	return tomlSettings.Marshal(cfg)
}
