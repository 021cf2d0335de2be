// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

var natsSchemes = []string{"nats", "tls", "ws", "wss"}

// validateNATSURL accepts one server URL or a comma-separated list, the
// form the NATS client takes for a cluster seed list.
func validateNATSURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("at least one server URL is required")
	}
	for _, server := range strings.Split(raw, ",") {
		server = strings.TrimSpace(server)
		u, err := url.Parse(server)
		if err != nil {
			return fmt.Errorf("parse %q: %w", server, err)
		}
		if !isNATSScheme(u.Scheme) {
			return fmt.Errorf("%q: scheme must be one of %s", server, strings.Join(natsSchemes, ", "))
		}
		if u.Host == "" {
			return fmt.Errorf("%q: missing host (e.g. nats://localhost:4222)", server)
		}
		if port := u.Port(); port != "" {
			if err := checkPort(port); err != nil {
				return fmt.Errorf("%q: %w", server, err)
			}
		}
	}
	return nil
}

func isNATSScheme(s string) bool {
	for _, scheme := range natsSchemes {
		if s == scheme {
			return true
		}
	}
	return false
}

// validateRedisAddr checks a host:port redis address.
func validateRedisAddr(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("expected host:port, got %q: %w", addr, err)
	}
	if host == "" {
		return fmt.Errorf("%q: missing host (e.g. localhost:6379)", addr)
	}
	return checkPort(port)
}

func checkPort(port string) error {
	p, err := strconv.Atoi(port)
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("port must be 1-65535, got %q", port)
	}
	return nil
}
