// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package flash carries status messages across a redirect in a cookie.
package flash

import (
	"fmt"
	"net/http"

	"github.com/akamensky/base58"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultCookieName is used when no cookie name is configured.
const DefaultCookieName = "mla_flash"

// maxMessages bounds the cookie size.
const maxMessages = 10

// Message types
const (
	TypeStatus  = "status"
	TypeWarning = "warning"
	TypeError   = "error"
)

// Message is a single status message shown once on the next page.
type Message struct {
	Type string `msgpack:"t"`
	Text string `msgpack:"m"`
}

// Encode packs messages into a cookie-safe string.
func Encode(messages []Message) (string, error) {
	if len(messages) > maxMessages {
		messages = messages[len(messages)-maxMessages:]
	}
	data, err := msgpack.Marshal(messages)
	if err != nil {
		return "", fmt.Errorf("failed to encode flash messages: %w", err)
	}
	return base58.Encode(data), nil
}

// Decode unpacks a value produced by Encode.
func Decode(value string) ([]Message, error) {
	if value == "" {
		return nil, nil
	}
	data, err := base58.Decode(value)
	if err != nil {
		return nil, fmt.Errorf("failed to decode flash cookie: %w", err)
	}
	var messages []Message
	if err := msgpack.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode flash messages: %w", err)
	}
	return messages, nil
}

// Store reads and writes flash messages with a named cookie.
type Store struct {
	CookieName string
	Secure     bool
}

// NewStore returns a store using name, or DefaultCookieName when empty.
func NewStore(name string, secure bool) *Store {
	if name == "" {
		name = DefaultCookieName
	}
	return &Store{CookieName: name, Secure: secure}
}

// Add appends messages to any already pending on the request and writes the cookie.
func (s *Store) Add(w http.ResponseWriter, r *http.Request, messages ...Message) error {
	pending := s.peek(r)
	value, err := Encode(append(pending, messages...))
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Pop returns pending messages and expires the cookie.
// A corrupt cookie is discarded.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) []Message {
	cookie, err := r.Cookie(s.CookieName)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	messages, err := Decode(cookie.Value)
	if err != nil {
		return nil
	}
	return messages
}

func (s *Store) peek(r *http.Request) []Message {
	cookie, err := r.Cookie(s.CookieName)
	if err != nil {
		return nil
	}
	messages, err := Decode(cookie.Value)
	if err != nil {
		return nil
	}
	return messages
}
