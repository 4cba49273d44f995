// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

package envelope

import (
	"encoding/xml"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedPayload marks messages that cannot be decoded into a valid
// envelope. Consumers acknowledge and drop on this error; they never requeue.
var ErrMalformedPayload = errors.New("malformed payload")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Encode marshals an envelope into the agreed wire document: XML declaration,
// <attendify> root, indented elements. The envelope is validated first so a
// producer can never emit a document its consumers would drop.
func Encode(env *Envelope) ([]byte, error) {
	if err := checkEnvelope(env); err != nil {
		return nil, err
	}
	body, err := xml.MarshalIndent(env, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// Decode parses a wire document into an envelope. Any structural problem,
// including a missing header field or a body count other than one, is
// reported as ErrMalformedPayload.
func Decode(data []byte) (*Envelope, error) {
	env := &Envelope{}
	if err := xml.Unmarshal(data, env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if err := checkEnvelope(env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return env, nil
}

func checkEnvelope(env *Envelope) error {
	switch n := env.bodyCount(); n {
	case 1:
	case 0:
		return errors.New("envelope carries no body")
	default:
		return fmt.Errorf("envelope carries %d bodies, want 1", n)
	}
	if err := validate.Struct(env); err != nil {
		return err
	}
	return nil
}

// EncodeLog marshals a monitoring log document.
func EncodeLog(ev *LogEvent) ([]byte, error) {
	body, err := xml.MarshalIndent(ev, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal log event: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// EncodeMail marshals an activation-mail document.
func EncodeMail(m *Mail) ([]byte, error) {
	body, err := xml.MarshalIndent(m, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal mail: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Sanitize strips markup from a free-text leaf before it reaches the store.
// XML escaping on the outbound path is handled by the marshaller; this guards
// the inbound path against markup smuggled inside character data.
func Sanitize(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}

// AsInt converts a numeric wire leaf. Empty or unparsable values become zero.
func AsInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// AsFloat converts a decimal wire leaf. Empty or unparsable values become zero.
func AsFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
