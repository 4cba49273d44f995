// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

package consumer

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/attendify/syncbridge/internal/envelope"
	"github.com/attendify/syncbridge/internal/routing"
)

type fakeAck struct {
	acks    int
	nacks   int
	rejects int
}

func (f *fakeAck) Ack(_ uint64, _ bool) error          { f.acks++; return nil }
func (f *fakeAck) Nack(_ uint64, _ bool, _ bool) error { f.nacks++; return nil }
func (f *fakeAck) Reject(_ uint64, _ bool) error       { f.rejects++; return nil }

type recordingHandler struct {
	queue  string
	calls  []*envelope.Envelope
	result error
}

func (h *recordingHandler) Queue() string { return h.queue }

func (h *recordingHandler) Handle(_ context.Context, env *envelope.Envelope) error {
	h.calls = append(h.calls, env)
	return h.result
}

func mustEncode(t *testing.T, env *envelope.Envelope) []byte {
	t.Helper()
	doc, err := envelope.Encode(env)
	if err != nil {
		t.Fatalf("encode test envelope: %v", err)
	}
	return doc
}

func runProcess(t *testing.T, h Handler, body []byte) *fakeAck {
	t.Helper()
	ack := &fakeAck{}
	c := &Consumer{handler: h, policy: AckAlways}
	d := &amqp.Delivery{Acknowledger: ack, Body: body}
	if err := c.process(context.Background(), d); err != nil {
		t.Fatalf("process returned ack failure: %v", err)
	}
	return ack
}

func TestProcessAppliesAndAcks(t *testing.T) {
	h := &recordingHandler{queue: routing.QueueCompany}
	doc := mustEncode(t, &envelope.Envelope{
		Info:      envelope.Info{Sender: "crm", Operation: "create"},
		Companies: &envelope.Companies{Company: envelope.Company{UID: "c-1"}},
	})
	ack := runProcess(t, h, doc)
	if len(h.calls) != 1 {
		t.Fatalf("handler called %d times, want 1", len(h.calls))
	}
	if ack.acks != 1 || ack.nacks != 0 || ack.rejects != 0 {
		t.Errorf("disposition acks=%d nacks=%d rejects=%d, want single ack", ack.acks, ack.nacks, ack.rejects)
	}
}

func TestProcessDropsOwnSender(t *testing.T) {
	for _, sender := range []string{"frontend", "Frontend", "FRONTEND"} {
		h := &recordingHandler{queue: routing.QueueCompany}
		doc := mustEncode(t, &envelope.Envelope{
			Info:      envelope.Info{Sender: sender, Operation: "create"},
			Companies: &envelope.Companies{Company: envelope.Company{UID: "c-1"}},
		})
		ack := runProcess(t, h, doc)
		if len(h.calls) != 0 {
			t.Errorf("sender %q: handler must not run on own messages", sender)
		}
		if ack.acks != 1 {
			t.Errorf("sender %q: own message must still be acked, acks=%d", sender, ack.acks)
		}
	}
}

func TestProcessDropsMalformed(t *testing.T) {
	h := &recordingHandler{queue: routing.QueueCompany}
	ack := runProcess(t, h, []byte("this is not xml"))
	if len(h.calls) != 0 {
		t.Error("handler must not run on malformed messages")
	}
	if ack.acks != 1 {
		t.Errorf("malformed message must be acked, acks=%d", ack.acks)
	}
}

func TestProcessAcksOnHandlerError(t *testing.T) {
	h := &recordingHandler{queue: routing.QueueCompany, result: errors.New("store down")}
	doc := mustEncode(t, &envelope.Envelope{
		Info:      envelope.Info{Sender: "crm", Operation: "create"},
		Companies: &envelope.Companies{Company: envelope.Company{UID: "c-1"}},
	})
	ack := runProcess(t, h, doc)
	if ack.acks != 1 || ack.nacks != 0 {
		t.Errorf("failed handler must still ack, acks=%d nacks=%d", ack.acks, ack.nacks)
	}
}

func TestProcessCustomPolicy(t *testing.T) {
	h := &recordingHandler{queue: routing.QueueCompany, result: errors.New("store down")}
	ack := &fakeAck{}
	requeueOnError := func(d *amqp.Delivery, handleErr error) error {
		if handleErr != nil {
			return d.Nack(false, true)
		}
		return d.Ack(false)
	}
	c := &Consumer{handler: h, policy: requeueOnError}
	doc := mustEncode(t, &envelope.Envelope{
		Info:      envelope.Info{Sender: "crm", Operation: "create"},
		Companies: &envelope.Companies{Company: envelope.Company{UID: "c-1"}},
	})
	d := &amqp.Delivery{Acknowledger: ack, Body: doc}
	if err := c.process(context.Background(), d); err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if ack.nacks != 1 || ack.acks != 0 {
		t.Errorf("custom policy not honored, acks=%d nacks=%d", ack.acks, ack.nacks)
	}
}
