// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

// Command publish emits a single envelope from the command line. It runs the
// same producer path as the frontend hooks, duplicate suppressor included, so
// it doubles as a smoke test for the full outbound pipeline.
//
//	publish -domain company -op create -uid c-1 -name "Acme"
//	publish -domain user -op update -uid u-1 -email ada@example.com -vat BE01
//	publish -domain event_payment -op create_event_payment -uid u-1 -event e-1 -fee 10.00 -paid
package main

import (
	"context"
	"flag"
	"time"

	"github.com/attendify/syncbridge/internal/broker"
	"github.com/attendify/syncbridge/internal/config"
	"github.com/attendify/syncbridge/internal/dedupe"
	"github.com/attendify/syncbridge/internal/envelope"
	"github.com/attendify/syncbridge/internal/logging"
	"github.com/attendify/syncbridge/internal/producer"
	"github.com/attendify/syncbridge/internal/store"
)

func main() {
	var (
		domain    = flag.String("domain", "", "envelope domain (user, company, company_employee, event, session, event_attendee, session_attendee, event_payment, tab)")
		op        = flag.String("op", "", "operation for the domain")
		uid       = flag.String("uid", "", "entity uid (user uid for links, payments and tabs)")
		email     = flag.String("email", "", "user email")
		firstName = flag.String("first-name", "", "user first name")
		lastName  = flag.String("last-name", "", "user last name")
		vat       = flag.String("vat", "", "company VAT number")
		name      = flag.String("name", "", "company or event or session title")
		company   = flag.String("company", "", "company uid for membership links")
		event     = flag.String("event", "", "event uid")
		session   = flag.String("session", "", "session uid")
		fee       = flag.String("fee", "", "entrance fee")
		paid      = flag.Bool("paid", false, "payment or tab settled")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: "console"})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	b, err := broker.Dial(ctx, cfg.Broker)
	if err != nil {
		logging.Fatal().Err(err).Msg("connect broker")
	}
	defer b.Close()
	if err := b.DeclareTopology(); err != nil {
		logging.Fatal().Err(err).Msg("declare topology")
	}

	sup := dedupe.NewMemory(cfg.Dedupe.TTL)
	defer sup.Close()
	base := producer.New(b, sup)

	switch *domain {
	case "user":
		st, err := store.Open(ctx, cfg.Database)
		if err != nil {
			logging.Fatal().Err(err).Msg("connect database")
		}
		defer st.Close()
		err = producer.NewUserProducer(base, st).Produce(ctx, *op, &envelope.User{
			UID:       *uid,
			FirstName: *firstName,
			LastName:  *lastName,
			Email:     *email,
			Company:   envelope.UserCompany{VATNumber: *vat},
		})
		exit(err)
	case "company":
		err = producer.NewCompanyProducer(base).Produce(ctx, *op, &envelope.Company{
			UID:       *uid,
			Name:      *name,
			VATNumber: *vat,
		})
		exit(err)
	case "company_employee":
		err = producer.NewLinkProducer(base).Produce(ctx, *op, &envelope.CompanyEmployee{
			UID:       *uid,
			CompanyID: *company,
		})
		exit(err)
	case "event":
		err = producer.NewEventProducer(base).ProduceEvent(ctx, *op, &envelope.Event{
			UID:   *uid,
			Title: *name,
		})
		exit(err)
	case "session":
		err = producer.NewEventProducer(base).ProduceSession(ctx, *op, &envelope.Session{
			UID:     *uid,
			EventID: *event,
			Title:   *name,
		})
		exit(err)
	case "event_attendee":
		err = producer.NewRegistrationProducer(base).ProduceEvent(ctx, *op, &envelope.EventAttendee{
			UID:     *uid,
			EventID: *event,
		})
		exit(err)
	case "session_attendee":
		err = producer.NewRegistrationProducer(base).ProduceSession(ctx, *op, &envelope.SessionAttendee{
			UID:       *uid,
			SessionID: *session,
		})
		exit(err)
	case "event_payment":
		err = producer.NewPaymentProducer(base).ProducePayment(ctx, *op, &envelope.EventPayment{
			UID:          *uid,
			EventID:      *event,
			EntranceFee:  *fee,
			EntrancePaid: envelope.FormatBool(*paid),
			PaidAt:       time.Now().Format("2006-01-02 15:04:05"),
		})
		exit(err)
	case "tab":
		err = producer.NewPaymentProducer(base).ProduceTab(ctx, *op, &envelope.Tab{
			UID:       *uid,
			EventID:   *event,
			Timestamp: time.Now().Format("2006-01-02 15:04:05"),
			IsPaid:    envelope.FormatBool(*paid),
		})
		exit(err)
	default:
		logging.Fatal().Str("domain", *domain).Msg("unknown domain, see -help")
	}
}

func exit(err error) {
	if err != nil {
		logging.Fatal().Err(err).Msg("publish failed")
	}
	logging.Info().Msg("published")
}
