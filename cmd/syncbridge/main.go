// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

// Command syncbridge runs the frontend's side of the Attendify data
// synchronization: the queue consumers, the activation endpoint and the
// metrics server, all under one supervision tree.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/attendify/syncbridge/internal/activation"
	"github.com/attendify/syncbridge/internal/broker"
	"github.com/attendify/syncbridge/internal/config"
	"github.com/attendify/syncbridge/internal/consumer"
	"github.com/attendify/syncbridge/internal/logging"
	"github.com/attendify/syncbridge/internal/monitor"
	"github.com/attendify/syncbridge/internal/routing"
	"github.com/attendify/syncbridge/internal/store"
	"github.com/attendify/syncbridge/internal/supervisor"
	"github.com/attendify/syncbridge/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := broker.Dial(ctx, cfg.Broker)
	if err != nil {
		logging.Fatal().Err(err).Msg("connect broker")
	}
	defer b.Close()

	if err := b.DeclareTopology(); err != nil {
		logging.Fatal().Err(err).Msg("declare topology")
	}

	st, err := store.Open(ctx, cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("connect database")
	}
	defer st.Close()

	keys := activation.NewClient(cfg.Activation)

	tree := supervisor.New("syncbridge")

	add := func(name string, h consumer.Handler, exchange string) {
		var mon *monitor.Monitor
		if exchange != "" {
			mon = monitor.New(b, exchange)
		}
		tree.Add(services.NewConsumerService(name, consumer.New(b, h, mon, nil)))
	}

	add("user-consumer", consumer.NewUserHandler(st, keys, b), routing.ExchangeUserManagement)
	add("company-consumer", consumer.NewCompanyHandler(st), routing.ExchangeCompany)
	add("event-consumer", consumer.NewEventHandler(st), routing.ExchangeEvent)
	add("session-consumer", consumer.NewSessionHandler(st), routing.ExchangeSession)
	add("invoice-consumer", consumer.NewPaymentHandler(st), routing.ExchangeEvent)
	add("sale-consumer", consumer.NewTabHandler(st), routing.ExchangeEvent)

	svc := activation.NewService(cfg.Activation)
	tree.Add(services.NewHTTPService(cfg.Server, svc.Router(cfg.Server)))

	logging.Info().Msg("syncbridge starting")
	if err := supervisor.Serve(ctx, tree); err != nil && ctx.Err() == nil {
		logging.Fatal().Err(err).Msg("supervision tree exited")
	}
	logging.Info().Msg("syncbridge stopped")
}
