// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

package consumer

import (
	"context"
	"fmt"
	"strings"

	"github.com/attendify/syncbridge/internal/activation"
	"github.com/attendify/syncbridge/internal/broker"
	"github.com/attendify/syncbridge/internal/envelope"
	"github.com/attendify/syncbridge/internal/logging"
	"github.com/attendify/syncbridge/internal/routing"
)

// trustedSenders may trigger the activation-key flow on user creation. Users
// they announce have no usable password yet, so an activation mail is the
// only way those accounts become reachable.
var trustedSenders = map[string]bool{
	"crm":  true,
	"odoo": true,
}

// activationHashAttr holds the bcrypt hash of a user's one-time activation
// key. Only the hash ever touches storage.
const activationHashAttr = "activation_key_hash"

// UserStore is the store surface the user handler needs.
type UserStore interface {
	CreateUser(ctx context.Context, u *envelope.User) (bool, error)
	UpdateUser(ctx context.Context, u *envelope.User) error
	DeleteUser(ctx context.Context, uid string) error
	SetUserAttr(ctx context.Context, uid, name, value string) error
}

// KeyExchanger mints and exchanges activation keys with the peer frontend.
type KeyExchanger interface {
	Exchange(ctx context.Context, key string) (string, error)
	Link(key, email string) string
}

// UserHandler applies user lifecycle envelopes from frontend.user.
type UserHandler struct {
	store UserStore
	keys  KeyExchanger
	pub   broker.Publisher
}

// NewUserHandler creates the user queue handler. keys and pub may be nil to
// disable the activation flow entirely.
func NewUserHandler(store UserStore, keys KeyExchanger, pub broker.Publisher) *UserHandler {
	return &UserHandler{store: store, keys: keys, pub: pub}
}

// Queue implements Handler.
func (h *UserHandler) Queue() string {
	return routing.QueueUser
}

// Handle implements Handler.
func (h *UserHandler) Handle(ctx context.Context, env *envelope.Envelope) error {
	u := env.User
	if u == nil {
		return fmt.Errorf("%w: %s on user queue", ErrUnknownOperation, env.Kind())
	}

	switch env.Info.Operation {
	case "create":
		return h.create(ctx, env.Info.Sender, u)
	case "update":
		return h.store.UpdateUser(ctx, u)
	case "delete":
		return h.store.DeleteUser(ctx, u.UID)
	default:
		return fmt.Errorf("%w: user.%s", ErrUnknownOperation, env.Info.Operation)
	}
}

func (h *UserHandler) create(ctx context.Context, sender string, u *envelope.User) error {
	// The activation exchange runs before the insert: a user we cannot
	// activate must not exist locally, or the retried create would be
	// skipped as a duplicate.
	var activationLink, activationHash string
	if trustedSenders[strings.ToLower(sender)] && h.keys != nil {
		key, err := activation.MintKey()
		if err != nil {
			return err
		}
		hash, err := h.keys.Exchange(ctx, key)
		if err != nil {
			return fmt.Errorf("user %s: %w", u.UID, err)
		}
		activationLink = h.keys.Link(key, u.Email)
		activationHash = hash
	}

	created, err := h.store.CreateUser(ctx, u)
	if err != nil {
		return err
	}
	if !created {
		logging.Warn().Str("uid", u.UID).Str("sender", sender).Msg("user already exists, create skipped")
		return nil
	}

	if activationHash != "" {
		if err := h.store.SetUserAttr(ctx, u.UID, activationHashAttr, activationHash); err != nil {
			return err
		}
	}

	if activationLink != "" && h.pub != nil {
		doc, err := envelope.EncodeMail(&envelope.Mail{User: u.Email, ActivationLink: activationLink})
		if err != nil {
			return err
		}
		if err := h.pub.Publish(ctx, "", routing.MailQueue, doc); err != nil {
			return fmt.Errorf("publish activation mail for %s: %w", u.UID, err)
		}
	}
	return nil
}
