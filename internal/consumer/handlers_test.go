// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

package consumer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/attendify/syncbridge/internal/envelope"
)

type fakeUserStore struct {
	users   map[string]bool
	attrs   map[string]string
	updates []string
	deletes []string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]bool), attrs: make(map[string]string)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, u *envelope.User) (bool, error) {
	if f.users[u.UID] {
		return false, nil
	}
	f.users[u.UID] = true
	return true, nil
}

func (f *fakeUserStore) UpdateUser(_ context.Context, u *envelope.User) error {
	f.updates = append(f.updates, u.UID)
	return nil
}

func (f *fakeUserStore) DeleteUser(_ context.Context, uid string) error {
	f.deletes = append(f.deletes, uid)
	delete(f.users, uid)
	return nil
}

func (f *fakeUserStore) SetUserAttr(_ context.Context, uid, name, value string) error {
	f.attrs[uid+"/"+name] = value
	return nil
}

type fakeExchanger struct {
	exchanged []string
	fail      error
}

func (f *fakeExchanger) Exchange(_ context.Context, key string) (string, error) {
	if f.fail != nil {
		return "", f.fail
	}
	f.exchanged = append(f.exchanged, key)
	return "hashed-" + key, nil
}

func (f *fakeExchanger) Link(key, email string) string {
	return "https://frontend.example/account-activeren/?key=" + key + "&login=" + email
}

type capturePublisher struct {
	keys   []string
	bodies []string
}

func (c *capturePublisher) Publish(_ context.Context, _, key string, body []byte) error {
	c.keys = append(c.keys, key)
	c.bodies = append(c.bodies, string(body))
	return nil
}

func userEnv(sender, op string, u envelope.User) *envelope.Envelope {
	return &envelope.Envelope{Info: envelope.Info{Sender: sender, Operation: op}, User: &u}
}

func TestUserCreateTrustedSenderActivation(t *testing.T) {
	st := newFakeUserStore()
	ex := &fakeExchanger{}
	pub := &capturePublisher{}
	h := NewUserHandler(st, ex, pub)

	err := h.Handle(context.Background(), userEnv("crm", "create",
		envelope.User{UID: "u-1", Email: "ada@example.com"}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !st.users["u-1"] {
		t.Error("user not created")
	}
	if len(ex.exchanged) != 1 {
		t.Fatalf("activation exchanged %d times, want 1", len(ex.exchanged))
	}
	if len(pub.keys) != 1 || pub.keys[0] != "user.passwordGenerated" {
		t.Fatalf("mail publish keys = %v", pub.keys)
	}
	if !strings.Contains(pub.bodies[0], "<user>ada@example.com</user>") {
		t.Errorf("mail body missing user:\n%s", pub.bodies[0])
	}
	if !strings.Contains(pub.bodies[0], "account-activeren") {
		t.Errorf("mail body missing activation link:\n%s", pub.bodies[0])
	}
	if !strings.HasPrefix(st.attrs["u-1/activation_key_hash"], "hashed-") {
		t.Errorf("activation hash not stored: %v", st.attrs)
	}
}

func TestUserCreateUntrustedSenderNoActivation(t *testing.T) {
	st := newFakeUserStore()
	ex := &fakeExchanger{}
	pub := &capturePublisher{}
	h := NewUserHandler(st, ex, pub)

	err := h.Handle(context.Background(), userEnv("billing", "create",
		envelope.User{UID: "u-2", Email: "b@example.com"}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if len(ex.exchanged) != 0 || len(pub.keys) != 0 {
		t.Error("untrusted sender must not trigger the activation flow")
	}
	if !st.users["u-2"] {
		t.Error("user not created")
	}
}

func TestUserCreateActivationFailureAborts(t *testing.T) {
	st := newFakeUserStore()
	ex := &fakeExchanger{fail: errors.New("peer down")}
	h := NewUserHandler(st, ex, &capturePublisher{})

	err := h.Handle(context.Background(), userEnv("odoo", "create",
		envelope.User{UID: "u-3", Email: "c@example.com"}))
	if err == nil {
		t.Fatal("activation failure must abort the create")
	}
	if st.users["u-3"] {
		t.Error("user must not exist after an aborted create")
	}
}

func TestUserCreateDuplicateSkipped(t *testing.T) {
	st := newFakeUserStore()
	st.users["u-1"] = true
	pub := &capturePublisher{}
	h := NewUserHandler(st, &fakeExchanger{}, pub)

	err := h.Handle(context.Background(), userEnv("crm", "create",
		envelope.User{UID: "u-1", Email: "ada@example.com"}))
	if err != nil {
		t.Fatalf("duplicate create must not error: %v", err)
	}
	if len(pub.keys) != 0 {
		t.Error("skipped create must not send an activation mail")
	}
}

func TestUserUnknownOperation(t *testing.T) {
	h := NewUserHandler(newFakeUserStore(), nil, nil)
	err := h.Handle(context.Background(), userEnv("crm", "archive", envelope.User{UID: "u-1"}))
	if !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("got %v, want ErrUnknownOperation", err)
	}
}

type fakeCompanyStore struct {
	created    []string
	updated    []string
	deleted    []string
	links      map[string]bool
	knownUsers map[string]bool
	createErr  error
}

func newFakeCompanyStore() *fakeCompanyStore {
	return &fakeCompanyStore{links: make(map[string]bool), knownUsers: make(map[string]bool)}
}

func (f *fakeCompanyStore) CreateCompany(_ context.Context, c *envelope.Company) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, c.UID)
	return nil
}

func (f *fakeCompanyStore) UpdateCompany(_ context.Context, c *envelope.Company) error {
	f.updated = append(f.updated, c.UID)
	return nil
}

func (f *fakeCompanyStore) DeleteCompany(_ context.Context, uid string) error {
	f.deleted = append(f.deleted, uid)
	return nil
}

func (f *fakeCompanyStore) LinkEmployee(_ context.Context, userUID, companyID string) (bool, error) {
	if !f.knownUsers[userUID] {
		return false, nil
	}
	f.links[userUID+"/"+companyID] = true
	return true, nil
}

func (f *fakeCompanyStore) UnlinkEmployee(_ context.Context, userUID, companyID string) (bool, error) {
	if !f.knownUsers[userUID] {
		return false, nil
	}
	delete(f.links, userUID+"/"+companyID)
	return true, nil
}

func TestCompanyHandlerDispatch(t *testing.T) {
	st := newFakeCompanyStore()
	h := NewCompanyHandler(st)
	ctx := context.Background()

	companyEnv := func(op string) *envelope.Envelope {
		return &envelope.Envelope{
			Info:      envelope.Info{Sender: "crm", Operation: op},
			Companies: &envelope.Companies{Company: envelope.Company{UID: "c-1"}},
		}
	}
	if err := h.Handle(ctx, companyEnv("create")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := h.Handle(ctx, companyEnv("update")); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := h.Handle(ctx, companyEnv("delete")); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(st.created) != 1 || len(st.updated) != 1 || len(st.deleted) != 1 {
		t.Errorf("dispatch counts: %v %v %v", st.created, st.updated, st.deleted)
	}

	st.knownUsers["u-1"] = true
	linkEnv := &envelope.Envelope{
		Info:            envelope.Info{Sender: "crm", Operation: "register"},
		CompanyEmployee: &envelope.CompanyEmployee{UID: "u-1", CompanyID: "c-1"},
	}
	if err := h.Handle(ctx, linkEnv); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !st.links["u-1/c-1"] {
		t.Error("employee link not recorded")
	}

	linkEnv.Info.Operation = "unregister"
	if err := h.Handle(ctx, linkEnv); err != nil {
		t.Fatalf("unregister failed: %v", err)
	}
	if st.links["u-1/c-1"] {
		t.Error("employee link not removed")
	}

	// Membership for a user that has not propagated yet is a logged no-op,
	// not an error.
	linkEnv.Info.Operation = "register"
	linkEnv.CompanyEmployee.UID = "u-unknown"
	if err := h.Handle(ctx, linkEnv); err != nil {
		t.Fatalf("register for unknown user must not error: %v", err)
	}
	if st.links["u-unknown/c-1"] {
		t.Error("link must not be written for an unknown user")
	}
}

func TestCompanyHandlerPropagatesStoreError(t *testing.T) {
	st := newFakeCompanyStore()
	st.createErr = errors.New("company already exists")
	h := NewCompanyHandler(st)
	err := h.Handle(context.Background(), &envelope.Envelope{
		Info:      envelope.Info{Sender: "crm", Operation: "create"},
		Companies: &envelope.Companies{Company: envelope.Company{UID: "c-1"}},
	})
	if err == nil {
		t.Fatal("store error must propagate")
	}
}

type fakeEventStore struct {
	events map[string]string
	regs   map[string]bool
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: make(map[string]string), regs: make(map[string]bool)}
}

func (f *fakeEventStore) UpsertEvent(_ context.Context, e *envelope.Event) error {
	f.events[e.UID] = e.Title
	return nil
}

func (f *fakeEventStore) DeleteEvent(_ context.Context, uid string) error {
	delete(f.events, uid)
	return nil
}

func (f *fakeEventStore) RegisterEventAttendee(_ context.Context, userUID, eventUID string) error {
	f.regs[userUID+"/"+eventUID] = true
	return nil
}

func (f *fakeEventStore) UnregisterEventAttendee(_ context.Context, userUID, eventUID string) error {
	delete(f.regs, userUID+"/"+eventUID)
	return nil
}

func TestEventHandlerUpsertSemantics(t *testing.T) {
	st := newFakeEventStore()
	h := NewEventHandler(st)
	ctx := context.Background()

	env := &envelope.Envelope{
		Info:  envelope.Info{Sender: "crm", Operation: "create"},
		Event: &envelope.Event{UID: "e-1", Title: "Launch"},
	}
	if err := h.Handle(ctx, env); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	// A replayed create converges instead of erroring.
	env.Event.Title = "Launch v2"
	if err := h.Handle(ctx, env); err != nil {
		t.Fatalf("replayed create failed: %v", err)
	}
	if st.events["e-1"] != "Launch v2" {
		t.Errorf("event title = %q, want latest body", st.events["e-1"])
	}

	reg := &envelope.Envelope{
		Info:          envelope.Info{Sender: "crm", Operation: "register"},
		EventAttendee: &envelope.EventAttendee{UID: "u-1", EventID: "e-1"},
	}
	if err := h.Handle(ctx, reg); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !st.regs["u-1/e-1"] {
		t.Error("attendance not recorded")
	}
}

type fakePaymentStore struct {
	created map[string]bool
	updated []string
	deleted []string
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{created: make(map[string]bool)}
}

func (f *fakePaymentStore) CreateEventPayment(_ context.Context, p *envelope.EventPayment) error {
	key := p.UID + "/" + p.EventID
	if f.created[key] {
		return errors.New("payment already exists")
	}
	f.created[key] = true
	return nil
}

func (f *fakePaymentStore) UpdateEventPayment(_ context.Context, p *envelope.EventPayment) error {
	f.updated = append(f.updated, p.UID+"/"+p.EventID)
	return nil
}

func (f *fakePaymentStore) DeleteEventPayment(_ context.Context, userUID, eventUID string) error {
	f.deleted = append(f.deleted, userUID+"/"+eventUID)
	return nil
}

type fakeTabStore struct {
	// items holds the item names on the latest tab per user/event pair.
	items   map[string][]string
	deleted []string
}

func newFakeTabStore() *fakeTabStore {
	return &fakeTabStore{items: make(map[string][]string)}
}

func (f *fakeTabStore) CreateTab(_ context.Context, t *envelope.Tab) error {
	key := t.UID + "/" + t.EventID
	f.items[key] = nil
	for _, item := range t.Items.Items {
		f.items[key] = append(f.items[key], item.ItemName)
	}
	return nil
}

func (f *fakeTabStore) UpdateTab(_ context.Context, t *envelope.Tab) error {
	key := t.UID + "/" + t.EventID
	if _, ok := f.items[key]; !ok {
		return errors.New("tab not found")
	}
	f.items[key] = nil
	for _, item := range t.Items.Items {
		f.items[key] = append(f.items[key], item.ItemName)
	}
	return nil
}

func (f *fakeTabStore) DeleteTab(_ context.Context, userUID, eventUID string) error {
	key := userUID + "/" + eventUID
	delete(f.items, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func TestTabHandlerDispatch(t *testing.T) {
	st := newFakeTabStore()
	h := NewTabHandler(st)
	ctx := context.Background()

	env := func(op string, items ...string) *envelope.Envelope {
		tab := &envelope.Tab{UID: "u-1", EventID: "e-1"}
		for _, name := range items {
			tab.Items.Items = append(tab.Items.Items, envelope.TabItem{ItemName: name, Quantity: "1", Price: "2.50"})
		}
		return &envelope.Envelope{Info: envelope.Info{Sender: "billing", Operation: op}, Tab: tab}
	}

	if err := h.Handle(ctx, env("create", "Cola")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// An update replaces the item list, it never appends to it.
	if err := h.Handle(ctx, env("update", "Fanta")); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got := st.items["u-1/e-1"]
	if len(got) != 1 || got[0] != "Fanta" {
		t.Errorf("items after update = %v, want exactly [Fanta]", got)
	}

	if err := h.Handle(ctx, env("delete")); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(st.deleted) != 1 {
		t.Errorf("deletes = %v", st.deleted)
	}

	if err := h.Handle(ctx, env("create_sale")); !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("create_sale: got %v, want ErrUnknownOperation", err)
	}
}

func TestPaymentHandlerVocabulary(t *testing.T) {
	st := newFakePaymentStore()
	h := NewPaymentHandler(st)
	ctx := context.Background()

	env := func(op string) *envelope.Envelope {
		return &envelope.Envelope{
			Info:         envelope.Info{Sender: "billing", Operation: op},
			EventPayment: &envelope.EventPayment{UID: "u-1", EventID: "e-1", EntrancePaid: "true"},
		}
	}
	if err := h.Handle(ctx, env("create_event_payment")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := h.Handle(ctx, env("create_event_payment")); err == nil {
		t.Fatal("duplicate payment create must error")
	}
	if err := h.Handle(ctx, env("update_event_payment")); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := h.Handle(ctx, env("delete_event_payment")); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	// The bare vocabulary does not apply to payments.
	if err := h.Handle(ctx, env("create")); !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("bare create: got %v, want ErrUnknownOperation", err)
	}
}
