// Attendify SyncBridge - Event-Management Data Synchronization
// Copyright 2026 Attendify
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attendify/syncbridge

// Package envelope implements the XML wire contract shared by all Attendify
// systems: a fixed <attendify> root, an <info> block carrying sender and
// operation, and exactly one domain body.
//
// Boolean and numeric leaves stay strings in the wire types. The external
// producers routinely emit empty elements, and an empty string must decode to
// a zero value rather than a parse error; the As* helpers convert tolerantly.
package envelope

import (
	"encoding/xml"
	"strings"
)

// Domain identifies the body carried by an envelope.
type Domain string

// Known envelope domains.
const (
	DomainUser            Domain = "user"
	DomainCompany         Domain = "company"
	DomainCompanyEmployee Domain = "company_employee"
	DomainEvent           Domain = "event"
	DomainSession         Domain = "session"
	DomainEventAttendee   Domain = "event_attendee"
	DomainSessionAttendee Domain = "session_attendee"
	DomainEventPayment    Domain = "event_payment"
	DomainTab             Domain = "tab"
)

// Info is the envelope header. Both fields are always present.
type Info struct {
	Sender    string `xml:"sender" validate:"required"`
	Operation string `xml:"operation" validate:"required"`
}

// Envelope is the wire-level message wrapper. Exactly one body field is
// non-nil on a valid envelope.
type Envelope struct {
	XMLName xml.Name `xml:"attendify"`
	Info    Info     `xml:"info"`

	User            *User            `xml:"user,omitempty"`
	Companies       *Companies       `xml:"companies,omitempty"`
	CompanyEmployee *CompanyEmployee `xml:"company_employee,omitempty"`
	Event           *Event           `xml:"event,omitempty"`
	Session         *Session         `xml:"session,omitempty"`
	EventAttendee   *EventAttendee   `xml:"event_attendee,omitempty"`
	SessionAttendee *SessionAttendee `xml:"session_attendee,omitempty"`
	EventPayment    *EventPayment    `xml:"event_payment,omitempty"`
	Tab             *Tab             `xml:"tab,omitempty"`
}

// Kind returns the domain of the envelope's body, or "" when no body is set.
func (e *Envelope) Kind() Domain {
	switch {
	case e.User != nil:
		return DomainUser
	case e.Companies != nil:
		return DomainCompany
	case e.CompanyEmployee != nil:
		return DomainCompanyEmployee
	case e.Event != nil:
		return DomainEvent
	case e.Session != nil:
		return DomainSession
	case e.EventAttendee != nil:
		return DomainEventAttendee
	case e.SessionAttendee != nil:
		return DomainSessionAttendee
	case e.EventPayment != nil:
		return DomainEventPayment
	case e.Tab != nil:
		return DomainTab
	default:
		return ""
	}
}

func (e *Envelope) bodyCount() int {
	n := 0
	for _, set := range []bool{
		e.User != nil, e.Companies != nil, e.CompanyEmployee != nil,
		e.Event != nil, e.Session != nil, e.EventAttendee != nil,
		e.SessionAttendee != nil, e.EventPayment != nil, e.Tab != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

// Address is the user postal address block.
type Address struct {
	Street     string `xml:"street"`
	Number     string `xml:"number"`
	BusNumber  string `xml:"bus_number"`
	City       string `xml:"city"`
	Province   string `xml:"province"`
	Country    string `xml:"country"`
	PostalCode string `xml:"postal_code"`
}

// FacturationAddress is the billing address inside payment_details.
type FacturationAddress struct {
	Street           string `xml:"street"`
	Number           string `xml:"number"`
	CompanyBusNumber string `xml:"company_bus_number"`
	City             string `xml:"city"`
	Province         string `xml:"province"`
	Country          string `xml:"country"`
	PostalCode       string `xml:"postal_code"`
}

// PaymentDetails is the user payment block. Card details are never filled by
// the frontend but the elements are part of the agreed document shape.
type PaymentDetails struct {
	FacturationAddress FacturationAddress `xml:"facturation_address"`
	PaymentMethod      string             `xml:"payment_method"`
	CardNumber         string             `xml:"card_number"`
}

// UserCompany is the company block embedded in a user body. Only VATNumber is
// populated by the frontend; the rest travels empty.
type UserCompany struct {
	ID        string             `xml:"id"`
	Name      string             `xml:"name"`
	VATNumber string             `xml:"VAT_number"`
	Address   UserCompanyAddress `xml:"address"`
}

// UserCompanyAddress is the address block inside a user's company element.
type UserCompanyAddress struct {
	Street     string `xml:"street"`
	Number     string `xml:"number"`
	City       string `xml:"city"`
	Province   string `xml:"province"`
	Country    string `xml:"country"`
	PostalCode string `xml:"postal_code"`
}

// User is the user domain body.
type User struct {
	UID             string         `xml:"uid" validate:"required"`
	FirstName       string         `xml:"first_name"`
	LastName        string         `xml:"last_name"`
	DateOfBirth     string         `xml:"date_of_birth"`
	PhoneNumber     string         `xml:"phone_number"`
	Title           string         `xml:"title"`
	Email           string         `xml:"email"`
	Password        string         `xml:"password"`
	Address         Address        `xml:"address"`
	PaymentDetails  PaymentDetails `xml:"payment_details"`
	EmailRegistered string         `xml:"email_registered"`
	Company         UserCompany    `xml:"company"`
	FromCompany     string         `xml:"from_company"`
	IsAdmin         string         `xml:"is_admin"`
}

// Companies wraps the single company body; the agreed document nests it as
// companies/company.
type Companies struct {
	Company Company `xml:"company"`
}

// CompanyAddress is the company postal/billing address block.
type CompanyAddress struct {
	Street   string `xml:"street"`
	Number   string `xml:"number"`
	Postcode string `xml:"postcode"`
	City     string `xml:"city"`
}

// Company is the company domain body.
type Company struct {
	UID            string         `xml:"uid" validate:"required"`
	CompanyNumber  string         `xml:"companyNumber"`
	Name           string         `xml:"name"`
	VATNumber      string         `xml:"VATNumber"`
	Address        CompanyAddress `xml:"address"`
	BillingAddress CompanyAddress `xml:"billingAddress"`
	Email          string         `xml:"email"`
	Phone          string         `xml:"phone"`
	OwnerID        string         `xml:"owner_id"`
}

// CompanyEmployee links a user to a company.
type CompanyEmployee struct {
	UID       string `xml:"uid" validate:"required"`
	CompanyID string `xml:"company_id" validate:"required"`
}

// Event is the event domain body.
type Event struct {
	UID           string `xml:"uid" validate:"required"`
	Title         string `xml:"title"`
	Description   string `xml:"description"`
	Location      string `xml:"location"`
	StartDate     string `xml:"start_date"`
	EndDate       string `xml:"end_date"`
	StartTime     string `xml:"start_time"`
	EndTime       string `xml:"end_time"`
	OrganizerName string `xml:"organizer_name"`
	OrganizerUID  string `xml:"organizer_uid"`
	EntranceFee   string `xml:"entrance_fee"`
}

// Speaker is the speaker block on a session.
type Speaker struct {
	Name string `xml:"name"`
	Bio  string `xml:"bio"`
}

// Session is the session domain body.
type Session struct {
	UID          string  `xml:"uid" validate:"required"`
	EventID      string  `xml:"event_id"`
	Title        string  `xml:"title"`
	Description  string  `xml:"description"`
	Date         string  `xml:"date"`
	StartTime    string  `xml:"start_time"`
	EndTime      string  `xml:"end_time"`
	Location     string  `xml:"location"`
	MaxAttendees string  `xml:"max_attendees"`
	Speaker      Speaker `xml:"speaker"`
}

// EventAttendee registers a user for an event.
type EventAttendee struct {
	UID     string `xml:"uid" validate:"required"`
	EventID string `xml:"event_id" validate:"required"`
}

// SessionAttendee registers a user for a session.
type SessionAttendee struct {
	UID       string `xml:"uid" validate:"required"`
	SessionID string `xml:"session_id" validate:"required"`
}

// EventPayment is the entrance-fee payment body, keyed by (uid, event_id).
type EventPayment struct {
	UID          string `xml:"uid" validate:"required"`
	EventID      string `xml:"event_id" validate:"required"`
	EntranceFee  string `xml:"entrance_fee"`
	EntrancePaid string `xml:"entrance_paid"`
	PaidAt       string `xml:"paid_at"`
}

// TabItem is a single line on a tab.
type TabItem struct {
	ItemName string `xml:"item_name"`
	Quantity string `xml:"quantity"`
	Price    string `xml:"price"`
}

// TabItems wraps the tab's item list.
type TabItems struct {
	Items []TabItem `xml:"tab_item"`
}

// Tab is the bar-tab body, keyed by (uid, event_id).
type Tab struct {
	UID       string   `xml:"uid" validate:"required"`
	EventID   string   `xml:"event_id" validate:"required"`
	Timestamp string   `xml:"timestamp"`
	IsPaid    string   `xml:"is_paid"`
	Items     TabItems `xml:"items"`
}

// LogEvent is the monitoring side-channel document, published to the
// monitoring.log routing key on each domain exchange.
type LogEvent struct {
	XMLName   xml.Name `xml:"log"`
	Sender    string   `xml:"sender"`
	Timestamp string   `xml:"timestamp"`
	Level     string   `xml:"level"`
	Message   string   `xml:"message"`
}

// Mail is the activation-mail document sent to the mailing queue after a
// trusted-sender user creation.
type Mail struct {
	XMLName        xml.Name `xml:"mail"`
	User           string   `xml:"user"`
	ActivationLink string   `xml:"activationLink"`
}

// AsBool converts a wire boolean leaf. Anything but "true" (case-insensitive)
// is false, including the empty string.
func AsBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

// FormatBool renders a bool as the wire representation.
func FormatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
