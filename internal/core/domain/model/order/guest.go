package order

import (
	"errors"

	"fulfillment/internal/pkg/errs"
)

// ErrGuestInfoIsNotConstructed is returned when a GuestInfo was not created
// through the NewGuestInfo factory method.
var ErrGuestInfoIsNotConstructed = errors.New("GuestInfo must be created via NewGuestInfo constructor")

// GuestInfo is the contact and shipping snapshot for a guest checkout.
// An order carries either a registered customer reference or a GuestInfo,
// never both. Email and phone are optional; an order without a resolvable
// email simply receives no notifications.
type GuestInfo struct {
	name    string
	email   string
	phone   string
	address string

	isConstructed bool
}

// NewGuestInfo creates a validated guest snapshot.
// Name and shipping address are required.
func NewGuestInfo(name, email, phone, address string) (GuestInfo, error) {
	guest := GuestInfo{isConstructed: true}

	if err := errors.Join(
		guest.setName(name),
		guest.setAddress(address),
	); err != nil {
		return GuestInfo{}, err
	}

	guest.email = email
	guest.phone = phone
	return guest, nil
}

// Validate ensures the GuestInfo was created via NewGuestInfo.
func (g GuestInfo) Validate() error {
	if !g.isConstructed {
		return ErrGuestInfoIsNotConstructed
	}
	return nil
}

// Name returns the guest's name.
func (g GuestInfo) Name() string {
	return g.name
}

// Email returns the guest's email, possibly empty.
func (g GuestInfo) Email() string {
	return g.email
}

// Phone returns the guest's phone number, possibly empty.
func (g GuestInfo) Phone() string {
	return g.phone
}

// Address returns the shipping address snapshot.
func (g GuestInfo) Address() string {
	return g.address
}

func (g *GuestInfo) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("guest name")
	}
	g.name = name
	return nil
}

func (g *GuestInfo) setAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("guest address")
	}
	g.address = address
	return nil
}
