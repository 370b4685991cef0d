package service

import (
	"errors"
	"testing"

	"github.com/tidecart/internal/cart"
)

func TestPreferenceUpdateMergesAddresses(t *testing.T) {
	f := newStoreFixture(t)
	contact := "9000000001"

	if _, err := f.prefs.Update(f.user.ID, ProfileUpdateInput{
		Preferences: cart.PreferencesPatch{
			ContactNumber:  &contact,
			SavedAddresses: []cart.Address{sampleAddress("682001"), sampleAddress("682002")},
		},
	}); err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	moved := sampleAddress("682001")
	moved.Address = "44 Beach Road"
	view, err := f.prefs.Update(f.user.ID, ProfileUpdateInput{
		Preferences: cart.PreferencesPatch{SavedAddresses: []cart.Address{moved}},
	})
	if err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	saved := view.Preferences.SavedAddresses
	if len(saved) != 2 {
		t.Fatalf("saved addresses want 2 got %d", len(saved))
	}
	if saved[0].Pincode != "682001" || saved[0].Address != "44 Beach Road" {
		t.Fatalf("newest address should be first, got %+v", saved[0])
	}
	if view.Preferences.ContactNumber != contact {
		t.Fatalf("contact want %s got %s", contact, view.Preferences.ContactNumber)
	}
}

func TestPreferenceUpdateKeepsFiveAddresses(t *testing.T) {
	f := newStoreFixture(t)
	for _, pin := range []string{"600001", "600002", "600003", "600004", "600005", "600006"} {
		if err := f.prefs.RememberAddress(f.user.ID, sampleAddress(pin)); err != nil {
			t.Fatalf("remember %s failed: %v", pin, err)
		}
	}
	view, err := f.prefs.Get(f.user.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	saved := view.Preferences.SavedAddresses
	if len(saved) != 5 {
		t.Fatalf("saved addresses want 5 got %d", len(saved))
	}
	if saved[0].Pincode != "600006" || saved[4].Pincode != "600002" {
		t.Fatalf("unexpected order: first=%s last=%s", saved[0].Pincode, saved[4].Pincode)
	}
	if view.ActiveLocation == nil || view.ActiveLocation.Pincode != "600006" {
		t.Fatalf("active location should follow last remembered address")
	}
	contact, err := f.prefs.ContactNumber(f.user.ID)
	if err != nil || contact != "9876543210" {
		t.Fatalf("contact should default to address phone, got %q %v", contact, err)
	}
}

func TestPreferenceUpdateRejectsInvalidAddress(t *testing.T) {
	f := newStoreFixture(t)
	bad := sampleAddress("682001")
	bad.City = " "
	_, err := f.prefs.Update(f.user.ID, ProfileUpdateInput{
		Preferences: cart.PreferencesPatch{SavedAddresses: []cart.Address{sampleAddress("682002"), bad}},
	})
	if !errors.Is(err, ErrAddressInvalid) {
		t.Fatalf("want ErrAddressInvalid got %v", err)
	}
	if fields := ValidationFields(err); len(fields) != 1 || fields[0] != "saved_addresses[1].city" {
		t.Fatalf("unexpected fields: %v", fields)
	}
	view, err := f.prefs.Get(f.user.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(view.Preferences.SavedAddresses) != 0 {
		t.Fatalf("invalid update must not persist, got %+v", view.Preferences.SavedAddresses)
	}
}
