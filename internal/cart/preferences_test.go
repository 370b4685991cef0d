package cart

import (
	"fmt"
	"testing"
)

func addr(pincode string) Address {
	return Address{Name: "Asha", Phone: "9876543210", Address: "12 Harbour Rd", City: "Kochi", State: "Kerala", Pincode: pincode}
}

func TestMergeAddressesDedupesByPincode(t *testing.T) {
	existing := []Address{addr("682001"), addr("682002")}
	updated := addr("682002")
	updated.Address = "44 Marine Drive"

	merged := MergeAddresses(existing, updated)
	if len(merged) != 2 {
		t.Fatalf("len want 2 got %d", len(merged))
	}
	if merged[0].Pincode != "682002" || merged[0].Address != "44 Marine Drive" {
		t.Fatalf("newest address should be first, got %+v", merged[0])
	}
}

func TestMergeAddressesCapsAtFive(t *testing.T) {
	var existing []Address
	for i := 0; i < MaxSavedAddresses; i++ {
		existing = append(existing, addr(fmt.Sprintf("68200%d", i)))
	}
	merged := MergeAddresses(existing, addr("690001"))
	if len(merged) != MaxSavedAddresses {
		t.Fatalf("len want %d got %d", MaxSavedAddresses, len(merged))
	}
	if merged[0].Pincode != "690001" {
		t.Fatalf("new address should lead, got %s", merged[0].Pincode)
	}
	if merged[len(merged)-1].Pincode != "682003" {
		t.Fatalf("oldest should be dropped, last is %s", merged[len(merged)-1].Pincode)
	}
}

func TestMergeAddressesKeepsSingleDefault(t *testing.T) {
	old := addr("682001")
	old.IsDefault = true
	fresh := addr("682009")
	fresh.IsDefault = true

	merged := MergeAddresses([]Address{old}, fresh)
	defaults := 0
	for _, a := range merged {
		if a.IsDefault {
			defaults++
		}
	}
	if defaults != 1 || !merged[0].IsDefault {
		t.Fatalf("want only newest default, got %+v", merged)
	}
}

func TestApplyPreferencesShallowMerge(t *testing.T) {
	current := Preferences{ContactNumber: "111", SavedAddresses: []Address{addr("682001")}}
	contact := " 222 "
	next := ApplyPreferences(current, PreferencesPatch{ContactNumber: &contact})
	if next.ContactNumber != "222" {
		t.Fatalf("contact want 222 got %q", next.ContactNumber)
	}
	if len(next.SavedAddresses) != 1 {
		t.Fatalf("addresses should be untouched")
	}
}
