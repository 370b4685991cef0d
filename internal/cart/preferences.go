package cart

import "strings"

// MaxSavedAddresses 最多保留的地址数
const MaxSavedAddresses = 5

// MergeAddresses 新地址置前，按 pincode 去重（新者覆盖旧者），截断至 5 条，且只保留一个默认地址
func MergeAddresses(existing []Address, incoming ...Address) []Address {
	merged := make([]Address, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	hasDefault := false

	appendUnique := func(addr Address) {
		key := strings.TrimSpace(addr.Pincode)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		if addr.IsDefault {
			if hasDefault {
				addr.IsDefault = false
			}
			hasDefault = true
		}
		merged = append(merged, addr)
	}

	for _, addr := range incoming {
		appendUnique(addr)
	}
	for _, addr := range existing {
		appendUnique(addr)
	}
	if len(merged) > MaxSavedAddresses {
		merged = merged[:MaxSavedAddresses]
	}
	return merged
}

// ApplyPreferences 浅合并偏好
func ApplyPreferences(current Preferences, patch PreferencesPatch) Preferences {
	next := Preferences{
		ContactNumber:  current.ContactNumber,
		SavedAddresses: current.SavedAddresses,
	}
	if patch.ContactNumber != nil {
		next.ContactNumber = strings.TrimSpace(*patch.ContactNumber)
	}
	if len(patch.SavedAddresses) > 0 {
		next.SavedAddresses = MergeAddresses(current.SavedAddresses, patch.SavedAddresses...)
	}
	return next
}
