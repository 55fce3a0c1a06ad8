package entity

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Gender is the closed set of genders a profile can carry.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// IsValid checks if the Gender is one of the known values or unset.
func (g Gender) IsValid() bool {
	switch g {
	case "", GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}

// UnmarshalJSON rejects values outside the enum so a corrupted persisted
// session is not silently rehydrated.
func (g *Gender) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.WithStack(err)
	}

	value := Gender(raw)
	if !value.IsValid() {
		return errors.Errorf("unknown gender: %q", raw)
	}
	*g = value

	return nil
}
