package domain

const minPostcodeLength = 6

// Location is a postcode plus a free-form street address.
type Location struct {
	Postcode string `json:"postcode"`
	Address  string `json:"address"`
}

// NewLocation fails with ErrInvalidLocation when the postcode is shorter
// than six characters.
func NewLocation(postcode, address string) (Location, error) {
	if len([]rune(postcode)) < minPostcodeLength {
		return Location{}, ValidationError{Field: "postcode", Msg: "postcode must be at least 6 characters", Err: ErrInvalidLocation}
	}
	return Location{Postcode: postcode, Address: address}, nil
}

// MustLocation is NewLocation for fixtures and catalog literals.
func MustLocation(postcode, address string) Location {
	loc, err := NewLocation(postcode, address)
	if err != nil {
		panic(err)
	}
	return loc
}

// IsNearTo compares postal areas: the first two characters of each postcode,
// case-sensitive.
func (l Location) IsNearTo(other Location) bool {
	return postalArea(l.Postcode) == postalArea(other.Postcode)
}

func postalArea(postcode string) string {
	r := []rune(postcode)
	if len(r) < 2 {
		return string(r)
	}
	return string(r[:2])
}
