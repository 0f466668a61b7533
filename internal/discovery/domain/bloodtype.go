package domain

import "fmt"

// BloodType is one of the eight ABO/Rh groups.
type BloodType string

const (
	APositive  BloodType = "A+"
	ANegative  BloodType = "A-"
	BPositive  BloodType = "B+"
	BNegative  BloodType = "B-"
	ABPositive BloodType = "AB+"
	ABNegative BloodType = "AB-"
	OPositive  BloodType = "O+"
	ONegative  BloodType = "O-"
)

// FilterAll selects every blood type when used as a pool filter.
const FilterAll = "all"

// BloodTypes lists all eight groups in display order.
var BloodTypes = []BloodType{
	APositive, ANegative,
	BPositive, BNegative,
	ABPositive, ABNegative,
	OPositive, ONegative,
}

// ParseBloodType validates a raw blood type string.
func ParseBloodType(raw string) (BloodType, error) {
	for _, bt := range BloodTypes {
		if string(bt) == raw {
			return bt, nil
		}
	}
	return "", fmt.Errorf("unknown blood type %q", raw)
}

// ParseFilter validates a blood type filter selection, which is either
// one of the eight groups or FilterAll.
func ParseFilter(raw string) (string, error) {
	if raw == FilterAll {
		return FilterAll, nil
	}
	bt, err := ParseBloodType(raw)
	if err != nil {
		return "", err
	}
	return string(bt), nil
}
