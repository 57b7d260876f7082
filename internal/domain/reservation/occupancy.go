package reservation

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidOccupancy = errors.New("reservation: at least one adult is required")

var childWeight = decimal.NewFromFloat(0.5)

// Occupancy is the guest breakdown of a stay. Children under five stay free
// and carry no pricing weight; children aged five to eight count as half an
// adult.
type Occupancy struct {
	Adults         int
	Children5To8   int
	ChildrenBelow5 int
}

func (o Occupancy) Validate() error {
	if o.Adults < 1 || o.Children5To8 < 0 || o.ChildrenBelow5 < 0 {
		return ErrInvalidOccupancy
	}
	return nil
}

// Headcount is the total number of occupants, used for capacity and for
// bracket-rate selection.
func (o Occupancy) Headcount() int {
	return o.Adults + o.Children5To8 + o.ChildrenBelow5
}

// Weight is the pricing weight: adults + 0.5 per child aged five to eight.
func (o Occupancy) Weight() decimal.Decimal {
	return decimal.NewFromInt(int64(o.Adults)).
		Add(childWeight.Mul(decimal.NewFromInt(int64(o.Children5To8))))
}
