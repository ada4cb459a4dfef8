package product

import (
	"fmt"

	"github.com/google/uuid"
)

// Category classifies a product. It is serialized as its integer value.
type Category int

// Known categories.
const (
	CategoryFood Category = iota
	CategoryConvenience
	CategoryCommodities
	CategoryDurables
	CategoryDigital
)

var categoryNames = [...]string{
	CategoryFood:        "Food",
	CategoryConvenience: "Convenience",
	CategoryCommodities: "Commodities",
	CategoryDurables:    "Durables",
	CategoryDigital:     "Digital",
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c >= CategoryFood && c <= CategoryDigital
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// Product represents a catalog entry.
type Product struct {
	ID       uuid.UUID // ID is assigned by the store and never changes
	Name     string
	Price    float64
	Category Category
}
