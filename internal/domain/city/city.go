package city

import "context"

// City is a read-only reference entity looked up by postal code.
type City struct {
	id         uint
	name       string
	postalCode int
}

// Reconstruct rebuilds a City from persistence data.
func Reconstruct(id uint, name string, postalCode int) *City {
	return &City{id: id, name: name, postalCode: postalCode}
}

func (c *City) ID() uint        { return c.id }
func (c *City) Name() string    { return c.name }
func (c *City) PostalCode() int { return c.postalCode }

// CityRepository defines read access to cities.
type CityRepository interface {
	// FindByPostalCode returns a NotFound domain error when no city matches.
	FindByPostalCode(ctx context.Context, postalCode int) (*City, error)
}
