package pet

import (
	"time"
)

// Sex of an adoptable animal.
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// Pet is an animal listed for adoption. This service only reads it.
type Pet struct {
	id          uint
	name        string
	species     string
	sex         Sex
	ageYears    int
	description string
	imageURL    string
	available   bool
	interested  int
	attributes  []string
	cityID      uint
	createdAt   time.Time
}

// Reconstruct rebuilds a Pet from persistence data (no validation).
func Reconstruct(
	id uint,
	name, species string,
	sex Sex,
	ageYears int,
	description, imageURL string,
	available bool,
	interested int,
	attributes []string,
	cityID uint,
	createdAt time.Time,
) *Pet {
	return &Pet{
		id:          id,
		name:        name,
		species:     species,
		sex:         sex,
		ageYears:    ageYears,
		description: description,
		imageURL:    imageURL,
		available:   available,
		interested:  interested,
		attributes:  attributes,
		cityID:      cityID,
		createdAt:   createdAt,
	}
}

// --- Getters ---

func (p *Pet) ID() uint              { return p.id }
func (p *Pet) Name() string          { return p.name }
func (p *Pet) Species() string       { return p.species }
func (p *Pet) Sex() Sex              { return p.sex }
func (p *Pet) AgeYears() int         { return p.ageYears }
func (p *Pet) Description() string   { return p.description }
func (p *Pet) ImageURL() string      { return p.imageURL }
func (p *Pet) Available() bool       { return p.available }
func (p *Pet) Interested() int       { return p.interested }
func (p *Pet) CityID() uint          { return p.cityID }
func (p *Pet) CreatedAt() time.Time  { return p.createdAt }

// Attributes returns a copy of the pet's attribute tags.
func (p *Pet) Attributes() []string {
	out := make([]string, len(p.attributes))
	copy(out, p.attributes)
	return out
}

// HasAttribute checks whether the pet carries the given tag.
func (p *Pet) HasAttribute(tag string) bool {
	for _, a := range p.attributes {
		if a == tag {
			return true
		}
	}
	return false
}
