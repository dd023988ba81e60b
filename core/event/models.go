package event

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jaymarkubaran15-svg/memotrace/core"
)

// Event is an announced gathering with an optional geocoded location and
// image attachments.
type Event struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"author_id"`
	Content      string    `json:"content"`
	LocationName string    `json:"location_name,omitempty"`
	Latitude     float64   `json:"lat,omitempty"`
	Longitude    float64   `json:"lng,omitempty"`
	Images       []string  `json:"images"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

// Place is one geocoder result.
type Place struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// NewEvent defines the information needed to announce an event. Images carry
// storage references produced by the upload boundary.
type NewEvent struct {
	Content      string   `json:"content" validate:"required"`
	LocationName string   `json:"location_name"`
	Latitude     float64  `json:"lat" validate:"omitempty,min=-90,max=90"`
	Longitude    float64  `json:"lng" validate:"omitempty,min=-180,max=180"`
	Images       []string `json:"images"`
}

func (ne *NewEvent) Validate(validate *validator.Validate) error {
	ne.Content = core.CleanString(ne.Content)
	ne.LocationName = core.CleanString(ne.LocationName)
	return validate.Struct(ne)
}
