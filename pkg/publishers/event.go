package publishers

import (
	"time"

	"github.com/samvad-hq/covid-board/internal/domain"
)

// Event represents the payload published downstream.
type Event struct {
	Country     string        `json:"country"`
	Region      string        `json:"region"`
	Record      domain.Record `json:"record"`
	CollectedAt time.Time     `json:"collected_at"`
}

// NewEvent constructs an Event for the given country + region record.
func NewEvent(country, region string, record domain.Record) Event {
	return Event{
		Country:     country,
		Region:      region,
		Record:      record,
		CollectedAt: time.Now().UTC(),
	}
}

// attributes are attached as message metadata by queue publishers.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"country": e.Country,
		"region":  e.Region,
	}
}
