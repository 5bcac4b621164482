package models

import "time"

// FlockStatus is the lifecycle status recorded by the farm operator.
type FlockStatus string

const (
	FlockStatusCria       FlockStatus = "cria"
	FlockStatusRecria     FlockStatus = "recria"
	FlockStatusProduccion FlockStatus = "produccion"
	FlockStatusDescarte   FlockStatus = "descarte"
)

// OutbreakStatus tracks the state of a disease outbreak.
type OutbreakStatus string

const (
	OutbreakActive     OutbreakStatus = "active"
	OutbreakControlled OutbreakStatus = "controlled"
	OutbreakResolved   OutbreakStatus = "resolved"
)

// VaccineStatus tracks whether a scheduled vaccine was given.
type VaccineStatus string

const (
	VaccineApplied VaccineStatus = "applied"
	VaccinePending VaccineStatus = "pending"
)

// Flock is a group of birds housed and managed together.
type Flock struct {
	ID        string      `json:"id"`
	Name      string      `json:"name,omitempty"`
	Count     int         `json:"count"` // initial head count
	Status    FlockStatus `json:"status,omitempty"`
	BirthDate *time.Time  `json:"birth_date,omitempty"`
}

// ProductionRecord captures one flock-day of egg collection and losses.
type ProductionRecord struct {
	Date          time.Time `json:"date"`
	FlockID       string    `json:"flock_id"`
	EggsCollected int       `json:"eggs_collected"`
	Deaths        int       `json:"deaths"`
}

// FeedPurchase captures feed entering the store.
type FeedPurchase struct {
	Date       time.Time `json:"date"`
	QuantityKg float64   `json:"quantity_kg"`
	Cost       float64   `json:"cost,omitempty"`
}

// FeedConsumption captures feed handed out, optionally to a single flock.
type FeedConsumption struct {
	Date       time.Time `json:"date"`
	FlockID    string    `json:"flock_id,omitempty"`
	QuantityKg float64   `json:"quantity_kg"`
}

// Outbreak is a disease event affecting a flock. Deaths are separate from daily production deaths.
type Outbreak struct {
	Date    time.Time      `json:"date"`
	FlockID string         `json:"flock_id"`
	Disease string         `json:"disease"`
	Status  OutbreakStatus `json:"status"`
	Deaths  int            `json:"deaths"`
}

// IsActive reports whether the outbreak is still ongoing.
func (o Outbreak) IsActive() bool { return o.Status == OutbreakActive }

// Vaccine is a scheduled vaccination for a flock.
type Vaccine struct {
	FlockID       string        `json:"flock_id"`
	Name          string        `json:"name"`
	ScheduledDate time.Time     `json:"scheduled_date"`
	Status        VaccineStatus `json:"status"`
}

// IsPending reports whether the vaccine still has to be applied. Anything not marked applied is pending.
func (v Vaccine) IsPending() bool { return v.Status != VaccineApplied }

// StressEvent is a recorded stressor (heat wave, predator, power cut, ...).
type StressEvent struct {
	Date     time.Time `json:"date"`
	Kind     string    `json:"kind,omitempty"`
	Severity float64   `json:"severity"`
}

// WeatherSample is one temperature/humidity reading at the farm.
type WeatherSample struct {
	Date     time.Time `json:"date"`
	Temp     float64   `json:"temp"`     // °C
	Humidity float64   `json:"humidity"` // % RH
}

// Expense captures operating expenses.
type Expense struct {
	Date     time.Time `json:"date"`
	Category string    `json:"category"`
	Amount   float64   `json:"amount"`
}

// Income captures sales. Value uses Quantity*UnitPrice when set, Amount otherwise.
type Income struct {
	Date      time.Time `json:"date"`
	Client    string    `json:"client,omitempty"`
	Quantity  float64   `json:"quantity,omitempty"`
	UnitPrice float64   `json:"unit_price,omitempty"`
	Amount    float64   `json:"amount,omitempty"`
}

// Value returns the monetary value of the sale.
func (i Income) Value() float64 {
	if v := i.Quantity * i.UnitPrice; v != 0 {
		return v
	}
	return i.Amount
}

// PestSighting is a rodent/insect/wild bird sighting in a biosecurity zone.
type PestSighting struct {
	Date     time.Time `json:"date"`
	Zone     string    `json:"zone,omitempty"`
	Severity int       `json:"severity"`
	Resolved bool      `json:"resolved"`
}

// BioZone is a biosecurity zone with a traffic-light risk level (green, yellow, red).
type BioZone struct {
	Name      string `json:"name"`
	RiskLevel string `json:"risk_level"`
}

// Biosecurity groups pest and zone records.
type Biosecurity struct {
	PestSightings []PestSighting `json:"pest_sightings"`
	Zones         []BioZone      `json:"zones"`
}
