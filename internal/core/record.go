package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date format records carry ("YYYY-MM-DD").
const DateLayout = "2006-01-02"

// Suggested vocabularies for the two classified fields. Free text is always
// accepted; these only seed pickers and the taxonomy endpoint.
var (
	DefaultSpecialties = []string{
		"ENT", "General Surgery", "Orthopaedics", "Ophthalmology", "Urology",
		"Plastic", "Neurosurgery", "Maxillofacial", "Obstetrics", "Gynaecology",
		"Cardiac", "Thoracic", "Vascular", "Other",
	}

	DefaultRegionals = []string{
		"Spinal", "Epidural", "Supraclavicular", "Interscalene",
		"Adductor canal", "Femoral", "Popliteal",
		"Transversus abdominis plane (TAP)", "Wound infiltration",
	}
)

// Record is one logged case. ID and Date are the only fields the repository
// interprets; everything else passes through unvalidated. Date may be empty
// on legacy or sparse imports.
type Record struct {
	ID          string   `json:"id"`
	Date        string   `json:"date"`
	Session     string   `json:"session"`
	Specialty   string   `json:"specialty"`
	Operation   string   `json:"operation"`
	Priority    string   `json:"priority"`
	ASA         string   `json:"asa"`
	Age         string   `json:"age"`
	Anaesthetic string   `json:"anaestheticType"`
	Airway      string   `json:"airway"`
	Regional    []string `json:"regional"`
	Procedures  []string `json:"procedures"`
	Teaching    string   `json:"teaching"`
	Location    string   `json:"location"`
	Incidents   string   `json:"incidents"`
}

var ErrInvalidDate = errors.New("invalid date")

// ValidateDate checks the date field when present. An empty date is allowed;
// sparse records are stored and bucketed under the Unknown bucket instead of
// being rejected.
func (r Record) ValidateDate() error {
	if r.Date == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, r.Date)
	}
	return nil
}

// Less orders records for presentation: descending by date, ties broken by
// descending id so records sharing a date keep a deterministic order.
func (r Record) Less(other Record) bool {
	if r.Date != other.Date {
		return r.Date > other.Date
	}
	return r.ID > other.ID
}

// NewID returns a fresh record id. UUIDv7 combines a millisecond timestamp
// with random bits, so ids from one process are unique and sort in creation
// order. Collisions are treated as negligible, not verified against the
// store.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Random source failure; a nanosecond timestamp still satisfies
		// uniqueness within one interactive session.
		return fmt.Sprintf("ts-%d", time.Now().UnixNano())
	}
	return id.String()
}
