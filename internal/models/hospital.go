package models

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Hospital struct {
	BaseModel
	Name      string  `gorm:"not null" json:"name"`
	Address   string  `gorm:"not null" json:"address"`
	Phone     string  `gorm:"not null" json:"phone"`
	Email     string  `gorm:"uniqueIndex;not null" json:"email"` // stored lowercase
	Latitude  float64 `gorm:"not null" json:"latitude"`
	Longitude float64 `gorm:"not null" json:"longitude"`

	// Units on hand keyed by blood type.
	BloodBank datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"blood_bank"`

	CreatedByID uuid.UUID `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedBy   *User     `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

func (h *Hospital) Location() GeoPoint {
	return GeoPoint{Longitude: h.Longitude, Latitude: h.Latitude}
}

// BloodBankMap decodes the inventory column. Missing blood types read as zero.
func (h *Hospital) BloodBankMap() (map[BloodType]int, error) {
	out := make(map[BloodType]int, len(AllBloodTypes))
	for _, bt := range AllBloodTypes {
		out[bt] = 0
	}
	if len(h.BloodBank) == 0 {
		return out, nil
	}
	raw := make(map[string]int)
	if err := json.Unmarshal(h.BloodBank, &raw); err != nil {
		return nil, err
	}
	for k, v := range raw {
		out[BloodType(k)] = v
	}
	return out, nil
}

func (h *Hospital) SetBloodBank(bank map[BloodType]int) error {
	raw, err := json.Marshal(bank)
	if err != nil {
		return err
	}
	h.BloodBank = datatypes.JSON(raw)
	return nil
}

// DefaultBloodBank returns a zeroed inventory covering every blood type.
func DefaultBloodBank() map[BloodType]int {
	bank := make(map[BloodType]int, len(AllBloodTypes))
	for _, bt := range AllBloodTypes {
		bank[bt] = 0
	}
	return bank
}
