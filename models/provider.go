package models

import (
	"time"

	"gorm.io/datatypes"
)

type Certification struct {
	Name        string `json:"name"`
	IssuingBody string `json:"issuingBody"`
	Year        int    `json:"year"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        int    `json:"year"`
}

// OfferedService is the free-form list a provider fills in at onboarding.
// Bookable offerings are Service records.
type OfferedService struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// GeoPoint follows the GeoJSON point layout: coordinates are [lng, lat].
type GeoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// Provider is a business offering services. Email and mobile are unique
// among providers only; they are not checked against users.
type Provider struct {
	ID                uint                                `json:"id" gorm:"primaryKey"`
	Name              string                              `json:"name" gorm:"not null"`
	Email             string                              `json:"email" gorm:"uniqueIndex;not null"`
	Mobile            string                              `json:"mobile" gorm:"uniqueIndex;not null"`
	Password          string                              `json:"-" gorm:"not null"`
	BusinessName      string                              `json:"businessName"`
	BusinessType      string                              `json:"businessType"`
	ServiceCategory   string                              `json:"serviceCategory"`
	Specialization    string                              `json:"specialization"`
	LicenseNumber     string                              `json:"licenseNumber"`
	YearsOfExperience string                              `json:"yearsOfExperience"`
	Address           datatypes.JSONType[Address]         `json:"address"`
	Certifications    datatypes.JSONSlice[Certification]  `json:"certifications"`
	Education         datatypes.JSONSlice[Education]      `json:"education"`
	Services          datatypes.JSONSlice[OfferedService] `json:"services"`
	InsuranceAccepted datatypes.JSONSlice[string]         `json:"insuranceAccepted"`
	Languages         datatypes.JSONSlice[string]         `json:"languages"`
	Location          datatypes.JSONType[GeoPoint]        `json:"location"`
	IsApproved        bool                                `json:"isApproved" gorm:"default:false"`
	IsVerified        bool                                `json:"isVerified" gorm:"default:false"`
	IsBlocked         bool                                `json:"isBlocked" gorm:"default:false"`
	Role              Role                                `json:"role" gorm:"type:varchar(16);default:provider"`
	CreatedAt         time.Time                           `json:"createdAt"`
	UpdatedAt         time.Time                           `json:"updatedAt"`
}

func (p *Provider) Summary() *PartySummary {
	if p == nil {
		return nil
	}
	return &PartySummary{ID: p.ID, Name: p.Name, Email: p.Email, Mobile: p.Mobile}
}
