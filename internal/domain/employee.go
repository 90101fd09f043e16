package domain

import (
	"strings" // Case folding for search keys
	"time"    // Timestamps

	"github.com/google/uuid" // UUID generation for ids
	"gorm.io/gorm"           // GORM ORM library
)

// Designations
const (
	DesignationHR      = "HR"
	DesignationManager = "Manager"
	DesignationSales   = "Sales"
)

// Genders
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other" // Accepted on update only
)

// Courses
const (
	CourseMCA = "MCA"
	CourseBCA = "BCA"
	CourseBSC = "BSC"
)

// Employee Model
type Employee struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`               // Primary key
	Name        string    `gorm:"size:191;not null" json:"name"`              // Full name
	Email       string    `gorm:"uniqueIndex;size:191;not null" json:"email"` // Unique email
	Mobile      string    `gorm:"size:32;not null" json:"mobile"`             // Mobile number
	Designation string    `gorm:"size:16;not null" json:"designation"`        // HR, Manager or Sales
	Gender      string    `gorm:"size:16;not null" json:"gender"`             // Male, Female or Other
	Course      []string  `gorm:"serializer:json;type:text" json:"course"`    // MCA, BCA, BSC
	Image       string    `gorm:"size:255" json:"image"`                      // Stored image filename
	NameLower   string    `gorm:"size:191;index" json:"-"`                    // Folded name for search
	EmailLower  string    `gorm:"size:191;index" json:"-"`                    // Folded email for search
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`            // Creation time
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`            // Last update time
}

// BeforeCreate assigns a UUID when the id is empty and folds the search keys
func (e *Employee) BeforeCreate(*gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString() // Generate id
	}
	e.FoldSearchKeys()
	return nil
}

// FoldSearchKeys refreshes the lower-cased name and email used by search.
// Search reads these columns instead of SQL LOWER, which folds ASCII only on sqlite.
func (e *Employee) FoldSearchKeys() {
	e.NameLower = strings.ToLower(e.Name)
	e.EmailLower = strings.ToLower(e.Email)
}

// ValidDesignation reports whether d is an allowed designation
func ValidDesignation(d string) bool {
	switch d {
	case DesignationHR, DesignationManager, DesignationSales:
		return true
	}
	return false
}

// ValidGender reports whether g is allowed; Other only when allowOther is set
func ValidGender(g string, allowOther bool) bool {
	switch g {
	case GenderMale, GenderFemale:
		return true
	case GenderOther:
		return allowOther
	}
	return false
}

// ValidCourse reports whether c is an allowed course
func ValidCourse(c string) bool {
	switch c {
	case CourseMCA, CourseBCA, CourseBSC:
		return true
	}
	return false
}
