package domain

import (
	"fmt"
	"regexp"
	"time"
)

var projectCodePattern = regexp.MustCompile(`^[A-Z]{2,6}[0-9]{2,4}$`)

type Project struct {
	ID        int64
	Code      string
	Name      string
	Currency  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateCode checks that Code is non-empty and matches the required
// format: 2-6 uppercase letters followed by 2-4 digits (e.g. BRG01, PLANT2024).
func (p *Project) ValidateCode() error {
	if p.Code == "" {
		return fmt.Errorf("project code is required")
	}
	if !projectCodePattern.MatchString(p.Code) {
		return fmt.Errorf("project code %q must be 2-6 uppercase letters followed by 2-4 digits (e.g. BRG01)", p.Code)
	}
	return nil
}

// DisplayID returns the best short identifier for display.
func (p *Project) DisplayID() string {
	if p.Code != "" {
		return p.Code
	}
	return fmt.Sprintf("#%d", p.ID)
}
