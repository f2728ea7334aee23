package dto

import (
	"time"

	"github.com/bookadzone/launch-api/internal/domain"
	"github.com/bookadzone/launch-api/internal/service"
)

// LocationHint is the optional browser-side geolocation result sent with a
// signup.
type LocationHint struct {
	City    string   `json:"city"`
	Region  string   `json:"region"`
	Country string   `json:"country"`
	ISP     string   `json:"isp"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

// SignupRequest is the launch-notification form payload.
type SignupRequest struct {
	FullName       string        `json:"fullName"`
	CompanyName    string        `json:"companyName"`
	Position       string        `json:"position"`
	Email          string        `json:"email"`
	ProfileType    string        `json:"profileType"`
	ClientLocation *LocationHint `json:"clientLocation,omitempty"`
}

// ToInput converts the request into a service input.
func (r SignupRequest) ToInput() service.SignupInput {
	input := service.SignupInput{
		FullName:    r.FullName,
		CompanyName: r.CompanyName,
		Position:    r.Position,
		Email:       r.Email,
		ProfileType: r.ProfileType,
	}
	if r.ClientLocation != nil {
		input.ClientLocation = &domain.Location{
			City:    r.ClientLocation.City,
			Region:  r.ClientLocation.Region,
			Country: r.ClientLocation.Country,
			ISP:     r.ClientLocation.ISP,
			Lat:     r.ClientLocation.Lat,
			Lon:     r.ClientLocation.Lon,
		}
	}
	return input
}

// SubscribeRequest is the newsletter payload.
type SubscribeRequest struct {
	Email string `json:"email"`
}

// SignupData is the persisted record echoed back on success.
type SignupData struct {
	ID          string          `json:"id"`
	FullName    string          `json:"fullName"`
	CompanyName string          `json:"companyName"`
	Position    string          `json:"position"`
	Email       string          `json:"email"`
	ProfileType string          `json:"profileType"`
	Location    domain.Location `json:"location"`
	IPAddress   string          `json:"ipAddress"`
	Status      string          `json:"status"`
	SignupDate  time.Time       `json:"signupDate"`
}

// NewSignupData maps a domain record to its response shape.
func NewSignupData(signup *domain.Signup) SignupData {
	return SignupData{
		ID:          signup.ID,
		FullName:    signup.FullName,
		CompanyName: signup.CompanyName,
		Position:    signup.Position,
		Email:       signup.Email,
		ProfileType: string(signup.ProfileType),
		Location:    signup.Location,
		IPAddress:   signup.IPAddress,
		Status:      string(signup.Status),
		SignupDate:  signup.SignupDate,
	}
}
