package location

// AddLocationRequest holds data for adding a location to the caller's vendor.
type AddLocationRequest struct {
	Name       string   `json:"name" validate:"omitempty,min=2,max=255"`
	Address    string   `json:"address" validate:"required,min=5,max=500"`
	City       string   `json:"city" validate:"required,min=2,max=255"`
	PostalCode string   `json:"postal_code" validate:"max=20"`
	Country    string   `json:"country" validate:"required,min=2,max=255"`
	Latitude   *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude  *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	IsHQ       bool     `json:"is_hq"`
}
