package models

// ShoutoutPackage is catalog reference data. Requests copy Name and Price at creation.
type ShoutoutPackage struct {
	ID          string   `json:"id" mapstructure:"id"`
	Name        string   `json:"name" mapstructure:"name"`
	Description string   `json:"description" mapstructure:"description"`
	Price       float64  `json:"price" mapstructure:"price"`
	Features    []string `json:"features" mapstructure:"features"`
	Image       string   `json:"image" mapstructure:"image"`
}
