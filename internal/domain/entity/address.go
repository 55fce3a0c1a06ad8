// Package entity contains the core business objects of the project.
package entity

// Address is a postal address saved on a user profile.
type Address struct {
	Line    string `json:"line" mapstructure:"line"`
	City    string `json:"city" mapstructure:"city"`
	State   string `json:"state" mapstructure:"state"`
	Zip     string `json:"zip" mapstructure:"zip"`
	Country string `json:"country" mapstructure:"country"`
}
