package models

// Well-known configuration keys.
const (
	ConfigCompanyName        = "company_name"
	ConfigCompanyDescription = "company_description"
	ConfigCompanyLogo        = "company_logo"
	ConfigEventName          = "event_name"
	ConfigPincode            = "pincode"
)

// Configuration is a single key/value settings row.
type Configuration struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
