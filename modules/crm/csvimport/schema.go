package csvimport

import "strings"

// Canonical header set. The downloadable template exposes exactly these
// columns; header matching is case-insensitive and whitespace-tolerant.
const (
	HeaderFullName         = "Full Name"
	HeaderPhone            = "Phone"
	HeaderPhoneCountryCode = "Phone Country Code"
	HeaderEmail            = "Email"
	HeaderSocialHandles    = "Social Handles"
	HeaderNotes            = "Notes"
	HeaderTags             = "Tags"
	HeaderAddressStreet    = "Address Street"
	HeaderAddressCity      = "Address City"
	HeaderAddressState     = "Address State"
	HeaderAddressPostal    = "Address Postal Code"
	HeaderAddressCountry   = "Address Country"
	HeaderCompanyName      = "Company Name"
	HeaderWebsite          = "Website"
	HeaderJobTitle         = "Job Title"
)

// TemplateHeaders returns the canonical column order of the CSV template.
func TemplateHeaders() []string {
	return []string{
		HeaderFullName,
		HeaderPhone,
		HeaderPhoneCountryCode,
		HeaderEmail,
		HeaderSocialHandles,
		HeaderNotes,
		HeaderTags,
		HeaderAddressStreet,
		HeaderAddressCity,
		HeaderAddressState,
		HeaderAddressPostal,
		HeaderAddressCountry,
		HeaderCompanyName,
		HeaderWebsite,
		HeaderJobTitle,
	}
}

// Template returns the template file contents: the header row only.
func Template() string {
	return strings.Join(TemplateHeaders(), ",") + "\n"
}

func canonicalHeader(raw string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(raw))
	for _, h := range TemplateHeaders() {
		if strings.ToLower(h) == needle {
			return h, true
		}
	}
	return "", false
}
