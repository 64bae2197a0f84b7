package booking

import (
	"net/mail"
	"strings"
)

// CustomerDetails is a value object holding the contact data submitted with a
// booking form. Phone is optional.
type CustomerDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// validate appends field errors for missing or malformed contact data.
func (c CustomerDetails) validate(fields map[string]string) {
	if strings.TrimSpace(c.Name) == "" {
		fields["customer_name"] = "name is required"
	}
	if strings.TrimSpace(c.Email) == "" {
		fields["customer_email"] = "email is required"
	} else if _, err := mail.ParseAddress(c.Email); err != nil {
		fields["customer_email"] = "email is not a valid address"
	}
}
