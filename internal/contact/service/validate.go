package service

import (
	"regexp"

	"vantix_site_backend/platform/validator"
)

// emailShapeRegex accepts a simple local@domain.tld shape. Deliverability is
// not checked; the address only needs to be plausible enough to set reply-to.
var emailShapeRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var fieldMessages = map[string]string{
	"Name.required":    "name is required",
	"Email.required":   "email is required",
	"Service.required": "please select a service",
	"Message.required": "message is required",
	"Message.min":      "message must be at least 20 characters",
}

var fieldKeys = map[string]string{
	"Name":    "name",
	"Email":   "email",
	"Service": "service",
	"Message": "message",
}

// validate runs required-field and shape checks against the sanitized
// submission and returns a field-to-message map; an empty map means valid.
func (s *Service) validate(sub sanitizedSubmission) map[string]string {
	fields := make(map[string]string)

	if err := s.val.Struct(sub); err != nil {
		if verrs, ok := validator.Errors(err); ok {
			for _, fe := range verrs {
				key, known := fieldKeys[fe.StructField()]
				if !known {
					continue
				}
				message, found := fieldMessages[fe.StructField()+"."+fe.Tag()]
				if !found {
					message = "invalid value"
				}
				fields[key] = message
			}
		} else {
			fields["form"] = "invalid submission"
		}
	}

	if _, taken := fields["email"]; !taken && sub.Email != "" && !emailShapeRegex.MatchString(sub.Email) {
		fields["email"] = "please enter a valid email address"
	}

	return fields
}
