package obslog

import "strings"

// MaskEmail masks an email address for logging: the first 2 characters
// of the localpart, then "***@", then the domain unmasked.
func MaskEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return "***"
	}

	local, domain := email[:at], email[at+1:]
	prefixLen := 2
	if len(local) < prefixLen {
		prefixLen = len(local)
	}

	return local[:prefixLen] + "***@" + domain
}

// MaskPhone masks a phone number for logging: the leading "+NN" country
// code, then "****", then the last 2 digits.
func MaskPhone(phone string) string {
	const (
		countryCodeLen = 3 // "+NN"
		suffixLen      = 2
	)

	if len(phone) < countryCodeLen+suffixLen {
		return "****"
	}

	return phone[:countryCodeLen] + "****" + phone[len(phone)-suffixLen:]
}

// Email returns a zap field with the email value masked.
func Email(key, email string) Field {
	return String(key, MaskEmail(email))
}

// Phone returns a zap field with the phone value masked.
func Phone(key, phone string) Field {
	return String(key, MaskPhone(phone))
}

// Emails masks a slice of emails element-wise.
func Emails(key string, emails []string) Field {
	masked := make([]string, len(emails))
	for i, e := range emails {
		masked[i] = MaskEmail(e)
	}
	return Strings(key, masked)
}

// Phones masks a slice of phone numbers element-wise.
func Phones(key string, phones []string) Field {
	masked := make([]string, len(phones))
	for i, p := range phones {
		masked[i] = MaskPhone(p)
	}
	return Strings(key, masked)
}
