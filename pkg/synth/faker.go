package synth

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	wordList = []string{
		"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "theta", "kappa",
		"lambda", "sigma", "omega", "quick", "brown", "fox", "lazy", "river",
		"stone", "cloud", "ember", "maple", "harbor", "signal", "vector", "orbit",
	}
	firstNames = []string{
		"John", "Jane", "Alex", "Maria", "Sam", "Taylor", "Jordan", "Morgan",
		"Priya", "Kenji", "Amara", "Lucas", "Noor", "Elena", "Mateo", "Aiko",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
		"Okafor", "Tanaka", "Novak", "Silva", "Khan", "Larsen", "Moreau", "Rossi",
	}
	emailDomains = []string{"example.com", "example.org", "example.net", "test.io"}
	streetNames  = []string{"Main St", "Oak Ave", "Park Blvd", "Cedar Ln", "Elm St", "Harbor Rd"}
	cityNames    = []string{
		"New York", "Los Angeles", "Chicago", "Houston", "Phoenix",
		"San Francisco", "Seattle", "Austin", "Denver", "Boston",
	}
	countryCodes  = []string{"US", "GB", "CA", "DE", "FR", "JP", "AU", "BR", "IN", "NL"}
	companyNames  = []string{"Acme", "Globex", "Initech", "Umbrella", "Stark", "Wayne", "Hooli"}
	companyKinds  = []string{"Corp", "Inc", "LLC", "Ltd", "Group"}
	colorNames    = []string{"Crimson", "Azure", "Emerald", "Ivory", "Coral", "Indigo", "Amber", "Teal"}
	jobLevels     = []string{"Senior", "Junior", "Lead", "Principal", "Staff"}
	jobFields     = []string{"Software", "Data", "Product", "Security", "Infrastructure"}
	jobRoles      = []string{"Engineer", "Analyst", "Manager", "Designer", "Architect"}
	currencyCodes = []string{"USD", "EUR", "GBP", "JPY", "AUD", "CAD", "CHF", "SEK"}
	mimeTypes     = []string{
		"application/json", "application/xml", "application/pdf",
		"text/plain", "text/csv", "image/png", "image/jpeg",
	}
)

const (
	alnum    = "abcdefghijklmnopqrstuvwxyz0123456789"
	digits   = "0123456789"
	hexChars = "0123456789abcdef"
)

// fakers maps faker names to generators. Field-name heuristics and string
// formats both resolve through this table.
var fakers = map[string]func(*Source) string{
	"word":      func(s *Source) string { return s.Pick(wordList) },
	"firstName": func(s *Source) string { return s.Pick(firstNames) },
	"lastName":  func(s *Source) string { return s.Pick(lastNames) },
	"name": func(s *Source) string {
		return s.Pick(firstNames) + " " + s.Pick(lastNames)
	},
	"email": func(s *Source) string {
		return strings.ToLower(s.Pick(firstNames)) + "." + strings.ToLower(s.Pick(lastNames)) +
			"@" + s.Pick(emailDomains)
	},
	"username": func(s *Source) string {
		return strings.ToLower(s.Pick(firstNames)) + randomChars(s, digits, 2)
	},
	"phone": func(s *Source) string {
		return "+1-555-" + randomChars(s, digits, 3) + "-" + randomChars(s, digits, 4)
	},
	"address": func(s *Source) string {
		return strconv.Itoa(s.Between(1, 9999)) + " " + s.Pick(streetNames) + ", " + s.Pick(cityNames)
	},
	"city":    func(s *Source) string { return s.Pick(cityNames) },
	"country": func(s *Source) string { return s.Pick(countryCodes) },
	"zip":     func(s *Source) string { return randomChars(s, digits, 5) },
	"company": func(s *Source) string {
		return s.Pick(companyNames) + " " + s.Pick(companyKinds)
	},
	"color": func(s *Source) string { return s.Pick(colorNames) },
	"jobTitle": func(s *Source) string {
		return s.Pick(jobLevels) + " " + s.Pick(jobFields) + " " + s.Pick(jobRoles)
	},
	"currencyCode": func(s *Source) string { return s.Pick(currencyCodes) },
	"mimeType":     func(s *Source) string { return s.Pick(mimeTypes) },
	"slug":         fakeSlug,
	"sentence":     fakeSentence,
	"title": func(s *Source) string {
		return cases.Title(language.English).String(fakeWords(s, s.Between(2, 4)))
	},
	"ipv4": func(s *Source) string {
		return fmt.Sprintf("%d.%d.%d.%d", s.IntN(256), s.IntN(256), s.IntN(256), s.IntN(256))
	},
	"ipv6": func(s *Source) string {
		groups := make([]string, 8)
		for i := range groups {
			groups[i] = randomChars(s, hexChars, 4)
		}
		return strings.Join(groups, ":")
	},
	"uuid": func(s *Source) string { return s.UUID() },
	"url": func(s *Source) string {
		return "https://example.com/" + fakeSlug(s)
	},
	"hostname": func(s *Source) string { return s.Pick(wordList) + ".example.com" },
	"password": func(s *Source) string {
		return "P@ss" + randomChars(s, alnum, 8) + "!"
	},
	"byte": func(s *Source) string {
		buf := make([]byte, s.Between(4, 12))
		_, _ = s.Read(buf)
		return base64.StdEncoding.EncodeToString(buf)
	},
	"binary":   func(s *Source) string { return randomChars(s, hexChars, 2*s.Between(4, 12)) },
	"duration": func(s *Source) string { return strconv.Itoa(s.Between(1, 86400)) + "s" },
	"integer":  func(s *Source) string { return strconv.Itoa(s.Between(0, 1000)) },
	"boolean":  func(s *Source) string { return strconv.FormatBool(s.Bool()) },
	"ssn": func(s *Source) string {
		return fmt.Sprintf("%03d-%02d-%04d", s.Between(100, 899), s.Between(1, 99), s.Between(1, 9999))
	},
}

func fakeWords(s *Source, n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = s.Pick(wordList)
	}
	return strings.Join(words, " ")
}

func fakeSentence(s *Source) string {
	sentence := fakeWords(s, s.Between(4, 9))
	return strings.ToUpper(sentence[:1]) + sentence[1:] + "."
}

func fakeSlug(s *Source) string {
	return strings.ReplaceAll(fakeWords(s, s.Between(2, 3)), " ", "-")
}

func randomChars(s *Source, charset string, n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = charset[s.IntN(len(charset))]
	}
	return string(buf)
}

// fakerForField maps common property names to a faker.
//
//nolint:gocyclo // a flat switch reads better than a lookup table with predicates
func fakerForField(name string) string {
	lower := strings.ToLower(name)

	switch {
	case strings.HasSuffix(lower, "email"):
		return "email"
	case lower == "phone" || lower == "mobile" || lower == "tel" || strings.HasSuffix(lower, "phone"):
		return "phone"
	case lower == "name" || lower == "full_name" || lower == "fullname" || lower == "display_name":
		return "name"
	case lower == "first_name" || lower == "firstname" || lower == "given_name":
		return "firstName"
	case lower == "last_name" || lower == "lastname" || lower == "surname" || lower == "family_name":
		return "lastName"
	case lower == "username" || lower == "user_name" || lower == "login" || lower == "handle":
		return "username"
	case lower == "address" || lower == "street" || lower == "street_address":
		return "address"
	case lower == "city":
		return "city"
	case lower == "country" || lower == "country_code":
		return "country"
	case lower == "zip" || lower == "zipcode" || lower == "zip_code" || lower == "postal_code":
		return "zip"
	case lower == "company" || lower == "organization" || lower == "org":
		return "company"
	case lower == "url" || lower == "uri" || lower == "href" || lower == "link" || lower == "website":
		return "url"
	case lower == "host" || lower == "hostname" || lower == "domain":
		return "hostname"
	case lower == "ip" || lower == "ip_address" || lower == "ipaddress":
		return "ipv4"
	case lower == "color" || lower == "colour":
		return "color"
	case lower == "job_title" || lower == "jobtitle" || lower == "position":
		return "jobTitle"
	case lower == "title" || lower == "headline" || lower == "subject":
		return "title"
	case lower == "description" || lower == "bio" || lower == "summary" || lower == "about":
		return "sentence"
	case lower == "id" || lower == "uuid" || lower == "guid":
		return "uuid"
	case lower == "slug":
		return "slug"
	case lower == "currency" || lower == "currency_code":
		return "currencyCode"
	case lower == "mime_type" || lower == "mimetype" || lower == "content_type":
		return "mimeType"
	case lower == "password" || lower == "secret":
		return "password"
	case lower == "ssn":
		return "ssn"
	}
	return ""
}
