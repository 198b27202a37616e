package usecases

import (
	"strings"

	"github.com/shopspring/decimal"

	"collabriss.backend/pkg/crypto"
)

var subdomainSuffix = func() (string, error) {
	return crypto.RandomLowerAlphanumeric(SubdomainSuffixLength)
}

// slugify lowercases name, spells out '&', drops apostrophes and collapses
// every run outside [a-z0-9] to a single '-'.
func slugify(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, "&", "and")
	s = strings.NewReplacer("'", "", "’", "").Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingDash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// GenerateSubdomain builds "<slug>-<4 random [a-z0-9]>" from a business name.
// No uniqueness check is made against existing subdomains.
func GenerateSubdomain(businessName string) (string, error) {
	suffix, err := subdomainSuffix()
	if err != nil {
		return "", err
	}
	slug := slugify(businessName)
	if slug == "" {
		return suffix, nil
	}
	return slug + "-" + suffix, nil
}

func amountFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

