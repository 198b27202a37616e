package usecases

import (
	"errors"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ampersand and punctuation", "Tom & Jerry's Shop!!", "tom-and-jerrys-shop"},
		{"leading and trailing junk", "  --Ada's Kitchen--  ", "adas-kitchen"},
		{"unicode collapses", "Café Déjà Vu", "caf-d-j-vu"},
		{"digits kept", "Shop 24/7", "shop-24-7"},
		{"only symbols", "!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slugify(tt.in))
		})
	}
}

func TestGenerateSubdomain(t *testing.T) {
	sub, err := GenerateSubdomain("Tom & Jerry's Shop!!")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^tom-and-jerrys-shop-[a-z0-9]{4}$`), sub)
}

func TestGenerateSubdomain_SuffixError(t *testing.T) {
	orig := subdomainSuffix
	t.Cleanup(func() { subdomainSuffix = orig })
	subdomainSuffix = func() (string, error) { return "", errors.New("entropy") }

	_, err := GenerateSubdomain("Shop")
	assert.Error(t, err)
}

func TestGenerateSubdomain_EmptySlug(t *testing.T) {
	orig := subdomainSuffix
	t.Cleanup(func() { subdomainSuffix = orig })
	subdomainSuffix = func() (string, error) { return "ab12", nil }

	sub, err := GenerateSubdomain("***")
	require.NoError(t, err)
	assert.Equal(t, "ab12", sub)
}

func TestAmountFloat(t *testing.T) {
	assert.Equal(t, 3200.0, amountFloat(decimal.NewFromInt(3200)))
	assert.Equal(t, 10000.5, amountFloat(decimal.RequireFromString("10000.50")))
}
