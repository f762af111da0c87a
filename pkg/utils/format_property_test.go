package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var usdPattern = regexp.MustCompile(`^-?\$\d{1,3}(,\d{3})*\.\d{2}$`)

// FormatUSD groups thousands with commas, keeps two decimals and
// round-trips to the same cent value.
func TestProperty_USDFormatting(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("FormatUSD produces grouped dollar amounts", prop.ForAll(
		func(amount float64) bool {
			formatted := FormatUSD(amount)
			if !usdPattern.MatchString(formatted) {
				t.Logf("unexpected format for %f: %s", amount, formatted)
				return false
			}

			plain := strings.NewReplacer("$", "", ",", "").Replace(formatted)
			parsed, err := strconv.ParseFloat(plain, 64)
			if err != nil {
				return false
			}
			return math.Abs(parsed-amount) <= 0.005+1e-9*math.Abs(amount)
		},
		gen.Float64Range(-1e12, 1e12),
	))

	properties.Property("FormatScore always carries a sign unless zero", prop.ForAll(
		func(score int) bool {
			s := FormatScore(score)
			switch {
			case score > 0:
				return strings.HasPrefix(s, "+")
			case score < 0:
				return strings.HasPrefix(s, "-")
			}
			return s == "0"
		},
		gen.IntRange(-20, 20),
	))

	properties.TestingRun(t)
}
