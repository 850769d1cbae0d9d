package oddsmath

import (
	"github.com/yourusername/prop-scout/internal/models"
)

// SelectBestQuote picks, for each side independently, the vendor whose price
// carries the lowest implied probability, i.e. the most favorable payout for
// the bettor. Ties resolve to the earlier vendor in the list so repeated runs
// on identical input are deterministic. A side no vendor offers stays absent.
func SelectBestQuote(vendors []models.VendorPrice) models.BestQuote {
	var best models.BestQuote
	bestOverProb := 2.0
	bestUnderProb := 2.0

	for i := range vendors {
		v := vendors[i]

		if v.OverPrice != nil {
			if prob, err := AmericanToImpliedProbability(*v.OverPrice); err == nil && prob < bestOverProb {
				bestOverProb = prob
				best.OverPrice = v.OverPrice
				vendor := v.Vendor
				best.OverVendor = &vendor
			}
		}

		if v.UnderPrice != nil {
			if prob, err := AmericanToImpliedProbability(*v.UnderPrice); err == nil && prob < bestUnderProb {
				bestUnderProb = prob
				best.UnderPrice = v.UnderPrice
				vendor := v.Vendor
				best.UnderVendor = &vendor
			}
		}
	}

	return best
}
