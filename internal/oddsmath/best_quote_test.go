package oddsmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prop-scout/internal/models"
)

func intPtr(v int) *int { return &v }

func TestSelectBestQuote(t *testing.T) {
	t.Run("PicksLowestImpliedProbabilityPerSide", func(t *testing.T) {
		vendors := []models.VendorPrice{
			{Vendor: "alpha", OverPrice: intPtr(-110), UnderPrice: intPtr(-110)},
			{Vendor: "beta", OverPrice: intPtr(105), UnderPrice: intPtr(-120)},
			{Vendor: "gamma", OverPrice: intPtr(-105), UnderPrice: intPtr(110)},
		}

		best := SelectBestQuote(vendors)

		require.NotNil(t, best.OverPrice)
		assert.Equal(t, 105, *best.OverPrice)
		require.NotNil(t, best.OverVendor)
		assert.Equal(t, "beta", *best.OverVendor)

		require.NotNil(t, best.UnderPrice)
		assert.Equal(t, 110, *best.UnderPrice)
		require.NotNil(t, best.UnderVendor)
		assert.Equal(t, "gamma", *best.UnderVendor)
	})

	t.Run("TiesResolveToFirstVendor", func(t *testing.T) {
		vendors := []models.VendorPrice{
			{Vendor: "alpha", OverPrice: intPtr(-110)},
			{Vendor: "beta", OverPrice: intPtr(-110)},
		}

		best := SelectBestQuote(vendors)

		require.NotNil(t, best.OverVendor)
		assert.Equal(t, "alpha", *best.OverVendor)
	})

	t.Run("MissingSideStaysAbsent", func(t *testing.T) {
		vendors := []models.VendorPrice{
			{Vendor: "alpha", OverPrice: intPtr(-115)},
			{Vendor: "beta", OverPrice: intPtr(-120)},
		}

		best := SelectBestQuote(vendors)

		require.NotNil(t, best.OverPrice)
		assert.Equal(t, -115, *best.OverPrice)
		assert.Nil(t, best.UnderPrice)
		assert.Nil(t, best.UnderVendor)
	})

	t.Run("InvalidPricesSkipped", func(t *testing.T) {
		vendors := []models.VendorPrice{
			{Vendor: "alpha", OverPrice: intPtr(0)},
			{Vendor: "beta", OverPrice: intPtr(-130)},
		}

		best := SelectBestQuote(vendors)

		require.NotNil(t, best.OverVendor)
		assert.Equal(t, "beta", *best.OverVendor)
	})

	t.Run("NoVendors", func(t *testing.T) {
		best := SelectBestQuote(nil)

		assert.Nil(t, best.OverPrice)
		assert.Nil(t, best.UnderPrice)
	})
}
