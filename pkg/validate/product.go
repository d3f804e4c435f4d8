package validate

import (
	"github.com/shopspring/decimal"

	"github.com/marketsaas/marketsaas/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// IsCommission reports whether pct is a valid commission percentage (0-100).
func IsCommission(pct decimal.Decimal) bool {
	return pct.Sign() >= 0 && pct.LessThanOrEqual(hundred)
}

func IsPrice(price decimal.Decimal) bool {
	return price.Sign() >= 0
}

func IsProductModel(model domain.ProductModel) bool {
	return model == domain.ModelRecurring || model == domain.ModelWhitelabel
}

func IsProductStatus(status domain.ProductStatus) bool {
	return status == domain.ProductActive || status == domain.ProductPaused
}
