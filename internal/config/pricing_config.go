package config

type PricingConfig interface {
	GetFreeShippingThreshold() float64
	GetFlatShipping() float64
	GetTaxRate() float64
	GetPromoCode() string
	GetPromoRate() float64
}

type Pricing struct{}

var _ PricingConfig = Pricing{}

func (Pricing) GetFreeShippingThreshold() float64 {
	return GetEnvAsFloat("FREE_SHIPPING_THRESHOLD", 50)
}

func (Pricing) GetFlatShipping() float64 {
	return GetEnvAsFloat("FLAT_SHIPPING", 5.99)
}

func (Pricing) GetTaxRate() float64 {
	return GetEnvAsFloat("TAX_RATE", 0.08)
}

func (Pricing) GetPromoCode() string {
	return GetEnv("PROMO_CODE", "AYURVEDH10")
}

func (Pricing) GetPromoRate() float64 {
	return GetEnvAsFloat("PROMO_RATE", 0.10)
}
