package pricing

// Mode selects how the resolver treats empty and inconsistent offers.
type Mode int

const (
	// ModeLenient treats empty numerics as 0 and clamps negative net prices to 0.
	ModeLenient Mode = iota
	// ModeStrict rejects an empty adult price and any discount larger than its price.
	ModeStrict
)

type Resolver struct {
	mode Mode
}

func NewResolver(mode Mode) Resolver {
	return Resolver{mode: mode}
}

// ModeFromStrict maps the boolean configuration switch to a Mode.
func ModeFromStrict(strict bool) Mode {
	if strict {
		return ModeStrict
	}

	return ModeLenient
}

// Resolve returns the net unit price of one category.
//
// Adult and single honor their net_price override when it is set; every
// other category is always price minus discount. Infants have no discount.
func (r Resolver) Resolve(offer Offer, category Category) (float64, error) {
	switch category {
	case CategoryAdult:
		if offer.NetPriceAdult != nil {
			return *offer.NetPriceAdult, nil
		}

		if offer.PriceAdult == nil && r.mode == ModeStrict {
			return 0, &PriceError{Category: category, Err: ErrMissingPrice}
		}

		return r.net(category, offer.PriceAdult, offer.DiscountAdult)
	case CategorySingle:
		if offer.NetPriceSingle != nil {
			return *offer.NetPriceSingle, nil
		}

		return r.net(category, offer.PriceSingle, offer.DiscountSingle)
	case CategoryChildBed:
		return r.net(category, offer.PriceChildBed, offer.DiscountChildBed)
	case CategoryChildNoBed:
		return r.net(category, offer.PriceChildNoBed, offer.DiscountChildNoBed)
	case CategoryInfant:
		return r.net(category, offer.PriceInfant, nil)
	default:
		return 0, ErrUnknownCategory
	}
}

// ResolveAll resolves every category of the offer at once.
func (r Resolver) ResolveAll(offer Offer) (Prices, error) {
	var prices Prices

	for _, category := range Categories {
		price, err := r.Resolve(offer, category)
		if err != nil {
			return Prices{}, err
		}

		switch category {
		case CategoryAdult:
			prices.Adult = price
		case CategorySingle:
			prices.Single = price
		case CategoryChildBed:
			prices.ChildBed = price
		case CategoryChildNoBed:
			prices.ChildNoBed = price
		case CategoryInfant:
			prices.Infant = price
		}
	}

	return prices, nil
}

func (r Resolver) net(category Category, price, discount *float64) (float64, error) {
	net := value(price) - value(discount)
	if net >= 0 {
		return net, nil
	}

	if r.mode == ModeStrict {
		return 0, &PriceError{Category: category, Err: ErrNegativeNetPrice}
	}

	return 0, nil
}
