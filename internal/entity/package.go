package entity

import "errors"

var ErrPackageNotFound = errors.New("film package not found")

// FilmPackage is one entry on the pricing page. Prices are listed
// starting prices in whole USD; the deposit collected at booking is
// half the listed price.
type FilmPackage struct {
	Slug       string
	Name       string
	PriceUSD   int
	Collection string
}

const DepositPercent = 50

// DepositCents returns the booking deposit in cents.
func (p FilmPackage) DepositCents() int64 {
	return int64(p.PriceUSD) * 100 * DepositPercent / 100
}

// Catalog mirrors the published pricing page. Kept in code: the site
// and this service deploy together, and prices change by release.
var Catalog = []FilmPackage{
	{Slug: "elopement-films", Name: "Elopement Films", PriceUSD: 2400, Collection: "The Elopement Collection"},
	{Slug: "wedding-day-films", Name: "Wedding Day Films", PriceUSD: 3500, Collection: "The Wedding Day Collection"},
	{Slug: "feature-films", Name: "Feature Films", PriceUSD: 5800, Collection: "The Feature Film Collection"},
}

func FindPackageBySlug(slug string) (*FilmPackage, error) {
	for i := range Catalog {
		if Catalog[i].Slug == slug {
			return &Catalog[i], nil
		}
	}
	return nil, ErrPackageNotFound
}
