package models

import "strconv"

// CatalogueItem is one row of the catalogue worksheet. The ID is kept as the
// raw cell text because the sheet may contain non-numeric ids; NumericID
// reports the numeric interpretation where one exists.
type CatalogueItem struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Discount      float64 `json:"discount"` // percent, 0-100
	ExpectedPrice int64   `json:"expected_price"`
	ImageURL      string  `json:"image_url"`
	Sold          bool    `json:"sold"`
	Likes         int     `json:"likes"`
}

// NumericID returns the item's id as an integer, and whether the raw id was
// numeric at all.
func (i CatalogueItem) NumericID() (int, bool) {
	n, err := strconv.Atoi(i.ID)
	if err != nil {
		return 0, false
	}
	return n, true
}

type AdminAccount struct {
	Username       string `json:"username"`
	HashedPassword string `json:"-"`
}
