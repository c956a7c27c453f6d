package model

// BookStatus is the curation stage of a candidate (discovery, review or confirmed)
type BookStatus string

// Book is a catalog record selected as an acquisition candidate
type Book struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	Publisher     string     `json:"publisher"`
	PubDate       string     `json:"pubDate"`
	Cover         string     `json:"cover"`
	Description   string     `json:"description"`
	ISBN13        string     `json:"isbn13"`
	PriceStandard float64    `json:"priceStandard" binding:"gte=0"`
	PriceSales    float64    `json:"priceSales" binding:"gte=0"`
	Link          string     `json:"link"`
	CategoryName  string     `json:"categoryName,omitempty"`
	Status        BookStatus `json:"status,omitempty"`
}
