package models

// MenuItem is a dish as listed on the menu.
type MenuItem struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Price        int64  `json:"price"`
	ImageURL     string `json:"image_url,omitempty"`
	CategoryName string `json:"category_name"`
	Available    bool   `json:"available"`
}

// MenuPage is one page of the menu listing.
type MenuPage struct {
	Items    []MenuItem `json:"items"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	Total    int        `json:"total"`
}
