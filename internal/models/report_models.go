package models

// RevenueReport aggregates payments between two dates.
type RevenueReport struct {
	FromDate                string `json:"from_date"`
	ToDate                  string `json:"to_date"`
	TotalRevenue            int64  `json:"total_revenue"`
	TotalTransactions       int    `json:"total_transactions"`
	AverageTransactionValue int64  `json:"average_transaction_value"`
	CashRevenue             int64  `json:"cash_revenue"`
	CashTransactions        int    `json:"cash_transactions"`
	QRCodeRevenue           int64  `json:"qr_code_revenue"`
	QRCodeTransactions      int    `json:"qr_code_transactions"`
	CreditCardRevenue       int64  `json:"credit_card_revenue"`
	CreditCardTransactions  int    `json:"credit_card_transactions"`
}

// MonthlyStats summarizes orders for one calendar month.
type MonthlyStats struct {
	Year              int            `json:"year"`
	Month             int            `json:"month"`
	TotalOrders       int            `json:"total_orders"`
	TotalRevenue      int64          `json:"total_revenue"`
	AverageOrderValue int64          `json:"average_order_value"`
	OrdersByStatus    map[string]int `json:"orders_by_status"`
}

// BestSellingItem is a menu item ranked by quantity sold.
type BestSellingItem struct {
	MenuItemID        int64  `json:"menu_item_id"`
	MenuItemName      string `json:"menu_item_name"`
	Description       string `json:"description,omitempty"`
	ImageURL          string `json:"image_url,omitempty"`
	Price             int64  `json:"price"`
	CategoryName      string `json:"category_name"`
	TotalQuantitySold int    `json:"total_quantity_sold"`
	TotalRevenue      int64  `json:"total_revenue"`
}

// ReportRequestParams holds common parameters for requesting reports.
type ReportRequestParams struct {
	FromDate string `form:"from_date"` // YYYY-MM-DD
	ToDate   string `form:"to_date"`   // YYYY-MM-DD
	Year     int    `form:"year"`
	Month    int    `form:"month"`
	Limit    int    `form:"limit"`
}
