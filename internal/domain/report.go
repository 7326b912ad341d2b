package domain

// Report rows mirror the backend's aggregate endpoints. Counts come
// over the wire as strings (they originate from SQL COUNT columns
// serialized as text) and are passed through untouched.

// SalesPeriodRow is one bucket of the sales-by-period report.
type SalesPeriodRow struct {
	Period    string `json:"periodo"`
	TotalSold Money  `json:"total_vendido"`
	SaleCount string `json:"total_vendas"`
}

// ProductSalesRow is one product of the best-selling-products report.
type ProductSalesRow struct {
	ProductName   string `json:"nome_produto"`
	TotalQuantity string `json:"total_quantidade_vendida"`
	TotalValue    Money  `json:"total_valor_vendido"`
}

// UserSalesRow is one operator of the sales-by-operator report.
type UserSalesRow struct {
	Username   string `json:"nome_usuario"`
	Permission string `json:"permissao"`
	TotalSold  Money  `json:"total_vendido"`
	SaleCount  string `json:"total_vendas"`
}
