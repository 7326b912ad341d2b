package domain

// Sale statuses known to this service. The backend only ever reports
// a sale as completed or cancelled; cancellation is terminal.
const (
	SaleStatusCompleted = "Concluída"
	SaleStatusCancelled = "Cancelada"
)

// Payment methods accepted at the counter.
var PaymentMethods = []string{
	"Dinheiro",
	"Cartão de Crédito",
	"Cartão de Débito",
	"Pix",
	"Boleto",
}

// ValidPaymentMethod reports whether s is one of the accepted methods.
func ValidPaymentMethod(s string) bool {
	for _, m := range PaymentMethods {
		if m == s {
			return true
		}
	}
	return false
}

// Sale is a backend-owned order record. The counter only ever reads
// sales or transitions their status via cancellation; line items are
// immutable snapshots taken at sale time.
type Sale struct {
	ID            int64      `json:"id"`
	ClientID      *int64     `json:"cliente_id"`
	UserID        int64      `json:"usuario_id"`
	OccurredAt    string     `json:"data_hora"`
	Total         Money      `json:"total_venda"`
	PaymentMethod string     `json:"forma_pagamento"`
	Status        string     `json:"status"`
	Items         []SaleItem `json:"itens,omitempty"`
}

// IsCancelled reports whether the sale has reached its terminal state.
func (s *Sale) IsCancelled() bool {
	return s.Status == SaleStatusCancelled
}

// SaleItem is one historical line of a sale. Quantity and unit price
// are fixed at sale time and never track later product price changes.
type SaleItem struct {
	ID           int64  `json:"id"`
	SaleID       int64  `json:"venda_id"`
	ProductID    int64  `json:"produto_id"`
	Quantity     int    `json:"quantidade"`
	UnitPrice    Money  `json:"preco_unitario_vendido"`
	Subtotal     Money  `json:"subtotal"`
	ProductName  string `json:"nome_produto,omitempty"`
	CurrentPrice *Money `json:"preco_atual_produto,omitempty"`
}
