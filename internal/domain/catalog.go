package domain

// Product represents a catalog product as served by the backend.
// Field names on the wire follow the backend's pt-BR schema.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"nome"`
	Description *string `json:"descricao"`
	SalePrice   Money   `json:"preco_venda"`
	Stock       int     `json:"estoque"`
	Barcode     *string `json:"codigo_barras"`
	Active      bool    `json:"ativo"`
	CreatedAt   string  `json:"criado_em"`
	UpdatedAt   string  `json:"atualizado_em"`
}

// Client represents a registered client.
type Client struct {
	ID        int64   `json:"id"`
	Name      string  `json:"nome"`
	CPFCNPJ   *string `json:"cpf_cnpj"`
	Email     *string `json:"email"`
	Phone     string  `json:"telefone"`
	Address   *string `json:"endereco"`
	CreatedAt string  `json:"criado_em"`
}

// User represents a system user (a sale's operator).
type User struct {
	ID         int64  `json:"id"`
	Username   string `json:"nome_usuario"`
	Permission string `json:"permissao"`
	Active     bool   `json:"ativo"`
	CreatedAt  string `json:"criado_em"`
}
