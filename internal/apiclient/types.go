package apiclient

// Wire types follow the backend's pt-BR field names.

type Cliente struct {
	ID           int64  `json:"id"`
	Nome         string `json:"nome"`
	Email        string `json:"email"`
	Telefone     string `json:"telefone"`
	Endereco     string `json:"endereco"`
	Ativo        bool   `json:"ativo"`
	DataCadastro string `json:"dataCadastro,omitempty"`
}

type ClienteInput struct {
	Nome     string `json:"nome"     validate:"required,min=2,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Telefone string `json:"telefone" validate:"required,min=8,max=20"`
	Endereco string `json:"endereco" validate:"required,max=200"`
}

type Restaurante struct {
	ID          int64   `json:"id"`
	Nome        string  `json:"nome"`
	Categoria   string  `json:"categoria"`
	Endereco    string  `json:"endereco"`
	TaxaEntrega float64 `json:"taxaEntrega"`
	Avaliacao   float64 `json:"avaliacao"`
	Ativo       bool    `json:"ativo"`
}

type RestauranteInput struct {
	Nome        string  `json:"nome"        validate:"required,min=2,max=100"`
	Categoria   string  `json:"categoria"   validate:"required"`
	Endereco    string  `json:"endereco"    validate:"required,max=200"`
	TaxaEntrega float64 `json:"taxaEntrega" validate:"gte=0"`
	Avaliacao   float64 `json:"avaliacao,omitempty" validate:"gte=0,lte=5"`
}

type TaxaEntrega struct {
	TaxaEntrega   float64 `json:"taxaEntrega"`
	Distancia     float64 `json:"distancia"`
	TempoEstimado string  `json:"tempoEstimado"`
}

type Produto struct {
	ID            int64   `json:"id"`
	Nome          string  `json:"nome"`
	Descricao     string  `json:"descricao"`
	Preco         float64 `json:"preco"`
	Categoria     string  `json:"categoria"`
	Disponivel    bool    `json:"disponivel"`
	RestauranteID int64   `json:"restauranteId,omitempty"`
}

type ItemPedidoInput struct {
	ProdutoID  int64  `json:"produtoId"  validate:"required,gt=0"`
	Quantidade int    `json:"quantidade" validate:"required,gt=0"`
	Observacao string `json:"observacao,omitempty"`
}

type PedidoInput struct {
	ClienteID       int64             `json:"clienteId"       validate:"required,gt=0"`
	RestauranteID   int64             `json:"restauranteId"   validate:"required,gt=0"`
	EnderecoEntrega string            `json:"enderecoEntrega" validate:"required,max=200"`
	CepEntrega      string            `json:"cepEntrega"      validate:"required,len=9"`
	Observacoes     string            `json:"observacoes,omitempty"`
	FormaPagamento  string            `json:"formaPagamento,omitempty"`
	Itens           []ItemPedidoInput `json:"itens" validate:"required,min=1,dive"`
}

type ItemPedido struct {
	ProdutoID     int64   `json:"produtoId"`
	Nome          string  `json:"nomeProduto"`
	Quantidade    int     `json:"quantidade"`
	PrecoUnitario float64 `json:"precoUnitario"`
	Subtotal      float64 `json:"subtotal"`
}

type Pedido struct {
	ID         int64        `json:"id"`
	Status     string       `json:"status"`
	DataPedido string       `json:"dataPedido"`
	ValorTotal float64      `json:"valorTotal"`
	Itens      []ItemPedido `json:"itens,omitempty"`
}

type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the canonical login contract. The backend's older
// {token, user:{...}} shape is not supported.
type LoginResponse struct {
	AccessToken string   `json:"accessToken"`
	TokenType   string   `json:"tokenType"`
	Username    string   `json:"username"`
	Roles       []string `json:"roles"`
}

// Me is the /auth/me answer hydrating the numeric id behind a token.
type Me struct {
	ID            int64    `json:"id"`
	Username      string   `json:"username"`
	Email         string   `json:"email,omitempty"`
	Roles         []string `json:"roles"`
	RestauranteID *int64   `json:"restauranteId,omitempty"`
}

type RegisterInput struct {
	Nome  string   `json:"nome"  validate:"required,min=2,max=100"`
	Email string   `json:"email" validate:"required,email"`
	Senha string   `json:"senha" validate:"required,min=6"`
	Roles []string `json:"roles" validate:"required,min=1"`
}
