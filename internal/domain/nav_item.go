package domain

// NavItem é uma entrada do menu de navegação.
// RolesAllowed é uma lista de nomes de papéis separados por vírgula; vazia significa visível para todos.
type NavItem struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Endpoint     string `json:"endpoint"`
	Position     int    `json:"position"`
	Visible      bool   `json:"visible"`
	RolesAllowed string `json:"roles_allowed"`
}

// NavItemRequest é o corpo de criação e edição; Roles vira RolesAllowed
type NavItemRequest struct {
	Title    string   `json:"title"`
	Endpoint string   `json:"endpoint"`
	Position int      `json:"position"`
	Visible  bool     `json:"visible"`
	Roles    []string `json:"roles"`
}

// MenuEntry é o item entregue ao menu do usuário
type MenuEntry struct {
	Title    string `json:"title"`
	Endpoint string `json:"endpoint"`
}
