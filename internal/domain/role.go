package domain

const (
	RoleAdmin   = 1
	RoleAnalyst = 2
	RoleViewer  = 3
)

type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
