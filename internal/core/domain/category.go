package domain

// Category classifies transactions. A nil GroupID marks a global category
// visible to every group.
type Category struct {
	CategoryID string  `json:"categoryID"`
	GroupID    *string `json:"groupID,omitempty"`
	Name       string  `json:"name"`
	Icon       string  `json:"icon"`
}

// IsVisibleTo reports whether the category can be used inside groupID.
func (c Category) IsVisibleTo(groupID string) bool {
	return c.GroupID == nil || *c.GroupID == groupID
}

// DefaultCategory is a name/icon pair seeded into every new group.
type DefaultCategory struct {
	Name string
	Icon string
}

// DefaultCategories are created together with a group.
var DefaultCategories = []DefaultCategory{
	{Name: "Mercado", Icon: "🛒"},
	{Name: "Transporte", Icon: "🚌"},
	{Name: "Servicios", Icon: "💡"},
	{Name: "Arriendo", Icon: "🏠"},
	{Name: "Salud", Icon: "💊"},
	{Name: "Ocio", Icon: "🎉"},
	{Name: "Restaurantes", Icon: "🍽️"},
	{Name: "Hogar", Icon: "🛋️"},
	{Name: "Mascotas", Icon: "🐾"},
	{Name: "Otros", Icon: "📦"},
}
