package category

import "finanzas/internal/core"

// DefaultSet returns the shared category seed visible to every user.
func DefaultSet() []core.CategoryForm {
	return []core.CategoryForm{
		{Name: "Comida", Icon: "🍔", Color: "#f97316"},
		{Name: "Ocio", Icon: "🎮", Color: "#a855f7"},
		{Name: "Servicios", Icon: "💡", Color: "#3b82f6"},
		{Name: "Suscripciones", Icon: "📺", Color: "#ec4899"},
		{Name: "Transporte", Icon: "🚗", Color: "#eab308"},
		{Name: "Vivienda", Icon: "🏠", Color: "#22c55e"},
	}
}

// AccountTypes are the virtual account tabs the dashboard renders. A
// transaction's payment method selects its tab; unknown methods still
// appear under their own tag.
var AccountTypes = []string{"cash", "credit", "debit", "business", "loan", "asset", "transfer"}

// ChartPalette is the color cycle for charts.
var ChartPalette = []string{
	"#22c55e", "#3b82f6", "#f97316", "#a855f7",
	"#ec4899", "#eab308", "#ef4444", "#06b6d4",
}
