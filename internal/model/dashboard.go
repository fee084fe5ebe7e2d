package model

// DashboardTotals holds the entity counts shown on the dashboard.
type DashboardTotals struct {
	Usuarios     int `json:"usuarios"`
	Locais       int `json:"locais"`
	Equipamentos int `json:"equipamentos"`
	Motores      int `json:"motores"`
	Relatorios   int `json:"relatorios"`
}

// DashboardStats is the payload of GET /dashboard/estatisticas.
type DashboardStats struct {
	Totais DashboardTotals `json:"totais"`
}

// RecentReports is the payload of GET /dashboard/relatorios-recentes.
type RecentReports struct {
	Relatorios []Report `json:"relatorios"`
}
