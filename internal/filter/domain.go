package filter

import (
	"github.com/nhle/maintenance-admin/internal/model"
)

// Active filter values.
const (
	ActiveOnly   = "ativo"
	InactiveOnly = "inativo"
)

// ActiveStates lists the cycle order of the active filter.
var ActiveStates = []string{All, ActiveOnly, InactiveOnly}

// NextActive returns the state after cur in ActiveStates.
func NextActive(cur string) string {
	return Cycle(cur, ActiveStates...)
}

// Cycle returns the value after cur in order, wrapping around. An unknown
// cur restarts at All.
func Cycle(cur string, order ...string) string {
	for i, s := range order {
		if s == cur {
			return order[(i+1)%len(order)]
		}
	}
	return All
}

func activeTag(active bool) string {
	if active {
		return ActiveOnly
	}
	return InactiveOnly
}

// SectorFilter is the filter state of the sectors page.
type SectorFilter struct {
	Query  string
	Active string
}

// Predicate returns the conjunction of the text and active conditions.
func (f SectorFilter) Predicate() Predicate[model.Sector] {
	return And(
		Text(f.Query,
			func(s model.Sector) string { return s.Nome },
			func(s model.Sector) string { return s.Descricao },
		),
		Equals(f.Active, func(s model.Sector) string { return activeTag(s.Ativo) }),
	)
}

// Apply filters sectors.
func (f SectorFilter) Apply(sectors []model.Sector) []model.Sector {
	return Apply(sectors, f.Predicate())
}

// Narrowed reports whether any condition narrows the list.
func (f SectorFilter) Narrowed() bool {
	return f.Query != "" || (f.Active != "" && f.Active != All)
}

// UserFilter is the filter state of the notification users table.
type UserFilter struct {
	Query  string
	Role   string
	Active string
}

// Predicate returns the conjunction of text, role and active conditions.
func (f UserFilter) Predicate() Predicate[model.User] {
	return And(
		Text(f.Query,
			func(u model.User) string { return u.Nome },
			func(u model.User) string { return u.Username },
			func(u model.User) string { return u.Email },
		),
		Equals(f.Role, func(u model.User) string { return u.Role }),
		Equals(f.Active, func(u model.User) string { return activeTag(u.Ativo) }),
	)
}

// Apply filters users.
func (f UserFilter) Apply(users []model.User) []model.User {
	return Apply(users, f.Predicate())
}

// ReportFilter is the filter state of report lists.
type ReportFilter struct {
	Query    string
	Status   string
	Priority string
}

// Predicate returns the conjunction of text, status and priority conditions.
func (f ReportFilter) Predicate() Predicate[model.Report] {
	return And(
		Text(f.Query,
			func(r model.Report) string { return r.Titulo },
			func(r model.Report) string { return r.UsuarioNome },
			func(r model.Report) string { return r.LocalNome },
			func(r model.Report) string { return r.EquipamentoNome },
		),
		Equals(f.Status, func(r model.Report) string { return r.Status }),
		Equals(f.Priority, func(r model.Report) string { return r.Prioridade }),
	)
}

// Apply filters reports.
func (f ReportFilter) Apply(reports []model.Report) []model.Report {
	return Apply(reports, f.Predicate())
}
