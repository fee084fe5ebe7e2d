package session

// Resource is something a permission applies to.
type Resource string

const (
	ResourceDashboard     Resource = "dashboard"
	ResourceSectors       Resource = "setores"
	ResourceNotifications Resource = "notificacoes"
	ResourceReports       Resource = "relatorios"
	ResourceUsers         Resource = "usuarios"
)

// Action is an operation on a Resource.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type actionSet map[Action]bool

func actions(as ...Action) actionSet {
	set := make(actionSet, len(as))
	for _, a := range as {
		set[a] = true
	}
	return set
}

var all = actions(ActionView, ActionCreate, ActionUpdate, ActionDelete)

// permissions is the role → resource → actions table. Roles and resources
// missing from it are denied.
var permissions = map[Role]map[Resource]actionSet{
	RoleAdmin: {
		ResourceDashboard:     actions(ActionView),
		ResourceSectors:       all,
		ResourceNotifications: all,
		ResourceReports:       all,
		ResourceUsers:         all,
	},
	RoleManager: {
		ResourceDashboard:     actions(ActionView),
		ResourceSectors:       actions(ActionView, ActionCreate, ActionUpdate),
		ResourceNotifications: actions(ActionView, ActionUpdate),
		ResourceReports:       actions(ActionView, ActionCreate, ActionUpdate),
		ResourceUsers:         actions(ActionView),
	},
	RoleTechnician: {
		ResourceDashboard: actions(ActionView),
		ResourceSectors:   actions(ActionView),
		ResourceReports:   actions(ActionView, ActionCreate, ActionUpdate),
	},
	RoleUser: {
		ResourceDashboard: actions(ActionView),
		ResourceReports:   actions(ActionView, ActionCreate),
	},
}

// Allowed reports whether role may perform action on resource.
func Allowed(role Role, resource Resource, action Action) bool {
	return permissions[role][resource][action]
}
