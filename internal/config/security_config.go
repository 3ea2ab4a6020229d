package config

type SecurityLevel int

const (
	SecurityPublic    SecurityLevel = iota // No authentication
	SecuritySignature                      // Shared-secret signed webhook
	SecurityAccess                         // Access token required
)

// EndpointPolicy describes how a named route is guarded. Resource and Action
// are checked against the RBAC model once the caller is authenticated.
type EndpointPolicy struct {
	Level    SecurityLevel
	Resource string
	Action   string
}

func access(resource, action string) EndpointPolicy {
	return EndpointPolicy{Level: SecurityAccess, Resource: resource, Action: action}
}

// EndpointSecurityConfig maps route names to their required security policy
var EndpointSecurityConfig = map[string]EndpointPolicy{
	// Auth - Public
	"auth.register": {Level: SecurityPublic},
	"auth.login":    {Level: SecurityPublic},
	"auth.refresh":  {Level: SecurityPublic},

	// Webhooks
	"webhooks.docusign": {Level: SecuritySignature},

	// Auth - Access Protected
	"auth.logout": access("profile", "update"),

	// Profile
	"users.me.get":    access("profile", "read"),
	"users.me.update": access("profile", "update"),

	// Admin
	"admin.users.list":          access("users", "manage"),
	"admin.users.block":         access("users", "manage"),
	"admin.properties.list":     access("properties", "moderate"),
	"admin.properties.moderate": access("properties", "moderate"),

	// Properties
	"properties.browse":  access("properties", "read"),
	"properties.get":     access("properties", "read"),
	"properties.create":  access("properties", "create"),
	"properties.update":  access("properties", "update"),
	"properties.archive": access("properties", "update"),
	"properties.mine":    access("properties", "update"),

	// Applications
	"applications.create":   access("applications", "create"),
	"applications.list":     access("applications", "read"),
	"applications.get":      access("applications", "read"),
	"applications.viewing":  access("applications", "review"),
	"applications.approve":  access("applications", "review"),
	"applications.reject":   access("applications", "review"),
	"applications.withdraw": access("applications", "withdraw"),

	// Lease agreements
	"leases.get":                access("leases", "read"),
	"leases.start_date.set":     access("leases", "schedule"),
	"leases.start_date.approve": access("leases", "schedule"),
	"leases.document.set":       access("leases", "upload"),
	"leases.download":           access("leases", "read"),
	"leases.comment":            access("leases", "comment"),
	"leases.approve":            access("leases", "approve"),
	"leases.sign":               access("leases", "sign"),

	// Payments
	"payments.create": access("payments", "create"),
	"payments.list":   access("payments", "read"),
	"payments.get":    access("payments", "read"),
	"payments.paid":   access("payments", "update"),
	"payments.cancel": access("payments", "update"),

	// Escalations
	"escalations.create":  access("escalations", "create"),
	"escalations.list":    access("escalations", "read"),
	"escalations.get":     access("escalations", "read"),
	"escalations.review":  access("escalations", "review"),
	"escalations.resolve": access("escalations", "review"),
	"escalations.note":    access("escalations", "review"),
	"escalations.close":   access("escalations", "close"),

	// Tickets
	"tickets.create":  access("tickets", "create"),
	"tickets.list":    access("tickets", "read"),
	"tickets.get":     access("tickets", "read"),
	"tickets.status":  access("tickets", "update"),
	"tickets.comment": access("tickets", "comment"),

	// Notifications
	"notifications.list": access("notifications", "read"),
	"notifications.read": access("notifications", "update"),
}

// GetEndpointPolicy returns the security policy for a given route name
func GetEndpointPolicy(route string) EndpointPolicy {
	if policy, exists := EndpointSecurityConfig[route]; exists {
		return policy
	}
	// Default to highest security for unknown endpoints
	return EndpointPolicy{Level: SecurityAccess}
}
