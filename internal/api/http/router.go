package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"leasehub-backend/internal/security"
	"leasehub-backend/internal/service"
)

// Services are the application services exposed over REST.
type Services struct {
	Auth          service.AuthService
	Users         service.UserService
	Admin         service.AdminService
	Properties    service.PropertyService
	Applications  service.ApplicationService
	Leases        service.LeaseService
	Webhooks      service.WebhookService
	Payments      service.PaymentService
	Escalations   service.EscalationService
	Tickets       service.TicketService
	Notifications service.NotificationService
}

type Options struct {
	Tokens         security.TokenManager
	Authorizer     security.Authorizer
	DocuSignSecret string
	AllowedOrigins []string
}

type handler struct {
	svc Services
}

// NewRouter builds the /api/v1 handler with the full middleware chain.
func NewRouter(svc Services, opts Options) http.Handler {
	h := &handler{svc: svc}
	g := &guard{tokens: opts.Tokens, authz: opts.Authorizer, docuSignSecret: []byte(opts.DocuSignSecret)}

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(g.middleware)
	h.routes(api)

	var root http.Handler = router
	root = otelhttp.NewHandler(root, "leasehub-api")
	root = cors(opts.AllowedOrigins)(root)
	root = requestLogger(root)
	root = recovery(root)
	return root
}

func (h *handler) routes(r *mux.Router) {
	// Auth
	r.HandleFunc("/auth/register", h.registerUser).Methods(http.MethodPost).Name("auth.register")
	r.HandleFunc("/auth/login", h.login).Methods(http.MethodPost).Name("auth.login")
	r.HandleFunc("/auth/refresh", h.refresh).Methods(http.MethodPost).Name("auth.refresh")
	r.HandleFunc("/auth/logout", h.logout).Methods(http.MethodPost).Name("auth.logout")

	// Webhooks
	r.HandleFunc("/webhooks/docusign", h.docuSignWebhook).Methods(http.MethodPost).Name("webhooks.docusign")

	// Profile
	r.HandleFunc("/users/me", h.getProfile).Methods(http.MethodGet).Name("users.me.get")
	r.HandleFunc("/users/me", h.updateProfile).Methods(http.MethodPatch).Name("users.me.update")

	// Admin
	r.HandleFunc("/admin/users", h.listUsers).Methods(http.MethodGet).Name("admin.users.list")
	r.HandleFunc("/admin/users/{id}/block", h.blockUser).Methods(http.MethodPatch).Name("admin.users.block")
	r.HandleFunc("/admin/properties", h.listForModeration).Methods(http.MethodGet).Name("admin.properties.list")
	r.HandleFunc("/admin/properties/{id}/moderate", h.moderateProperty).Methods(http.MethodPatch).Name("admin.properties.moderate")

	// Properties
	r.HandleFunc("/properties", h.browseProperties).Methods(http.MethodGet).Name("properties.browse")
	r.HandleFunc("/properties", h.createProperty).Methods(http.MethodPost).Name("properties.create")
	r.HandleFunc("/properties/mine", h.myProperties).Methods(http.MethodGet).Name("properties.mine")
	r.HandleFunc("/properties/{id:[0-9]+}", h.getProperty).Methods(http.MethodGet).Name("properties.get")
	r.HandleFunc("/properties/{id:[0-9]+}", h.updateProperty).Methods(http.MethodPatch).Name("properties.update")
	r.HandleFunc("/properties/{id:[0-9]+}/archive", h.archiveProperty).Methods(http.MethodPatch).Name("properties.archive")

	// Applications
	r.HandleFunc("/applications", h.apply).Methods(http.MethodPost).Name("applications.create")
	r.HandleFunc("/applications", h.listApplications).Methods(http.MethodGet).Name("applications.list")
	r.HandleFunc("/applications/{id}", h.getApplication).Methods(http.MethodGet).Name("applications.get")
	r.HandleFunc("/applications/{id}/viewing", h.scheduleViewing).Methods(http.MethodPatch).Name("applications.viewing")
	r.HandleFunc("/applications/{id}/approve", h.approveApplication).Methods(http.MethodPatch).Name("applications.approve")
	r.HandleFunc("/applications/{id}/reject", h.rejectApplication).Methods(http.MethodPatch).Name("applications.reject")
	r.HandleFunc("/applications/{id}/withdraw", h.withdrawApplication).Methods(http.MethodPatch).Name("applications.withdraw")

	// Lease agreements
	r.HandleFunc("/applications/{id}/lease", h.getLease).Methods(http.MethodGet).Name("leases.get")
	r.HandleFunc("/applications/{id}/lease/start-date", h.setStartDate).Methods(http.MethodPatch).Name("leases.start_date.set")
	r.HandleFunc("/applications/{id}/lease/start-date/approve", h.approveStartDate).Methods(http.MethodPatch).Name("leases.start_date.approve")
	r.HandleFunc("/applications/{id}/lease/document", h.setDocument).Methods(http.MethodPatch).Name("leases.document.set")
	r.HandleFunc("/applications/{id}/lease/download", h.downloadLease).Methods(http.MethodGet).Name("leases.download")
	r.HandleFunc("/applications/{id}/lease/comments", h.commentLease).Methods(http.MethodPost).Name("leases.comment")
	r.HandleFunc("/applications/{id}/lease/approve", h.approveLease).Methods(http.MethodPatch).Name("leases.approve")
	r.HandleFunc("/applications/{id}/lease/sign", h.signLease).Methods(http.MethodPatch).Name("leases.sign")

	// Payments
	r.HandleFunc("/payments", h.recordPayment).Methods(http.MethodPost).Name("payments.create")
	r.HandleFunc("/payments", h.listPayments).Methods(http.MethodGet).Name("payments.list")
	r.HandleFunc("/payments/{id}", h.getPayment).Methods(http.MethodGet).Name("payments.get")
	r.HandleFunc("/payments/{id}/paid", h.markPaid).Methods(http.MethodPatch).Name("payments.paid")
	r.HandleFunc("/payments/{id}/cancel", h.cancelPayment).Methods(http.MethodPatch).Name("payments.cancel")

	// Escalations
	r.HandleFunc("/escalations", h.createEscalation).Methods(http.MethodPost).Name("escalations.create")
	r.HandleFunc("/escalations", h.listEscalations).Methods(http.MethodGet).Name("escalations.list")
	r.HandleFunc("/escalations/{id}", h.getEscalation).Methods(http.MethodGet).Name("escalations.get")
	r.HandleFunc("/escalations/{id}/review", h.reviewEscalation).Methods(http.MethodPatch).Name("escalations.review")
	r.HandleFunc("/escalations/{id}/resolve", h.resolveEscalation).Methods(http.MethodPatch).Name("escalations.resolve")
	r.HandleFunc("/escalations/{id}/notes", h.addEscalationNote).Methods(http.MethodPost).Name("escalations.note")
	r.HandleFunc("/escalations/{id}/close", h.closeEscalation).Methods(http.MethodPatch).Name("escalations.close")

	// Tickets
	r.HandleFunc("/tickets", h.createTicket).Methods(http.MethodPost).Name("tickets.create")
	r.HandleFunc("/tickets", h.listTickets).Methods(http.MethodGet).Name("tickets.list")
	r.HandleFunc("/tickets/{id}", h.getTicket).Methods(http.MethodGet).Name("tickets.get")
	r.HandleFunc("/tickets/{id}/status", h.updateTicketStatus).Methods(http.MethodPatch).Name("tickets.status")
	r.HandleFunc("/tickets/{id}/comments", h.commentTicket).Methods(http.MethodPost).Name("tickets.comment")

	// Notifications
	r.HandleFunc("/notifications", h.listNotifications).Methods(http.MethodGet).Name("notifications.list")
	r.HandleFunc("/notifications/{id}/read", h.markNotificationRead).Methods(http.MethodPatch).Name("notifications.read")
}
