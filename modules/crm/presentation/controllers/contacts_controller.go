package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sproutcrm/sprout-sdk/modules/crm/domain/aggregates/contact"
	"github.com/sproutcrm/sprout-sdk/modules/crm/services"
	"github.com/sproutcrm/sprout-sdk/pkg/application"
	"github.com/sproutcrm/sprout-sdk/pkg/composables"
	"github.com/sproutcrm/sprout-sdk/pkg/httpapi"
	"github.com/sproutcrm/sprout-sdk/pkg/middleware"
)

type ContactsController struct {
	app         application.Application
	basePath    string
	contacts    *services.ContactService
	memberships *services.MembershipService
	exports     *services.ExportService
}

func NewContactsController(app application.Application) application.Controller {
	return &ContactsController{
		app:         app,
		basePath:    "/crm/api/contacts",
		contacts:    app.Service(services.ContactService{}).(*services.ContactService),
		memberships: app.Service(services.MembershipService{}).(*services.MembershipService),
		exports:     app.Service(services.ExportService{}).(*services.ExportService),
	}
}

func (c *ContactsController) Key() string {
	return c.basePath
}

func (c *ContactsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireTenant())

	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("/export", c.export).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.get).Methods(http.MethodGet)
	router.HandleFunc("/{id}/groups", c.listGroups).Methods(http.MethodGet)

	write := r.PathPrefix(c.basePath).Subrouter()
	write.Use(middleware.RequireTenant(), middleware.WithTransaction())
	write.HandleFunc("", c.create).Methods(http.MethodPost)
	write.HandleFunc("/{id}", c.update).Methods(http.MethodPut)
	write.HandleFunc("/{id}", c.delete).Methods(http.MethodDelete)
}

func (c *ContactsController) list(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	params := &contact.FindParams{
		Search: r.URL.Query().Get("search"),
		Limit:  limit,
		Offset: offset,
	}

	entities, err := c.contacts.GetPaginated(r.Context(), params)
	if err != nil {
		_ = httpapi.WriteCodedError(w, err)
		return
	}
	total, err := c.contacts.Count(r.Context(), params)
	if err != nil {
		_ = httpapi.WriteCodedError(w, err)
		return
	}

	items := make([]ContactResponse, 0, len(entities))
	for _, entity := range entities {
		items = append(items, toContactResponse(entity))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, ListResponse[ContactResponse]{Items: items, Total: total})
}

func (c *ContactsController) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	entity, err := c.contacts.GetByID(r.Context(), id)
	if err != nil {
		_ = httpapi.WriteCodedError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toContactResponse(entity))
}

func (c *ContactsController) create(w http.ResponseWriter, r *http.Request) {
	tenantID, err := composables.UseTenantID(r.Context())
	if err != nil {
		_ = httpapi.WriteCodedError(w, err)
		return
	}

	dto := &contact.CreateDTO{}
	if !decodeJSON(w, r, dto) {
		return
	}
	if fields, ok := dto.Ok(); !ok {
		_ = httpapi.WriteValidationError(w, fields)
		return
	}

	created, err := c.contacts.Create(r.Context(), dto.ToEntity(tenantID))
	if err != nil {
		_ = httpapi.WriteCodedError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toContactResponse(created))
}

func (c *ContactsController) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	dto := &contact.UpdateDTO{}
	if !decodeJSON(w, r, dto) {
		return
	}
	if fields, ok := dto.Ok(); !ok {
		_ = httpapi.WriteValidationError(w, fields)
		return
	}

	existing, err := c.contacts.GetByID(r.Context(), id)
	if err != nil {
		_ = httpapi.WriteCodedError(w, err)
		return
	}

	updated, err := c.contacts.Update(r.Context(), dto.ToEntityWithID(existing))
	if err != nil {
		_ = httpapi.WriteCodedError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toContactResponse(updated))
}

func (c *ContactsController) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	deleted, err := c.contacts.Delete(r.Context(), id)
	if err != nil {
		_ = httpapi.WriteCodedError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toContactResponse(deleted))
}

func (c *ContactsController) listGroups(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	memberships, err := c.memberships.ListGroupsOfContact(r.Context(), id)
	if err != nil {
		_ = httpapi.WriteCodedError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toMembershipResponses(memberships))
}

func (c *ContactsController) export(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	// Exports default to everything the tenant has.
	if r.URL.Query().Get("limit") == "" {
		limit = 10000
	}
	data, err := c.exports.ExportContacts(r.Context(), &contact.FindParams{
		Search: r.URL.Query().Get("search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		_ = httpapi.WriteCodedError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="contacts.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
