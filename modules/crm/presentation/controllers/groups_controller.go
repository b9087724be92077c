package controllers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/sproutcrm/sprout-sdk/modules/crm/domain/aggregates/group"
	"github.com/sproutcrm/sprout-sdk/modules/crm/services"
	"github.com/sproutcrm/sprout-sdk/pkg/application"
	"github.com/sproutcrm/sprout-sdk/pkg/composables"
	"github.com/sproutcrm/sprout-sdk/pkg/httpapi"
	"github.com/sproutcrm/sprout-sdk/pkg/middleware"
	"github.com/sproutcrm/sprout-sdk/pkg/serrors"
)

type GroupsController struct {
	app         application.Application
	basePath    string
	groups      *services.GroupService
	memberships *services.MembershipService
}

func NewGroupsController(app application.Application) application.Controller {
	return &GroupsController{
		app:         app,
		basePath:    "/crm/api/groups",
		groups:      app.Service(services.GroupService{}).(*services.GroupService),
		memberships: app.Service(services.MembershipService{}).(*services.MembershipService),
	}
}

func (c *GroupsController) Key() string {
	return c.basePath
}

func (c *GroupsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireTenant())

	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.get).Methods(http.MethodGet)
	router.HandleFunc("/{id}/members", c.listMembers).Methods(http.MethodGet)

	write := r.PathPrefix(c.basePath).Subrouter()
	write.Use(middleware.RequireTenant(), middleware.WithTransaction())
	write.HandleFunc("", c.create).Methods(http.MethodPost)
	write.HandleFunc("/{id}", c.update).Methods(http.MethodPut)
	write.HandleFunc("/{id}", c.delete).Methods(http.MethodDelete)
	write.HandleFunc("/{id}/members", c.addMember).Methods(http.MethodPost)
	write.HandleFunc("/{id}/members/{contactId}", c.removeMember).Methods(http.MethodDelete)
	write.HandleFunc("/{id}/members:bulk-add", c.bulkAdd).Methods(http.MethodPost)
	write.HandleFunc("/{id}/members:bulk-remove", c.bulkRemove).Methods(http.MethodPost)
}

func (c *GroupsController) list(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	params := &group.FindParams{
		Search: r.URL.Query().Get("search"),
		Limit:  limit,
		Offset: offset,
	}

	entities, err := c.groups.GetPaginated(r.Context(), params)
	if err != nil {
		_ = httpapi.WriteCodedError(w, err)
		return
	}
	total, err := c.groups.Count(r.Context(), params)
	if err != nil {
		_ = httpapi.WriteCodedError(w, err)
		return
	}

	items := make([]GroupResponse, 0, len(entities))
	for _, entity := range entities {
		items = append(items, toGroupResponse(entity))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, ListResponse[GroupResponse]{Items: items, Total: total})
}

func (c *GroupsController) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	entity, err := c.groups.GetByID(r.Context(), id)
	if err != nil {
		_ = httpapi.WriteCodedError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toGroupResponse(entity))
}

func (c *GroupsController) create(w http.ResponseWriter, r *http.Request) {
	tenantID, err := composables.UseTenantID(r.Context())
	if err != nil {
		_ = httpapi.WriteCodedError(w, err)
		return
	}

	dto := &group.CreateDTO{}
	if !decodeJSON(w, r, dto) {
		return
	}
	if fields, ok := dto.Ok(); !ok {
		_ = httpapi.WriteValidationError(w, fields)
		return
	}

	created, err := c.groups.Create(r.Context(), dto.ToEntity(tenantID))
	if err != nil {
		_ = httpapi.WriteCodedError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toGroupResponse(created))
}

func (c *GroupsController) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	dto := &group.UpdateDTO{}
	if !decodeJSON(w, r, dto) {
		return
	}
	if fields, ok := dto.Ok(); !ok {
		_ = httpapi.WriteValidationError(w, fields)
		return
	}

	existing, err := c.groups.GetByID(r.Context(), id)
	if err != nil {
		_ = httpapi.WriteCodedError(w, err)
		return
	}

	updated, err := c.groups.Update(r.Context(), dto.ToEntityWithID(existing))
	if err != nil {
		_ = httpapi.WriteCodedError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toGroupResponse(updated))
}

func (c *GroupsController) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	deleted, err := c.groups.Delete(r.Context(), id)
	if err != nil {
		_ = httpapi.WriteCodedError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toGroupResponse(deleted))
}

func (c *GroupsController) listMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	memberships, err := c.memberships.ListMembersOfGroup(r.Context(), id)
	if err != nil {
		_ = httpapi.WriteCodedError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toMembershipResponses(memberships))
}

type addMemberRequest struct {
	ContactID uuid.UUID `json:"contact_id"`
}

func (c *GroupsController) addMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	req := &addMemberRequest{}
	if !decodeJSON(w, r, req) {
		return
	}
	if req.ContactID == uuid.Nil {
		_ = httpapi.WriteValidationError(w, map[string]string{"contact_id": "contact_id is required"})
		return
	}
	if err := c.memberships.AddMember(r.Context(), id, req.ContactID); err != nil {
		_ = httpapi.WriteCodedError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *GroupsController) removeMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	contactID, ok := pathUUID(w, r, "contactId")
	if !ok {
		return
	}
	if err := c.memberships.RemoveMember(r.Context(), id, contactID); err != nil {
		_ = httpapi.WriteCodedError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type bulkMembersRequest struct {
	ContactIDs []uuid.UUID `json:"contact_ids"`
}

func (c *GroupsController) bulkAdd(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	req := &bulkMembersRequest{}
	if !decodeJSON(w, r, req) {
		return
	}
	result, err := c.memberships.BulkAddMembers(r.Context(), id, req.ContactIDs)
	if err != nil {
		writeBulkError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, result)
}

func (c *GroupsController) bulkRemove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	req := &bulkMembersRequest{}
	if !decodeJSON(w, r, req) {
		return
	}
	result, err := c.memberships.BulkRemoveMembers(r.Context(), id, req.ContactIDs)
	if err != nil {
		writeBulkError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, result)
}

// writeBulkError keeps the bulk endpoints' status contract: a missing group
// is 404, bad contact ids inside the payload are a 422 payload problem.
func writeBulkError(w http.ResponseWriter, err error) {
	if err == group.ErrNotFound {
		_ = httpapi.WriteCodedError(w, err)
		return
	}
	var base *serrors.Base
	if errors.As(err, &base) && base.Code == serrors.CodeInvalidReference {
		_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, base.Code, base.Message)
		return
	}
	_ = httpapi.WriteCodedError(w, err)
}
