package controllers

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sproutcrm/sprout-sdk/modules/crm/csvimport"
	"github.com/sproutcrm/sprout-sdk/modules/crm/services"
	"github.com/sproutcrm/sprout-sdk/pkg/application"
	"github.com/sproutcrm/sprout-sdk/pkg/configuration"
	"github.com/sproutcrm/sprout-sdk/pkg/httpapi"
	"github.com/sproutcrm/sprout-sdk/pkg/middleware"
	"github.com/sproutcrm/sprout-sdk/pkg/serrors"
)

// ImportController handles CSV uploads. It deliberately runs without the
// per-request transaction middleware: the import service commits each row in
// its own transaction so a failing row cannot roll back its siblings.
type ImportController struct {
	app      application.Application
	basePath string
	imports  *services.ImportService
	conf     *configuration.Configuration
}

func NewImportController(app application.Application) application.Controller {
	return &ImportController{
		app:      app,
		basePath: "/crm/api/import",
		imports:  app.Service(services.ImportService{}).(*services.ImportService),
		conf:     configuration.Use(),
	}
}

func (c *ImportController) Key() string {
	return c.basePath
}

func (c *ImportController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireTenant())

	router.HandleFunc("/csv", c.importCSV).Methods(http.MethodPost)
	router.HandleFunc("/template", c.template).Methods(http.MethodGet)
}

func (c *ImportController) importCSV(w http.ResponseWriter, r *http.Request) {
	maxSize := c.conf.Import.MaxFileSize
	// Leave headroom for the multipart framing around the file part.
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1<<16)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, serrors.CodeValidation, "invalid multipart upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, serrors.CodeValidation, "missing form field: file")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, serrors.CodeValidation, "failed to read upload")
		return
	}

	report, err := c.imports.ImportCSV(r.Context(), header.Filename, data)
	if err != nil {
		_ = httpapi.WriteCodedError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, report)
}

func (c *ImportController) template(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="contacts_template.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(csvimport.Template()))
}
