package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sproutcrm/sprout-sdk/pkg/application"
)

// ImportRowsTotal counts per-row import dispositions (imported/skipped/error).
var ImportRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "crm_import_rows_total",
	Help: "Disposition of each CSV import row.",
}, []string{"status"})

// MembershipOpsTotal counts membership synchronizer operations by kind.
var MembershipOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "crm_membership_ops_total",
	Help: "Membership synchronizer operations.",
}, []string{"op"})

type PrometheusController struct {
	path string
}

func NewPrometheusController(path string) application.Controller {
	if path == "" {
		path = "/debug/prometheus"
	}
	return &PrometheusController{path: path}
}

func (c *PrometheusController) Key() string {
	return c.path
}

func (c *PrometheusController) Register(r *mux.Router) {
	r.Handle(c.path, promhttp.Handler()).Methods(http.MethodGet)
}
