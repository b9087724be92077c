package services

import (
	"context"
	"strings"

	"github.com/sproutcrm/sprout-sdk/modules/crm/csvimport"
	"github.com/sproutcrm/sprout-sdk/modules/crm/domain/aggregates/contact"
	"github.com/sproutcrm/sprout-sdk/pkg/excel"
)

// ExportService renders a tenant's contacts as an xlsx workbook. Columns
// mirror the CSV import template, so an export can be re-imported as-is.
type ExportService struct {
	contacts contact.Repository
	exporter *excel.Exporter
}

func NewExportService(contacts contact.Repository) *ExportService {
	return &ExportService{
		contacts: contacts,
		exporter: excel.NewExporter(),
	}
}

func (s *ExportService) ExportContacts(ctx context.Context, params *contact.FindParams) ([]byte, error) {
	entities, err := s.contacts.GetPaginated(ctx, params)
	if err != nil {
		return nil, err
	}

	rows := make([][]any, 0, len(entities))
	for _, c := range entities {
		addr := c.Address()
		rows = append(rows, []any{
			c.FullName(),
			c.Phone(),
			c.PhoneCountryCode(),
			c.Email(),
			strings.Join(c.SocialHandles(), csvimport.MultiValueSeparator),
			c.Notes(),
			strings.Join(c.Tags(), csvimport.MultiValueSeparator),
			addr.Street,
			addr.City,
			addr.State,
			addr.PostalCode,
			addr.Country,
			c.Company(),
			c.Website(),
			c.JobTitle(),
		})
	}

	source := excel.NewSliceDataSource("Contacts", csvimport.TemplateHeaders(), rows)
	return s.exporter.Export(ctx, source)
}
