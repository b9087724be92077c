package services

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sproutcrm/sprout-sdk/modules/crm/csvimport"
	"github.com/sproutcrm/sprout-sdk/modules/crm/domain/aggregates/contact"
	"github.com/sproutcrm/sprout-sdk/pkg/composables"
	"github.com/sproutcrm/sprout-sdk/pkg/configuration"
	"github.com/sproutcrm/sprout-sdk/pkg/eventbus"
	"github.com/sproutcrm/sprout-sdk/pkg/metrics"
)

const (
	ImportStatusCompleted           = "completed"
	ImportStatusCompletedWithErrors = "completed_with_errors"
	ImportStatusFailed              = "failed"

	RowStatusImported = "imported"
	RowStatusSkipped  = "skipped"
	RowStatusError    = "error"
)

// RowResult is the disposition of one input data row. Index is the
// zero-based data-row index within the uploaded file; -1 marks a problem
// scoped to the header row.
type RowResult struct {
	Index        int    `json:"index"`
	FullName     string `json:"fullName,omitempty"`
	Email        string `json:"email,omitempty"`
	Status       string `json:"status"`
	ErrorDetails string `json:"errorDetails,omitempty"`
}

type ImportReport struct {
	OverallStatus string      `json:"overallStatus"`
	SuccessCount  int         `json:"successCount"`
	SkippedCount  int         `json:"skippedCount"`
	ErrorCount    int         `json:"errorCount"`
	Results       []RowResult `json:"results"`
}

// ImportService commits validated CSV rows as contacts. Each row is its
// own transaction, so one failing row never poisons the rest of the batch.
type ImportService struct {
	contacts  contact.Repository
	publisher eventbus.EventBus
	opts      configuration.ImportOptions
}

func NewImportService(
	contacts contact.Repository,
	publisher eventbus.EventBus,
	opts configuration.ImportOptions,
) *ImportService {
	return &ImportService{
		contacts:  contacts,
		publisher: publisher,
		opts:      opts,
	}
}

// ImportCSV runs the full pipeline: file guards, parsing and per-row
// validation, then bounded-concurrency commits. File-level guard failures
// and unrecoverable parse errors are returned as errors; every row-level
// problem comes back inside the report so each input row has a disposition.
func (s *ImportService) ImportCSV(ctx context.Context, filename string, data []byte) (*ImportReport, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	if err := csvimport.CheckFile(filename, int64(len(data)), s.opts.MaxFileSize); err != nil {
		return nil, err
	}

	parsed, err := csvimport.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	results := make([]RowResult, 0, len(parsed.Validated)+len(parsed.Errors))
	for _, ve := range parsed.Errors {
		results = append(results, RowResult{
			Index:        ve.Row,
			Status:       RowStatusError,
			ErrorDetails: ve.Message,
		})
	}

	// First occurrence of an email within the file wins; later rows are
	// skipped before any commit is attempted. Validated rows arrive in
	// file order, which makes this deterministic.
	toCommit := make([]csvimport.ValidatedContact, 0, len(parsed.Validated))
	seenEmails := make(map[string]struct{}, len(parsed.Validated))
	for _, row := range parsed.Validated {
		if row.Email != "" {
			if _, dup := seenEmails[row.Email]; dup {
				results = append(results, RowResult{
					Index:        row.OriginalIndex,
					FullName:     row.FullName,
					Email:        row.Email,
					Status:       RowStatusSkipped,
					ErrorDetails: "duplicate email within the file",
				})
				continue
			}
			seenEmails[row.Email] = struct{}{}
		}
		toCommit = append(toCommit, row)
	}

	committed := s.commitRows(ctx, tenantID, toCommit)
	results = append(results, committed...)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})

	report := &ImportReport{Results: results}
	for _, r := range results {
		switch r.Status {
		case RowStatusImported:
			report.SuccessCount++
		case RowStatusSkipped:
			report.SkippedCount++
		default:
			report.ErrorCount++
		}
		metrics.ImportRowsTotal.WithLabelValues(r.Status).Inc()
	}
	switch {
	case report.ErrorCount == 0:
		report.OverallStatus = ImportStatusCompleted
	case report.SuccessCount == 0:
		report.OverallStatus = ImportStatusFailed
	default:
		report.OverallStatus = ImportStatusCompletedWithErrors
	}

	composables.UseLogger(ctx).WithFields(logrus.Fields{
		"status":   report.OverallStatus,
		"imported": report.SuccessCount,
		"skipped":  report.SkippedCount,
		"errors":   report.ErrorCount,
	}).Info("csv import finished")

	return report, nil
}

// commitRows writes rows through a bounded worker pool. Workers never
// return an error to the group: every failure is recorded in the row's
// own result instead, so sibling rows keep committing.
func (s *ImportService) commitRows(ctx context.Context, tenantID uuid.UUID, rows []csvimport.ValidatedContact) []RowResult {
	results := make([]RowResult, len(rows))
	var mu sync.Mutex

	g, groupCtx := errgroup.WithContext(ctx)
	workers := s.opts.Workers
	if workers <= 0 {
		workers = 4
	}
	g.SetLimit(workers)

	for i, row := range rows {
		i, row := i, row
		g.Go(func() error {
			result := s.commitRow(groupCtx, tenantID, row)
			mu.Lock()
			results[i] = result
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *ImportService) commitRow(ctx context.Context, tenantID uuid.UUID, row csvimport.ValidatedContact) RowResult {
	result := RowResult{
		Index:    row.OriginalIndex,
		FullName: row.FullName,
		Email:    row.Email,
	}

	var created contact.Contact
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if row.Email != "" {
			taken, err := s.contacts.ExistsByEmail(txCtx, row.Email)
			if err != nil {
				return err
			}
			if taken {
				result.Status = RowStatusSkipped
				result.ErrorDetails = "a contact with this email already exists"
				return nil
			}
		}
		entity, err := s.contacts.Create(txCtx, rowToContact(tenantID, row))
		if err != nil {
			return err
		}
		created = entity
		result.Status = RowStatusImported
		return nil
	})
	switch {
	case err == nil:
		if result.Status == RowStatusImported {
			s.publisher.Publish(contact.NewCreatedEvent(created))
		}
	case errors.Is(err, contact.ErrEmailTaken):
		// Lost a race against a concurrent writer holding the same email.
		result.Status = RowStatusSkipped
		result.ErrorDetails = "a contact with this email already exists"
	default:
		result.Status = RowStatusError
		result.ErrorDetails = err.Error()
	}
	return result
}

func rowToContact(tenantID uuid.UUID, row csvimport.ValidatedContact) contact.Contact {
	opts := []contact.Option{
		contact.WithEmail(row.Email),
		contact.WithPhone(row.Phone, row.PhoneCountryCode),
		contact.WithCompany(row.Company),
		contact.WithJobTitle(row.JobTitle),
		contact.WithWebsite(row.Website),
		contact.WithNotes(row.Notes),
		contact.WithTags(row.Tags),
		contact.WithSocialHandles(row.SocialHandles),
		contact.WithAddress(contact.Address{
			Street:     row.AddressStreet,
			City:       row.AddressCity,
			State:      row.AddressState,
			PostalCode: row.AddressPostal,
			Country:    row.AddressCountry,
		}),
	}
	return contact.New(tenantID, strings.TrimSpace(row.FullName), opts...)
}
