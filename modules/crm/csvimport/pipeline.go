package csvimport

import (
	"encoding/csv"
	"io"
	"regexp"
	"strings"

	"github.com/sproutcrm/sprout-sdk/pkg/serrors"
)

// MaxFileSize is the default upload ceiling: 1 MiB.
const MaxFileSize int64 = 1 << 20

// MultiValueSeparator splits tags and social handles. Semicolon, never
// comma: comma is the field separator.
const MultiValueSeparator = ";"

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidatedContact is one accepted CSV data row with normalized types.
// OriginalIndex is the zero-based index of the row within the file's data
// rows (the header is not counted).
type ValidatedContact struct {
	OriginalIndex    int
	FullName         string
	Email            string
	Phone            string
	PhoneCountryCode string
	Company          string
	JobTitle         string
	Website          string
	Notes            string
	Tags             []string
	SocialHandles    []string
	AddressStreet    string
	AddressCity      string
	AddressState     string
	AddressPostal    string
	AddressCountry   string
}

// ValidationError is a data-quality problem scoped to the header row
// (Row == -1) or to a single data row. It is returned as data, never thrown.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result is the pipeline outcome: rows that passed validation plus every
// per-row error. One bad row never blocks the others.
type Result struct {
	Validated []ValidatedContact
	Errors    []ValidationError
}

// CheckFile enforces the pre-parse guards: extension and size ceiling.
// Nothing is parsed when either fails.
func CheckFile(filename string, size int64, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = MaxFileSize
	}
	if !strings.HasSuffix(strings.ToLower(strings.TrimSpace(filename)), ".csv") {
		return serrors.NewError(serrors.CodeValidation, "file must have a .csv extension")
	}
	if size > maxSize {
		return serrors.NewErrorf(serrors.CodeValidation, "file exceeds the maximum size of %d bytes", maxSize)
	}
	return nil
}

// Parse reads the whole file into a header row plus ordered data rows and
// validates each row independently. The returned error is non-nil only for
// unrecoverable parse failures (malformed quoting, reader errors); all
// data-quality problems come back inside Result.Errors.
func Parse(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, serrors.NewErrorf(serrors.CodeParseFailure, "failed to parse csv: %v", err)
	}

	if len(records) == 0 {
		return nil, serrors.NewError(serrors.CodeParseFailure, "file contains no rows")
	}

	columns := mapHeaders(records[0])
	result := &Result{}

	if _, ok := columns[HeaderFullName]; !ok {
		result.Errors = append(result.Errors, ValidationError{
			Row:     -1,
			Field:   HeaderFullName,
			Message: "required column is missing",
		})
		return result, nil
	}

	for i, record := range records[1:] {
		row, errs := validateRow(i, record, columns)
		if len(errs) > 0 {
			result.Errors = append(result.Errors, errs...)
			continue
		}
		result.Validated = append(result.Validated, row)
	}

	return result, nil
}

func mapHeaders(headerRow []string) map[string]int {
	columns := make(map[string]int, len(headerRow))
	for i, raw := range headerRow {
		if name, ok := canonicalHeader(raw); ok {
			if _, dup := columns[name]; !dup {
				columns[name] = i
			}
		}
	}
	return columns
}

func validateRow(index int, record []string, columns map[string]int) (ValidatedContact, []ValidationError) {
	field := func(name string) string {
		col, ok := columns[name]
		if !ok || col >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[col])
	}

	var errs []ValidationError

	fullName := field(HeaderFullName)
	if fullName == "" {
		errs = append(errs, ValidationError{
			Row:     index,
			Field:   HeaderFullName,
			Message: "full name is required",
		})
	}

	email := strings.ToLower(field(HeaderEmail))
	if email != "" && !emailPattern.MatchString(email) {
		errs = append(errs, ValidationError{
			Row:     index,
			Field:   HeaderEmail,
			Message: "invalid email address",
		})
	}

	if len(errs) > 0 {
		return ValidatedContact{}, errs
	}

	return ValidatedContact{
		OriginalIndex:    index,
		FullName:         fullName,
		Email:            email,
		Phone:            field(HeaderPhone),
		PhoneCountryCode: field(HeaderPhoneCountryCode),
		Company:          field(HeaderCompanyName),
		JobTitle:         field(HeaderJobTitle),
		Website:          field(HeaderWebsite),
		Notes:            field(HeaderNotes),
		Tags:             splitMultiValue(field(HeaderTags)),
		SocialHandles:    splitMultiValue(field(HeaderSocialHandles)),
		AddressStreet:    field(HeaderAddressStreet),
		AddressCity:      field(HeaderAddressCity),
		AddressState:     field(HeaderAddressState),
		AddressPostal:    field(HeaderAddressPostal),
		AddressCountry:   field(HeaderAddressCountry),
	}, nil
}

func splitMultiValue(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, MultiValueSeparator)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
