package csvimport_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sproutcrm/sprout-sdk/modules/crm/csvimport"
	"github.com/sproutcrm/sprout-sdk/pkg/serrors"
)

func TestCheckFile(t *testing.T) {
	t.Parallel()

	t.Run("accepts csv under the ceiling", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, csvimport.CheckFile("contacts.csv", 1024, csvimport.MaxFileSize))
	})

	t.Run("rejects wrong extension", func(t *testing.T) {
		t.Parallel()
		err := csvimport.CheckFile("contacts.xlsx", 1024, csvimport.MaxFileSize)
		require.Error(t, err)
		var base *serrors.Base
		require.True(t, errors.As(err, &base))
		assert.Equal(t, serrors.CodeValidation, base.Code)
	})

	t.Run("rejects oversized file before parsing", func(t *testing.T) {
		t.Parallel()
		err := csvimport.CheckFile("contacts.csv", csvimport.MaxFileSize+1, csvimport.MaxFileSize)
		require.Error(t, err)
	})

	t.Run("extension check is case-insensitive", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, csvimport.CheckFile("Contacts.CSV", 10, csvimport.MaxFileSize))
	})
}

func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	input := "Full Name,Email,Tags\nJane Doe,jane@x.com,vip;returning\n"
	result, err := csvimport.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.Len(t, result.Validated, 1)

	row := result.Validated[0]
	assert.Equal(t, 0, row.OriginalIndex)
	assert.Equal(t, "Jane Doe", row.FullName)
	assert.Equal(t, "jane@x.com", row.Email)
	assert.Equal(t, []string{"vip", "returning"}, row.Tags)
}

func TestParse_MissingFullNameRowIsIsolated(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"Full Name,Email",
		"Jane Doe,jane@x.com",
		",missing@x.com",
		"John Roe,john@x.com",
	}, "\n")

	result, err := csvimport.Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, result.Validated, 2)
	assert.Equal(t, 0, result.Validated[0].OriginalIndex)
	assert.Equal(t, 2, result.Validated[1].OriginalIndex)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Row)
	assert.Equal(t, csvimport.HeaderFullName, result.Errors[0].Field)
}

func TestParse_MissingFullNameColumn(t *testing.T) {
	t.Parallel()

	input := "Email,Phone\njane@x.com,555-0100\n"
	result, err := csvimport.Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Empty(t, result.Validated)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, -1, result.Errors[0].Row)
	assert.Equal(t, csvimport.HeaderFullName, result.Errors[0].Field)
}

func TestParse_InvalidEmail(t *testing.T) {
	t.Parallel()

	input := "Full Name,Email\nJane Doe,not-an-email\n"
	result, err := csvimport.Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Empty(t, result.Validated)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, csvimport.HeaderEmail, result.Errors[0].Field)
}

func TestParse_EmailIsOptional(t *testing.T) {
	t.Parallel()

	input := "Full Name,Email\nJane Doe,\n"
	result, err := csvimport.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result.Validated, 1)
	assert.Empty(t, result.Validated[0].Email)
}

func TestParse_QuotedFieldsAndHeaderCase(t *testing.T) {
	t.Parallel()

	input := "full name,COMPANY NAME,Notes\n\"Doe, Jane\",Acme,\"likes \"\"quotes\"\"\"\n"
	result, err := csvimport.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.Len(t, result.Validated, 1)

	row := result.Validated[0]
	assert.Equal(t, "Doe, Jane", row.FullName)
	assert.Equal(t, "Acme", row.Company)
	assert.Equal(t, `likes "quotes"`, row.Notes)
}

func TestParse_MalformedQuotingIsParseFailure(t *testing.T) {
	t.Parallel()

	input := "Full Name\n\"unterminated\n"
	_, err := csvimport.Parse(strings.NewReader(input))
	require.Error(t, err)

	var base *serrors.Base
	require.True(t, errors.As(err, &base))
	assert.Equal(t, serrors.CodeParseFailure, base.Code)
}

func TestParse_EmptyFileIsParseFailure(t *testing.T) {
	t.Parallel()

	_, err := csvimport.Parse(strings.NewReader(""))
	require.Error(t, err)
}

func TestParse_MultiValueNormalization(t *testing.T) {
	t.Parallel()

	input := "Full Name,Tags,Social Handles\nJane Doe,\" vip ; ; returning \",\"@jane; \"\n"
	result, err := csvimport.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result.Validated, 1)

	row := result.Validated[0]
	assert.Equal(t, []string{"vip", "returning"}, row.Tags)
	assert.Equal(t, []string{"@jane"}, row.SocialHandles)
}

func TestParse_ShortRecordTreatedAsAbsentFields(t *testing.T) {
	t.Parallel()

	input := "Full Name,Email,Phone\nJane Doe\n"
	result, err := csvimport.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result.Validated, 1)
	assert.Empty(t, result.Validated[0].Email)
	assert.Empty(t, result.Validated[0].Phone)
}

func TestTemplate(t *testing.T) {
	t.Parallel()

	template := csvimport.Template()
	assert.True(t, strings.HasPrefix(template, "Full Name,"))
	assert.True(t, strings.HasSuffix(template, "\n"))

	// The template must round-trip through the parser with a valid row.
	result, err := csvimport.Parse(strings.NewReader(template + "Jane Doe" + strings.Repeat(",", len(csvimport.TemplateHeaders())-1) + "\n"))
	require.NoError(t, err)
	assert.Len(t, result.Validated, 1)
}
