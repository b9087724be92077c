package configuration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseOptions_ConnectionString(t *testing.T) {
	t.Parallel()

	d := &DatabaseOptions{
		Name:     "crm_test",
		Host:     "db.internal",
		Port:     "5433",
		User:     "crm",
		Password: "secret",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=crm dbname=crm_test password=secret sslmode=disable",
		d.ConnectionString(),
	)
}

func TestImportOptions_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    ImportOptions
		wantErr bool
	}{
		{name: "defaults", opts: ImportOptions{MaxFileSize: 1 << 20, Workers: 4}},
		{name: "zero file size", opts: ImportOptions{MaxFileSize: 0, Workers: 4}, wantErr: true},
		{name: "negative file size", opts: ImportOptions{MaxFileSize: -1, Workers: 4}, wantErr: true},
		{name: "zero workers", opts: ImportOptions{MaxFileSize: 1024, Workers: 0}, wantErr: true},
		{name: "too many workers", opts: ImportOptions{MaxFileSize: 1024, Workers: 65}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.opts.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestConfiguration_LogrusLogLevel(t *testing.T) {
	t.Parallel()

	c := &Configuration{LogLevel: "debug"}
	assert.Equal(t, c.LogrusLogLevel().String(), "debug")

	c.LogLevel = "unknown"
	assert.Equal(t, c.LogrusLogLevel().String(), "error")
}
