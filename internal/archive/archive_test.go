package archive

import (
	"context"
	"errors"
	"testing"

	"github.com/piwi3910/BarCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() model.ArchiveConfig {
	return model.ArchiveConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "reports",
	}
}

func TestNewRequiresConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.ArchiveConfig)
	}{
		{"missing endpoint", func(c *model.ArchiveConfig) { c.Endpoint = "" }},
		{"missing access key", func(c *model.ArchiveConfig) { c.AccessKey = " " }},
		{"missing secret key", func(c *model.ArchiveConfig) { c.SecretKey = "" }},
		{"missing bucket", func(c *model.ArchiveConfig) { c.Bucket = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			_, err := New(cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotConfigured))
		})
	}
}

func TestNewDefaultsRegion(t *testing.T) {
	s, err := New(validConfig())
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", s.region)
	assert.Equal(t, "reports", s.Bucket())
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "run1/report.pdf", objectKey("run1", "report.pdf"))
	assert.Equal(t, "run1/sub/plan.csv", objectKey(" run1 ", "/sub/plan.csv"))
}

func TestPutRejectsEmptyKeyParts(t *testing.T) {
	s, err := New(validConfig())
	require.NoError(t, err)

	_, err = s.Put(context.Background(), "", "report.pdf", []byte("x"))
	assert.Error(t, err)
	_, err = s.Put(context.Background(), "run1", "  ", []byte("x"))
	assert.Error(t, err)
}

func TestNilStore(t *testing.T) {
	var s *Store
	_, err := s.Put(context.Background(), "run1", "a.pdf", nil)
	assert.Error(t, err)
	_, err = s.List(context.Background(), "run1")
	assert.Error(t, err)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentType("plan.PDF"))
	assert.Equal(t, "text/csv", ContentType("cuts.csv"))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", ContentType("plan.xlsx"))
	assert.Equal(t, "application/json", ContentType("job.barcut"))
	assert.Equal(t, "application/octet-stream", ContentType("README"))
}
