package postgres

import (
	"testing"
	"time"

	"github.com/NordCoder/Sitewatch/internal/domain/result"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func TestResultRowMapping_FullResult(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	in := &result.CheckResult{
		ID:               42,
		TargetID:         7,
		CheckedAt:        at,
		Status:           result.StatusDegraded,
		ResponseTimeMS:   1234,
		StatusCode:       intPtr(404),
		ErrorMessage:     strPtr("client error: 404 Not Found"),
		PerformanceScore: intPtr(25),
		TLS: &result.TLSInfo{
			DaysUntilExpiry:  12,
			CertificateValid: true,
			ChainValid:       true,
			Grade:            "A",
			Score:            80,
		},
	}

	out := rowFromResult(in).toResult()

	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.TargetID, out.TargetID)
	assert.Equal(t, in.CheckedAt, out.CheckedAt)
	assert.Equal(t, in.Status, out.Status)
	assert.Equal(t, in.ResponseTimeMS, out.ResponseTimeMS)
	require.NotNil(t, out.StatusCode)
	assert.Equal(t, 404, *out.StatusCode)
	require.NotNil(t, out.ErrorMessage)
	require.NotNil(t, out.PerformanceScore)
	assert.Equal(t, 25, *out.PerformanceScore)

	require.NotNil(t, out.TLS)
	assert.Equal(t, 12, out.TLS.DaysUntilExpiry)
	assert.True(t, out.TLS.CertificateValid)
	assert.True(t, out.TLS.ChainValid)
	assert.Equal(t, "A", out.TLS.Grade)
}

func TestResultRowMapping_NetworkFailure(t *testing.T) {
	// a failed probe has no status code, no score, no TLS columns
	in := &result.CheckResult{
		TargetID:       7,
		CheckedAt:      time.Now().UTC(),
		Status:         result.StatusDown,
		ResponseTimeMS: 0,
		ErrorMessage:   strPtr("timeout"),
	}

	row := rowFromResult(in)
	assert.Nil(t, row.StatusCode)
	assert.Nil(t, row.SSLExpiryDays)
	assert.Nil(t, row.SSLValid)
	assert.Nil(t, row.SSLGrade)
	assert.Nil(t, row.PerformanceScore)

	out := row.toResult()
	assert.Nil(t, out.StatusCode)
	assert.Nil(t, out.TLS)
	assert.Nil(t, out.PerformanceScore)
	require.NotNil(t, out.ErrorMessage)
	assert.Equal(t, "timeout", *out.ErrorMessage)
}

func TestResultRowMapping_PartialSSLColumns(t *testing.T) {
	// grade may be NULL on rows written before grading existed
	row := resultRow{
		TargetID:       7,
		Status:         "up",
		ResponseTimeMS: 100,
		SSLExpiryDays:  intPtr(90),
		SSLValid:       boolPtr(true),
	}

	out := row.toResult()
	require.NotNil(t, out.TLS)
	assert.Equal(t, 90, out.TLS.DaysUntilExpiry)
	assert.Empty(t, out.TLS.Grade)
}

func boolPtr(b bool) *bool { return &b }
