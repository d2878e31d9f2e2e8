package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberwatch/smoke-threat-etl/internal/domain"
)

const granuleSetPayload = `{
	"request_id": "req-transform-1",
	"observed_at": "2026-08-14T19:30:00Z",
	"sample_step": 1,
	"granules": [
		{
			"product": "hcho",
			"values": [3.0e16],
			"latitude": [34.05],
			"longitude": [-118.25]
		},
		{
			"product": "aerosol",
			"values": [2.0],
			"latitude": [34.05],
			"longitude": [-118.25]
		},
		{
			"product": "no2",
			"values": [6.0e14],
			"latitude": [34.05],
			"longitude": [-118.25]
		}
	]
}`

func TestAssessTransformer_Transform(t *testing.T) {
	tr := NewAssessTransformer(domain.AssessOptions{}, discardLogger())

	assessment, err := tr.Transform(context.Background(), domain.RawEvent{
		Value: []byte(granuleSetPayload),
		Topic: "decoded-granule-sets",
	})
	require.NoError(t, err)

	assert.Equal(t, "req-transform-1", assessment.RequestID)
	assert.False(t, assessment.InsufficientData)
	require.Len(t, assessment.Points, 1)
	assert.Equal(t, 34.05, assessment.Points[0].Latitude)
	assert.Greater(t, assessment.Points[0].ThreatScore, 0.0)
}

func TestAssessTransformer_MalformedSecondaryDegrades(t *testing.T) {
	// A ragged aerosol granule alongside a valid HCHO granule still produces
	// an assessment; the aerosol slot falls back to the moderate default.
	payload := `{
		"request_id": "req-degraded-1",
		"sample_step": 1,
		"granules": [
			{"product": "hcho", "values": [3.0e16], "latitude": [34.05], "longitude": [-118.25]},
			{"product": "aerosol", "values": [[1.0, 2.0], [3.0]], "latitude": [[0, 0], [0, 0]], "longitude": [[0, 0], [0, 0]]}
		]
	}`

	tr := NewAssessTransformer(domain.AssessOptions{}, discardLogger())

	assessment, err := tr.Transform(context.Background(), domain.RawEvent{
		Value: []byte(payload),
		Topic: "decoded-granule-sets",
	})
	require.NoError(t, err)

	assert.Equal(t, "req-degraded-1", assessment.RequestID)
	assert.False(t, assessment.InsufficientData)
	require.Len(t, assessment.Points, 1)
	assert.Equal(t, 0.5, assessment.Points[0].Aerosol)
	assert.Zero(t, assessment.ProductSamples[domain.ProductAerosol])
}

func TestAssessTransformer_RejectsMalformedPayload(t *testing.T) {
	tr := NewAssessTransformer(domain.AssessOptions{}, discardLogger())

	_, err := tr.Transform(context.Background(), domain.RawEvent{
		Value:     []byte("not json"),
		Topic:     "decoded-granule-sets",
		Partition: 2,
		Offset:    41,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoded-granule-sets[2]@41")
}

func TestAssessTransformer_CancelledContext(t *testing.T) {
	tr := NewAssessTransformer(domain.AssessOptions{}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.Transform(ctx, domain.RawEvent{Value: []byte(granuleSetPayload)})
	assert.ErrorIs(t, err, context.Canceled)
}
