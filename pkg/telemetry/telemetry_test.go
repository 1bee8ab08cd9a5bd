package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Options{Service: "portal"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetupStdoutExportsSpans(t *testing.T) {
	prevTP, prevMP := otel.GetTracerProvider(), otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetMeterProvider(prevMP)
	})

	var buf bytes.Buffer
	shutdown, err := Setup(context.Background(), Options{
		Service: "portal",
		Env:     "test",
		Enabled: true,
		Output:  &buf,
	})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "order.submit")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "order.submit")
	assert.Contains(t, buf.String(), "portal")
}

func TestSetupStdoutExportsMetrics(t *testing.T) {
	prevTP, prevMP := otel.GetTracerProvider(), otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetMeterProvider(prevMP)
	})

	var buf bytes.Buffer
	shutdown, err := Setup(context.Background(), Options{
		Service: "portal",
		Env:     "test",
		Enabled: true,
		Output:  &buf,
	})
	require.NoError(t, err)
	require.IsType(t, &sdkmetric.MeterProvider{}, otel.GetMeterProvider())

	counter, err := otel.Meter("test").Int64Counter("portal.order.submissions")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	// the periodic reader exports a final collection on shutdown
	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "portal.order.submissions")
}
