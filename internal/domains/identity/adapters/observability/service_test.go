package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Apurer/dairy-storefront/internal/domains/identity/domain"
)

type stubService struct {
	session domain.Session
	err     error
}

func (s stubService) Login(context.Context, string, string) (domain.Session, error) {
	return s.session, s.err
}

func (s stubService) Logout(context.Context, string) error { return s.err }

func (s stubService) Resolve(context.Context, string) (domain.Session, error) {
	return s.session, s.err
}

func loginCount(t *testing.T, reader *sdkmetric.ManualReader) map[bool]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[bool]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "identity.logins" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				success, _ := dp.Attributes.Value("success")
				out[success.AsBool()] += dp.Value
			}
		}
	}
	return out
}

func TestLogin_RecordsSpanAndOutcome(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	ok := New(stubService{session: domain.Session{Token: "t", Username: "admin", Role: domain.RoleAdmin}},
		WithTracer(tp.Tracer("test")), WithMeter(mp.Meter("test")))
	_, err := ok.Login(context.Background(), "admin", "secret-pass")
	require.NoError(t, err)

	failing := New(stubService{err: errors.New("bad credentials")},
		WithTracer(tp.Tracer("test")), WithMeter(mp.Meter("test")))
	_, err = failing.Login(context.Background(), "admin", "wrong")
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	require.Equal(t, "SessionService.Login", spans[0].Name())
	require.Equal(t, codes.Error, spans[1].Status().Code)

	counts := loginCount(t, reader)
	require.Equal(t, int64(1), counts[true])
	require.Equal(t, int64(1), counts[false])
}

func TestResolveAndLogout_PassThrough(t *testing.T) {
	svc := New(stubService{session: domain.Anonymous})
	session, err := svc.Resolve(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, domain.Anonymous, session)
	require.NoError(t, svc.Logout(context.Background(), "t"))
}
