package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/germanamz/wildlife/pkg/chats/message"
)

func newRecorder(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	return rec, tp
}

func attrValue(attrs []attribute.KeyValue, key string) string {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value.AsString()
		}
	}
	return ""
}

func TestTracingMiddleware(t *testing.T) {
	rec, tp := newRecorder(t)

	_, err := Tracing(tp.Tracer("test"), "naturalist")(stubRunner(message.Message{}, errors.New("boom"))).Run(context.Background())
	require.Error(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "agent run", spans[0].Name())
	assert.Equal(t, "naturalist", attrValue(spans[0].Attributes(), "agent.name"))
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestRunRecordsToolSpans(t *testing.T) {
	rec, tp := newRecorder(t)

	var calls int
	p := &sequenceCompleter{replies: []message.Message{
		call("c1", "get_weather", `{}`),
		call("c2", "get_weather", `{}`),
		final("Sunny."),
	}}
	a := New("naturalist", "", "", p, Options{ToolRetries: 2, Tracer: tp.Tracer("test")})
	a.AddToolBoxes(flakyToolBox("get_weather", 1, &calls))

	_, err := a.Run(context.Background())
	require.NoError(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 2)
	for _, s := range spans {
		assert.Equal(t, "running tool", s.Name())
		assert.Equal(t, "get_weather", attrValue(s.Attributes(), "gen_ai.tool.name"))
	}
	assert.Equal(t, "c1", attrValue(spans[0].Attributes(), "gen_ai.tool.call.id"))
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, codes.Unset, spans[1].Status().Code)
}
