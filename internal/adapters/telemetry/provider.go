package telemetry

import (
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/graphcache/internal/core/ports"
)

// NewProvider creates a TracerProvider that reports every span to renderer.
func NewProvider(renderer ports.Renderer) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewBridge(renderer)),
	)
}

// Setup installs a renderer-backed provider as the global provider.
// It returns the provider so the caller can shut it down.
func Setup(renderer ports.Renderer) *sdktrace.TracerProvider {
	tp := NewProvider(renderer)
	otel.SetTracerProvider(tp)
	return tp
}
