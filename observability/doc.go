// Package observability wires the OpenTelemetry providers the library
// reports into. The transport records spans and request metrics
// through the otel globals; this package bootstraps OTLP-backed
// providers for applications that want them exported.
//
//	shutdown, err := observability.Init(ctx, observability.Config{
//		ServiceName: "my-bot",
//		Endpoint:    "localhost:4318",
//		Insecure:    true,
//	})
//	defer shutdown(ctx)
//
// Applications that already manage their own providers can skip this
// package entirely.
package observability
