// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package common

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const zipkinEndpointEnv = "OTEL_EXPORTER_ZIPKIN_ENDPOINT"

// NewTracerProvider creates a tracer provider tagged with the service metadata.
// Spans are exported to Zipkin when OTEL_EXPORTER_ZIPKIN_ENDPOINT is set and
// only recorded in-process otherwise.
func NewTracerProvider(serviceName, environment string, id int64) (*sdktrace.TracerProvider, error) {
	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("environment", environment),
		attribute.Int64("ID", id),
	)

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
		sdktrace.WithResource(res),
	}

	if endpoint := GetEnv(zipkinEndpointEnv, ""); endpoint != "" {
		exporter, err := zipkin.New(endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to create zipkin exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
		logrus.Infof("exporting traces to zipkin at %s", endpoint)
	}

	return sdktrace.NewTracerProvider(opts...), nil
}
