package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/telemetry"
)

const maxPageSize = 100

func normalizePage(page, pageSize int32) (int32, int32) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func idString(id int32) string {
	return strconv.Itoa(int(id))
}

func invalidTransition(resource string, from, to any) error {
	return fmt.Errorf("%w: %s cannot move from %v to %v", domain.ErrInvalidTransition, resource, from, to)
}

func forbidden(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrForbidden}, args...)...)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrValidation}, args...)...)
}

// startSpan opens a span for a tracked status operation.
func startSpan(ctx context.Context, name string, id int32) (context.Context, trace.Span) {
	return telemetry.Tracer().Start(ctx, name, trace.WithAttributes(attribute.Int("leasehub.resource_id", int(id))))
}

// endSpan records err on span and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

func isInvalidTransition(err error) bool {
	return errors.Is(err, domain.ErrInvalidTransition)
}
