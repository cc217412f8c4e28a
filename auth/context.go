package auth

import (
	"context"

	"github.com/nanobox-io/gce-adapter/params"
	"github.com/nanobox-io/gce-adapter/providers/common"
)

type contextFlags string

const (
	providerKey       contextFlags = "provider"
	serviceAccountKey contextFlags = "service_account"
	// RequestIDFlag is the request ID flag we set in the context
	RequestIDFlag contextFlags = "request_id"
)

// SetProvider sets the compute provider built for this request
func SetProvider(ctx context.Context, provider common.Provider) context.Context {
	return context.WithValue(ctx, providerKey, provider)
}

// Provider returns the compute provider from context, or nil if the
// request was not authenticated
func Provider(ctx context.Context) common.Provider {
	elem := ctx.Value(providerKey)
	if elem == nil {
		return nil
	}
	return elem.(common.Provider)
}

// SetServiceAccount sets the decoded service account in the context
func SetServiceAccount(ctx context.Context, sa params.ServiceAccount) context.Context {
	return context.WithValue(ctx, serviceAccountKey, sa)
}

// ServiceAccount returns the service account from context
func ServiceAccount(ctx context.Context) params.ServiceAccount {
	elem := ctx.Value(serviceAccountKey)
	if elem == nil {
		return params.ServiceAccount{}
	}
	return elem.(params.ServiceAccount)
}

// SetRequestID sets the request ID in the context
func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDFlag, requestID)
}

// RequestID returns the request ID from the context
func RequestID(ctx context.Context) string {
	elem := ctx.Value(RequestIDFlag)
	if elem == nil {
		return ""
	}
	return elem.(string)
}
