// Package secrets resolves credential settings at startup. A setting is
// either a literal value, an env://NAME reference, or a Google Secret
// Manager version name prefixed with gcpsm://.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	envScheme = "env://"
	gcpScheme = "gcpsm://"
)

var (
	// ErrNotFound is returned when a reference names a secret that does not exist.
	ErrNotFound = errors.New("secrets: not found")
	// ErrInvalidReference is returned for a malformed reference.
	ErrInvalidReference = errors.New("secrets: invalid reference")
)

type secretManagerClient interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
	Close() error
}

var secretManagerClientFactory = func(ctx context.Context, opts ...option.ClientOption) (secretManagerClient, error) {
	return secretmanager.NewClient(ctx, opts...)
}

// Resolver turns setting values into secrets. The Secret Manager client is
// only created when the first gcpsm:// reference is resolved.
type Resolver struct {
	logger     *zap.Logger
	clientOpts []option.ClientOption
	lookupEnv  func(string) (string, bool)

	mu         sync.Mutex
	client     secretManagerClient
	ownsClient bool
}

// Option customises a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for diagnostic output.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithSecretManagerClient injects a preconfigured Secret Manager client.
func WithSecretManagerClient(client secretManagerClient) Option {
	return func(r *Resolver) {
		r.client = client
	}
}

// WithClientOptions forwards Cloud client options when the Secret Manager
// client is created.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(r *Resolver) {
		r.clientOpts = append(r.clientOpts, opts...)
	}
}

// WithEnvLookup replaces os.LookupEnv for env:// references.
func WithEnvLookup(fn func(string) (string, bool)) Option {
	return func(r *Resolver) {
		r.lookupEnv = fn
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{lookupEnv: os.LookupEnv}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// Resolve returns the secret value for ref. Values without a known scheme
// are returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	switch {
	case strings.HasPrefix(ref, envScheme):
		name := strings.TrimPrefix(ref, envScheme)
		if name == "" {
			return "", fmt.Errorf("%w: %q", ErrInvalidReference, ref)
		}
		v, ok := r.lookupEnv(name)
		if !ok {
			return "", fmt.Errorf("%w: environment variable %s", ErrNotFound, name)
		}
		return v, nil
	case strings.HasPrefix(ref, gcpScheme):
		return r.resolveSecretManager(ctx, strings.TrimPrefix(ref, gcpScheme))
	default:
		return ref, nil
	}
}

// ResolveAll resolves every value in place, stopping at the first error.
func (r *Resolver) ResolveAll(ctx context.Context, values ...*string) error {
	for _, v := range values {
		if v == nil || *v == "" {
			continue
		}
		resolved, err := r.Resolve(ctx, *v)
		if err != nil {
			return err
		}
		*v = resolved
	}
	return nil
}

func (r *Resolver) resolveSecretManager(ctx context.Context, name string) (string, error) {
	if !validVersionName(name) {
		return "", fmt.Errorf("%w: gcpsm://%s", ErrInvalidReference, name)
	}
	client, err := r.secretClient(ctx)
	if err != nil {
		return "", err
	}
	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("secrets: access %s: %w", name, err)
	}
	if resp == nil || resp.Payload == nil {
		return "", fmt.Errorf("secrets: empty payload for %s", name)
	}
	r.logger.Debug("resolved secret", zap.String("name", name))
	return string(resp.Payload.GetData()), nil
}

func (r *Resolver) secretClient(ctx context.Context) (secretManagerClient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client != nil {
		return r.client, nil
	}
	client, err := secretManagerClientFactory(ctx, r.clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("secrets: create secret manager client: %w", err)
	}
	r.client = client
	r.ownsClient = true
	return client, nil
}

// validVersionName checks the projects/P/secrets/S/versions/V shape.
func validVersionName(name string) bool {
	parts := strings.Split(name, "/")
	if len(parts) != 6 {
		return false
	}
	if parts[0] != "projects" || parts[2] != "secrets" || parts[4] != "versions" {
		return false
	}
	return parts[1] != "" && parts[3] != "" && parts[5] != ""
}

// Close releases the Secret Manager client if the resolver created it.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ownsClient && r.client != nil {
		err := r.client.Close()
		r.client = nil
		r.ownsClient = false
		return err
	}
	return nil
}
