package provisioning

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strings"

	"github.com/go-logr/logr"
	compute "google.golang.org/api/compute/v1"

	"github.com/imamik/gcectl/internal/platform/gce"
)

// ValidationError rejects a create request before any mutating call.
type ValidationError struct {
	Field   string // Request field that failed validation
	Value   string // Offending value, empty when the field was missing
	Message string // Human-readable reason
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	if ve.Value == "" {
		return fmt.Sprintf("invalid %s: %s", ve.Field, ve.Message)
	}
	return fmt.Sprintf("invalid %s %q: %s", ve.Field, ve.Value, ve.Message)
}

// IsValidationError checks if an error is a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validator runs the pre-flight checks of instance creation.
type Validator struct {
	gw      gce.CatalogClient
	project string
	zone    string
	log     logr.Logger
	metrics *Metrics
}

// NewValidator creates a validator that probes gw within project and zone.
func NewValidator(gw gce.CatalogClient, project, zone string, log logr.Logger, metrics *Metrics) *Validator {
	return &Validator{
		gw:      gw,
		project: project,
		zone:    zone,
		log:     log,
		metrics: metrics,
	}
}

// Validate checks, in order, the machine type, the network, the public IP
// setting and the image of req. It stops at the first failure and returns a
// *ValidationError naming that field. On success it returns the resolved
// boot image.
func (v *Validator) Validate(ctx context.Context, req CreateInstanceRequest) (*ImageReference, error) {
	ref, err := v.validate(ctx, req)
	var ve *ValidationError
	if errors.As(err, &ve) {
		v.metrics.recordValidationFailure(ve.Field)
	}
	return ref, err
}

func (v *Validator) validate(ctx context.Context, req CreateInstanceRequest) (*ImageReference, error) {
	if req.MachineType == "" {
		return nil, &ValidationError{Field: "machine_type", Message: "machine type is required"}
	}
	if !v.machineTypeExists(ctx, req.MachineType) {
		return nil, &ValidationError{Field: "machine_type", Value: req.MachineType,
			Message: fmt.Sprintf("machine type not found in zone %s", v.zone)}
	}

	if req.Network == "" {
		return nil, &ValidationError{Field: "network", Message: "network is required"}
	}
	if !v.networkExists(ctx, req.Network) {
		return nil, &ValidationError{Field: "network", Value: req.Network,
			Message: fmt.Sprintf("network not found in project %s", v.project)}
	}

	if !ValidPublicIP(req.PublicIP) {
		return nil, &ValidationError{Field: "public_ip", Value: req.PublicIP,
			Message: "must be ephemeral, none or an IP address"}
	}

	return v.ResolveImage(ctx, req.Image, req.ImageProject)
}

// ValidPublicIP reports whether s is an accepted public IP setting: empty,
// "ephemeral" or "none" in any case, or an IPv4/IPv6 literal.
func ValidPublicIP(s string) bool {
	switch strings.ToLower(s) {
	case "", PublicIPEphemeral, PublicIPNone:
		return true
	}
	return isIPLiteral(s)
}

// isIPLiteral rejects zoned IPv6 addresses such as fe80::1%eth0, which
// cannot be bound as an external address.
func isIPLiteral(s string) bool {
	addr, err := netip.ParseAddr(s)
	return err == nil && addr.Zone() == ""
}

func (v *Validator) machineTypeExists(ctx context.Context, name string) bool {
	return probe(ctx, v.log, "machine type", name, func(ctx context.Context) (*compute.MachineType, error) {
		return v.gw.GetMachineType(ctx, v.project, v.zone, name)
	})
}

func (v *Validator) networkExists(ctx context.Context, name string) bool {
	return probe(ctx, v.log, "network", name, func(ctx context.Context) (*compute.Network, error) {
		return v.gw.GetNetwork(ctx, v.project, name)
	})
}

// probe collapses a tri-state lookup into a boolean, logging transport errors.
func probe[T any](ctx context.Context, log logr.Logger, kind, name string, get func(context.Context) (T, error)) bool {
	res := gce.Probe(ctx, get)
	if res.State == gce.ProbeTransportError {
		log.V(1).Info("lookup failed, treating as absent", "kind", kind, "name", name, "err", res.Err)
	}
	return res.Exists()
}
