package provisioning

import (
	"fmt"
	"strings"
)

// Public IP settings accepted besides a literal address.
const (
	PublicIPEphemeral = "ephemeral"
	PublicIPNone      = "none"
)

// DefaultBootDiskSizeGB is the boot disk size used when a request leaves it unset.
const DefaultBootDiskSizeGB = 10

// CreateInstanceRequest describes a virtual machine to create.
type CreateInstanceRequest struct {
	Name        string
	MachineType string
	Network     string

	// PublicIP is empty (no external address), "ephemeral", "none", or an
	// IPv4/IPv6 literal to bind as the external NAT address.
	PublicIP string

	Image string
	// ImageProject restricts image lookup to a single project.
	ImageProject string

	// BootDiskName defaults to Name.
	BootDiskName string
	// BootDiskSizeGB defaults to DefaultBootDiskSizeGB.
	BootDiskSizeGB int64
	// BootDiskSSD selects pd-ssd instead of pd-standard.
	BootDiskSSD bool
	// AdditionalDisks are names of existing disks in the same zone.
	AdditionalDisks []string

	CanIPForward bool
	Metadata     map[string]string
	Tags         []string
	// ServiceAccount is attached only when it carries scopes.
	ServiceAccount *ServiceAccount

	// AutoMigrate maps to on-host-maintenance MIGRATE, otherwise TERMINATE.
	AutoMigrate bool
	AutoRestart bool
}

// ServiceAccount is the identity an instance runs as.
type ServiceAccount struct {
	Email  string
	Scopes []string
}

// CreateDiskRequest describes a persistent disk to create.
type CreateDiskRequest struct {
	Name   string
	SizeGB int64
	// Type defaults to pd-standard.
	Type string
	// SourceImage is optional and resolved like instance images.
	SourceImage  string
	ImageProject string
}

// withDefaults returns a copy of the request with optional fields filled in.
func (r CreateInstanceRequest) withDefaults() CreateInstanceRequest {
	if r.BootDiskName == "" {
		r.BootDiskName = r.Name
	}
	if r.BootDiskSizeGB <= 0 {
		r.BootDiskSizeGB = DefaultBootDiskSizeGB
	}
	return r
}

func (r CreateInstanceRequest) bootDiskType() string {
	if r.BootDiskSSD {
		return "pd-ssd"
	}
	return "pd-standard"
}

func (r CreateInstanceRequest) wantsServiceAccount() bool {
	return r.ServiceAccount != nil && len(r.ServiceAccount.Scopes) > 0
}

func (r CreateDiskRequest) withDefaults() CreateDiskRequest {
	if r.Type == "" {
		r.Type = "pd-standard"
	}
	return r
}

func (r CreateDiskRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return &ValidationError{Field: "name", Message: "disk name is required"}
	}
	if r.SizeGB <= 0 {
		return &ValidationError{Field: "size_gb", Value: fmt.Sprint(r.SizeGB), Message: "disk size must be positive"}
	}
	return nil
}
