// Package gce provides a narrow wrapper around the Compute Engine API.
package gce

import (
	"context"

	compute "google.golang.org/api/compute/v1"
)

// PageRequest selects one page of a list call.
// An empty Token requests the first page; MaxResults of zero leaves the
// page size to the server.
type PageRequest struct {
	Token      string
	MaxResults int64
}

// InstanceClient defines the instance endpoints.
type InstanceClient interface {
	InsertInstance(ctx context.Context, project, zone string, instance *compute.Instance) (*compute.Operation, error)
	GetInstance(ctx context.Context, project, zone, name string) (*compute.Instance, error)
	DeleteInstance(ctx context.Context, project, zone, name string) (*compute.Operation, error)
	// ListInstances returns one page of instances and the token of the next page,
	// or an empty token when there are no further pages.
	ListInstances(ctx context.Context, project, zone string, page PageRequest) ([]*compute.Instance, string, error)
}

// DiskClient defines the persistent disk endpoints.
type DiskClient interface {
	// InsertDisk creates a disk. sourceImage may be empty for a blank disk.
	InsertDisk(ctx context.Context, project, zone string, disk *compute.Disk, sourceImage string) (*compute.Operation, error)
	GetDisk(ctx context.Context, project, zone, name string) (*compute.Disk, error)
	DeleteDisk(ctx context.Context, project, zone, name string) (*compute.Operation, error)
	ListDisks(ctx context.Context, project, zone string, page PageRequest) ([]*compute.Disk, string, error)
}

// CatalogClient defines lookups of the resources an instance refers to.
type CatalogClient interface {
	GetMachineType(ctx context.Context, project, zone, name string) (*compute.MachineType, error)
	GetNetwork(ctx context.Context, project, name string) (*compute.Network, error)
	GetImage(ctx context.Context, project, name string) (*compute.Image, error)
}

// LocationClient defines the zone and region listings.
type LocationClient interface {
	ListZones(ctx context.Context, project string, page PageRequest) ([]*compute.Zone, string, error)
	ListRegions(ctx context.Context, project string, page PageRequest) ([]*compute.Region, string, error)
}

// OperationClient defines access to zonal long-running operations.
type OperationClient interface {
	GetZoneOperation(ctx context.Context, project, zone, name string) (*compute.Operation, error)
}

// ProjectClient defines access to project level information.
type ProjectClient interface {
	GetProject(ctx context.Context, project string) (*compute.Project, error)
}

// Gateway combines all Compute Engine endpoints used by gcectl.
type Gateway interface {
	InstanceClient
	DiskClient
	CatalogClient
	LocationClient
	OperationClient
	ProjectClient
}
