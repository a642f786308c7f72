package gce

import (
	"context"
	"fmt"
	"net/http"

	compute "google.golang.org/api/compute/v1"
	"google.golang.org/api/option"
)

// RealClient implements Gateway using the Compute Engine REST API.
//
// The underlying compute.Service is created on first use and shared by every
// subsequent call. RealClient is not safe for concurrent use.
type RealClient struct {
	service *compute.Service
	options []option.ClientOption
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithCredentialsFile authenticates with a service account key file instead of
// the application default credentials.
func WithCredentialsFile(path string) ClientOption {
	return func(c *RealClient) {
		if path != "" {
			c.options = append(c.options, option.WithCredentialsFile(path))
		}
	}
}

// WithEndpoint overrides the API base URL.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *RealClient) {
		if endpoint != "" {
			c.options = append(c.options, option.WithEndpoint(endpoint))
		}
	}
}

// WithHTTPClient sets the HTTP client used for API requests. The client is
// used as is, so it must carry its own authentication.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *RealClient) {
		c.options = append(c.options, option.WithHTTPClient(hc))
	}
}

// WithComputeService sets a prebuilt compute service (useful for testing).
func WithComputeService(svc *compute.Service) ClientOption {
	return func(c *RealClient) {
		c.service = svc
	}
}

// NewRealClient creates a new RealClient with optional configuration.
func NewRealClient(opts ...ClientOption) *RealClient {
	c := &RealClient{
		options: []option.ClientOption{
			option.WithScopes(compute.ComputeScope, compute.CloudPlatformScope),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// connection returns the shared compute service, creating it on first use.
func (c *RealClient) connection(ctx context.Context) (*compute.Service, error) {
	if c.service != nil {
		return c.service, nil
	}
	svc, err := compute.NewService(ctx, c.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create compute service: %w", err)
	}
	c.service = svc
	return svc, nil
}

// InsertInstance issues an instance creation.
func (c *RealClient) InsertInstance(ctx context.Context, project, zone string, instance *compute.Instance) (*compute.Operation, error) {
	svc, err := c.connection(ctx)
	if err != nil {
		return nil, err
	}
	return svc.Instances.Insert(project, zone, instance).Context(ctx).Do()
}

// GetInstance returns a single instance.
func (c *RealClient) GetInstance(ctx context.Context, project, zone, name string) (*compute.Instance, error) {
	svc, err := c.connection(ctx)
	if err != nil {
		return nil, err
	}
	return svc.Instances.Get(project, zone, name).Context(ctx).Do()
}

// DeleteInstance issues an instance deletion.
func (c *RealClient) DeleteInstance(ctx context.Context, project, zone, name string) (*compute.Operation, error) {
	svc, err := c.connection(ctx)
	if err != nil {
		return nil, err
	}
	return svc.Instances.Delete(project, zone, name).Context(ctx).Do()
}

// ListInstances returns one page of instances in a zone.
func (c *RealClient) ListInstances(ctx context.Context, project, zone string, page PageRequest) ([]*compute.Instance, string, error) {
	svc, err := c.connection(ctx)
	if err != nil {
		return nil, "", err
	}
	call := svc.Instances.List(project, zone).Context(ctx)
	if page.MaxResults > 0 {
		call = call.MaxResults(page.MaxResults)
	}
	if page.Token != "" {
		call = call.PageToken(page.Token)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, "", err
	}
	return resp.Items, resp.NextPageToken, nil
}

// InsertDisk issues a disk creation, optionally from a source image.
func (c *RealClient) InsertDisk(ctx context.Context, project, zone string, disk *compute.Disk, sourceImage string) (*compute.Operation, error) {
	svc, err := c.connection(ctx)
	if err != nil {
		return nil, err
	}
	call := svc.Disks.Insert(project, zone, disk).Context(ctx)
	if sourceImage != "" {
		call = call.SourceImage(sourceImage)
	}
	return call.Do()
}

// GetDisk returns a single disk.
func (c *RealClient) GetDisk(ctx context.Context, project, zone, name string) (*compute.Disk, error) {
	svc, err := c.connection(ctx)
	if err != nil {
		return nil, err
	}
	return svc.Disks.Get(project, zone, name).Context(ctx).Do()
}

// DeleteDisk issues a disk deletion.
func (c *RealClient) DeleteDisk(ctx context.Context, project, zone, name string) (*compute.Operation, error) {
	svc, err := c.connection(ctx)
	if err != nil {
		return nil, err
	}
	return svc.Disks.Delete(project, zone, name).Context(ctx).Do()
}

// ListDisks returns one page of disks in a zone.
func (c *RealClient) ListDisks(ctx context.Context, project, zone string, page PageRequest) ([]*compute.Disk, string, error) {
	svc, err := c.connection(ctx)
	if err != nil {
		return nil, "", err
	}
	call := svc.Disks.List(project, zone).Context(ctx)
	if page.MaxResults > 0 {
		call = call.MaxResults(page.MaxResults)
	}
	if page.Token != "" {
		call = call.PageToken(page.Token)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, "", err
	}
	return resp.Items, resp.NextPageToken, nil
}

// GetMachineType returns a machine type in a zone.
func (c *RealClient) GetMachineType(ctx context.Context, project, zone, name string) (*compute.MachineType, error) {
	svc, err := c.connection(ctx)
	if err != nil {
		return nil, err
	}
	return svc.MachineTypes.Get(project, zone, name).Context(ctx).Do()
}

// GetNetwork returns a global network.
func (c *RealClient) GetNetwork(ctx context.Context, project, name string) (*compute.Network, error) {
	svc, err := c.connection(ctx)
	if err != nil {
		return nil, err
	}
	return svc.Networks.Get(project, name).Context(ctx).Do()
}

// GetImage returns a global image.
func (c *RealClient) GetImage(ctx context.Context, project, name string) (*compute.Image, error) {
	svc, err := c.connection(ctx)
	if err != nil {
		return nil, err
	}
	return svc.Images.Get(project, name).Context(ctx).Do()
}

// ListZones returns one page of zones.
func (c *RealClient) ListZones(ctx context.Context, project string, page PageRequest) ([]*compute.Zone, string, error) {
	svc, err := c.connection(ctx)
	if err != nil {
		return nil, "", err
	}
	call := svc.Zones.List(project).Context(ctx)
	if page.MaxResults > 0 {
		call = call.MaxResults(page.MaxResults)
	}
	if page.Token != "" {
		call = call.PageToken(page.Token)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, "", err
	}
	return resp.Items, resp.NextPageToken, nil
}

// ListRegions returns one page of regions.
func (c *RealClient) ListRegions(ctx context.Context, project string, page PageRequest) ([]*compute.Region, string, error) {
	svc, err := c.connection(ctx)
	if err != nil {
		return nil, "", err
	}
	call := svc.Regions.List(project).Context(ctx)
	if page.MaxResults > 0 {
		call = call.MaxResults(page.MaxResults)
	}
	if page.Token != "" {
		call = call.PageToken(page.Token)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, "", err
	}
	return resp.Items, resp.NextPageToken, nil
}

// GetZoneOperation returns the current state of a zonal operation.
func (c *RealClient) GetZoneOperation(ctx context.Context, project, zone, name string) (*compute.Operation, error) {
	svc, err := c.connection(ctx)
	if err != nil {
		return nil, err
	}
	return svc.ZoneOperations.Get(project, zone, name).Context(ctx).Do()
}

// GetProject returns the project resource, including its quotas.
func (c *RealClient) GetProject(ctx context.Context, project string) (*compute.Project, error) {
	svc, err := c.connection(ctx)
	if err != nil {
		return nil, err
	}
	return svc.Projects.Get(project).Context(ctx).Do()
}
