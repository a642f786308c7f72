package provisioning

import (
	"context"
	"fmt"

	compute "google.golang.org/api/compute/v1"

	"github.com/imamik/gcectl/internal/platform/gce"
	"github.com/imamik/gcectl/internal/util/pager"
)

// listFunc is one page of a gateway list call.
type listFunc[T any] func(ctx context.Context, page gce.PageRequest) ([]T, string, error)

// listAll drives a gateway list call through the pager with the manager's
// limits, reporting truncation to the user.
func listAll[T any](ctx context.Context, m *Manager, resource string, list listFunc[T]) ([]T, error) {
	items, err := pager.ListAll(ctx, func(ctx context.Context, req pager.Request) (pager.Page[T], error) {
		page, next, err := list(ctx, gce.PageRequest{Token: req.Token, MaxResults: req.PageSize})
		if err != nil {
			return pager.Page[T]{}, err
		}
		return pager.Page[T]{Items: page, NextToken: next}, nil
	},
		pager.WithMaxPages(m.paging.MaxPages),
		pager.WithPageSize(m.paging.PageSize),
		pager.WithObserver(pageObserver{
			resource: resource,
			reporter: m.reporter,
			log:      m.log,
			metrics:  m.metrics,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", resource, err)
	}
	return items, nil
}

// ListInstances returns the descriptors of the instances in the zone.
func (m *Manager) ListInstances(ctx context.Context) ([]InstanceDescriptor, error) {
	instances, err := listAll(ctx, m, "instances", func(ctx context.Context, page gce.PageRequest) ([]*compute.Instance, string, error) {
		return m.gw.ListInstances(ctx, m.project, m.zone, page)
	})
	if err != nil {
		return nil, err
	}

	descriptors := make([]InstanceDescriptor, 0, len(instances))
	for _, inst := range instances {
		if inst == nil {
			continue
		}
		descriptors = append(descriptors, DescribeInstance(inst))
	}
	return descriptors, nil
}

// ListDisks returns the disks in the zone.
func (m *Manager) ListDisks(ctx context.Context) ([]*compute.Disk, error) {
	return listAll(ctx, m, "disks", func(ctx context.Context, page gce.PageRequest) ([]*compute.Disk, string, error) {
		return m.gw.ListDisks(ctx, m.project, m.zone, page)
	})
}

// ListZones returns the zones visible to the project.
func (m *Manager) ListZones(ctx context.Context) ([]*compute.Zone, error) {
	return listAll(ctx, m, "zones", func(ctx context.Context, page gce.PageRequest) ([]*compute.Zone, string, error) {
		return m.gw.ListZones(ctx, m.project, page)
	})
}

// ListRegions returns the regions visible to the project.
func (m *Manager) ListRegions(ctx context.Context) ([]*compute.Region, error) {
	return listAll(ctx, m, "regions", func(ctx context.Context, page gce.PageRequest) ([]*compute.Region, string, error) {
		return m.gw.ListRegions(ctx, m.project, page)
	})
}

// ProjectQuotas returns the quotas of the project. A project without quotas
// yields an empty slice.
func (m *Manager) ProjectQuotas(ctx context.Context) ([]*compute.Quota, error) {
	project, err := m.gw.GetProject(ctx, m.project)
	if err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", m.project, err)
	}
	if project == nil || project.Quotas == nil {
		return []*compute.Quota{}, nil
	}
	return project.Quotas, nil
}
