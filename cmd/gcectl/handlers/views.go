package handlers

import (
	"strconv"

	compute "google.golang.org/api/compute/v1"

	"github.com/imamik/gcectl/internal/platform/gce"
	"github.com/imamik/gcectl/internal/provisioning"
)

type instanceList []provisioning.InstanceDescriptor

func (l instanceList) headers() []string {
	return []string{"NAME", "STATUS", "MACHINE TYPE", "NETWORK", "PRIVATE IP", "PUBLIC IP"}
}

func (l instanceList) rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, d := range l {
		rows = append(rows, []string{d.Name, d.Status, d.MachineType, d.Network, d.PrivateIP, d.PublicIP})
	}
	return rows
}

type diskView struct {
	Name   string `json:"name" yaml:"name"`
	SizeGB int64  `json:"sizeGb" yaml:"sizeGb"`
	Type   string `json:"type" yaml:"type"`
	Status string `json:"status" yaml:"status"`
}

type diskList []diskView

func newDiskList(disks []*compute.Disk) diskList {
	l := make(diskList, 0, len(disks))
	for _, d := range disks {
		if d == nil {
			continue
		}
		l = append(l, diskView{Name: d.Name, SizeGB: d.SizeGb, Type: gce.ResourceName(d.Type), Status: d.Status})
	}
	return l
}

func (l diskList) headers() []string { return []string{"NAME", "SIZE (GB)", "TYPE", "STATUS"} }

func (l diskList) rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, d := range l {
		rows = append(rows, []string{d.Name, strconv.FormatInt(d.SizeGB, 10), d.Type, d.Status})
	}
	return rows
}

type zoneView struct {
	Name   string `json:"name" yaml:"name"`
	Region string `json:"region" yaml:"region"`
	Status string `json:"status" yaml:"status"`
}

type zoneList []zoneView

func newZoneList(zones []*compute.Zone) zoneList {
	l := make(zoneList, 0, len(zones))
	for _, z := range zones {
		if z == nil {
			continue
		}
		l = append(l, zoneView{Name: z.Name, Region: gce.ResourceName(z.Region), Status: z.Status})
	}
	return l
}

func (l zoneList) headers() []string { return []string{"NAME", "REGION", "STATUS"} }

func (l zoneList) rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, z := range l {
		rows = append(rows, []string{z.Name, z.Region, z.Status})
	}
	return rows
}

type regionView struct {
	Name   string `json:"name" yaml:"name"`
	Status string `json:"status" yaml:"status"`
	Zones  int    `json:"zones" yaml:"zones"`
}

type regionList []regionView

func newRegionList(regions []*compute.Region) regionList {
	l := make(regionList, 0, len(regions))
	for _, r := range regions {
		if r == nil {
			continue
		}
		l = append(l, regionView{Name: r.Name, Status: r.Status, Zones: len(r.Zones)})
	}
	return l
}

func (l regionList) headers() []string { return []string{"NAME", "STATUS", "ZONES"} }

func (l regionList) rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, r := range l {
		rows = append(rows, []string{r.Name, r.Status, strconv.Itoa(r.Zones)})
	}
	return rows
}

type quotaView struct {
	Metric string  `json:"metric" yaml:"metric"`
	Limit  float64 `json:"limit" yaml:"limit"`
	Usage  float64 `json:"usage" yaml:"usage"`
}

type quotaList []quotaView

// newQuotaList sorts quotas by metric and humanizes the metric names.
func newQuotaList(quotas []*compute.Quota) quotaList {
	l := make(quotaList, 0, len(quotas))
	for _, q := range quotas {
		if q == nil {
			continue
		}
		l = append(l, quotaView{Metric: q.Metric, Limit: q.Limit, Usage: q.Usage})
	}
	sortByName(l, func(q quotaView) string { return q.Metric })
	for i := range l {
		l[i].Metric = formatMetric(l[i].Metric)
	}
	return l
}

func (l quotaList) headers() []string { return []string{"METRIC", "LIMIT", "USAGE"} }

func (l quotaList) rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, q := range l {
		rows = append(rows, []string{q.Metric, formatNumber(q.Limit), formatNumber(q.Usage)})
	}
	return rows
}
