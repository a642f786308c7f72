package provisioning

import (
	"sort"
	"strings"

	compute "google.golang.org/api/compute/v1"
	"google.golang.org/api/googleapi"

	"github.com/imamik/gcectl/internal/platform/gce"
)

const (
	accessConfigName = "External NAT"
	accessConfigType = "ONE_TO_ONE_NAT"
)

// instanceSpec assembles the insert payload for a validated request.
type instanceSpec struct {
	project string
	zone    string
}

func (s instanceSpec) build(req CreateInstanceRequest, image *ImageReference, attach []*compute.Disk) *compute.Instance {
	inst := &compute.Instance{
		Name:              req.Name,
		CanIpForward:      req.CanIPForward,
		MachineType:       gce.MachineTypeURL(s.zone, req.MachineType),
		Disks:             s.disks(req, image, attach),
		NetworkInterfaces: s.networkInterfaces(req),
		Scheduling:        scheduling(req),
		Metadata:          metadata(req.Metadata),
	}

	if len(req.Tags) > 0 {
		inst.Tags = &compute.Tags{Items: req.Tags}
	}

	if req.wantsServiceAccount() {
		email := req.ServiceAccount.Email
		if email == "" {
			email = "default"
		}
		inst.ServiceAccounts = []*compute.ServiceAccount{{
			Email:  email,
			Scopes: req.ServiceAccount.Scopes,
		}}
	}

	return inst
}

func (s instanceSpec) disks(req CreateInstanceRequest, image *ImageReference, attach []*compute.Disk) []*compute.AttachedDisk {
	disks := make([]*compute.AttachedDisk, 0, len(attach)+1)
	disks = append(disks, &compute.AttachedDisk{
		Boot:       true,
		AutoDelete: true,
		Type:       "PERSISTENT",
		InitializeParams: &compute.AttachedDiskInitializeParams{
			DiskName:    req.BootDiskName,
			DiskSizeGb:  req.BootDiskSizeGB,
			DiskType:    gce.DiskTypeURL(s.zone, req.bootDiskType()),
			SourceImage: image.URL(),
		},
	})

	for _, d := range attach {
		source := d.SelfLink
		if source == "" {
			source = gce.DiskURL(s.project, s.zone, d.Name)
		}
		disks = append(disks, &compute.AttachedDisk{
			DeviceName: d.Name,
			Source:     source,
			Mode:       "READ_WRITE",
			Type:       "PERSISTENT",
		})
	}

	return disks
}

func (s instanceSpec) networkInterfaces(req CreateInstanceRequest) []*compute.NetworkInterface {
	return []*compute.NetworkInterface{{
		Network:       gce.NetworkURL(s.project, req.Network),
		AccessConfigs: accessConfigs(req.PublicIP),
	}}
}

// accessConfigs returns no external access for an empty or "none" setting,
// otherwise a one-to-one NAT carrying the literal address if one was given.
func accessConfigs(publicIP string) []*compute.AccessConfig {
	if publicIP == "" || strings.EqualFold(publicIP, PublicIPNone) {
		return nil
	}

	ac := &compute.AccessConfig{
		Name: accessConfigName,
		Type: accessConfigType,
	}
	if isIPLiteral(publicIP) {
		ac.NatIP = publicIP
	}
	return []*compute.AccessConfig{ac}
}

func scheduling(req CreateInstanceRequest) *compute.Scheduling {
	maintenance := "TERMINATE"
	if req.AutoMigrate {
		maintenance = "MIGRATE"
	}
	return &compute.Scheduling{
		AutomaticRestart:  googleapi.Bool(req.AutoRestart),
		OnHostMaintenance: maintenance,
	}
}

// metadata converts key/value pairs into metadata items sorted by key.
func metadata(kv map[string]string) *compute.Metadata {
	if len(kv) == 0 {
		return nil
	}

	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]*compute.MetadataItems, 0, len(keys))
	for _, k := range keys {
		items = append(items, &compute.MetadataItems{Key: k, Value: googleapi.String(kv[k])})
	}
	return &compute.Metadata{Items: items}
}
