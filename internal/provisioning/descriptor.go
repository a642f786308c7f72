package provisioning

import (
	compute "google.golang.org/api/compute/v1"

	"github.com/imamik/gcectl/internal/platform/gce"
)

// Unknown stands in for descriptor fields the instance does not carry.
const Unknown = "unknown"

// InstanceDescriptor is the listing projection of an instance.
type InstanceDescriptor struct {
	Name        string `json:"name" yaml:"name"`
	Status      string `json:"status" yaml:"status"`
	MachineType string `json:"machineType" yaml:"machineType"`
	Network     string `json:"network" yaml:"network"`
	PrivateIP   string `json:"privateIP" yaml:"privateIP"`
	PublicIP    string `json:"publicIP" yaml:"publicIP"`
}

// DescribeInstance projects inst using its first network interface.
func DescribeInstance(inst *compute.Instance) InstanceDescriptor {
	d := InstanceDescriptor{
		Name:        inst.Name,
		Status:      inst.Status,
		MachineType: gce.ResourceName(inst.MachineType),
		Network:     Unknown,
		PrivateIP:   Unknown,
		PublicIP:    Unknown,
	}

	if len(inst.NetworkInterfaces) == 0 || inst.NetworkInterfaces[0] == nil {
		return d
	}

	nic := inst.NetworkInterfaces[0]
	if nic.Network != "" {
		d.Network = gce.ResourceName(nic.Network)
	}
	if nic.NetworkIP != "" {
		d.PrivateIP = nic.NetworkIP
	}
	if len(nic.AccessConfigs) > 0 && nic.AccessConfigs[0] != nil && nic.AccessConfigs[0].NatIP != "" {
		d.PublicIP = nic.AccessConfigs[0].NatIP
	}

	return d
}
