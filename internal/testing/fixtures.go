package testing

import (
	"fmt"
	"time"

	compute "google.golang.org/api/compute/v1"

	"github.com/imamik/gcectl/internal/config"
)

// Default identifiers used by the fixtures.
const (
	Project = "test-project"
	Zone    = "us-central1-a"
)

// GatewayFixture provides pre-configured fake gateways for common test scenarios.
type GatewayFixture struct {
	gw *FakeGateway
}

// NewGatewayFixture creates a new fixture around an empty fake gateway.
func NewGatewayFixture() *GatewayFixture {
	return &GatewayFixture{gw: NewFakeGateway()}
}

// Gateway returns the underlying FakeGateway for custom configuration.
func (f *GatewayFixture) Gateway() *FakeGateway {
	return f.gw
}

// Standard registers machine type n1-standard-1, network default and the
// public image ubuntu-1804 in ubuntu-os-cloud. Operations run twice before
// finishing and instances provision before running.
func (f *GatewayFixture) Standard() *FakeGateway {
	f.gw.MachineTypes["n1-standard-1"] = true
	f.gw.Networks["default"] = true
	f.gw.AddImage("ubuntu-os-cloud", "ubuntu-1804")
	f.gw.OperationStatuses = []string{"RUNNING", "RUNNING", "DONE"}
	f.gw.InstanceStatuses = []string{"PROVISIONING", "STAGING", "RUNNING"}
	f.gw.DiskStatuses = []string{"CREATING", "READY"}
	return f.gw
}

// WithZones adds n zones named zone-00, zone-01 and so on.
func (f *GatewayFixture) WithZones(n int) *GatewayFixture {
	for i := range n {
		f.gw.Zones = append(f.gw.Zones, &compute.Zone{
			Name:   fmt.Sprintf("zone-%02d", i),
			Status: "UP",
			Region: "regions/test-region",
		})
	}
	return f
}

// WithInstance adds a running instance with one interface in network default.
func (f *GatewayFixture) WithInstance(name, privateIP, publicIP string) *GatewayFixture {
	nic := &compute.NetworkInterface{
		Network:   "https://www.googleapis.com/compute/v1/projects/" + Project + "/global/networks/default",
		NetworkIP: privateIP,
	}
	if publicIP != "" {
		nic.AccessConfigs = []*compute.AccessConfig{{Name: "External NAT", Type: "ONE_TO_ONE_NAT", NatIP: publicIP}}
	}
	f.gw.Instances[name] = &compute.Instance{
		Name:              name,
		Status:            "RUNNING",
		MachineType:       "https://www.googleapis.com/compute/v1/projects/" + Project + "/zones/" + Zone + "/machineTypes/n1-standard-1",
		NetworkInterfaces: []*compute.NetworkInterface{nic},
	}
	return f
}

// WithDisk adds a ready disk.
func (f *GatewayFixture) WithDisk(name string, sizeGB int64) *GatewayFixture {
	f.gw.Disks[name] = &compute.Disk{
		Name:     name,
		SizeGb:   sizeGB,
		Status:   "READY",
		SelfLink: "https://www.googleapis.com/compute/v1/projects/" + Project + "/zones/" + Zone + "/disks/" + name,
	}
	return f
}

// Timeouts returns the built-in poll settings regardless of the environment.
func Timeouts() config.Timeouts {
	return config.Timeouts{OperationWait: 600 * time.Second, PollInterval: 2 * time.Second}
}
