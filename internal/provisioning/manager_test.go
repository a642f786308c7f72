package provisioning_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	compute "google.golang.org/api/compute/v1"
	"google.golang.org/api/googleapi"
	testclock "k8s.io/utils/clock/testing"

	"github.com/imamik/gcectl/internal/config"
	"github.com/imamik/gcectl/internal/provisioning"
	testutil "github.com/imamik/gcectl/internal/testing"
	"github.com/imamik/gcectl/internal/util/poll"
)

type harness struct {
	gw       *testutil.FakeGateway
	reporter *testutil.RecordingReporter
	clock    *testclock.FakeClock
	start    time.Time
	mgr      *provisioning.Manager
}

func newHarness(gw *testutil.FakeGateway, opts ...provisioning.ManagerOption) *harness {
	start := time.Unix(1_700_000_000, 0)
	h := &harness{
		gw:       gw,
		reporter: &testutil.RecordingReporter{Answer: true},
		clock:    testclock.NewFakeClock(start),
		start:    start,
	}
	base := []provisioning.ManagerOption{
		provisioning.WithReporter(h.reporter),
		provisioning.WithClock(h.clock),
		provisioning.WithTimeouts(testutil.Timeouts()),
		provisioning.WithPaging(config.Paging{MaxPages: 20, PageSize: 100}),
	}
	h.mgr = provisioning.NewManager(gw, testutil.Project, testutil.Zone, append(base, opts...)...)
	return h
}

func ubuntuRequest() provisioning.CreateInstanceRequest {
	return provisioning.CreateInstanceRequest{
		Name:        "web-1",
		MachineType: "n1-standard-1",
		Network:     "default",
		PublicIP:    "ephemeral",
		Image:       "ubuntu-1804",
	}
}

func TestCreateInstance_ResolvesPublicImageAndWaitsForRunning(t *testing.T) {
	t.Parallel()
	h := newHarness(testutil.NewGatewayFixture().Standard())

	inst, err := h.mgr.CreateInstance(testutil.TestContext(t), ubuntuRequest())

	require.NoError(t, err)
	assert.Equal(t, "RUNNING", inst.Status)

	spec := h.gw.InsertedInstance
	require.NotNil(t, spec)
	require.Len(t, spec.Disks, 1)
	boot := spec.Disks[0]
	assert.True(t, boot.Boot)
	assert.Equal(t, "projects/ubuntu-os-cloud/global/images/ubuntu-1804", boot.InitializeParams.SourceImage)
	assert.Equal(t, "web-1", boot.InitializeParams.DiskName)
	assert.Equal(t, int64(10), boot.InitializeParams.DiskSizeGb)
	assert.Equal(t, "zones/us-central1-a/diskTypes/pd-standard", boot.InitializeParams.DiskType)
	assert.Equal(t, "zones/us-central1-a/machineTypes/n1-standard-1", spec.MachineType)

	require.Len(t, spec.NetworkInterfaces, 1)
	nic := spec.NetworkInterfaces[0]
	assert.Equal(t, "projects/test-project/global/networks/default", nic.Network)
	require.Len(t, nic.AccessConfigs, 1)
	assert.Equal(t, "External NAT", nic.AccessConfigs[0].Name)
	assert.Equal(t, "ONE_TO_ONE_NAT", nic.AccessConfigs[0].Type)
	assert.Empty(t, nic.AccessConfigs[0].NatIP)

	assert.Equal(t, []string{
		"GetImage test-project/ubuntu-1804",
		"GetImage ubuntu-os-cloud/ubuntu-1804",
	}, h.gw.CallsTo("GetImage"), "own project is searched before the vendor project")

	assert.Len(t, h.gw.CallsTo("GetZoneOperation"), 3)
	// Two sleeps for the operation, two for the instance status.
	assert.Equal(t, 8*time.Second, h.clock.Since(h.start))

	assert.Equal(t, []string{
		"Current status: RUNNING.",
		"Current status: PROVISIONING.",
		"Current status: STAGING.",
	}, h.reporter.At(provisioning.LevelStatus))
	assert.Equal(t, []string{"."}, h.reporter.At(provisioning.LevelProgress))
	assert.True(t, h.reporter.Contains(provisioning.LevelInfo, "Instance created!"))
}

func TestCreateInstance_UnknownMachineTypeStopsBeforeMutating(t *testing.T) {
	t.Parallel()
	gw := testutil.NewGatewayFixture().Standard()
	h := newHarness(gw)
	req := ubuntuRequest()
	req.MachineType = "n9-imaginary-64"

	inst, err := h.mgr.CreateInstance(testutil.TestContext(t), req)

	require.Error(t, err)
	assert.Nil(t, inst)
	var ve *provisioning.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "machine_type", ve.Field)
	assert.Equal(t, "n9-imaginary-64", ve.Value)
	assert.Empty(t, gw.MutatingCalls())
	assert.Empty(t, gw.CallsTo("GetNetwork"), "validation is fail-fast")
}

func TestCreateInstance_ValidationOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*provisioning.CreateInstanceRequest)
		wantField string
	}{
		{name: "missing name", mutate: func(r *provisioning.CreateInstanceRequest) { r.Name = "" }, wantField: "name"},
		{name: "missing machine type", mutate: func(r *provisioning.CreateInstanceRequest) { r.MachineType = "" }, wantField: "machine_type"},
		{name: "unknown network", mutate: func(r *provisioning.CreateInstanceRequest) { r.Network = "prod" }, wantField: "network"},
		{name: "bad public ip", mutate: func(r *provisioning.CreateInstanceRequest) { r.PublicIP = "256.1.1.1" }, wantField: "public_ip"},
		{name: "unknown image", mutate: func(r *provisioning.CreateInstanceRequest) { r.Image = "ubuntu-9999" }, wantField: "image"},
		{name: "bad ip checked before image", mutate: func(r *provisioning.CreateInstanceRequest) {
			r.PublicIP = "not-an-ip"
			r.Image = ""
		}, wantField: "public_ip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gw := testutil.NewGatewayFixture().Standard()
			h := newHarness(gw)
			req := ubuntuRequest()
			tt.mutate(&req)

			_, err := h.mgr.CreateInstance(testutil.TestContext(t), req)

			var ve *provisioning.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
			assert.Empty(t, gw.MutatingCalls())
		})
	}
}

func TestCreateInstance_OperationErrorsAreFatal(t *testing.T) {
	t.Parallel()
	gw := testutil.NewGatewayFixture().Standard()
	gw.OperationErrors = []*compute.OperationErrorErrors{
		{Code: "RESOURCE_EXHAUSTED", Message: "quota exceeded"},
	}
	h := newHarness(gw)

	inst, err := h.mgr.CreateInstance(testutil.TestContext(t), ubuntuRequest())

	require.Error(t, err)
	assert.Nil(t, inst)
	assert.True(t, poll.IsOperationError(err))
	assert.Contains(t, err.Error(), "RESOURCE_EXHAUSTED: quota exceeded")
	assert.Len(t, gw.CallsTo("GetZoneOperation"), 3)
	assert.Empty(t, gw.CallsTo("GetInstance"), "instance status is never polled after a failed operation")
	assert.Equal(t, []string{"RESOURCE_EXHAUSTED: quota exceeded"}, h.reporter.At(provisioning.LevelError))
	assert.False(t, h.reporter.Contains(provisioning.LevelInfo, "Instance created!"))
}

func TestCreateInstance_Timeout(t *testing.T) {
	t.Parallel()
	gw := testutil.NewGatewayFixture().Standard()
	gw.OperationStatuses = []string{"PENDING", "RUNNING"}
	h := newHarness(gw, provisioning.WithTimeouts(config.Timeouts{
		OperationWait: 10 * time.Second,
		PollInterval:  2 * time.Second,
	}))

	_, err := h.mgr.CreateInstance(testutil.TestContext(t), ubuntuRequest())

	require.Error(t, err)
	assert.True(t, poll.IsTimeout(err))
	assert.Contains(t, err.Error(), "Google Cloud Console")
	assert.Len(t, gw.CallsTo("GetZoneOperation"), 5)
	assert.Empty(t, gw.CallsTo("GetInstance"))
}

func TestCreateInstance_BuildsFullSpec(t *testing.T) {
	t.Parallel()
	fixture := testutil.NewGatewayFixture().WithDisk("data-1", 200)
	gw := fixture.Standard()
	gw.AddImage(testutil.Project, "golden-image")
	h := newHarness(gw)

	req := provisioning.CreateInstanceRequest{
		Name:            "db-1",
		MachineType:     "n1-standard-1",
		Network:         "default",
		PublicIP:        "203.0.113.7",
		Image:           "golden-image",
		BootDiskName:    "db-1-boot",
		BootDiskSizeGB:  50,
		BootDiskSSD:     true,
		AdditionalDisks: []string{"data-1"},
		CanIPForward:    true,
		Metadata:        map[string]string{"role": "db", "env": "prod"},
		Tags:            []string{"db", "internal"},
		ServiceAccount:  &provisioning.ServiceAccount{Scopes: []string{"https://www.googleapis.com/auth/devstorage.read_only"}},
		AutoMigrate:     true,
		AutoRestart:     true,
	}

	_, err := h.mgr.CreateInstance(testutil.TestContext(t), req)
	require.NoError(t, err)

	spec := gw.InsertedInstance
	require.Len(t, spec.Disks, 2)
	assert.Equal(t, "projects/test-project/global/images/golden-image", spec.Disks[0].InitializeParams.SourceImage)
	assert.Equal(t, "db-1-boot", spec.Disks[0].InitializeParams.DiskName)
	assert.Equal(t, int64(50), spec.Disks[0].InitializeParams.DiskSizeGb)
	assert.Equal(t, "zones/us-central1-a/diskTypes/pd-ssd", spec.Disks[0].InitializeParams.DiskType)
	assert.Equal(t, gw.Disks["data-1"].SelfLink, spec.Disks[1].Source)
	assert.False(t, spec.Disks[1].Boot)

	assert.Equal(t, "203.0.113.7", spec.NetworkInterfaces[0].AccessConfigs[0].NatIP)
	assert.True(t, spec.CanIpForward)
	assert.Equal(t, "MIGRATE", spec.Scheduling.OnHostMaintenance)
	require.NotNil(t, spec.Scheduling.AutomaticRestart)
	assert.True(t, *spec.Scheduling.AutomaticRestart)

	require.NotNil(t, spec.Metadata)
	require.Len(t, spec.Metadata.Items, 2)
	assert.Equal(t, "env", spec.Metadata.Items[0].Key)
	assert.Equal(t, "role", spec.Metadata.Items[1].Key)
	assert.Equal(t, []string{"db", "internal"}, spec.Tags.Items)

	require.Len(t, spec.ServiceAccounts, 1)
	assert.Equal(t, "default", spec.ServiceAccounts[0].Email)
}

func TestCreateInstance_MissingAdditionalDisk(t *testing.T) {
	t.Parallel()
	gw := testutil.NewGatewayFixture().Standard()
	h := newHarness(gw)
	req := ubuntuRequest()
	req.AdditionalDisks = []string{"ghost"}

	_, err := h.mgr.CreateInstance(testutil.TestContext(t), req)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get disk ghost")
	assert.True(t, h.reporter.Contains(provisioning.LevelError, "Unable to attach disk ghost"))
	assert.Empty(t, gw.MutatingCalls())
}

func TestDeleteDisk_MissingIsAWarning(t *testing.T) {
	t.Parallel()
	gw := testutil.NewGatewayFixture().Standard()
	h := newHarness(gw)

	err := h.mgr.DeleteDisk(testutil.TestContext(t), "missing-disk")

	require.NoError(t, err)
	assert.True(t, h.reporter.Contains(provisioning.LevelWarn, "missing-disk"))
	assert.Empty(t, h.reporter.Prompts, "nothing to confirm")
	assert.Empty(t, gw.MutatingCalls())
}

func TestDeleteDisk_RejectedLookupIsAWarning(t *testing.T) {
	t.Parallel()

	for _, code := range []int{400, 403, 404} {
		gw := testutil.NewGatewayFixture().WithDisk("Bad_Name", 10).Standard()
		gw.Errs["GetDisk"] = &googleapi.Error{Code: code, Message: "Invalid value for field 'disk'"}
		h := newHarness(gw)

		err := h.mgr.DeleteDisk(testutil.TestContext(t), "Bad_Name")

		require.NoError(t, err, "code %d", code)
		assert.Equal(t, []string{"The disk 'us-central1-a:Bad_Name' does not exist, nothing to delete."},
			h.reporter.At(provisioning.LevelWarn), "code %d", code)
		assert.Empty(t, h.reporter.Prompts, "code %d", code)
		assert.Empty(t, gw.MutatingCalls(), "code %d", code)
	}
}

func TestDeleteDisk_ServerErrorOnLookupFails(t *testing.T) {
	t.Parallel()
	gw := testutil.NewGatewayFixture().WithDisk("scratch", 10).Standard()
	gw.Errs["GetDisk"] = &googleapi.Error{Code: 503, Message: "backend unavailable"}
	h := newHarness(gw)

	err := h.mgr.DeleteDisk(testutil.TestContext(t), "scratch")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get disk scratch")
	assert.Empty(t, h.reporter.At(provisioning.LevelWarn))
	assert.Empty(t, gw.MutatingCalls())
}

func TestDeleteDisk_Confirmed(t *testing.T) {
	t.Parallel()
	gw := testutil.NewGatewayFixture().WithDisk("scratch", 10).Standard()
	reporter := &testutil.MockReporter{}
	reporter.On("Confirm", "Delete the disk 'us-central1-a:scratch'").Return(true, nil).Once()
	reporter.On("Report", provisioning.LevelStatus, "Current status: RUNNING.").Once()
	reporter.On("Report", provisioning.LevelProgress, ".").Once()
	reporter.On("Report", provisioning.LevelInfo, "The disk 'us-central1-a:scratch' was deleted.").Once()
	h := newHarness(gw, provisioning.WithReporter(reporter))

	err := h.mgr.DeleteDisk(testutil.TestContext(t), "scratch")

	require.NoError(t, err)
	reporter.AssertExpectations(t)
	assert.Equal(t, []string{"DeleteDisk scratch"}, gw.MutatingCalls())
	assert.NotContains(t, gw.Disks, "scratch")
}

func TestDeleteInstance_Declined(t *testing.T) {
	t.Parallel()
	gw := testutil.NewGatewayFixture().WithInstance("web-1", "10.0.0.2", "").Standard()
	h := newHarness(gw)
	h.reporter.Answer = false

	err := h.mgr.DeleteInstance(testutil.TestContext(t), "web-1")

	require.ErrorIs(t, err, provisioning.ErrAborted)
	assert.Equal(t, []string{"Delete the instance 'us-central1-a:web-1'"}, h.reporter.Prompts)
	assert.Empty(t, gw.MutatingCalls())
}

func TestDeleteInstance_ConfirmFailure(t *testing.T) {
	t.Parallel()
	gw := testutil.NewGatewayFixture().WithInstance("web-1", "10.0.0.2", "").Standard()
	h := newHarness(gw)
	h.reporter.Err = errors.New("stdin is not a terminal")

	err := h.mgr.DeleteInstance(testutil.TestContext(t), "web-1")

	require.Error(t, err)
	assert.NotErrorIs(t, err, provisioning.ErrAborted)
	assert.Contains(t, err.Error(), "stdin is not a terminal")
	assert.Empty(t, gw.MutatingCalls())
}

func TestDeleteInstance_LookupFailure(t *testing.T) {
	t.Parallel()
	gw := testutil.NewGatewayFixture().Standard()
	gw.Errs["GetInstance"] = errors.New("connection reset")
	h := newHarness(gw)

	err := h.mgr.DeleteInstance(testutil.TestContext(t), "web-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Empty(t, h.reporter.Prompts)
}

func TestDeleteInstance_WaitsForOperation(t *testing.T) {
	t.Parallel()
	gw := testutil.NewGatewayFixture().WithInstance("web-1", "10.0.0.2", "").Standard()
	h := newHarness(gw)

	err := h.mgr.DeleteInstance(testutil.TestContext(t), "web-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"DeleteInstance web-1"}, gw.MutatingCalls())
	assert.Len(t, gw.CallsTo("GetZoneOperation"), 3)
	assert.True(t, h.reporter.Contains(provisioning.LevelInfo, "was deleted"))
}

func TestCreateDisk_FromVendorImage(t *testing.T) {
	t.Parallel()
	gw := testutil.NewGatewayFixture().Standard()
	gw.AddImage("debian-cloud", "debian-12-bookworm")
	h := newHarness(gw)

	disk, err := h.mgr.CreateDisk(testutil.TestContext(t), provisioning.CreateDiskRequest{
		Name:        "data-2",
		SizeGB:      100,
		Type:        "pd-ssd",
		SourceImage: "debian-12-bookworm",
	})

	require.NoError(t, err)
	assert.Equal(t, "READY", disk.Status)
	assert.Equal(t, "projects/debian-cloud/global/images/debian-12-bookworm", gw.InsertedSource)
	assert.Equal(t, "zones/us-central1-a/diskTypes/pd-ssd", gw.InsertedDisk.Type)
	assert.Equal(t, int64(100), gw.InsertedDisk.SizeGb)
	assert.Equal(t, []string{
		"Creating a 100 GB disk named data-2...",
		"Waiting for disk to be ready...",
		"Disk created successfully.",
	}, h.reporter.At(provisioning.LevelInfo))
}

func TestCreateDisk_Blank(t *testing.T) {
	t.Parallel()
	gw := testutil.NewGatewayFixture().Standard()
	h := newHarness(gw)

	_, err := h.mgr.CreateDisk(testutil.TestContext(t), provisioning.CreateDiskRequest{Name: "blank", SizeGB: 20})

	require.NoError(t, err)
	assert.Empty(t, gw.InsertedSource)
	assert.Equal(t, "zones/us-central1-a/diskTypes/pd-standard", gw.InsertedDisk.Type)
	assert.Empty(t, gw.CallsTo("GetImage"))
}

func TestCreateDisk_InvalidSize(t *testing.T) {
	t.Parallel()
	gw := testutil.NewGatewayFixture().Standard()
	h := newHarness(gw)

	_, err := h.mgr.CreateDisk(testutil.TestContext(t), provisioning.CreateDiskRequest{Name: "blank"})

	var ve *provisioning.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "size_gb", ve.Field)
	assert.Empty(t, gw.MutatingCalls())
}

func TestListInstances_Descriptors(t *testing.T) {
	t.Parallel()
	gw := testutil.NewGatewayFixture().
		WithInstance("a-public", "10.0.0.2", "34.1.2.3").
		WithInstance("b-private", "10.0.0.3", "").
		Gateway()
	gw.Instances["c-bare"] = &compute.Instance{Name: "c-bare", Status: "TERMINATED", MachineType: "zones/z/machineTypes/e2-micro"}
	h := newHarness(gw)

	got, err := h.mgr.ListInstances(testutil.TestContext(t))

	require.NoError(t, err)
	assert.Equal(t, []provisioning.InstanceDescriptor{
		{Name: "a-public", Status: "RUNNING", MachineType: "n1-standard-1", Network: "default", PrivateIP: "10.0.0.2", PublicIP: "34.1.2.3"},
		{Name: "b-private", Status: "RUNNING", MachineType: "n1-standard-1", Network: "default", PrivateIP: "10.0.0.3", PublicIP: "unknown"},
		{Name: "c-bare", Status: "TERMINATED", MachineType: "e2-micro", Network: "unknown", PrivateIP: "unknown", PublicIP: "unknown"},
	}, got)
}

func TestListZones_Truncated(t *testing.T) {
	t.Parallel()
	fixture := testutil.NewGatewayFixture().WithZones(10)
	h := newHarness(fixture.Gateway(), provisioning.WithPaging(config.Paging{MaxPages: 3, PageSize: 2}))

	zones, err := h.mgr.ListZones(testutil.TestContext(t))

	require.NoError(t, err)
	assert.Len(t, zones, 6)
	assert.Len(t, fixture.Gateway().ListRequests, 3)
	for _, req := range fixture.Gateway().ListRequests {
		assert.Equal(t, int64(2), req.MaxResults)
	}
	assert.True(t, h.reporter.Contains(provisioning.LevelWarn, "Max pages (3) reached"))
}

func TestListZones_Complete(t *testing.T) {
	t.Parallel()
	fixture := testutil.NewGatewayFixture().WithZones(10)
	h := newHarness(fixture.Gateway(), provisioning.WithPaging(config.Paging{MaxPages: 10, PageSize: 2}))

	zones, err := h.mgr.ListZones(testutil.TestContext(t))

	require.NoError(t, err)
	assert.Len(t, zones, 10)
	assert.Empty(t, h.reporter.At(provisioning.LevelWarn))
}

func TestListEmpty(t *testing.T) {
	t.Parallel()
	h := newHarness(testutil.NewFakeGateway())
	ctx := testutil.TestContext(t)

	disks, err := h.mgr.ListDisks(ctx)
	require.NoError(t, err)
	assert.NotNil(t, disks)
	assert.Empty(t, disks)

	regions, err := h.mgr.ListRegions(ctx)
	require.NoError(t, err)
	assert.Empty(t, regions)

	instances, err := h.mgr.ListInstances(ctx)
	require.NoError(t, err)
	assert.NotNil(t, instances)
	assert.Empty(t, instances)
}

func TestListDisks_Error(t *testing.T) {
	t.Parallel()
	gw := testutil.NewFakeGateway()
	gw.Errs["ListDisks"] = errors.New("backend unavailable")
	h := newHarness(gw)

	_, err := h.mgr.ListDisks(testutil.TestContext(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list disks")
	assert.Contains(t, err.Error(), "backend unavailable")
}

func TestProjectQuotas(t *testing.T) {
	t.Parallel()

	t.Run("nil quotas", func(t *testing.T) {
		t.Parallel()
		h := newHarness(testutil.NewFakeGateway())

		quotas, err := h.mgr.ProjectQuotas(testutil.TestContext(t))

		require.NoError(t, err)
		assert.NotNil(t, quotas)
		assert.Empty(t, quotas)
	})

	t.Run("quotas", func(t *testing.T) {
		t.Parallel()
		gw := testutil.NewFakeGateway()
		gw.Quotas = []*compute.Quota{{Metric: "CPUS", Limit: 24, Usage: 4}}
		h := newHarness(gw)

		quotas, err := h.mgr.ProjectQuotas(testutil.TestContext(t))

		require.NoError(t, err)
		require.Len(t, quotas, 1)
		assert.Equal(t, "CPUS", quotas[0].Metric)
	})
}
