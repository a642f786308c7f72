package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	compute "google.golang.org/api/compute/v1"
	"gopkg.in/yaml.v3"
	testclock "k8s.io/utils/clock/testing"

	"github.com/imamik/gcectl/internal/config"
	"github.com/imamik/gcectl/internal/platform/gce"
	"github.com/imamik/gcectl/internal/provisioning"
	testutil "github.com/imamik/gcectl/internal/testing"
)

// stubFactories points the handler collaborators at gw and returns the
// reporter the handlers will use. Tests using it must not run in parallel.
func stubFactories(t *testing.T, gw *testutil.FakeGateway, output string) *testutil.RecordingReporter {
	t.Helper()
	origLoad, origGateway, origReporter, origManager := loadConfig, newGateway, newReporter, newManager
	t.Cleanup(func() {
		loadConfig = origLoad
		newGateway = origGateway
		newReporter = origReporter
		newManager = origManager
	})

	loadConfig = func(_ string, _ *pflag.FlagSet) (*config.Config, error) {
		return &config.Config{
			Project:  testutil.Project,
			Zone:     testutil.Zone,
			Output:   output,
			Timeouts: testutil.Timeouts(),
			Paging:   config.Paging{MaxPages: 20, PageSize: 100},
		}, nil
	}
	newGateway = func(*config.Config) gce.Gateway { return gw }

	reporter := &testutil.RecordingReporter{Answer: true}
	newReporter = func(Session) provisioning.Reporter { return reporter }

	clk := testclock.NewFakeClock(time.Unix(1_700_000_000, 0))
	newManager = func(gw gce.Gateway, project, zone string, opts ...provisioning.ManagerOption) *provisioning.Manager {
		return provisioning.NewManager(gw, project, zone, append(opts, provisioning.WithClock(clk))...)
	}
	return reporter
}

func testSession() (Session, *bytes.Buffer) {
	var out bytes.Buffer
	return Session{Out: &out, Err: &bytes.Buffer{}}, &out
}

func TestServerList_Table(t *testing.T) {
	gw := testutil.NewGatewayFixture().
		WithInstance("web-1", "10.0.0.2", "34.1.2.3").
		WithInstance("db-1", "10.0.0.3", "").
		Gateway()
	stubFactories(t, gw, config.OutputTable)
	s, out := testSession()

	require.NoError(t, ServerList(testutil.TestContext(t), s))

	for _, want := range []string{"NAME", "PUBLIC IP", "web-1", "34.1.2.3", "db-1", "10.0.0.3", "n1-standard-1", provisioning.Unknown} {
		assert.Contains(t, out.String(), want)
	}
}

func TestServerList_YAML(t *testing.T) {
	gw := testutil.NewGatewayFixture().WithInstance("web-1", "10.0.0.2", "34.1.2.3").Gateway()
	stubFactories(t, gw, config.OutputYAML)
	s, out := testSession()

	require.NoError(t, ServerList(testutil.TestContext(t), s))

	var got []map[string]string
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "web-1", got[0]["name"])
	assert.Equal(t, "10.0.0.2", got[0]["privateIP"])
	assert.Equal(t, "34.1.2.3", got[0]["publicIP"])
	assert.Equal(t, "default", got[0]["network"])
}

func TestServerCreate(t *testing.T) {
	gw := testutil.NewGatewayFixture().Standard()
	reporter := stubFactories(t, gw, config.OutputJSON)
	s, out := testSession()

	err := ServerCreate(testutil.TestContext(t), s, provisioning.CreateInstanceRequest{
		Name:        "web-1",
		MachineType: "n1-standard-1",
		Network:     "default",
		Image:       "ubuntu-1804",
	})

	require.NoError(t, err)
	assert.True(t, reporter.Contains(provisioning.LevelInfo, "Instance created!"))

	var got []provisioning.InstanceDescriptor
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "web-1", got[0].Name)
	assert.Equal(t, "RUNNING", got[0].Status)
	assert.Equal(t, "n1-standard-1", got[0].MachineType)
}

func TestServerCreate_ValidationFailure(t *testing.T) {
	gw := testutil.NewGatewayFixture().Standard()
	stubFactories(t, gw, config.OutputTable)
	s, out := testSession()

	err := ServerCreate(testutil.TestContext(t), s, provisioning.CreateInstanceRequest{
		Name:        "web-1",
		MachineType: "n1-standard-1",
		Network:     "prod",
		Image:       "ubuntu-1804",
	})

	require.Error(t, err)
	assert.True(t, provisioning.IsValidationError(err))
	assert.Equal(t, `failed to create instance web-1: invalid network "prod": network not found in project test-project`, err.Error())
	assert.Empty(t, out.String())
	assert.Empty(t, gw.MutatingCalls())
}

func TestServerDelete_Declined(t *testing.T) {
	gw := testutil.NewGatewayFixture().WithInstance("web-1", "10.0.0.2", "").Gateway()
	reporter := stubFactories(t, gw, config.OutputTable)
	reporter.Answer = false
	s, _ := testSession()

	require.NoError(t, ServerDelete(testutil.TestContext(t), s, "web-1"))

	assert.Equal(t, []string{"Delete the instance 'us-central1-a:web-1'"}, reporter.Prompts)
	assert.True(t, reporter.Contains(provisioning.LevelInfo, "Aborted."))
	assert.Empty(t, gw.MutatingCalls())
}

func TestDiskCreateAndDelete(t *testing.T) {
	gw := testutil.NewGatewayFixture().Standard()
	reporter := stubFactories(t, gw, config.OutputTable)
	s, out := testSession()
	ctx := testutil.TestContext(t)

	require.NoError(t, DiskCreate(ctx, s, provisioning.CreateDiskRequest{Name: "data-1", SizeGB: 50, Type: "pd-ssd"}))
	assert.Contains(t, out.String(), "data-1")
	assert.Contains(t, out.String(), "50")
	assert.True(t, reporter.Contains(provisioning.LevelInfo, "Disk created successfully."))

	require.NoError(t, DiskDelete(ctx, s, "data-1"))
	assert.Equal(t, []string{"InsertDisk data-1", "DeleteDisk data-1"}, gw.MutatingCalls())
}

func TestDiskList_Error(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.Errs["ListDisks"] = errors.New("permission denied")
	stubFactories(t, gw, config.OutputTable)
	s, _ := testSession()

	err := DiskList(testutil.TestContext(t), s)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list disks")
	assert.Contains(t, err.Error(), "permission denied")
}

func TestZoneAndRegionList(t *testing.T) {
	fixture := testutil.NewGatewayFixture().WithZones(2)
	gw := fixture.Gateway()
	gw.Regions = []*compute.Region{{Name: "test-region", Status: "UP", Zones: []string{"zone-00", "zone-01"}}}
	stubFactories(t, gw, config.OutputJSON)
	ctx := testutil.TestContext(t)

	s, out := testSession()
	require.NoError(t, ZoneList(ctx, s))
	var zones []zoneView
	require.NoError(t, json.Unmarshal(out.Bytes(), &zones))
	assert.Equal(t, []zoneView{
		{Name: "zone-00", Region: "test-region", Status: "UP"},
		{Name: "zone-01", Region: "test-region", Status: "UP"},
	}, zones)

	s, out = testSession()
	require.NoError(t, RegionList(ctx, s))
	var regions []regionView
	require.NoError(t, json.Unmarshal(out.Bytes(), &regions))
	assert.Equal(t, []regionView{{Name: "test-region", Status: "UP", Zones: 2}}, regions)
}

func TestProjectQuotas(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.Quotas = []*compute.Quota{
		{Metric: "SNAPSHOTS", Limit: 1000, Usage: 3},
		{Metric: "CPUS", Limit: 24, Usage: 2.5},
		{Metric: "IN_USE_ADDRESSES", Limit: 8, Usage: 0},
	}
	stubFactories(t, gw, config.OutputTable)
	s, out := testSession()

	require.NoError(t, ProjectQuotas(testutil.TestContext(t), s))

	text := out.String()
	assert.Contains(t, text, "In Use Addresses")
	assert.Contains(t, text, "2.5")
	assert.Contains(t, text, "1000")
	assert.NotContains(t, text, "1000.0")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("Cpus")), bytes.Index(out.Bytes(), []byte("In Use Addresses")))
	assert.Less(t, bytes.Index(out.Bytes(), []byte("In Use Addresses")), bytes.Index(out.Bytes(), []byte("Snapshots")))
}

func TestMetricsFile(t *testing.T) {
	gw := testutil.NewGatewayFixture().WithZones(1).Gateway()
	stubFactories(t, gw, config.OutputTable)
	path := filepath.Join(t.TempDir(), "gcectl.prom")
	t.Setenv(MetricsFileEnv, path)
	s, _ := testSession()

	require.NoError(t, ZoneList(testutil.TestContext(t), s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `gcectl_list_pages_total{resource="zones"} 1`)
}

func TestConfigErrorStopsBeforeGateway(t *testing.T) {
	origLoad, origGateway := loadConfig, newGateway
	t.Cleanup(func() { loadConfig, newGateway = origLoad, origGateway })

	loadConfig = func(string, *pflag.FlagSet) (*config.Config, error) {
		return nil, &config.MissingError{Keys: []string{"project", "zone"}}
	}
	newGateway = func(*config.Config) gce.Gateway {
		t.Fatal("gateway must not be created")
		return nil
	}
	s, _ := testSession()

	err := ServerList(testutil.TestContext(t), s)

	var missing *config.MissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"project", "zone"}, missing.Keys)
}
