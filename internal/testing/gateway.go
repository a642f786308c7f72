package testing

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	compute "google.golang.org/api/compute/v1"
	"google.golang.org/api/googleapi"

	"github.com/imamik/gcectl/internal/platform/gce"
)

// FakeGateway is a scripted in-memory implementation of gce.Gateway.
//
// Catalog lookups succeed for registered names and fail with a 404 API
// error otherwise. Every operation replays OperationStatuses (the last entry
// repeats) and carries OperationErrors once DONE. Created instances and disks
// replay InstanceStatuses and DiskStatuses on each Get.
type FakeGateway struct {
	mu sync.Mutex

	MachineTypes map[string]bool
	Networks     map[string]bool
	// Images maps a project to the image names it publishes.
	Images map[string]map[string]bool

	Instances map[string]*compute.Instance
	Disks     map[string]*compute.Disk
	Zones     []*compute.Zone
	Regions   []*compute.Region
	Quotas    []*compute.Quota

	OperationStatuses []string
	OperationErrors   []*compute.OperationErrorErrors
	InstanceStatuses  []string
	DiskStatuses      []string

	// Errs injects a failure into the named method, e.g. "GetNetwork".
	Errs map[string]error

	// Recorded interactions.
	Calls            []string
	ListRequests     []gce.PageRequest
	InsertedInstance *compute.Instance
	InsertedDisk     *compute.Disk
	InsertedSource   string

	ops       map[string]int
	statusPos map[string]int
	opSeq     int
}

// NewFakeGateway creates an empty gateway whose operations finish at once.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		MachineTypes:      map[string]bool{},
		Networks:          map[string]bool{},
		Images:            map[string]map[string]bool{},
		Instances:         map[string]*compute.Instance{},
		Disks:             map[string]*compute.Disk{},
		OperationStatuses: []string{"DONE"},
		Errs:              map[string]error{},
		ops:               map[string]int{},
		statusPos:         map[string]int{},
	}
}

var _ gce.Gateway = (*FakeGateway)(nil)

// AddImage registers image in project.
func (f *FakeGateway) AddImage(project, image string) *FakeGateway {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Images[project] == nil {
		f.Images[project] = map[string]bool{}
	}
	f.Images[project][image] = true
	return f
}

// NotFound returns the API error the fake uses for missing resources.
func NotFound(kind, name string) error {
	return &googleapi.Error{
		Code:    http.StatusNotFound,
		Message: fmt.Sprintf("The resource '%s %s' was not found", kind, name),
	}
}

// CallsTo returns the recorded calls of method, e.g. "GetImage".
func (f *FakeGateway) CallsTo(method string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.Calls {
		if c == method || strings.HasPrefix(c, method+" ") {
			out = append(out, c)
		}
	}
	return out
}

// MutatingCalls returns the recorded insert and delete calls.
func (f *FakeGateway) MutatingCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.Calls {
		if strings.HasPrefix(c, "Insert") || strings.HasPrefix(c, "Delete") {
			out = append(out, c)
		}
	}
	return out
}

func (f *FakeGateway) record(method string, args ...string) error {
	f.Calls = append(f.Calls, strings.TrimSpace(method+" "+strings.Join(args, " ")))
	return f.Errs[method]
}

func (f *FakeGateway) newOperation(kind string) *compute.Operation {
	f.opSeq++
	name := fmt.Sprintf("operation-%s-%d", kind, f.opSeq)
	f.ops[name] = 0
	return &compute.Operation{Name: name, Status: "PENDING", OperationType: kind}
}

// next returns the status at the cursor of key and advances it; the last
// entry of seq repeats.
func (f *FakeGateway) next(key string, seq []string, fallback string) string {
	if len(seq) == 0 {
		return fallback
	}
	i := f.statusPos[key]
	f.statusPos[key] = i + 1
	if i >= len(seq) {
		i = len(seq) - 1
	}
	return seq[i]
}

// InsertInstance implements gce.InstanceClient.
func (f *FakeGateway) InsertInstance(_ context.Context, _, _ string, instance *compute.Instance) (*compute.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("InsertInstance", instance.Name); err != nil {
		return nil, err
	}
	f.InsertedInstance = instance
	stored := *instance
	f.Instances[instance.Name] = &stored
	return f.newOperation("insert"), nil
}

// GetInstance implements gce.InstanceClient.
func (f *FakeGateway) GetInstance(_ context.Context, _, _, name string) (*compute.Instance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetInstance", name); err != nil {
		return nil, err
	}
	inst, ok := f.Instances[name]
	if !ok {
		return nil, NotFound("instance", name)
	}
	out := *inst
	out.Status = f.next("instance/"+name, f.InstanceStatuses, inst.Status)
	if out.Status == "" {
		out.Status = "RUNNING"
	}
	return &out, nil
}

// DeleteInstance implements gce.InstanceClient.
func (f *FakeGateway) DeleteInstance(_ context.Context, _, _, name string) (*compute.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteInstance", name); err != nil {
		return nil, err
	}
	delete(f.Instances, name)
	return f.newOperation("delete"), nil
}

// ListInstances implements gce.InstanceClient.
func (f *FakeGateway) ListInstances(_ context.Context, _, _ string, page gce.PageRequest) ([]*compute.Instance, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListInstances", page.Token); err != nil {
		return nil, "", err
	}
	f.ListRequests = append(f.ListRequests, page)
	names := sortedKeys(f.Instances)
	items := make([]*compute.Instance, 0, len(names))
	for _, n := range names {
		items = append(items, f.Instances[n])
	}
	return paginate(items, page)
}

// InsertDisk implements gce.DiskClient.
func (f *FakeGateway) InsertDisk(_ context.Context, _, _ string, disk *compute.Disk, sourceImage string) (*compute.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("InsertDisk", disk.Name); err != nil {
		return nil, err
	}
	f.InsertedDisk = disk
	f.InsertedSource = sourceImage
	stored := *disk
	stored.SourceImage = sourceImage
	f.Disks[disk.Name] = &stored
	return f.newOperation("insert"), nil
}

// GetDisk implements gce.DiskClient.
func (f *FakeGateway) GetDisk(_ context.Context, _, _, name string) (*compute.Disk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetDisk", name); err != nil {
		return nil, err
	}
	disk, ok := f.Disks[name]
	if !ok {
		return nil, NotFound("disk", name)
	}
	out := *disk
	out.Status = f.next("disk/"+name, f.DiskStatuses, disk.Status)
	if out.Status == "" {
		out.Status = "READY"
	}
	return &out, nil
}

// DeleteDisk implements gce.DiskClient.
func (f *FakeGateway) DeleteDisk(_ context.Context, _, _, name string) (*compute.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteDisk", name); err != nil {
		return nil, err
	}
	delete(f.Disks, name)
	return f.newOperation("delete"), nil
}

// ListDisks implements gce.DiskClient.
func (f *FakeGateway) ListDisks(_ context.Context, _, _ string, page gce.PageRequest) ([]*compute.Disk, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListDisks", page.Token); err != nil {
		return nil, "", err
	}
	f.ListRequests = append(f.ListRequests, page)
	names := sortedKeys(f.Disks)
	items := make([]*compute.Disk, 0, len(names))
	for _, n := range names {
		items = append(items, f.Disks[n])
	}
	return paginate(items, page)
}

// GetMachineType implements gce.CatalogClient.
func (f *FakeGateway) GetMachineType(_ context.Context, _, zone, name string) (*compute.MachineType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetMachineType", name); err != nil {
		return nil, err
	}
	if !f.MachineTypes[name] {
		return nil, NotFound("machineType", name)
	}
	return &compute.MachineType{Name: name, Zone: zone}, nil
}

// GetNetwork implements gce.CatalogClient.
func (f *FakeGateway) GetNetwork(_ context.Context, _, name string) (*compute.Network, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetNetwork", name); err != nil {
		return nil, err
	}
	if !f.Networks[name] {
		return nil, NotFound("network", name)
	}
	return &compute.Network{Name: name}, nil
}

// GetImage implements gce.CatalogClient.
func (f *FakeGateway) GetImage(_ context.Context, project, name string) (*compute.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetImage", project+"/"+name); err != nil {
		return nil, err
	}
	if !f.Images[project][name] {
		return nil, NotFound("image", project+"/"+name)
	}
	return &compute.Image{Name: name, SelfLink: gce.ImageURL(project, name)}, nil
}

// ListZones implements gce.LocationClient.
func (f *FakeGateway) ListZones(_ context.Context, _ string, page gce.PageRequest) ([]*compute.Zone, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListZones", page.Token); err != nil {
		return nil, "", err
	}
	f.ListRequests = append(f.ListRequests, page)
	return paginate(f.Zones, page)
}

// ListRegions implements gce.LocationClient.
func (f *FakeGateway) ListRegions(_ context.Context, _ string, page gce.PageRequest) ([]*compute.Region, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListRegions", page.Token); err != nil {
		return nil, "", err
	}
	f.ListRequests = append(f.ListRequests, page)
	return paginate(f.Regions, page)
}

// GetZoneOperation implements gce.OperationClient.
func (f *FakeGateway) GetZoneOperation(_ context.Context, _, _, name string) (*compute.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetZoneOperation", name); err != nil {
		return nil, err
	}
	if _, ok := f.ops[name]; !ok {
		return nil, NotFound("operation", name)
	}
	op := &compute.Operation{Name: name, Status: f.next("operation/"+name, f.OperationStatuses, "DONE")}
	if op.Status == "DONE" && len(f.OperationErrors) > 0 {
		op.Error = &compute.OperationError{Errors: f.OperationErrors}
	}
	return op, nil
}

// GetProject implements gce.ProjectClient.
func (f *FakeGateway) GetProject(_ context.Context, project string) (*compute.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetProject", project); err != nil {
		return nil, err
	}
	return &compute.Project{Name: project, Quotas: f.Quotas}, nil
}

// paginate serves items in pages of page.MaxResults using the offset as token.
func paginate[T any](items []T, page gce.PageRequest) ([]T, string, error) {
	offset := 0
	if page.Token != "" {
		var err error
		offset, err = strconv.Atoi(page.Token)
		if err != nil || offset < 0 || offset > len(items) {
			return nil, "", &googleapi.Error{Code: http.StatusBadRequest, Message: "invalid page token " + page.Token}
		}
	}

	size := int(page.MaxResults)
	if size <= 0 {
		size = 500
	}

	end := offset + size
	if end >= len(items) {
		return items[offset:], "", nil
	}
	return items[offset:end], strconv.Itoa(end), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
