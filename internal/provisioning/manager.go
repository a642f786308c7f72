package provisioning

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	compute "google.golang.org/api/compute/v1"
	"k8s.io/utils/clock"

	"github.com/imamik/gcectl/internal/config"
	"github.com/imamik/gcectl/internal/platform/gce"
	"github.com/imamik/gcectl/internal/util/poll"
)

// Workflow kinds used as metric labels.
const (
	kindCreateInstance = "create_instance"
	kindDeleteInstance = "delete_instance"
	kindCreateDisk     = "create_disk"
	kindDeleteDisk     = "delete_disk"
)

// Manager runs the create, delete and list workflows against one project
// and zone. It is not safe for concurrent use.
type Manager struct {
	gw        gce.Gateway
	project   string
	zone      string
	reporter  Reporter
	validator *Validator
	log       logr.Logger
	metrics   *Metrics
	timeouts  config.Timeouts
	paging    config.Paging
	clock     clock.Clock
}

// ManagerOption is a functional option for Manager.
type ManagerOption func(*Manager)

// WithReporter sets the presentation port. Defaults to a LogReporter that
// declines confirmations.
func WithReporter(r Reporter) ManagerOption {
	return func(m *Manager) {
		if r != nil {
			m.reporter = r
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log logr.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = log
	}
}

// WithMetrics sets the collectors updated by the workflows.
func WithMetrics(metrics *Metrics) ManagerOption {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithTimeouts sets the poll budget and interval.
func WithTimeouts(t config.Timeouts) ManagerOption {
	return func(m *Manager) {
		m.timeouts = t
	}
}

// WithPaging sets the list limits.
func WithPaging(p config.Paging) ManagerOption {
	return func(m *Manager) {
		m.paging = p
	}
}

// WithClock sets the clock used while polling.
func WithClock(clk clock.Clock) ManagerOption {
	return func(m *Manager) {
		m.clock = clk
	}
}

// NewManager creates a Manager for project and zone.
func NewManager(gw gce.Gateway, project, zone string, opts ...ManagerOption) *Manager {
	m := &Manager{
		gw:       gw,
		project:  project,
		zone:     zone,
		reporter: NewLogReporter(false),
		log:      logr.Discard(),
		timeouts: *config.LoadTimeouts(),
		paging:   *config.LoadPaging(),
		clock:    clock.RealClock{},
	}

	for _, opt := range opts {
		opt(m)
	}

	m.validator = NewValidator(gw, project, zone, m.log.WithName("validator"), m.metrics)
	return m
}

// Project returns the project the manager operates in.
func (m *Manager) Project() string { return m.project }

// Zone returns the zone the manager operates in.
func (m *Manager) Zone() string { return m.zone }

// CreateInstance validates req, inserts the instance, waits for the insert
// operation and then for the instance to be RUNNING, and returns its final
// state. Validation failures happen before any mutating call.
func (m *Manager) CreateInstance(ctx context.Context, req CreateInstanceRequest) (*compute.Instance, error) {
	req = req.withDefaults()

	var (
		image    *ImageReference
		attach   []*compute.Disk
		op       *compute.Operation
		instance *compute.Instance
	)

	err := m.runSteps(ctx, kindCreateInstance, []step{
		{name: "validate request", run: func(ctx context.Context) error {
			if req.Name == "" {
				return &ValidationError{Field: "name", Message: "instance name is required"}
			}
			var err error
			image, err = m.validator.Validate(ctx, req)
			return err
		}},
		{name: "look up additional disks", run: func(ctx context.Context) error {
			var err error
			attach, err = m.lookupDisks(ctx, req.AdditionalDisks)
			return err
		}},
		{name: "insert instance", run: func(ctx context.Context) error {
			m.reporter.Report(LevelInfo, "Creating instance...")
			spec := instanceSpec{project: m.project, zone: m.zone}.build(req, image, attach)
			var err error
			op, err = m.gw.InsertInstance(ctx, m.project, m.zone, spec)
			if err != nil {
				return fmt.Errorf("failed to insert instance %s: %w", req.Name, err)
			}
			return nil
		}},
		{name: "wait for operation", run: func(ctx context.Context) error {
			return m.waitForOperation(ctx, op)
		}},
		{name: "wait for instance", run: func(ctx context.Context) error {
			return m.waitForStatus(ctx, "instance", "RUNNING", func(ctx context.Context) (string, error) {
				inst, err := m.gw.GetInstance(ctx, m.project, m.zone, req.Name)
				if err != nil {
					return "", err
				}
				return inst.Status, nil
			})
		}},
		{name: "fetch instance", run: func(ctx context.Context) error {
			var err error
			instance, err = m.gw.GetInstance(ctx, m.project, m.zone, req.Name)
			if err != nil {
				return fmt.Errorf("failed to get instance %s: %w", req.Name, err)
			}
			return nil
		}},
	})
	if err != nil {
		return nil, err
	}

	m.reporter.Report(LevelInfo, "Instance created!")
	return instance, nil
}

func (m *Manager) lookupDisks(ctx context.Context, names []string) ([]*compute.Disk, error) {
	disks := make([]*compute.Disk, 0, len(names))
	for _, name := range names {
		disk, err := m.gw.GetDisk(ctx, m.project, m.zone, name)
		if err != nil {
			m.reporter.Report(LevelError, fmt.Sprintf("Unable to attach disk %s to the instance: %v", name, err))
			return nil, fmt.Errorf("failed to get disk %s: %w", name, err)
		}
		disks = append(disks, disk)
	}
	return disks, nil
}

// DeleteInstance deletes the named instance after confirmation. A missing
// instance, or a lookup the API rejects as a client error, is reported as a
// warning and is not an error. Declining the
// confirmation returns ErrAborted.
func (m *Manager) DeleteInstance(ctx context.Context, name string) error {
	return m.deleteResource(ctx, kindDeleteInstance, "instance", name,
		func(ctx context.Context) error {
			_, err := m.gw.GetInstance(ctx, m.project, m.zone, name)
			return err
		},
		func(ctx context.Context) (*compute.Operation, error) {
			return m.gw.DeleteInstance(ctx, m.project, m.zone, name)
		})
}

// DeleteDisk deletes the named disk after confirmation, with the same
// semantics as DeleteInstance.
func (m *Manager) DeleteDisk(ctx context.Context, name string) error {
	return m.deleteResource(ctx, kindDeleteDisk, "disk", name,
		func(ctx context.Context) error {
			_, err := m.gw.GetDisk(ctx, m.project, m.zone, name)
			return err
		},
		func(ctx context.Context) (*compute.Operation, error) {
			return m.gw.DeleteDisk(ctx, m.project, m.zone, name)
		})
}

func (m *Manager) deleteResource(
	ctx context.Context,
	kind, resource, name string,
	get func(context.Context) error,
	del func(context.Context) (*compute.Operation, error),
) error {
	target := fmt.Sprintf("%s:%s", m.zone, name)

	// Any client error means the resource cannot be addressed and counts as
	// absent; only transport failures abort the workflow.
	res := gce.Probe(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, get(ctx)
	})
	switch res.State {
	case gce.ProbeNotFound:
		m.log.V(1).Info("lookup rejected, treating as absent", "kind", resource, "name", name, "err", res.Err)
		m.reporter.Report(LevelWarn, fmt.Sprintf("The %s '%s' does not exist, nothing to delete.", resource, target))
		m.metrics.recordResult(kind, resultNotFound)
		return nil
	case gce.ProbeTransportError:
		err := fmt.Errorf("failed to get %s %s: %w", resource, name, res.Err)
		m.metrics.recordOperation(kind, err)
		return err
	}

	ok, err := m.reporter.Confirm(fmt.Sprintf("Delete the %s '%s'", resource, target))
	if err != nil {
		err = fmt.Errorf("failed to confirm deletion of %s %s: %w", resource, name, err)
		m.metrics.recordOperation(kind, err)
		return err
	}
	if !ok {
		m.metrics.recordOperation(kind, ErrAborted)
		return ErrAborted
	}

	var op *compute.Operation
	err = m.runSteps(ctx, kind, []step{
		{name: "delete " + resource, run: func(ctx context.Context) error {
			var err error
			op, err = del(ctx)
			if err != nil {
				return fmt.Errorf("failed to delete %s %s: %w", resource, name, err)
			}
			return nil
		}},
		{name: "wait for operation", run: func(ctx context.Context) error {
			return m.waitForOperation(ctx, op)
		}},
	})
	if err != nil {
		return err
	}

	m.reporter.Report(LevelInfo, fmt.Sprintf("The %s '%s' was deleted.", resource, target))
	return nil
}

// CreateDisk inserts a disk, optionally from an image resolved like instance
// images, waits for the insert operation and then for the disk to be READY,
// and returns its final state.
func (m *Manager) CreateDisk(ctx context.Context, req CreateDiskRequest) (*compute.Disk, error) {
	req = req.withDefaults()

	var (
		sourceImage string
		op          *compute.Operation
		disk        *compute.Disk
	)

	err := m.runSteps(ctx, kindCreateDisk, []step{
		{name: "validate request", run: func(ctx context.Context) error {
			if err := req.validate(); err != nil {
				return err
			}
			if req.SourceImage == "" {
				return nil
			}
			ref, err := m.validator.ResolveImage(ctx, req.SourceImage, req.ImageProject)
			if err != nil {
				return err
			}
			sourceImage = ref.URL()
			return nil
		}},
		{name: "insert disk", run: func(ctx context.Context) error {
			m.reporter.Report(LevelInfo, fmt.Sprintf("Creating a %d GB disk named %s...", req.SizeGB, req.Name))
			spec := &compute.Disk{
				Name:   req.Name,
				SizeGb: req.SizeGB,
				Type:   gce.DiskTypeURL(m.zone, req.Type),
			}
			var err error
			op, err = m.gw.InsertDisk(ctx, m.project, m.zone, spec, sourceImage)
			if err != nil {
				return fmt.Errorf("failed to insert disk %s: %w", req.Name, err)
			}
			return nil
		}},
		{name: "wait for operation", run: func(ctx context.Context) error {
			return m.waitForOperation(ctx, op)
		}},
		{name: "wait for disk", run: func(ctx context.Context) error {
			m.reporter.Report(LevelInfo, "Waiting for disk to be ready...")
			return m.waitForStatus(ctx, "disk", "READY", func(ctx context.Context) (string, error) {
				d, err := m.gw.GetDisk(ctx, m.project, m.zone, req.Name)
				if err != nil {
					return "", err
				}
				return d.Status, nil
			})
		}},
		{name: "fetch disk", run: func(ctx context.Context) error {
			var err error
			disk, err = m.gw.GetDisk(ctx, m.project, m.zone, req.Name)
			if err != nil {
				return fmt.Errorf("failed to get disk %s: %w", req.Name, err)
			}
			return nil
		}},
	})
	if err != nil {
		return nil, err
	}

	m.reporter.Report(LevelInfo, "Disk created successfully.")
	return disk, nil
}

// waitForOperation polls a zone operation until DONE and fails with every
// error the operation carries.
func (m *Manager) waitForOperation(ctx context.Context, op *compute.Operation) error {
	if op == nil || op.Name == "" {
		return errors.New("no operation returned by the API")
	}

	start := m.clock.Now()
	err := poll.Until(ctx, func(ctx context.Context) (poll.Snapshot, error) {
		cur, err := m.gw.GetZoneOperation(ctx, m.project, m.zone, op.Name)
		if err != nil {
			return poll.Snapshot{}, err
		}
		return operationSnapshot(cur), nil
	}, "DONE", m.pollOptions()...)
	m.metrics.recordWait("operation", m.clock.Since(start).Seconds())

	var opErr *poll.OperationError
	if errors.As(err, &opErr) {
		for _, e := range opErr.Errors {
			m.reporter.Report(LevelError, fmt.Sprintf("%s: %s", e.Code, e.Message))
		}
		return fmt.Errorf("operation %s failed: %w", op.Name, err)
	}
	if err != nil {
		return fmt.Errorf("failed waiting for operation %s: %w", op.Name, err)
	}
	return nil
}

// waitForStatus polls the status of a resource until it equals desired.
func (m *Manager) waitForStatus(ctx context.Context, target, desired string, status func(context.Context) (string, error)) error {
	start := m.clock.Now()
	err := poll.Until(ctx, func(ctx context.Context) (poll.Snapshot, error) {
		s, err := status(ctx)
		if err != nil {
			return poll.Snapshot{}, err
		}
		return poll.Snapshot{Status: s}, nil
	}, desired, m.pollOptions()...)
	m.metrics.recordWait(target, m.clock.Since(start).Seconds())

	if err != nil {
		return fmt.Errorf("failed waiting for %s to be %s: %w", target, desired, err)
	}
	return nil
}

func (m *Manager) pollOptions() []poll.Option {
	return []poll.Option{
		poll.WithTimeout(m.timeouts.OperationWait),
		poll.WithInterval(m.timeouts.PollInterval),
		poll.WithClock(m.clock),
		poll.WithObserver(statusObserver{reporter: m.reporter}),
	}
}

func operationSnapshot(op *compute.Operation) poll.Snapshot {
	snap := poll.Snapshot{Status: op.Status}
	if op.Error == nil {
		return snap
	}
	for _, e := range op.Error.Errors {
		if e == nil {
			continue
		}
		snap.Errors = append(snap.Errors, poll.StatusError{Code: e.Code, Message: e.Message})
	}
	return snap
}
