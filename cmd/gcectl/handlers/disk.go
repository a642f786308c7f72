package handlers

import (
	"context"

	compute "google.golang.org/api/compute/v1"

	"github.com/imamik/gcectl/internal/provisioning"
)

// DiskCreate handles the disk create command.
func DiskCreate(ctx context.Context, s Session, req provisioning.CreateDiskRequest) error {
	r, err := start(s)
	if err != nil {
		return err
	}

	disk, err := r.mgr.CreateDisk(ctx, req)
	if err != nil {
		return r.finish(wrap("create disk "+req.Name, err))
	}

	return r.finish(render(r.out, r.cfg.Output, newDiskList([]*compute.Disk{disk})))
}

// DiskDelete handles the disk delete command.
func DiskDelete(ctx context.Context, s Session, name string) error {
	r, err := start(s)
	if err != nil {
		return err
	}
	return r.finish(wrap("delete disk "+name, r.mgr.DeleteDisk(ctx, name)))
}

// DiskList handles the disk list command.
func DiskList(ctx context.Context, s Session) error {
	r, err := start(s)
	if err != nil {
		return err
	}

	disks, err := r.mgr.ListDisks(ctx)
	if err != nil {
		return r.finish(err)
	}
	return r.finish(render(r.out, r.cfg.Output, newDiskList(disks)))
}
