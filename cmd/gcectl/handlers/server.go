package handlers

import (
	"context"

	"github.com/imamik/gcectl/internal/provisioning"
)

// ServerCreate handles the server create command.
//
// It validates the request against the project, creates the instance, waits
// until it is running and prints its description.
func ServerCreate(ctx context.Context, s Session, req provisioning.CreateInstanceRequest) error {
	r, err := start(s)
	if err != nil {
		return err
	}

	inst, err := r.mgr.CreateInstance(ctx, req)
	if err != nil {
		return r.finish(wrap("create instance "+req.Name, err))
	}

	return r.finish(render(r.out, r.cfg.Output, instanceList{provisioning.DescribeInstance(inst)}))
}

// ServerDelete handles the server delete command.
func ServerDelete(ctx context.Context, s Session, name string) error {
	r, err := start(s)
	if err != nil {
		return err
	}
	return r.finish(wrap("delete instance "+name, r.mgr.DeleteInstance(ctx, name)))
}

// ServerList handles the server list command.
func ServerList(ctx context.Context, s Session) error {
	r, err := start(s)
	if err != nil {
		return err
	}

	instances, err := r.mgr.ListInstances(ctx)
	if err != nil {
		return r.finish(err)
	}
	return r.finish(render(r.out, r.cfg.Output, instanceList(instances)))
}
