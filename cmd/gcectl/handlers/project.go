package handlers

import "context"

// ZoneList handles the zone list command.
func ZoneList(ctx context.Context, s Session) error {
	r, err := start(s)
	if err != nil {
		return err
	}

	zones, err := r.mgr.ListZones(ctx)
	if err != nil {
		return r.finish(err)
	}
	return r.finish(render(r.out, r.cfg.Output, newZoneList(zones)))
}

// RegionList handles the region list command.
func RegionList(ctx context.Context, s Session) error {
	r, err := start(s)
	if err != nil {
		return err
	}

	regions, err := r.mgr.ListRegions(ctx)
	if err != nil {
		return r.finish(err)
	}
	return r.finish(render(r.out, r.cfg.Output, newRegionList(regions)))
}

// ProjectQuotas handles the project quotas command.
func ProjectQuotas(ctx context.Context, s Session) error {
	r, err := start(s)
	if err != nil {
		return err
	}

	quotas, err := r.mgr.ProjectQuotas(ctx)
	if err != nil {
		return r.finish(err)
	}
	return r.finish(render(r.out, r.cfg.Output, newQuotaList(quotas)))
}
