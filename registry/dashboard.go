package registry

import "context"

// DraftsPerProduct is the assumed number of drafts per library product.
// TotalDrafts is derived from it; drafts themselves are not persisted, so
// this is an estimate rather than a count.
const DraftsPerProduct = 2

// Stats is the dashboard rollup.
type Stats struct {
	TotalProducts  int `json:"totalProducts"`
	TotalDrafts    int `json:"totalDrafts"`
	TotalTemplates int `json:"totalTemplates"`
	ActiveTasks    int `json:"activeTasks"`
}

// Dashboard computes Stats on demand; nothing is cached.
type Dashboard struct {
	templates *Templates
	library   *Library
	tasks     *Tasks
}

func (d *Dashboard) Stats(ctx context.Context) (Stats, error) {
	products, err := d.library.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	templates, err := d.templates.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	active, err := d.tasks.CountActive(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		TotalProducts:  products,
		TotalDrafts:    products * DraftsPerProduct,
		TotalTemplates: templates,
		ActiveTasks:    active,
	}, nil
}
