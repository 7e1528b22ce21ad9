package agenda

import (
	"log/slog"
)

// Reconciler merges freshly parsed items into the stored partition and
// reports whether anything changed.
type Reconciler struct {
	repo *PartitionRepository
}

func NewReconciler(repo *PartitionRepository) *Reconciler {
	return &Reconciler{repo: repo}
}

// Run compares newItems against the stored (year, week) partition by
// uid. An item counts as changed when no prior item shares its uid or
// the prior item differs in content. On any change the partition is
// replaced wholesale with newItems (unchanged items keep their stored
// record, preserving the original dtstamp); otherwise the store is left
// untouched. Items that vanished upstream are not resurrected, but a
// pure deletion alone does not trigger a write.
func (r *Reconciler) Run(year, weekNumber int, newItems []Item) (bool, []Item, error) {
	existing, found, err := r.repo.Load(year, weekNumber)
	if err != nil {
		return false, nil, err
	}

	byUid := make(map[string]Item, len(existing))
	for _, item := range existing {
		byUid[item.Uid] = item
	}

	changed := false
	final := make([]Item, 0, len(newItems))
	for _, item := range newItems {
		prior, ok := byUid[item.Uid]
		if ok && prior.EquivalentTo(item) {
			final = append(final, prior)
			continue
		}
		changed = true
		final = append(final, item)
	}

	// A week's partition is materialized on its first successful fetch
	// even when the scrape came back empty.
	if !found {
		changed = true
	}

	if !changed {
		return false, final, nil
	}

	if err := r.repo.Save(year, weekNumber, final); err != nil {
		return false, nil, err
	}

	slog.Info("Partition updated", "year", year, "week", weekNumber, "items", len(final))

	return true, final, nil
}
