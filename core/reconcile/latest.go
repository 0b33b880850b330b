package reconcile

import "fmt"

// LatestVersion returns the version paired with the most recent published date.
// When several versions share that date, the one with the lowest index wins.
func LatestVersion(entry PackageEntry) (string, error) {
	if entry.ID == "" {
		return "", fmt.Errorf("%w: missing id", ErrInvalidEntry)
	}
	if len(entry.Versions) == 0 {
		return "", fmt.Errorf("%w: %s has no versions", ErrInvalidEntry, entry.ID)
	}
	if len(entry.Versions) != len(entry.PublishedDates) {
		return "", fmt.Errorf("%w: %s has %d versions but %d published dates",
			ErrInvalidEntry, entry.ID, len(entry.Versions), len(entry.PublishedDates))
	}

	best := 0
	for i := 1; i < len(entry.PublishedDates); i++ {
		// Strictly after: equal dates keep the earlier index.
		if entry.PublishedDates[i].After(entry.PublishedDates[best]) {
			best = i
		}
	}
	return entry.Versions[best], nil
}

// LatestInventory returns the most recently modified inventory entry.
// Ties keep the first entry seen. ok is false for an empty inventory.
func LatestInventory(entries []InventoryEntry) (latest InventoryEntry, ok bool) {
	if len(entries) == 0 {
		return InventoryEntry{}, false
	}
	latest = entries[0]
	for _, e := range entries[1:] {
		if e.LastModifiedOn.After(latest.LastModifiedOn) {
			latest = e
		}
	}
	return latest, true
}

// Decide computes the upload decision for a feed entry given the target's inventory.
// Versions are compared as exact strings; "1.0" and "1.0.0" are different versions.
func Decide(entry PackageEntry, inventory []InventoryEntry) (UploadDecision, error) {
	latest, err := LatestVersion(entry)
	if err != nil {
		return UploadDecision{}, err
	}

	decision := UploadDecision{
		PackageID: entry.ID,
		Version:   latest,
	}

	deployed, ok := LatestInventory(inventory)
	if !ok {
		decision.Reason = ReasonNotYetPresent
		return decision, nil
	}

	decision.DeployedVersion = deployed.Version
	if deployed.Version == latest {
		decision.Skip = true
		return decision, nil
	}

	decision.Reason = ReasonNewerVersionAvailable
	return decision, nil
}
