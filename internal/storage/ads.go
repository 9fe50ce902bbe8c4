package storage

import (
	"sort"
	"time"

	"talentbridge/internal/docstore"
	"talentbridge/pkg/logger"
)

// GetAdvertisements lists ads matching the filters, sorted by priority
// descending. When IsActive is requested true, ads are additionally restricted
// to those whose schedule window contains the current time; ads lacking one
// or both dates are always included, and an ad whose dates cannot be parsed
// is included rather than dropped (a broken record should not vanish from the
// admin's sight).
func (a *Adapter) GetAdvertisements(f AdvertisementFilters) ([]Advertisement, error) {
	docs, err := a.db.List(colAds)
	if err != nil {
		return nil, err
	}
	ads := make([]Advertisement, 0, len(docs))
	for _, d := range docs {
		ad := *advertisementFromDoc(d)
		if f.Position != "" && ad.Position != f.Position {
			continue
		}
		if f.IsActive != nil && ad.IsActive != *f.IsActive {
			continue
		}
		ads = append(ads, ad)
	}

	if f.IsActive != nil && *f.IsActive {
		now := time.Now().UTC()
		kept := ads[:0]
		for _, ad := range ads {
			if adWindowContains(ad, now) {
				kept = append(kept, ad)
			}
		}
		ads = kept
	}

	sort.SliceStable(ads, func(i, k int) bool { return ads[i].Priority > ads[k].Priority })

	if f.Limit > 0 && len(ads) > f.Limit {
		ads = ads[:f.Limit]
	}
	return ads, nil
}

func (a *Adapter) CountActiveAdsByPosition(position string) (int, error) {
	active := true
	ads, err := a.GetAdvertisements(AdvertisementFilters{Position: position, IsActive: &active})
	if err != nil {
		return 0, err
	}
	return len(ads), nil
}

func (a *Adapter) GetAdvertisement(id string) (*Advertisement, error) {
	doc, err := a.db.FindByID(colAds, id)
	if err != nil {
		return nil, err
	}
	return advertisementFromDoc(doc), nil
}

// CreateAdvertisement defaults to active with priority 0 and zeroed counters.
func (a *Adapter) CreateAdvertisement(in AdvertisementInput) (*Advertisement, error) {
	id := in.ID
	if id == "" {
		id = newID()
	}
	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}
	doc := docstore.Document{
		"id":               id,
		"title":            in.Title,
		"is_active":        isActive,
		"priority":         float64(in.Priority),
		"click_count":      float64(0),
		"impression_count": float64(0),
	}
	putIf(doc, "position", in.Position)
	putIf(doc, "link_url", in.LinkURL)
	putIf(doc, "file_path", in.FilePath)
	putIf(doc, "file_type", in.FileType)
	putIf(doc, "start_date", in.StartDate)
	putIf(doc, "end_date", in.EndDate)

	created, err := a.db.Create(colAds, doc)
	if err != nil {
		return nil, err
	}
	return advertisementFromDoc(created), nil
}

func (a *Adapter) UpdateAdvertisement(id string, patch AdvertisementPatch) (*Advertisement, error) {
	updated, err := a.db.Update(colAds, id, advertisementPatchDoc(patch))
	if err != nil {
		return nil, err
	}
	return advertisementFromDoc(updated), nil
}

func (a *Adapter) DeleteAdvertisement(id string) error {
	return a.db.Delete(colAds, id)
}

// IncrementAdClicks bumps the click counter in a single atomic store
// mutation. Incrementing an absent ad is a no-op.
func (a *Adapter) IncrementAdClicks(id string) error {
	_, err := a.db.Mutate(colAds, id, func(doc docstore.Document) {
		doc["click_count"] = float64(fieldInt(doc, "click_count", "clickCount") + 1)
		delete(doc, "clickCount")
	})
	return err
}

// IncrementAdImpressions bumps the impression counter atomically.
func (a *Adapter) IncrementAdImpressions(id string) error {
	_, err := a.db.Mutate(colAds, id, func(doc docstore.Document) {
		doc["impression_count"] = float64(fieldInt(doc, "impression_count", "impressionCount") + 1)
		delete(doc, "impressionCount")
	})
	return err
}

// DeleteExpiredAdvertisements removes every ad whose end date is strictly in
// the past. A record with no end date, or with an end date that does not
// parse, is left untouched; the scan never aborts on a single bad record.
// Returns how many ads were removed.
func (a *Adapter) DeleteExpiredAdvertisements() (int, error) {
	docs, err := a.db.List(colAds)
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	deleted := 0
	for _, d := range docs {
		ad := advertisementFromDoc(d)
		if ad.EndDate == "" {
			continue
		}
		end, err := parseTime(ad.EndDate)
		if err != nil {
			logger.Sugar.Warnf("Skipping ad %s during cleanup: %v", ad.ID, err)
			continue
		}
		if end.Before(now) {
			if err := a.db.Delete(colAds, ad.ID); err != nil {
				return deleted, err
			}
			deleted++
		}
	}
	return deleted, nil
}

func adWindowContains(ad Advertisement, now time.Time) bool {
	if ad.StartDate == "" || ad.EndDate == "" {
		return true
	}
	start, err := parseTime(ad.StartDate)
	if err != nil {
		logger.Sugar.Warnf("Date parsing error for ad %s: %v", ad.ID, err)
		return true
	}
	end, err := parseTime(ad.EndDate)
	if err != nil {
		logger.Sugar.Warnf("Date parsing error for ad %s: %v", ad.ID, err)
		return true
	}
	return !now.Before(start) && !now.After(end)
}
