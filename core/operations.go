package core

import (
	"sort"
	"strings"
)

// RecordFilter narrows an inventory listing.
type RecordFilter struct {
	Query  string   `json:"query"`
	Family []string `json:"family"`
}

// RecordSort orders an inventory listing.
type RecordSort struct {
	Field string `json:"field"` // name, size, modified, family
	Order string `json:"order"` // asc, desc
}

// FilterRecords returns the records matching every set criterion.
func FilterRecords(records []ModelRecord, filter RecordFilter) []ModelRecord {
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	filtered := make([]ModelRecord, 0, len(records))

	for _, r := range records {
		if query != "" &&
			!strings.Contains(strings.ToLower(r.Name), query) &&
			!strings.Contains(strings.ToLower(r.Details.Family), query) {
			continue
		}

		if len(filter.Family) > 0 {
			found := false
			for _, fam := range filter.Family {
				if strings.EqualFold(r.Details.Family, fam) || containsFold(r.Details.Families, fam) {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}

		filtered = append(filtered, r)
	}
	return filtered
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// SortRecords sorts records in place. Unknown fields leave the backend order.
func SortRecords(records []ModelRecord, by RecordSort) {
	var less func(i, j int) bool
	switch strings.ToLower(by.Field) {
	case "name":
		less = func(i, j int) bool { return records[i].Name < records[j].Name }
	case "size":
		less = func(i, j int) bool { return records[i].Size < records[j].Size }
	case "modified":
		less = func(i, j int) bool { return records[i].ModifiedAt.Before(records[j].ModifiedAt) }
	case "family":
		less = func(i, j int) bool { return records[i].Details.Family < records[j].Details.Family }
	default:
		return
	}

	if strings.ToLower(by.Order) == "desc" {
		asc := less
		less = func(i, j int) bool { return asc(j, i) }
	}
	sort.SliceStable(records, less)
}
