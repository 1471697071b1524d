package services

import "strings"

// NormalizeVehicles keeps vehicle numbers in step with the parking count.
// Without parking the count is zero and the list empty; otherwise blank
// entries are dropped and the list is cut to count.
func NormalizeVehicles(parkingNeeded bool, count int, vehicles []string) (int, []string) {
	if !parkingNeeded || count <= 0 {
		return 0, []string{}
	}

	out := make([]string, 0, len(vehicles))
	for _, v := range vehicles {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
		if len(out) == count {
			break
		}
	}
	return count, out
}
