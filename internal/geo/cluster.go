package geo

import (
	"sort"
	"strings"

	"github.com/rotacerta/backend/internal/models"
	"github.com/rotacerta/backend/internal/utils"
)

// BuildClusters partitions customers by neighborhood (city when the
// neighborhood is missing, UnassignedLabel when both are) and computes
// per-partition risk metrics. Output is ordered by descending default
// rate; the admin dashboard relies on that ordering to surface the
// riskiest areas first.
func (r *Resolver) BuildClusters(customers []models.Customer) []models.Cluster {
	groups := map[string][]models.Customer{}
	var order []string
	for _, c := range customers {
		label := partitionLabel(c)
		if _, seen := groups[label]; !seen {
			order = append(order, label)
		}
		groups[label] = append(groups[label], c)
	}

	clusters := make([]models.Cluster, 0, len(groups))
	for _, label := range order {
		members := groups[label]
		clusters = append(clusters, r.buildCluster(label, members))
	}

	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].DefaultRate == clusters[j].DefaultRate {
			return clusters[i].Neighborhood < clusters[j].Neighborhood
		}
		return clusters[i].DefaultRate > clusters[j].DefaultRate
	})
	return clusters
}

func (r *Resolver) buildCluster(label string, members []models.Customer) models.Cluster {
	var (
		sumLat, sumLon float64
		resolved       int
		defaulters     int
		totalDebt      float64
		fallbacks      int
		city           string
	)
	for _, c := range members {
		rp := r.Resolve(c)
		sumLat += rp.Point.Lat
		sumLon += rp.Point.Lon
		resolved++
		if rp.UsedFallback {
			fallbacks++
		}
		if c.Status == models.CustomerBlocked || c.TotalDebt > 0 {
			defaulters++
		}
		totalDebt += c.TotalDebt
		if city == "" {
			city = strings.TrimSpace(c.City)
		}
	}

	centroid := r.DefaultCenter
	if resolved > 0 {
		centroid = models.GeoPoint{Lat: sumLat / float64(resolved), Lon: sumLon / float64(resolved)}
	}

	rate := 0.0
	if len(members) > 0 {
		rate = utils.Round1(float64(defaulters) / float64(len(members)) * 100)
	}

	return models.Cluster{
		ID:            SlugFromLabel(label),
		Neighborhood:  label,
		City:          city,
		Centroid:      centroid,
		CustomerCount: len(members),
		DefaultRate:   rate,
		TotalDebt:     totalDebt,
		FallbackCount: fallbacks,
		Customers:     members,
	}
}

func partitionLabel(c models.Customer) string {
	if v := strings.TrimSpace(c.Neighborhood); v != "" {
		return v
	}
	if v := strings.TrimSpace(c.City); v != "" {
		return v
	}
	return UnassignedLabel
}
