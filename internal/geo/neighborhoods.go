package geo

import (
	"strings"

	"github.com/rotacerta/backend/internal/models"
)

// UnassignedLabel is the partition label for customers carrying neither
// a neighborhood nor a city.
const UnassignedLabel = "Sem Bairro"

// RecifeCenter is the default regional centroid used when a customer
// cannot be placed through its neighborhood.
var RecifeCenter = models.GeoPoint{Lat: -8.0476, Lon: -34.8770}

// neighborhoodCentroids maps normalized Recife neighborhood names to
// approximate centroids. Bundled statically, not fetched at runtime.
var neighborhoodCentroids = map[string]models.GeoPoint{
	"boa viagem":           {Lat: -8.1208, Lon: -34.9006},
	"pina":                 {Lat: -8.0891, Lon: -34.8869},
	"imbiribeira":          {Lat: -8.1099, Lon: -34.9156},
	"ipsep":                {Lat: -8.1093, Lon: -34.9296},
	"boa vista":            {Lat: -8.0593, Lon: -34.8879},
	"santo amaro":          {Lat: -8.0413, Lon: -34.8779},
	"derby":                {Lat: -8.0561, Lon: -34.8997},
	"gracas":               {Lat: -8.0472, Lon: -34.8989},
	"espinheiro":           {Lat: -8.0416, Lon: -34.8942},
	"casa forte":           {Lat: -8.0338, Lon: -34.9158},
	"casa amarela":         {Lat: -8.0259, Lon: -34.9176},
	"torre":                {Lat: -8.0490, Lon: -34.9133},
	"madalena":             {Lat: -8.0564, Lon: -34.9120},
	"afogados":             {Lat: -8.0766, Lon: -34.9114},
	"varzea":               {Lat: -8.0399, Lon: -34.9644},
	"cordeiro":             {Lat: -8.0531, Lon: -34.9264},
	"iputinga":             {Lat: -8.0428, Lon: -34.9402},
	"aflitos":              {Lat: -8.0454, Lon: -34.8943},
	"tamarineira":          {Lat: -8.0314, Lon: -34.9043},
	"encruzilhada":         {Lat: -8.0365, Lon: -34.8925},
	"campo grande":         {Lat: -8.0399, Lon: -34.8815},
	"agua fria":            {Lat: -8.0226, Lon: -34.8845},
	"arruda":               {Lat: -8.0278, Lon: -34.8886},
	"beberibe":             {Lat: -8.0098, Lon: -34.8905},
	"dois unidos":          {Lat: -8.0046, Lon: -34.9043},
	"ibura":                {Lat: -8.1232, Lon: -34.9431},
	"jordao":               {Lat: -8.1313, Lon: -34.9396},
	"cohab":                {Lat: -8.1410, Lon: -34.9508},
	"san martin":           {Lat: -8.0757, Lon: -34.9278},
	"estancia":             {Lat: -8.0837, Lon: -34.9295},
	"jiquia":               {Lat: -8.0900, Lon: -34.9222},
	"areias":               {Lat: -8.0916, Lon: -34.9336},
	"caxanga":              {Lat: -8.0326, Lon: -34.9719},
	"cidade universitaria": {Lat: -8.0512, Lon: -34.9515},
}

// NeighborhoodCentroid returns the approximate centroid for a known
// neighborhood name. Matching is accent- and case-insensitive on the
// common spellings present in the table.
func NeighborhoodCentroid(name string) (models.GeoPoint, bool) {
	p, ok := neighborhoodCentroids[normalizeNeighborhood(name)]
	return p, ok
}

func normalizeNeighborhood(name string) string {
	v := strings.ToLower(strings.TrimSpace(name))
	replacer := strings.NewReplacer(
		"á", "a", "â", "a", "ã", "a", "à", "a",
		"é", "e", "ê", "e",
		"í", "i",
		"ó", "o", "ô", "o", "õ", "o",
		"ú", "u", "ü", "u",
		"ç", "c",
	)
	return replacer.Replace(v)
}

// SlugFromLabel derives a stable cluster identity from a partition
// label.
func SlugFromLabel(label string) string {
	v := normalizeNeighborhood(label)
	return strings.ReplaceAll(v, " ", "-")
}
