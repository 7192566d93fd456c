package memory

import (
	"context"
	"strings"

	"github.com/panelbunker/tracking-api/internal/core/domain"
)

// defaultRoutes is the seed route table shipped with the service.
var defaultRoutes = []domain.ShippingRoute{
	{OriginCountry: "España", DestinationCountry: "España", EstimatedDays: 2},
	{OriginCountry: "España", DestinationCountry: "Colombia", EstimatedDays: 10},
	{OriginCountry: "España", DestinationCountry: "México", EstimatedDays: 8},
	{OriginCountry: "España", DestinationCountry: "Argentina", EstimatedDays: 12},
	{OriginCountry: "España", DestinationCountry: "Chile", EstimatedDays: 11},
	{OriginCountry: "España", DestinationCountry: "Perú", EstimatedDays: 9},
	{OriginCountry: "España", DestinationCountry: "Ecuador", EstimatedDays: 8},
	{OriginCountry: "España", DestinationCountry: "Francia", EstimatedDays: 3},
	{OriginCountry: "España", DestinationCountry: "Italia", EstimatedDays: 4},
	{OriginCountry: "España", DestinationCountry: "Alemania", EstimatedDays: 3},
	{OriginCountry: "España", DestinationCountry: "Portugal", EstimatedDays: 2},
	{OriginCountry: "España", DestinationCountry: "Reino Unido", EstimatedDays: 4},
	{OriginCountry: "España", DestinationCountry: "Estados Unidos", EstimatedDays: 7},
	{OriginCountry: "España", DestinationCountry: "Canadá", EstimatedDays: 8},
}

// RouteStore serves the shipping route table from memory.
type RouteStore struct {
	routes map[string]domain.ShippingRoute
}

// NewRouteStore returns a RouteStore holding the given routes, or the
// default seed table when none are provided.
func NewRouteStore(routes ...domain.ShippingRoute) *RouteStore {
	if len(routes) == 0 {
		routes = defaultRoutes
	}
	s := &RouteStore{routes: make(map[string]domain.ShippingRoute, len(routes))}
	for _, r := range routes {
		s.routes[routeKey(r.OriginCountry, r.DestinationCountry)] = r
	}
	return s
}

func (s *RouteStore) Get(_ context.Context, origin, destination string) (*domain.ShippingRoute, error) {
	r, ok := s.routes[routeKey(origin, destination)]
	if !ok {
		return nil, domain.ErrRouteNotFound
	}
	clone := r
	return &clone, nil
}

func routeKey(origin, destination string) string {
	return strings.ToLower(strings.TrimSpace(origin)) + "→" + strings.ToLower(strings.TrimSpace(destination))
}
