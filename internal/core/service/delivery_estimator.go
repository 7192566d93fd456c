package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/panelbunker/tracking-api/internal/core/domain"
	"github.com/panelbunker/tracking-api/internal/core/ports"
)

const (
	domesticFallbackDays      = 2
	internationalFallbackDays = 10

	// deliveryDateFormat is the dd/mm/yyyy format shown on the panel.
	deliveryDateFormat = "02/01/2006"
)

// DeliveryEstimator computes estimated delivery dates from the shipping
// route table, counting business days only.
type DeliveryEstimator struct {
	routes ports.RouteStore
	log    zerolog.Logger
	now    func() time.Time
}

func NewDeliveryEstimator(routes ports.RouteStore, log zerolog.Logger) *DeliveryEstimator {
	return &DeliveryEstimator{routes: routes, log: log, now: time.Now}
}

// Estimate resolves the transit days for an origin/destination pair and
// turns them into a concrete delivery date. Pairs missing from the route
// table fall back to a flat domestic/international estimate rather than
// failing: an unknown destination must never block creating a tracking.
func (e *DeliveryEstimator) Estimate(ctx context.Context, origin, destination string, delayDays int) (*ports.RouteEstimate, error) {
	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)

	days := 0
	found := false

	route, err := e.routes.Get(ctx, origin, destination)
	switch {
	case err == nil:
		days = route.EstimatedDays
		found = true
	case errors.Is(err, domain.ErrRouteNotFound):
		if strings.EqualFold(origin, destination) {
			days = domesticFallbackDays
		} else {
			days = internationalFallbackDays
		}
		e.log.Debug().Str("origin", origin).Str("destination", destination).
			Int("fallback_days", days).Msg("no route found, using fallback estimate")
	default:
		return nil, err
	}

	total := days + delayDays
	delivery := addBusinessDays(e.now(), total)

	return &ports.RouteEstimate{
		OriginCountry:      origin,
		DestinationCountry: destination,
		EstimatedDays:      total,
		DeliveryDate:       delivery.Format(deliveryDateFormat),
		RouteFound:         found,
	}, nil
}

// CountryFromPostal extracts the country part from the combined
// "country, postal" field, splitting on the first known separator.
func CountryFromPostal(countryPostal string) string {
	text := strings.TrimSpace(countryPostal)
	if text == "" {
		return ""
	}
	for _, sep := range []string{",", "-", "/", "|"} {
		if i := strings.Index(text, sep); i >= 0 {
			return strings.TrimSpace(text[:i])
		}
	}
	return text
}

// addBusinessDays advances from by n days, skipping weekends.
func addBusinessDays(from time.Time, n int) time.Time {
	d := from
	for added := 0; added < n; {
		d = d.AddDate(0, 0, 1)
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			added++
		}
	}
	return d
}
