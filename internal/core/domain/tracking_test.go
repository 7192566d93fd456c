package domain

import "testing"

func TestTrackingStatus_IsValid(t *testing.T) {
	for _, s := range AllStatuses {
		if !s.IsValid() {
			t.Errorf("%s must be valid", s)
		}
	}
	for _, s := range []TrackingStatus{"", "BOGUS", "retenido", "DELIVERED"} {
		if s.IsValid() {
			t.Errorf("%q must be invalid", s)
		}
	}
}

func TestTrackingStatus_DisplayLabel(t *testing.T) {
	cases := map[TrackingStatus]string{
		StatusRetenido:      "🔴 RETENIDO",
		StatusConfirmarPago: "🟡 CONFIRMAR PAGO",
		StatusEnTransito:    "🔵 EN TRÁNSITO",
		StatusEntregado:     "🟢 ENTREGADO",
	}
	for status, want := range cases {
		if got := status.DisplayLabel(); got != want {
			t.Errorf("DisplayLabel(%s) = %q, want %q", status, got, want)
		}
	}

	// Unknown values fall back to the raw string.
	if got := TrackingStatus("X").DisplayLabel(); got != "X" {
		t.Errorf("fallback label = %q", got)
	}
}
