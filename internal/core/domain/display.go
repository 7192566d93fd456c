package domain

// statusDisplay maps each status to the emoji-annotated label shown on the
// public tracking page and in panel notifications.
var statusDisplay = map[TrackingStatus]string{
	StatusRetenido:      "🔴 RETENIDO",
	StatusConfirmarPago: "🟡 CONFIRMAR PAGO",
	StatusEnTransito:    "🔵 EN TRÁNSITO",
	StatusEntregado:     "🟢 ENTREGADO",
}

// DisplayLabel returns the human-facing label for s. Unknown values fall
// back to the raw status string.
func (s TrackingStatus) DisplayLabel() string {
	if label, ok := statusDisplay[s]; ok {
		return label
	}
	return string(s)
}
