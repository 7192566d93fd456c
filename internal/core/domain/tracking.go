package domain

import (
	"errors"
	"time"
)

// TrackingStatus represents the lifecycle state of a tracked package.
type TrackingStatus string

const (
	StatusRetenido      TrackingStatus = "RETENIDO"
	StatusConfirmarPago TrackingStatus = "CONFIRMAR_PAGO"
	StatusEnTransito    TrackingStatus = "EN_TRANSITO"
	StatusEntregado     TrackingStatus = "ENTREGADO"
)

// AllStatuses lists every recognised status, in display order.
var AllStatuses = []TrackingStatus{
	StatusRetenido,
	StatusConfirmarPago,
	StatusEnTransito,
	StatusEntregado,
}

var ErrTrackingNotFound = errors.New("tracking not found")
var ErrDuplicateTracking = errors.New("tracking already exists")
var ErrInvalidStatus = errors.New("invalid tracking status")
var ErrRouteNotFound = errors.New("shipping route not found")

// IsValid reports whether s is one of the recognised status values.
func (s TrackingStatus) IsValid() bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// StatusHistoryEntry records a single status change on a tracking.
// OldStatus is nil only for the creation entry.
type StatusHistoryEntry struct {
	TrackingID string          `json:"tracking_id" bson:"tracking_id"`
	OldStatus  *TrackingStatus `json:"old_status" bson:"old_status,omitempty"`
	NewStatus  TrackingStatus  `json:"new_status" bson:"new_status"`
	ChangedAt  time.Time       `json:"changed_at" bson:"changed_at"`
	Notes      string          `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Tracking is the core aggregate root: one shipment record keyed by its
// public tracking id. Descriptive fields are set at creation and never
// change; only Status, EstimatedDeliveryDate, ActualDelayDays and
// UpdatedAt are mutable, and only through the store.
type Tracking struct {
	TrackingID      string `json:"tracking_id" bson:"_id"`
	RecipientName   string `json:"recipient_name" bson:"recipient_name"`
	DeliveryAddress string `json:"delivery_address" bson:"delivery_address"`
	CountryPostal   string `json:"country_postal" bson:"country_postal"`
	SenderName      string `json:"sender_name" bson:"sender_name"`
	SenderAddress   string `json:"sender_address" bson:"sender_address"`
	SenderCountry   string `json:"sender_country" bson:"sender_country"`
	SenderState     string `json:"sender_state" bson:"sender_state"`

	PackageWeight string `json:"package_weight" bson:"package_weight"`
	ProductName   string `json:"product_name" bson:"product_name"`
	ProductPrice  string `json:"product_price" bson:"product_price"`

	Status                TrackingStatus `json:"status" bson:"status"`
	EstimatedDeliveryDate string         `json:"estimated_delivery_date,omitempty" bson:"estimated_delivery_date,omitempty"`
	ActualDelayDays       int            `json:"actual_delay_days" bson:"actual_delay_days"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`

	// Provenance metadata from the Telegram panel.
	UserTelegramID   int64  `json:"user_telegram_id,omitempty" bson:"user_telegram_id,omitempty"`
	Username         string `json:"username,omitempty" bson:"username,omitempty"`
	CreatedByAdminID int64  `json:"created_by_admin_id,omitempty" bson:"created_by_admin_id,omitempty"`
}

// ShippingRoute maps an origin/destination country pair to an estimated
// transit time in days. Read-only reference data.
type ShippingRoute struct {
	OriginCountry      string `json:"origin_country" bson:"origin_country"`
	DestinationCountry string `json:"destination_country" bson:"destination_country"`
	EstimatedDays      int    `json:"estimated_days" bson:"estimated_days"`
}
