package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createTrackingRequest struct {
	TrackingID      string `json:"trackingId"      validate:"required"`
	RecipientName   string `json:"recipientName"   validate:"required"`
	DeliveryAddress string `json:"deliveryAddress" validate:"required"`
	CountryPostal   string `json:"countryPostal"   validate:"required"`
	SenderName      string `json:"senderName"      validate:"required"`
	SenderAddress   string `json:"senderAddress"   validate:"required"`
	SenderCountry   string `json:"senderCountry"   validate:"required"`
	SenderState     string `json:"senderState"`

	PackageWeight string `json:"packageWeight" validate:"required"`
	ProductName   string `json:"productName"   validate:"required"`
	ProductPrice  string `json:"productPrice"  validate:"required"`

	EstimatedDeliveryDate string `json:"estimatedDeliveryDate"`

	UserTelegramID   int64  `json:"userTelegramId"`
	Username         string `json:"username"`
	CreatedByAdminID int64  `json:"createdByAdminId"`
}

type updateStatusRequest struct {
	NewStatus string `json:"newStatus" validate:"required"`
	Notes     string `json:"notes"`
}

type addDelayRequest struct {
	Days   int    `json:"days"   validate:"required,gt=0"`
	Reason string `json:"reason" validate:"required"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal service changes.

type trackingResponse struct {
	TrackingID      string `json:"trackingId"`
	RecipientName   string `json:"recipientName"`
	DeliveryAddress string `json:"deliveryAddress"`
	CountryPostal   string `json:"countryPostal"`
	SenderName      string `json:"senderName"`
	SenderAddress   string `json:"senderAddress"`
	SenderCountry   string `json:"senderCountry"`
	SenderState     string `json:"senderState,omitempty"`

	PackageWeight string `json:"packageWeight"`
	ProductName   string `json:"productName"`
	ProductPrice  string `json:"productPrice"`

	Status                string `json:"status"`
	StatusDisplay         string `json:"statusDisplay"`
	EstimatedDeliveryDate string `json:"estimatedDeliveryDate,omitempty"`
	ActualDelayDays       int    `json:"actualDelayDays"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type historyEntryResponse struct {
	OldStatus *string   `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	ChangedAt time.Time `json:"changedAt"`
	Notes     string    `json:"notes,omitempty"`
}

type lookupResponse struct {
	Tracking *trackingResponse      `json:"tracking"`
	History  []historyEntryResponse `json:"history"`
	Found    bool                   `json:"found"`
}

type listTrackingsResponse struct {
	Trackings []trackingResponse `json:"trackings"`
	Total     int                `json:"total"`
	ByStatus  map[string]int     `json:"byStatus"`
}

type statsResponse struct {
	Total    int            `json:"total"`
	Today    int            `json:"today"`
	ByStatus map[string]int `json:"byStatus"`
}

type routeEstimateResponse struct {
	OriginCountry      string `json:"originCountry"`
	DestinationCountry string `json:"destinationCountry"`
	EstimatedDays      int    `json:"estimatedDays"`
	DeliveryDate       string `json:"deliveryDate"`
	RouteFound         bool   `json:"routeFound"`
}
