package handler

import (
	"github.com/panelbunker/tracking-api/internal/core/domain"
	"github.com/panelbunker/tracking-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createTrackingRequest) ports.CreateTrackingInput {
	return ports.CreateTrackingInput{
		TrackingID:            req.TrackingID,
		RecipientName:         req.RecipientName,
		DeliveryAddress:       req.DeliveryAddress,
		CountryPostal:         req.CountryPostal,
		SenderName:            req.SenderName,
		SenderAddress:         req.SenderAddress,
		SenderCountry:         req.SenderCountry,
		SenderState:           req.SenderState,
		PackageWeight:         req.PackageWeight,
		ProductName:           req.ProductName,
		ProductPrice:          req.ProductPrice,
		EstimatedDeliveryDate: req.EstimatedDeliveryDate,
		UserTelegramID:        req.UserTelegramID,
		Username:              req.Username,
		CreatedByAdminID:      req.CreatedByAdminID,
	}
}

// --- Domain → HTTP response ---

func toTrackingResponse(t *domain.Tracking) *trackingResponse {
	if t == nil {
		return nil
	}
	return &trackingResponse{
		TrackingID:            t.TrackingID,
		RecipientName:         t.RecipientName,
		DeliveryAddress:       t.DeliveryAddress,
		CountryPostal:         t.CountryPostal,
		SenderName:            t.SenderName,
		SenderAddress:         t.SenderAddress,
		SenderCountry:         t.SenderCountry,
		SenderState:           t.SenderState,
		PackageWeight:         t.PackageWeight,
		ProductName:           t.ProductName,
		ProductPrice:          t.ProductPrice,
		Status:                string(t.Status),
		StatusDisplay:         t.Status.DisplayLabel(),
		EstimatedDeliveryDate: t.EstimatedDeliveryDate,
		ActualDelayDays:       t.ActualDelayDays,
		CreatedAt:             t.CreatedAt.UTC(),
		UpdatedAt:             t.UpdatedAt.UTC(),
	}
}

func toHistoryResponse(entries []domain.StatusHistoryEntry) []historyEntryResponse {
	out := make([]historyEntryResponse, len(entries))
	for i, e := range entries {
		var old *string
		if e.OldStatus != nil {
			s := string(*e.OldStatus)
			old = &s
		}
		out[i] = historyEntryResponse{
			OldStatus: old,
			NewStatus: string(e.NewStatus),
			ChangedAt: e.ChangedAt.UTC(),
			Notes:     e.Notes,
		}
	}
	return out
}

func toListResponse(r *ports.ListResult) listTrackingsResponse {
	items := make([]trackingResponse, len(r.Trackings))
	for i, t := range r.Trackings {
		items[i] = *toTrackingResponse(t)
	}
	return listTrackingsResponse{
		Trackings: items,
		Total:     r.Total,
		ByStatus:  toStatusCounts(r.ByStatus),
	}
}

func toStatusCounts(m map[domain.TrackingStatus]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}
