package dto

import (
	"cumbrecita/internal/domains/reconciliation/model"
	"cumbrecita/shared/constant"
)

type RecordResponse struct {
	ID            string `json:"id"`
	PaymentID     string `json:"paymentId"`
	ReservationID string `json:"reservationId,omitempty"`
	HospedajeID   string `json:"hospedajeId"`
	Kind          string `json:"kind"`
	Message       string `json:"message"`
	Resolved      bool   `json:"resolved"`
	CreatedAt     string `json:"createdAt"`
	ModifiedAt    string `json:"modifiedAt"`
}

func (r *RecordResponse) FromModel(record model.Record) {
	r.ID = record.ID
	r.PaymentID = record.PaymentID
	r.HospedajeID = record.HospedajeID
	r.Kind = string(record.Kind)
	r.Message = record.Message
	r.Resolved = record.Resolved
	r.CreatedAt = record.CreatedAt.Format(constant.DateFormat)
	r.ModifiedAt = record.ModifiedAt.Format(constant.DateFormat)

	if record.ReservationID.Valid {
		r.ReservationID = record.ReservationID.String
	}
}

type ListRecordsResponse struct {
	Records []RecordResponse `json:"records"`
	Total   int              `json:"total"`
}

func (r *ListRecordsResponse) FromModels(records []model.Record, total int) {
	r.Total = total

	r.Records = make([]RecordResponse, len(records))
	for i, record := range records {
		r.Records[i].FromModel(record)
	}
}
