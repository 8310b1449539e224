package models

import (
	"fmt"
	"time"
)

type RequestStatus string

const (
	RequestStatusPendingPayment  RequestStatus = "PENDING_PAYMENT"
	RequestStatusPendingApproval RequestStatus = "PENDING_APPROVAL"
	RequestStatusApproved        RequestStatus = "APPROVED"
	RequestStatusRecording       RequestStatus = "RECORDING"
	RequestStatusCompleted       RequestStatus = "COMPLETED"
	RequestStatusRejected        RequestStatus = "REJECTED"
	RequestStatusCancelled       RequestStatus = "CANCELLED"
)

// RequestStatuses lists every status in display order.
var RequestStatuses = []RequestStatus{
	RequestStatusPendingPayment,
	RequestStatusPendingApproval,
	RequestStatusApproved,
	RequestStatusRecording,
	RequestStatusCompleted,
	RequestStatusRejected,
	RequestStatusCancelled,
}

func (s RequestStatus) Valid() bool {
	for _, status := range RequestStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func ParseRequestStatus(raw string) (RequestStatus, error) {
	status := RequestStatus(raw)
	if !status.Valid() {
		return "", fmt.Errorf("unknown request status %q", raw)
	}
	return status, nil
}

type ShoutoutRequest struct {
	ID             string        `json:"id"`
	UserID         string        `json:"userId"`
	UserName       string        `json:"userName"`
	PackageID      string        `json:"packageId"`
	PackageName    string        `json:"packageName"`
	PackagePrice   float64       `json:"packagePrice"`
	RecipientName  string        `json:"recipientName"`
	Occasion       string        `json:"occasion"`
	MessageDetails string        `json:"messageDetails"`
	Status         RequestStatus `json:"status"`
	RequestedAt    time.Time     `json:"requestedAt"`

	// Set by administrators. The three delivery fields only exist while Status is COMPLETED.
	AdminNotes            *string `json:"adminNotes,omitempty"`
	VideoURL              *string `json:"videoUrl,omitempty"`
	CelebrityMessageToFan *string `json:"celebrityMessageToFan,omitempty"`
	AIImageConceptURL     *string `json:"aiImageConceptUrl,omitempty"`
}

func (r *ShoutoutRequest) ClearDelivery() {
	r.VideoURL = nil
	r.CelebrityMessageToFan = nil
	r.AIImageConceptURL = nil
}
