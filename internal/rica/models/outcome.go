package models

import "time"

// RegistrationOutcome is the immutable record persisted after the carrier
// accepts a registration. Created once, inserted once, never updated.
type RegistrationOutcome struct {
	ResponseCode           string
	RicaReference          string
	AgentID                string
	FirstName              string
	Surname                string
	IDDetails              IDDetails
	RegistrationType       string
	SubscriberID           string
	Last4Iccid             string
	ResidentialAddress     ResidentialAddress
	PreviousIDNumber       string
	PreviousIDType         string
	Network                NetworkRef
	BusinessOwnerIDDetails *IDDetails
	AltContactNumber       string
	RicaDate               time.Time
}

// NewOutcome combines the echoed request fields with the carrier's answer.
func NewOutcome(req *RegistrationRequest, resp CarrierResponse, now time.Time) *RegistrationOutcome {
	return &RegistrationOutcome{
		ResponseCode:           resp.ResponseCode,
		RicaReference:          resp.RicaReference,
		AgentID:                req.AgentID,
		FirstName:              req.FirstName,
		Surname:                req.Surname,
		IDDetails:              req.IDDetails,
		RegistrationType:       req.RegistrationType,
		SubscriberID:           req.SubscriberID,
		Last4Iccid:             req.Last4Iccid,
		ResidentialAddress:     req.ResidentialAddress,
		PreviousIDNumber:       req.PreviousIDNumber,
		PreviousIDType:         req.PreviousIDType,
		Network:                req.Network,
		BusinessOwnerIDDetails: req.BusinessOwnerIDDetails,
		AltContactNumber:       req.AltContactNumber,
		RicaDate:               now,
	}
}
