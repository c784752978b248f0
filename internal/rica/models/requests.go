package models

import (
	"strings"

	dErrors "pavrica/pkg/domain-errors"
)

// ReasonMissingPassportExpiry is the caller-visible rejection code for a
// passport registration without an expiry date.
const ReasonMissingPassportExpiry = 1010

// IDTypePassport is the only identity document type with extra requirements.
const IDTypePassport = "passport"

// RegistrationRequest is the inbound shape accepted on POST /smartrica.
// Field names mirror the carrier vocabulary so agents can pass records through
// unchanged.
type RegistrationRequest struct {
	AgentID                string              `json:"agentId"`
	FirstName              string              `json:"firstName"`
	Surname                string              `json:"surname"`
	IDDetails              IDDetails           `json:"idDetails"`
	RegistrationType       string              `json:"registrationType"`
	SubscriberID           string              `json:"subscriberId"`
	Last4Iccid             string              `json:"last4Iccid"`
	ResidentialAddress     ResidentialAddress  `json:"residentialAddress"`
	PreviousIDNumber       string              `json:"previousIdNumber"`
	PreviousIDType         string              `json:"previousIdType"`
	Network                NetworkRef          `json:"network"`
	BusinessOwnerIDDetails *IDDetails          `json:"businessOwnerIdDetails,omitempty"`
	AltContactNumber       string              `json:"altContactNumber"`
}

// IDDetails identifies the subscriber (or business owner) by document.
type IDDetails struct {
	IDNumber           string `json:"idNumber"`
	IDType             string `json:"idType"`
	PassportExpiryDate string `json:"passportExpiryDate,omitempty"`
	IDNationality      string `json:"idNationality,omitempty"`
}

// ResidentialAddress is the inbound address shape; country arrives as a bare
// country code and is wrapped into a sub-record for the carrier.
type ResidentialAddress struct {
	Address1   string `json:"address1"`
	Address2   string `json:"address2,omitempty"`
	Address3   string `json:"address3,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// NetworkRef names the mobile network the SIM belongs to.
type NetworkRef struct {
	ID string `json:"id"`
}

// Validate enforces the single gate the carrier rejects hard on: passport
// registrations must carry an expiry date. Runs before any network call.
func (r *RegistrationRequest) Validate() error {
	if r.IDDetails.IDType == IDTypePassport && strings.TrimSpace(r.IDDetails.PassportExpiryDate) == "" {
		return dErrors.New(dErrors.CodeBadRequest,
			"Validation error: No passport expiry date provided").
			WithReason(ReasonMissingPassportExpiry)
	}
	return nil
}
