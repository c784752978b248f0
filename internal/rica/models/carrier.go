package models

// Carrier-facing payload types. These are explicit value records instead of
// ad-hoc maps so the projection from the inbound request stays a pure,
// testable mapping.

// CarrierRegistration is the body posted to the carrier registration endpoints.
type CarrierRegistration struct {
	AgentID                string         `json:"agentId"`
	FirstName              string         `json:"firstName"`
	Surname                string         `json:"surname"`
	IDDetails              IDDetails      `json:"idDetails"`
	RegistrationType       string         `json:"registrationType"`
	SubscriberID           string         `json:"subscriberId"`
	Last4Iccid             string         `json:"last4Iccid"`
	ResidentialAddress     AddressDetails `json:"residentialAddress"`
	PreviousIDNumber       string         `json:"previousIdNumber"`
	PreviousIDType         string         `json:"previousIdType"`
	Network                Network        `json:"network"`
	BusinessOwnerIDDetails *IDDetails     `json:"businessOwnerIdDetails,omitempty"`
	AltContactNumber       string         `json:"altContactNumber"`
}

// AddressDetails is the carrier address shape with the country code wrapped
// into its own sub-record.
type AddressDetails struct {
	Address1   string  `json:"address1"`
	Address2   string  `json:"address2,omitempty"`
	Address3   string  `json:"address3,omitempty"`
	PostalCode string  `json:"postalCode"`
	Country    Country `json:"country"`
}

// Country wraps a bare ISO country code.
type Country struct {
	CountryCode string `json:"countryCode"`
}

// Network wraps the network identifier.
type Network struct {
	ID string `json:"id"`
}

// CarrierResponse is the carrier's answer to a registration submission.
// Anything other than ResponseCode "Success" counts as a rejection.
type CarrierResponse struct {
	ResponseCode  string `json:"responseCode"`
	RicaReference string `json:"ricaReference"`
	Message       string `json:"message,omitempty"`
}

// ResponseCodeSuccess is the only carrier response code treated as success.
const ResponseCodeSuccess = "Success"

// Succeeded reports whether the carrier accepted the registration.
func (r CarrierResponse) Succeeded() bool {
	return r.ResponseCode == ResponseCodeSuccess
}

// BuildCarrierRegistration projects the inbound request into the nested
// carrier payload. Pure mapping; validation happens separately.
func BuildCarrierRegistration(req *RegistrationRequest) CarrierRegistration {
	return CarrierRegistration{
		AgentID:          req.AgentID,
		FirstName:        req.FirstName,
		Surname:          req.Surname,
		IDDetails:        req.IDDetails,
		RegistrationType: req.RegistrationType,
		SubscriberID:     req.SubscriberID,
		Last4Iccid:       req.Last4Iccid,
		ResidentialAddress: AddressDetails{
			Address1:   req.ResidentialAddress.Address1,
			Address2:   req.ResidentialAddress.Address2,
			Address3:   req.ResidentialAddress.Address3,
			PostalCode: req.ResidentialAddress.PostalCode,
			Country:    Country{CountryCode: req.ResidentialAddress.Country},
		},
		PreviousIDNumber:       req.PreviousIDNumber,
		PreviousIDType:         req.PreviousIDType,
		Network:                Network{ID: req.Network.ID},
		BusinessOwnerIDDetails: req.BusinessOwnerIDDetails,
		AltContactNumber:       req.AltContactNumber,
	}
}
