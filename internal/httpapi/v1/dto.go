package v1

// reservationRequest is the create/update body. Field names mirror the
// persisted column names. NumberOfGuests is a pointer so that an absent field
// is distinguishable from zero.
type reservationRequest struct {
	FirstName      string `json:"reservation_first_name"`
	LastName       string `json:"reservation_last_name"`
	Datetime       string `json:"reservation_datetime"`
	PhoneNumber    string `json:"phone_number"`
	NumberOfGuests *int   `json:"number_of_guests"`
}

// reservationResponse is the token-lookup payload. The id and token are
// deliberately omitted; the token itself is the lookup capability.
type reservationResponse struct {
	FirstName      string `json:"reservation_first_name"`
	LastName       string `json:"reservation_last_name"`
	Datetime       string `json:"reservation_datetime"`
	PhoneNumber    string `json:"phone_number"`
	NumberOfGuests int    `json:"number_of_guests"`
}

// listItemResponse is one element of the GET /reservations array. It exposes
// no id, token or phone number.
type listItemResponse struct {
	FirstName      string `json:"reservation_first_name"`
	LastName       string `json:"reservation_last_name"`
	Datetime       string `json:"reservation_datetime"`
	NumberOfGuests int    `json:"number_of_guests"`
}

type messageResponse struct {
	Message string `json:"message"`
}
