package essar

// SignatureRequest is the body of POST /signatures
type SignatureRequest struct {
	UUID          string `json:"uuid"`
	TransactionID string `json:"transactionId"`
	UserName      string `json:"userName"`
	Tin           string `json:"tin"`
	FormType      string `json:"formType"`
	AppName       string `json:"appName"`
	IntentID      string `json:"intentId"`
}

// SignatureResponse is returned by POST /signatures
type SignatureResponse struct {
	SignatureID    string `json:"signatureId"`
	Status         string `json:"status"`
	SignatureValue string `json:"signatureValue"`
}
