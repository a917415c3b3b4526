package models

// Customer captures the contact details typed into the order form. Only
// Name and Phone are required to submit.
type Customer struct {
	Name    string `json:"name" bson:"name"`
	Phone   string `json:"phone" bson:"phone"`
	Address string `json:"address" bson:"address"`
}
