package session

import (
	"encoding/json"
	"errors"
	"strings"
)

// Identity is the signed-in actor as recorded by the login flow.
type Identity struct {
	UserID      string `json:"id,omitempty"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Department  string `json:"department,omitempty"`
	JobRole     string `json:"jobRole,omitempty"`
	Company     string `json:"company,omitempty"`
	CompanyCode string `json:"companyCode,omitempty"`
}

var errMissingRole = errors.New("identity record has no role")

// ParseIdentity decodes a stored record. A record without a role is rejected.
func ParseIdentity(raw string) (*Identity, error) {
	var id Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return nil, err
	}
	return validateIdentity(&id)
}

func validateIdentity(id *Identity) (*Identity, error) {
	id.Role = strings.TrimSpace(id.Role)
	if id.Role == "" {
		return nil, errMissingRole
	}
	return id, nil
}

// Encode returns the storage representation of the identity.
func (i *Identity) Encode() (string, error) {
	data, err := json.Marshal(i)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
