package api

import (
	"errors"
	"strings"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p Credentials) Validate() error {
	if p.Name == "" {
		return errors.New("user name is required")
	}
	if strings.ContainsAny(p.Name, "\n\r") || strings.ContainsAny(p.Password, "\n\r") {
		return errors.New("credentials must not contain line breaks")
	}
	return nil
}

func (p ChatPayload) Validate() error {
	if p.Text == "" {
		return errors.New("message text is empty")
	}
	return nil
}
