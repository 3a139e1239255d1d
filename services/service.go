package services

import (
	"context"
)

// this type encodes a JSON object for responding to root queries
type ServiceInfoResponse struct {
	Name          string `json:"name" example:"HCA archiver" doc:"The name of the service API"`
	Version       string `json:"version" example:"1.0.0" doc:"The version string (major.minor.patch)"`
	Uptime        int    `json:"uptime" example:"345600" doc:"The time the service has been up (seconds)"`
	Documentation string `json:"documentation" example:"/docs" doc:"The OpenAPI documentation endpoint"`
}

// a response listing the entity types the service converts (GET)
type EntityTypesResponse struct {
	EntityTypes []string `json:"entity_types" doc:"the names of the convertible entity types"`
}

// This type describes a conversion that failed. It is returned with the
// status 422 (Unprocessable Entity).
type ConversionErrorResponse struct {
	// HTTP status code
	Status int `json:"status" example:"422"`
	// the kind of conversion failure
	Code string `json:"code" example:"TaxonomyResolution" doc:"the kind of conversion failure"`
	// A descriptive error message
	Message string `json:"message" doc:"a description of the failure"`
}

func (e *ConversionErrorResponse) Error() string {
	return e.Message
}

func (e *ConversionErrorResponse) GetStatus() int {
	return e.Status
}

// ConversionService defines the interface for our metadata conversion service.
type ConversionService interface {
	// Starts the service on the selected port, returning an error that indicates
	// success or failure.
	Start(port int) error
	// Gracefully shuts down the service without interrupting active connections.
	Shutdown(ctx context.Context) error
	// Closes down the service, freeing all resources.
	Close()
}
