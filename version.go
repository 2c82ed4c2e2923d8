// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package coapnode contains the identity and health definitions shared by the
// node services.
package coapnode

import (
	"encoding/json"
	"net/http"
)

const (
	// Version represents the last node release.
	Version = "0.1.0"

	// ContentType represents JSON content type.
	ContentType = "application/health+json"

	statusOK = "pass"
)

// HealthInfo contains version endpoint response.
type HealthInfo struct {
	// Status contains service status.
	Status string `json:"status"`

	// Version contains current service version.
	Version string `json:"version"`

	// Description contains service description.
	Description string `json:"description"`

	// InstanceID contains the ID of the current service instance.
	InstanceID string `json:"instance_id"`
}

// Health exposes an HTTP handler for retrieving service health.
func Health(service, instanceID string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Add("Content-Type", ContentType)

		res := HealthInfo{
			Status:      statusOK,
			Version:     Version,
			Description: service + " service",
			InstanceID:  instanceID,
		}

		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(res); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}
